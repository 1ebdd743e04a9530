package models

// Follow is the (from -> to) relation. The composite unique index keeps at
// most one row per ordered pair even under concurrent toggles.
type Follow struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	FromUserID uint `gorm:"not null;index;uniqueIndex:idx_follow_pair" json:"from_user_id"`
	FromUser   User `gorm:"foreignKey:FromUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"from_user"`
	ToUserID   uint `gorm:"not null;index;uniqueIndex:idx_follow_pair" json:"to_user_id"`
	ToUser     User `gorm:"foreignKey:ToUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"to_user"`
	Timestamps
}
