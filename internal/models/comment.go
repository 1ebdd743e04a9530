package models

type Comment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PostID   uint   `gorm:"not null;index" json:"post_id"`
	Post     Post   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	ParentID *uint  `gorm:"index" json:"parent_id"` // nil for top-level comments
	Content  string `gorm:"type:text;not null" json:"content"`
	Timestamps
}
