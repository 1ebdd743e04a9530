package models

type Post struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	UserID    uint        `gorm:"not null;index" json:"user_id"`
	User      User        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Thumbnail string      `gorm:"not null" json:"thumbnail"` // first uploaded image
	Content   *string     `gorm:"type:text" json:"content"`
	Hashtags  []Hashtag   `gorm:"constraint:OnDelete:CASCADE;" json:"hashtags"`
	Images    []PostImage `gorm:"constraint:OnDelete:CASCADE;" json:"images"`
	Timestamps
}
