package models

type PostImage struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PostID   uint   `gorm:"not null;index" json:"post_id"`
	ImageURL string `gorm:"not null" json:"image_url"`
	Timestamps
}
