package models

// Hashtag rows are owned by their post: replaced wholesale on post update and
// removed when the post goes away.
type Hashtag struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	PostID uint   `gorm:"not null;index" json:"post_id"`
	Name   string `gorm:"size:50;not null" json:"name"`
	Timestamps
}
