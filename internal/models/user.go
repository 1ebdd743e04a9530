package models

type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Email        string  `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password     string  `gorm:"not null" json:"-"` // bcrypt hash
	Nickname     string  `gorm:"uniqueIndex;size:30;not null" json:"nickname"`
	Name         string  `gorm:"size:30;not null" json:"name"`
	ProfileImage string  `json:"profile_image"`
	Intro        string  `gorm:"size:200" json:"intro"`
	RefreshToken *string `json:"-"` // single active session; overwritten on login, cleared on logout
	Timestamps
}
