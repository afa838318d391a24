package models

import (
	"time"

	"gorm.io/gorm"
)

// User is stored exactly as registered; email and username are
// compared case-sensitively.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	Username     string `gorm:"uniqueIndex;size:30;not null"`
	PasswordHash string `gorm:"size:255;not null"`
}

// PublicUser is the only user shape that leaves the service layer.
type PublicUser struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}
