package models

import (
	"time"

	"github.com/shashiranjanraj/stockpile/pkg/resource"
)

// User is an API account.
type User struct {
	ID         uint      `gorm:"primaryKey"`
	Username   string    `gorm:"size:150;not null;uniqueIndex"`
	Email      string    `gorm:"size:254;not null;uniqueIndex"`
	FirstName  string    `gorm:"size:150"`
	LastName   string    `gorm:"size:150"`
	Password   string    `gorm:"size:255;not null"` // bcrypt hash, never serialised
	DateJoined time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (u User) ResourceName() string { return "auth.user" }
func (u User) PrimaryKey() uint     { return u.ID }

func (u User) ToArray() resource.Map {
	return resource.Map{
		"username":    u.Username,
		"email":       u.Email,
		"first_name":  u.FirstName,
		"last_name":   u.LastName,
		"date_joined": u.DateJoined,
	}
}

// Token is the one API key a user holds at a time.
type Token struct {
	Key       string    `gorm:"primaryKey;size:40"`
	UserID    uint      `gorm:"not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
