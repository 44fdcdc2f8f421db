// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents a registered reader of the blog. Admins additionally
// manage posts.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:50;unique;not null"`
	Email        string `gorm:"size:1000;unique;not null"`
	Name         string `gorm:"size:200;not null"`
	ProfileImage string `gorm:"size:1000;not null"`
	PasswordHash string `gorm:"size:2000;not null"`
	IsAdmin      bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAuthenticated reports whether this value represents a logged-in user.
// The zero value is the anonymous sentinel handed to handlers and templates.
func (u *User) IsAuthenticated() bool {
	return u != nil && u.ID != 0
}
