// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// DateLayout is the display format posts are stamped with at creation time.
// The stored value is a formatted string, not a canonical timestamp; edits
// never touch it.
const DateLayout = "Jan 02, 2006"

// Post represents a blog post. Only admins create, edit or delete posts.
type Post struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:250;unique;not null"`
	Description string `gorm:"size:300;not null"`
	Date        string `gorm:"size:300;not null"`
	Body        string `gorm:"type:text;not null"`
	Author      string `gorm:"size:2000;not null"`
	ImageURL    string `gorm:"size:2000;not null"`
	Featured    bool   `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
