// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Comment represents a reader comment on a post. Comments always belong to
// exactly one author and one parent post; they are never edited or deleted
// through a route, and deleting a post removes its comments with it.
type Comment struct {
	ID        uint   `gorm:"primaryKey"`
	Text      string `gorm:"size:2000;not null"`
	AuthorID  uint   `gorm:"not null;index"`
	Author    User   `gorm:"foreignKey:AuthorID"`
	PostID    uint   `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
