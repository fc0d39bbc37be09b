package models

import "time"

// Teacher represents an instructor account authenticated by username and password.
type Teacher struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:255;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	Classes      []Class   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
