package models

import (
	"time"

	"gorm.io/datatypes"
)

// Assignment represents a piece of classwork posted to a class. The due date
// is a calendar date with no time component and may be absent.
type Assignment struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ClassID     uint            `gorm:"not null;index" json:"class_id"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	DueDate     *datatypes.Date `json:"due_date"`
	CreatedAt   time.Time       `json:"created_at"`
	Submissions []Submission    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// DueTime returns the due date as a time.Time when one is set.
func (a Assignment) DueTime() (time.Time, bool) {
	if a.DueDate == nil {
		return time.Time{}, false
	}
	return time.Time(*a.DueDate), true
}

// IsPastDue reports whether the deadline has passed relative to the reference
// time. Assignments without a due date are never past due.
func (a Assignment) IsPastDue(reference time.Time) bool {
	due, ok := a.DueTime()
	if !ok {
		return false
	}
	return reference.After(due.AddDate(0, 0, 1))
}
