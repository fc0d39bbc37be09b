package models

import "time"

// Student represents a learner enrolled in exactly one class. Students are not
// authenticated; the (name, class) pair is their identity, so rejoining with
// the same name resumes the existing record.
type Student struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	ClassID     uint         `gorm:"not null;uniqueIndex:idx_students_name_class" json:"class_id"`
	Name        string       `gorm:"size:255;not null;uniqueIndex:idx_students_name_class" json:"name"`
	Email       string       `gorm:"size:255" json:"email,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Submissions []Submission `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// HasEmail reports whether the student opted into email notifications.
func (s Student) HasEmail() bool {
	return s.Email != ""
}
