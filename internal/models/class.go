package models

import "time"

// Class represents a group of students managed by a single teacher.
// The access code is the only credential students need to join.
type Class struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	TeacherID   uint         `gorm:"not null;index" json:"teacher_id"`
	Name        string       `gorm:"size:255;not null" json:"name"`
	AccessCode  string       `gorm:"size:16;uniqueIndex;not null" json:"access_code"`
	CreatedAt   time.Time    `json:"created_at"`
	Students    []Student    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Assignments []Assignment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
