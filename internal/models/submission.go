package models

import "time"

// Submission status values. The absence of a row is equivalent to pending;
// rows are created lazily the first time a student (or their teacher) acts.
const (
	SubmissionStatusPending = "pending"
	SubmissionStatusDone    = "done"
)

// ValidSubmissionStatus reports whether value is a known status.
func ValidSubmissionStatus(value string) bool {
	return value == SubmissionStatusPending || value == SubmissionStatusDone
}

// Submission records a student's completion state for one assignment. At most
// one row exists per (assignment, student) pair.
type Submission struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	AssignmentID uint       `gorm:"not null;uniqueIndex:idx_submissions_assignment_student" json:"assignment_id"`
	StudentID    uint       `gorm:"not null;uniqueIndex:idx_submissions_assignment_student" json:"student_id"`
	Status       string     `gorm:"size:32;not null;default:pending" json:"status"`
	CompletedAt  *time.Time `json:"completed_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsDone reports whether the submission has been marked complete.
func (s Submission) IsDone() bool {
	return s.Status == SubmissionStatusDone
}
