package dto

import (
	"time"

	"github.com/noah-isme/classwork-tracker-api/internal/models"
)

// SubmissionStatusRequest toggles a completion record.
type SubmissionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending done"`
}

// AssignmentStatusResponse is one row of a student's assignment list: the
// assignment joined with that student's completion state. Assignments with no
// submission row report status pending.
type AssignmentStatusResponse struct {
	Assignment  AssignmentResponse `json:"assignment"`
	Status      string             `json:"status"`
	CompletedAt *time.Time         `json:"completed_at"`
}

// StudentStatusResponse is one row of an assignment's roster view: a student
// of the class with their completion state for that assignment.
type StudentStatusResponse struct {
	Student     StudentResponse `json:"student"`
	Status      string          `json:"status"`
	CompletedAt *time.Time      `json:"completed_at"`
}

// SubmissionResponse is the serialized representation of a stored submission.
type SubmissionResponse struct {
	ID           uint       `json:"id"`
	AssignmentID uint       `json:"assignment_id"`
	StudentID    uint       `json:"student_id"`
	Status       string     `json:"status"`
	CompletedAt  *time.Time `json:"completed_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewSubmissionResponse converts a model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		StudentID:    model.StudentID,
		Status:       model.Status,
		CompletedAt:  model.CompletedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}
