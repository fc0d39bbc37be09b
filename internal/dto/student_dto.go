package dto

import (
	"time"

	"github.com/noah-isme/classwork-tracker-api/internal/models"
)

// StudentProfileUpdateRequest describes the payload for a student editing
// their own name and notification email.
type StudentProfileUpdateRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email *string `json:"email" validate:"omitempty,email|eq="`
}

// StudentResponse is the serialized representation of a student.
type StudentResponse struct {
	ID        uint      `json:"id"`
	ClassID   uint      `json:"class_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewStudentResponse converts a model into a DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	return StudentResponse{
		ID:        model.ID,
		ClassID:   model.ClassID,
		Name:      model.Name,
		Email:     model.Email,
		CreatedAt: model.CreatedAt,
	}
}

// NewStudentResponseSlice converts a slice of models into DTOs.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}

	return responses
}
