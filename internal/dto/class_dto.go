package dto

import (
	"time"

	"github.com/noah-isme/classwork-tracker-api/internal/models"
)

// ClassCreateRequest describes the payload for creating a class.
type ClassCreateRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// ClassUpdateRequest describes the payload for renaming a class.
type ClassUpdateRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

// JoinRequest describes a student joining a class by access code.
type JoinRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=255"`
	AccessCode string `json:"access_code" validate:"required,len=6"`
}

// ClassResponse is the serialized representation of a class.
type ClassResponse struct {
	ID         uint      `json:"id"`
	TeacherID  uint      `json:"teacher_id"`
	Name       string    `json:"name"`
	AccessCode string    `json:"access_code"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewClassResponse converts a model into a DTO.
func NewClassResponse(model models.Class) ClassResponse {
	return ClassResponse{
		ID:         model.ID,
		TeacherID:  model.TeacherID,
		Name:       model.Name,
		AccessCode: model.AccessCode,
		CreatedAt:  model.CreatedAt,
	}
}

// NewClassResponseSlice converts a slice of models into DTOs.
func NewClassResponseSlice(classes []models.Class) []ClassResponse {
	responses := make([]ClassResponse, 0, len(classes))
	for _, class := range classes {
		responses = append(responses, NewClassResponse(class))
	}

	return responses
}

// JoinResponse pairs the joined class with the resolved student record.
type JoinResponse struct {
	Class   ClassResponse   `json:"class"`
	Student StudentResponse `json:"student"`
}
