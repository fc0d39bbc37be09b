package dto

import (
	"time"

	"github.com/noah-isme/classwork-tracker-api/internal/models"
)

// RegisterRequest describes the payload for creating a teacher account.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// LoginRequest describes the teacher login payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TeacherResponse is the serialized teacher identity. The password hash is
// never included.
type TeacherResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTeacherResponse converts a model into a DTO.
func NewTeacherResponse(model models.Teacher) TeacherResponse {
	return TeacherResponse{
		ID:        model.ID,
		Username:  model.Username,
		CreatedAt: model.CreatedAt,
	}
}
