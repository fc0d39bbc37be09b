package dto

import (
	"time"

	"github.com/noah-isme/classwork-tracker-api/internal/models"
)

// DueDateLayout is the wire format for assignment due dates: a calendar date
// with no time component.
const DueDateLayout = "2006-01-02"

// AssignmentCreateRequest describes the payload for posting an assignment.
type AssignmentCreateRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"omitempty,max=4000"`
	DueDate     string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Notify      bool   `json:"notify"`
}

// AssignmentResponse is the serialized representation returned to API clients.
type AssignmentResponse struct {
	ID          uint      `json:"id"`
	ClassID     uint      `json:"class_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     *string   `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:          model.ID,
		ClassID:     model.ClassID,
		Title:       model.Title,
		Description: model.Description,
		DueDate:     formatDueDate(model),
		CreatedAt:   model.CreatedAt,
	}
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}

func formatDueDate(model models.Assignment) *string {
	due, ok := model.DueTime()
	if !ok {
		return nil
	}

	formatted := due.Format(DueDateLayout)
	return &formatted
}
