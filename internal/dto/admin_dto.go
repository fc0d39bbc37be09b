package dto

import (
	"time"

	"github.com/noah-isme/classwork-tracker-api/internal/models"
)

// AdminRowUpdateRequest carries arbitrary column updates for one row. Values
// are applied as-is; domain invariants are deliberately not enforced here.
type AdminRowUpdateRequest struct {
	Updates map[string]interface{} `json:"updates" validate:"required,min=1"`
}

// AdminTableResponse wraps a raw table listing.
type AdminTableResponse struct {
	Table string                   `json:"table"`
	Count int                      `json:"count"`
	Rows  []map[string]interface{} `json:"rows"`
}

// ActivityLogResponse is the serialized audit trail entry.
type ActivityLogResponse struct {
	ID         uint                   `json:"id"`
	ActorRole  string                 `json:"actor_role"`
	ActorID    uint                   `json:"actor_id"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   *uint                  `json:"entity_id"`
	Metadata   map[string]interface{} `json:"metadata"`
	CreatedAt  time.Time              `json:"created_at"`
}

// NewActivityLogResponse converts a model into a DTO.
func NewActivityLogResponse(model models.ActivityLog) ActivityLogResponse {
	return ActivityLogResponse{
		ID:         model.ID,
		ActorRole:  model.ActorRole,
		ActorID:    model.ActorID,
		Action:     model.Action,
		EntityType: model.EntityType,
		EntityID:   model.EntityID,
		Metadata:   model.Metadata,
		CreatedAt:  model.CreatedAt,
	}
}

// NewActivityLogResponseSlice converts a slice of models into DTOs.
func NewActivityLogResponseSlice(logs []models.ActivityLog) []ActivityLogResponse {
	responses := make([]ActivityLogResponse, 0, len(logs))
	for _, entry := range logs {
		responses = append(responses, NewActivityLogResponse(entry))
	}

	return responses
}
