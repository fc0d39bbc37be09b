package service

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/classwork-tracker-api/internal/models"
	"github.com/noah-isme/classwork-tracker-api/internal/repository"
)

// recordActivity appends an audit trail entry. Audit failures are logged and
// swallowed; they never fail the mutation they describe.
func recordActivity(ctx context.Context, repo repository.ActivityLogRepository, logger zerolog.Logger, entry models.ActivityLog) {
	if repo == nil {
		return
	}

	if entry.Metadata == nil {
		entry.Metadata = datatypes.JSONMap{}
	}

	if err := repo.Create(ctx, &entry); err != nil {
		logger.Warn().Err(err).Str("action", entry.Action).Msg("failed to record activity")
	}
}
