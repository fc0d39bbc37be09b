package service

import (
	"context"
	"errors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/classwork-tracker-api/internal/dto"
	"github.com/noah-isme/classwork-tracker-api/internal/models"
	"github.com/noah-isme/classwork-tracker-api/internal/repository"
	"github.com/noah-isme/classwork-tracker-api/pkg/export"
)

// ErrRowNotFound indicates the addressed row does not exist.
var ErrRowNotFound = errors.New("row not found")

// ErrUnsupportedImport indicates the uploaded file is not CSV text.
var ErrUnsupportedImport = errors.New("import file must be CSV")

// AdminService is the raw-table escape hatch. It bypasses domain invariants
// on purpose; only the table registry and the storage engine's foreign keys
// constrain what it can do.
type AdminService interface {
	ListTable(ctx context.Context, table string) (dto.AdminTableResponse, error)
	UpdateRow(ctx context.Context, table string, id uint, payload dto.AdminRowUpdateRequest) error
	DeleteRow(ctx context.Context, table string, id uint) error
	ExportTable(ctx context.Context, table string) ([]byte, error)
	ImportTable(ctx context.Context, table string, data []byte) (int, error)
	ListActivity(ctx context.Context, filter repository.ActivityLogFilter) ([]dto.ActivityLogResponse, int64, error)
}

type adminService struct {
	repo     repository.AdminRepository
	activity repository.ActivityLogRepository
	logger   zerolog.Logger
}

// NewAdminService constructs an AdminService instance.
func NewAdminService(repo repository.AdminRepository, activity repository.ActivityLogRepository, logger zerolog.Logger) AdminService {
	return &adminService{
		repo:     repo,
		activity: activity,
		logger:   logger.With().Str("component", "admin_service").Logger(),
	}
}

func (s *adminService) ListTable(ctx context.Context, table string) (dto.AdminTableResponse, error) {
	rows, err := s.repo.ListRows(ctx, table)
	if err != nil {
		return dto.AdminTableResponse{}, err
	}

	return dto.AdminTableResponse{Table: table, Count: len(rows), Rows: rows}, nil
}

func (s *adminService) UpdateRow(ctx context.Context, table string, id uint, payload dto.AdminRowUpdateRequest) error {
	if len(payload.Updates) == 0 {
		return ErrValidation
	}

	if err := s.repo.UpdateRow(ctx, table, id, payload.Updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRowNotFound
		}
		return err
	}

	s.record(ctx, "admin.update_row", table, &id, datatypes.JSONMap{"columns": columnNames(payload.Updates)})
	return nil
}

func (s *adminService) DeleteRow(ctx context.Context, table string, id uint) error {
	if err := s.repo.DeleteRow(ctx, table, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRowNotFound
		}
		return err
	}

	s.record(ctx, "admin.delete_row", table, &id, nil)
	return nil
}

func (s *adminService) ExportTable(ctx context.Context, table string) ([]byte, error) {
	headers, ok := repository.AdminTables[table]
	if !ok {
		return nil, repository.ErrUnknownTable
	}

	rows, err := s.repo.ListRows(ctx, table)
	if err != nil {
		return nil, err
	}

	return export.RenderCSV(export.Dataset{Headers: headers, Rows: rows})
}

func (s *adminService) ImportTable(ctx context.Context, table string, data []byte) (int, error) {
	detected := mimetype.Detect(data)
	if !detected.Is("text/csv") && !detected.Is("text/plain") {
		return 0, ErrUnsupportedImport
	}

	dataset, err := export.ParseCSV(data)
	if err != nil {
		return 0, ErrUnsupportedImport
	}

	if err := s.repo.ReplaceAll(ctx, table, dataset.Rows); err != nil {
		return 0, err
	}

	s.logger.Warn().Str("table", table).Int("rows", len(dataset.Rows)).Msg("table replaced from import")
	s.record(ctx, "admin.import_table", table, nil, datatypes.JSONMap{"rows": len(dataset.Rows)})

	return len(dataset.Rows), nil
}

func (s *adminService) ListActivity(ctx context.Context, filter repository.ActivityLogFilter) ([]dto.ActivityLogResponse, int64, error) {
	entries, total, err := s.activity.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return dto.NewActivityLogResponseSlice(entries), total, nil
}

func (s *adminService) record(ctx context.Context, action, table string, id *uint, metadata datatypes.JSONMap) {
	if metadata == nil {
		metadata = datatypes.JSONMap{}
	}
	metadata["table"] = table

	recordActivity(ctx, s.activity, s.logger, models.ActivityLog{
		ActorRole:  "admin",
		Action:     action,
		EntityType: table,
		EntityID:   id,
		Metadata:   metadata,
	})
}

func columnNames(updates map[string]interface{}) []string {
	names := make([]string, 0, len(updates))
	for name := range updates {
		names = append(names, name)
	}
	return names
}
