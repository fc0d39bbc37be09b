package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// AdminTables lists the raw tables the admin escape hatch may touch, in
// export-friendly column order.
var AdminTables = map[string][]string{
	"teachers":    {"id", "username", "password_hash", "created_at"},
	"classes":     {"id", "teacher_id", "name", "access_code", "created_at"},
	"students":    {"id", "class_id", "name", "email", "created_at", "updated_at"},
	"assignments": {"id", "class_id", "title", "description", "due_date", "created_at"},
	"submissions": {"id", "assignment_id", "student_id", "status", "completed_at", "created_at", "updated_at"},
}

// ErrUnknownTable indicates a table outside the admin registry.
var ErrUnknownTable = fmt.Errorf("unknown table")

// AdminRepository provides unrestricted row-level access across all tables.
// It deliberately skips domain invariants; foreign key enforcement in the
// storage engine is the only backstop.
type AdminRepository interface {
	ListRows(ctx context.Context, table string) ([]map[string]interface{}, error)
	UpdateRow(ctx context.Context, table string, id uint, updates map[string]interface{}) error
	DeleteRow(ctx context.Context, table string, id uint) error
	// ReplaceAll drops every row in the table and inserts the given rows in a
	// single transaction. This is a destructive whole-table restore, not a merge.
	ReplaceAll(ctx context.Context, table string, rows []map[string]interface{}) error
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository constructs the admin repository.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func checkTable(table string) error {
	if _, ok := AdminTables[table]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	return nil
}

func (r *adminRepository) ListRows(ctx context.Context, table string) ([]map[string]interface{}, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}

	var rows []map[string]interface{}
	if err := r.db.WithContext(ctx).Table(table).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *adminRepository) UpdateRow(ctx context.Context, table string, id uint, updates map[string]interface{}) error {
	if err := checkTable(table); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Table(table).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *adminRepository) DeleteRow(ctx context.Context, table string, id uint) error {
	if err := checkTable(table); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Table(table).Where("id = ?", id).Delete(nil)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *adminRepository) ReplaceAll(ctx context.Context, table string, rows []map[string]interface{}) error {
	if err := checkTable(table); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Table(table).Where("1 = 1").Delete(nil).Error; err != nil {
			return err
		}

		for _, row := range rows {
			if err := tx.Table(table).Create(row).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
