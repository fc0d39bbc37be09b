package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/classwork-tracker-api/internal/models"
)

// AssignmentRepository defines persistence operations for assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id uint) (models.Assignment, error)
	// ListByClass returns a class's assignments ordered by due date ascending
	// with missing due dates last, newest first within a date.
	ListByClass(ctx context.Context, classID uint) ([]models.Assignment, error)
	CountByClass(ctx context.Context, classID uint) (int64, error)
	Delete(ctx context.Context, id uint) error
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates a GORM-backed repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (r *assignmentRepository) ListByClass(ctx context.Context, classID uint) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := r.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("due_date IS NULL, due_date ASC, id DESC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) CountByClass(ctx context.Context, classID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("class_id = ?", classID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *assignmentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Assignment{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
