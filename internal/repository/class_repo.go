package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/classwork-tracker-api/internal/models"
)

// ClassRepository defines persistence operations for classes.
type ClassRepository interface {
	Create(ctx context.Context, class *models.Class) error
	GetByID(ctx context.Context, id uint) (models.Class, error)
	GetByAccessCode(ctx context.Context, code string) (models.Class, error)
	ListByTeacher(ctx context.Context, teacherID uint) ([]models.Class, error)
	UpdateName(ctx context.Context, id uint, name string) error
	UpdateAccessCode(ctx context.Context, id uint, code string) error
	Delete(ctx context.Context, id uint) error
}

type classRepository struct {
	db *gorm.DB
}

// NewClassRepository instantiates a GORM-backed repository.
func NewClassRepository(db *gorm.DB) ClassRepository {
	return &classRepository{db: db}
}

func (r *classRepository) Create(ctx context.Context, class *models.Class) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *classRepository) GetByID(ctx context.Context, id uint) (models.Class, error) {
	var class models.Class
	if err := r.db.WithContext(ctx).First(&class, id).Error; err != nil {
		return models.Class{}, err
	}

	return class, nil
}

func (r *classRepository) GetByAccessCode(ctx context.Context, code string) (models.Class, error) {
	var class models.Class
	if err := r.db.WithContext(ctx).Where("access_code = ?", code).First(&class).Error; err != nil {
		return models.Class{}, err
	}

	return class, nil
}

func (r *classRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Class, error) {
	var classes []models.Class
	if err := r.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at ASC").
		Find(&classes).Error; err != nil {
		return nil, err
	}

	return classes, nil
}

func (r *classRepository) UpdateName(ctx context.Context, id uint, name string) error {
	return r.update(ctx, id, map[string]interface{}{"name": name})
}

func (r *classRepository) UpdateAccessCode(ctx context.Context, id uint, code string) error {
	return r.update(ctx, id, map[string]interface{}{"access_code": code})
}

func (r *classRepository) update(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Class{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *classRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Class{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
