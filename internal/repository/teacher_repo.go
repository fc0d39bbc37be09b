package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/classwork-tracker-api/internal/models"
)

// TeacherRepository provides access to teacher accounts.
type TeacherRepository interface {
	Create(ctx context.Context, teacher *models.Teacher) error
	GetByID(ctx context.Context, id uint) (models.Teacher, error)
	GetByUsername(ctx context.Context, username string) (models.Teacher, error)
	Delete(ctx context.Context, id uint) error
}

type teacherRepository struct {
	db *gorm.DB
}

// NewTeacherRepository constructs a teacher repository.
func NewTeacherRepository(db *gorm.DB) TeacherRepository {
	return &teacherRepository{db: db}
}

func (r *teacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	return r.db.WithContext(ctx).Create(teacher).Error
}

func (r *teacherRepository) GetByID(ctx context.Context, id uint) (models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).First(&teacher, id).Error; err != nil {
		return models.Teacher{}, err
	}

	return teacher, nil
}

func (r *teacherRepository) GetByUsername(ctx context.Context, username string) (models.Teacher, error) {
	var teacher models.Teacher
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&teacher).Error; err != nil {
		return models.Teacher{}, err
	}

	return teacher, nil
}

func (r *teacherRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Teacher{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
