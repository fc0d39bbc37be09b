package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/classwork-tracker-api/internal/models"
)

// StudentRepository provides access to student records.
type StudentRepository interface {
	// FindOrCreate resolves the student identified by (name, class_id),
	// inserting a fresh row when none exists. The conditional insert makes the
	// join idempotent even when two requests race.
	FindOrCreate(ctx context.Context, classID uint, name string) (models.Student, error)
	GetByID(ctx context.Context, id uint) (models.Student, error)
	ListByClass(ctx context.Context, classID uint) ([]models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id uint) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) FindOrCreate(ctx context.Context, classID uint, name string) (models.Student, error) {
	candidate := models.Student{ClassID: classID, Name: name}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}, {Name: "class_id"}},
			DoNothing: true,
		}).
		Create(&candidate).Error; err != nil {
		return models.Student{}, err
	}

	// The insert may have been a no-op, so always read the surviving row back.
	var student models.Student
	if err := r.db.WithContext(ctx).
		Where("class_id = ? AND name = ?", classID, name).
		First(&student).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) ListByClass(ctx context.Context, classID uint) ([]models.Student, error) {
	var students []models.Student
	if err := r.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("name ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

func (r *studentRepository) Update(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

func (r *studentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Student{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
