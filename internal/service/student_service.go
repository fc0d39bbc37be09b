package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/classwork-tracker-api/internal/dto"
	"github.com/noah-isme/classwork-tracker-api/internal/repository"
)

// ErrDuplicateStudent indicates the new name is already taken within the class.
var ErrDuplicateStudent = errors.New("a student with that name already exists in this class")

// StudentService covers the student's own profile operations.
type StudentService interface {
	Get(ctx context.Context, studentID uint) (dto.StudentResponse, error)
	UpdateProfile(ctx context.Context, studentID uint, payload dto.StudentProfileUpdateRequest) (dto.StudentResponse, error)
}

type studentService struct {
	students  repository.StudentRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(students repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		students:  students,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) Get(ctx context.Context, studentID uint) (dto.StudentResponse, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) UpdateProfile(ctx context.Context, studentID uint, payload dto.StudentProfileUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	if payload.Name != nil {
		name := s.sanitizer.Sanitize(strings.TrimSpace(*payload.Name))
		if name == "" {
			return dto.StudentResponse{}, ErrValidation
		}
		student.Name = name
	}

	if payload.Email != nil {
		student.Email = strings.TrimSpace(*payload.Email)
	}

	if err := s.students.Update(ctx, &student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.StudentResponse{}, ErrDuplicateStudent
		}
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Msg("student profile updated")

	return dto.NewStudentResponse(student), nil
}
