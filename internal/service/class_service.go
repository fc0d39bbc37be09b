package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/classwork-tracker-api/internal/dto"
	"github.com/noah-isme/classwork-tracker-api/internal/models"
	"github.com/noah-isme/classwork-tracker-api/internal/repository"
	"github.com/noah-isme/classwork-tracker-api/internal/session"
)

// ErrClassNotFound indicates the class (or access code) does not exist.
var ErrClassNotFound = errors.New("class not found")

// ErrNotClassOwner indicates the acting teacher does not own the class.
var ErrNotClassOwner = errors.New("class belongs to another teacher")

// ErrStudentNotFound indicates the student record does not exist.
var ErrStudentNotFound = errors.New("student not found")

// ErrAccessCodeExhausted indicates repeated access code collisions; the
// bounded retry loop gave up.
var ErrAccessCodeExhausted = errors.New("could not generate a unique access code")

// Access code insert attempts before giving up. Collisions are vanishingly
// rare at 31^6 codes, so hitting the bound signals something else is wrong.
const accessCodeAttempts = 5

// ClassService manages classes, their roster, and student enrollment.
type ClassService interface {
	Create(ctx context.Context, teacherID uint, payload dto.ClassCreateRequest) (dto.ClassResponse, error)
	Get(ctx context.Context, teacherID, classID uint) (dto.ClassResponse, error)
	ListForTeacher(ctx context.Context, teacherID uint) ([]dto.ClassResponse, error)
	Rename(ctx context.Context, teacherID, classID uint, payload dto.ClassUpdateRequest) (dto.ClassResponse, error)
	RegenerateCode(ctx context.Context, teacherID, classID uint) (dto.ClassResponse, error)
	Delete(ctx context.Context, teacherID, classID uint) error
	Roster(ctx context.Context, teacherID, classID uint) ([]dto.StudentResponse, error)
	RemoveStudent(ctx context.Context, teacherID, classID, studentID uint) error
	Join(ctx context.Context, payload dto.JoinRequest) (dto.JoinResponse, error)
}

type classService struct {
	classes   repository.ClassRepository
	students  repository.StudentRepository
	activity  repository.ActivityLogRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewClassService constructs a ClassService instance.
func NewClassService(classes repository.ClassRepository, students repository.StudentRepository, activity repository.ActivityLogRepository, validate *validator.Validate, logger zerolog.Logger) ClassService {
	return &classService{
		classes:   classes,
		students:  students,
		activity:  activity,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "class_service").Logger(),
	}
}

func (s *classService) Create(ctx context.Context, teacherID uint, payload dto.ClassCreateRequest) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	name := s.sanitizer.Sanitize(strings.TrimSpace(payload.Name))
	if name == "" {
		return dto.ClassResponse{}, ErrValidation
	}

	class := models.Class{TeacherID: teacherID, Name: name}

	// Generate-then-insert: a duplicate access code surfaces as a unique
	// constraint conflict and we simply try a fresh code.
	var lastErr error
	for attempt := 0; attempt < accessCodeAttempts; attempt++ {
		code, err := generateAccessCode()
		if err != nil {
			return dto.ClassResponse{}, err
		}

		class.AccessCode = code
		if err := s.classes.Create(ctx, &class); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				lastErr = err
				continue
			}
			return dto.ClassResponse{}, err
		}

		s.logger.Info().Uint("class_id", class.ID).Uint("teacher_id", teacherID).Msg("class created")
		recordActivity(ctx, s.activity, s.logger, models.ActivityLog{
			ActorRole:  session.RoleTeacher,
			ActorID:    teacherID,
			Action:     "class.create",
			EntityType: "class",
			EntityID:   &class.ID,
			Metadata:   datatypes.JSONMap{"name": class.Name},
		})

		return dto.NewClassResponse(class), nil
	}

	s.logger.Error().Err(lastErr).Msg("access code generation exhausted retries")
	return dto.ClassResponse{}, ErrAccessCodeExhausted
}

func (s *classService) Get(ctx context.Context, teacherID, classID uint) (dto.ClassResponse, error) {
	class, err := s.ownedClass(ctx, teacherID, classID)
	if err != nil {
		return dto.ClassResponse{}, err
	}

	return dto.NewClassResponse(class), nil
}

func (s *classService) ListForTeacher(ctx context.Context, teacherID uint) ([]dto.ClassResponse, error) {
	classes, err := s.classes.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	return dto.NewClassResponseSlice(classes), nil
}

func (s *classService) Rename(ctx context.Context, teacherID, classID uint, payload dto.ClassUpdateRequest) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	if _, err := s.ownedClass(ctx, teacherID, classID); err != nil {
		return dto.ClassResponse{}, err
	}

	name := s.sanitizer.Sanitize(strings.TrimSpace(payload.Name))
	if name == "" {
		return dto.ClassResponse{}, ErrValidation
	}

	if err := s.classes.UpdateName(ctx, classID, name); err != nil {
		return dto.ClassResponse{}, err
	}

	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		return dto.ClassResponse{}, err
	}

	return dto.NewClassResponse(class), nil
}

func (s *classService) RegenerateCode(ctx context.Context, teacherID, classID uint) (dto.ClassResponse, error) {
	if _, err := s.ownedClass(ctx, teacherID, classID); err != nil {
		return dto.ClassResponse{}, err
	}

	var lastErr error
	for attempt := 0; attempt < accessCodeAttempts; attempt++ {
		code, err := generateAccessCode()
		if err != nil {
			return dto.ClassResponse{}, err
		}

		if err := s.classes.UpdateAccessCode(ctx, classID, code); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				lastErr = err
				continue
			}
			return dto.ClassResponse{}, err
		}

		class, err := s.classes.GetByID(ctx, classID)
		if err != nil {
			return dto.ClassResponse{}, err
		}

		s.logger.Info().Uint("class_id", classID).Msg("access code regenerated")
		recordActivity(ctx, s.activity, s.logger, models.ActivityLog{
			ActorRole:  session.RoleTeacher,
			ActorID:    teacherID,
			Action:     "class.regenerate_code",
			EntityType: "class",
			EntityID:   &classID,
		})

		return dto.NewClassResponse(class), nil
	}

	s.logger.Error().Err(lastErr).Msg("access code generation exhausted retries")
	return dto.ClassResponse{}, ErrAccessCodeExhausted
}

func (s *classService) Delete(ctx context.Context, teacherID, classID uint) error {
	if _, err := s.ownedClass(ctx, teacherID, classID); err != nil {
		return err
	}

	if err := s.classes.Delete(ctx, classID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassNotFound
		}
		return err
	}

	s.logger.Info().Uint("class_id", classID).Msg("class deleted")
	recordActivity(ctx, s.activity, s.logger, models.ActivityLog{
		ActorRole:  session.RoleTeacher,
		ActorID:    teacherID,
		Action:     "class.delete",
		EntityType: "class",
		EntityID:   &classID,
	})

	return nil
}

func (s *classService) Roster(ctx context.Context, teacherID, classID uint) ([]dto.StudentResponse, error) {
	if _, err := s.ownedClass(ctx, teacherID, classID); err != nil {
		return nil, err
	}

	students, err := s.students.ListByClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	return dto.NewStudentResponseSlice(students), nil
}

func (s *classService) RemoveStudent(ctx context.Context, teacherID, classID, studentID uint) error {
	if _, err := s.ownedClass(ctx, teacherID, classID); err != nil {
		return err
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	if student.ClassID != classID {
		return ErrStudentNotFound
	}

	if err := s.students.Delete(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	s.logger.Info().Uint("student_id", studentID).Uint("class_id", classID).Msg("student removed")
	return nil
}

func (s *classService) Join(ctx context.Context, payload dto.JoinRequest) (dto.JoinResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.JoinResponse{}, err
	}

	code := strings.ToUpper(strings.TrimSpace(payload.AccessCode))

	class, err := s.classes.GetByAccessCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.JoinResponse{}, ErrClassNotFound
		}
		return dto.JoinResponse{}, err
	}

	name := s.sanitizer.Sanitize(strings.TrimSpace(payload.Name))
	if name == "" {
		return dto.JoinResponse{}, ErrValidation
	}

	student, err := s.students.FindOrCreate(ctx, class.ID, name)
	if err != nil {
		return dto.JoinResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Uint("class_id", class.ID).Msg("student joined class")

	return dto.JoinResponse{
		Class:   dto.NewClassResponse(class),
		Student: dto.NewStudentResponse(student),
	}, nil
}

func (s *classService) ownedClass(ctx context.Context, teacherID, classID uint) (models.Class, error) {
	class, err := s.classes.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Class{}, ErrClassNotFound
		}
		return models.Class{}, err
	}

	if class.TeacherID != teacherID {
		return models.Class{}, ErrNotClassOwner
	}

	return class, nil
}
