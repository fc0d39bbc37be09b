package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/classwork-tracker-api/internal/dto"
	"github.com/noah-isme/classwork-tracker-api/internal/models"
	"github.com/noah-isme/classwork-tracker-api/internal/repository"
	"github.com/noah-isme/classwork-tracker-api/internal/session"
	"github.com/noah-isme/classwork-tracker-api/pkg/mailer"
)

// ErrAssignmentNotFound indicates the requested assignment does not exist.
var ErrAssignmentNotFound = errors.New("assignment not found")

// How long the detached notification fan-out may run after the assignment
// has been committed.
const notifyTimeout = 30 * time.Second

// AssignmentService exposes assignment domain use cases.
type AssignmentService interface {
	Create(ctx context.Context, teacherID, classID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	ListForClass(ctx context.Context, teacherID, classID uint) ([]dto.AssignmentResponse, error)
	Delete(ctx context.Context, teacherID, assignmentID uint) error
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	classes     repository.ClassRepository
	students    repository.StudentRepository
	activity    repository.ActivityLogRepository
	cache       *listCache
	mail        mailer.Mailer
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// NewAssignmentService builds a new assignment service. A nil cache client
// disables caching without changing behaviour.
func NewAssignmentService(assignments repository.AssignmentRepository, classes repository.ClassRepository, students repository.StudentRepository, activity repository.ActivityLogRepository, cacheClient *redis.Client, cacheTTL time.Duration, mail mailer.Mailer, validate *validator.Validate, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		classes:     classes,
		students:    students,
		activity:    activity,
		cache:       newListCache(cacheClient, cacheTTL, logger),
		mail:        mail,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "assignment_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/classwork-tracker-api/internal/service/assignment"),
	}
}

func (s *assignmentService) Create(ctx context.Context, teacherID, classID uint, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	class, err := s.ownedClass(ctx, teacherID, classID)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	title := strings.TrimSpace(payload.Title)
	if title == "" {
		return dto.AssignmentResponse{}, ErrValidation
	}

	assignment := models.Assignment{
		ClassID:     classID,
		Title:       title,
		Description: s.sanitizer.Sanitize(payload.Description),
	}

	if payload.DueDate != "" {
		parsed, err := time.Parse(dto.DueDateLayout, payload.DueDate)
		if err != nil {
			return dto.AssignmentResponse{}, ErrValidation
		}
		due := datatypes.Date(parsed)
		assignment.DueDate = &due
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.cache.invalidateClass(ctx, classID)

	s.logger.Info().Uint("assignment_id", assignment.ID).Uint("class_id", classID).Msg("assignment created")
	recordActivity(ctx, s.activity, s.logger, models.ActivityLog{
		ActorRole:  session.RoleTeacher,
		ActorID:    teacherID,
		Action:     "assignment.create",
		EntityType: "assignment",
		EntityID:   &assignment.ID,
		Metadata:   datatypes.JSONMap{"title": assignment.Title, "class_id": classID},
	})

	// The assignment is committed; notification delivery is best-effort and
	// must never influence the result the caller sees.
	if payload.Notify {
		go s.notifyClass(class, assignment)
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) ListForClass(ctx context.Context, teacherID, classID uint) ([]dto.AssignmentResponse, error) {
	if _, err := s.ownedClass(ctx, teacherID, classID); err != nil {
		return nil, err
	}

	assignments, err := s.assignments.ListByClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) Delete(ctx context.Context, teacherID, assignmentID uint) error {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	if _, err := s.ownedClass(ctx, teacherID, assignment.ClassID); err != nil {
		return err
	}

	if err := s.assignments.Delete(ctx, assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}

	s.cache.invalidateClass(ctx, assignment.ClassID)

	s.logger.Info().Uint("assignment_id", assignmentID).Msg("assignment deleted")
	recordActivity(ctx, s.activity, s.logger, models.ActivityLog{
		ActorRole:  session.RoleTeacher,
		ActorID:    teacherID,
		Action:     "assignment.delete",
		EntityType: "assignment",
		EntityID:   &assignmentID,
	})

	return nil
}

// notifyClass emails every student in the class that opted into notifications.
// It runs detached from the originating request.
func (s *assignmentService) notifyClass(class models.Class, assignment models.Assignment) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	ctx, span := s.tracer.Start(ctx, "assignment.notify",
		trace.WithAttributes(
			attribute.Int("assignment.id", int(assignment.ID)),
			attribute.Int("class.id", int(class.ID)),
		))
	defer span.End()

	students, err := s.students.ListByClass(ctx, class.ID)
	if err != nil {
		s.logger.Error().Err(err).Uint("class_id", class.ID).Msg("failed to load notification recipients")
		return
	}

	due := "N/A"
	if dueTime, ok := assignment.DueTime(); ok {
		due = dueTime.Format(dto.DueDateLayout)
	}

	delivered := 0
	for _, student := range students {
		if !student.HasEmail() {
			continue
		}

		body := fmt.Sprintf(
			"Hi %s,\n\nA new assignment has been posted in %s:\n\nTitle: %s\nDescription: %s\nDue: %s\n\nPlease log in to view more details.",
			student.Name, class.Name, assignment.Title, assignment.Description, due,
		)

		if err := s.mail.Send(ctx, student.Email, "New Assignment: "+assignment.Title, body); err != nil {
			s.logger.Error().Err(err).Uint("student_id", student.ID).Msg("failed to deliver assignment notification")
			continue
		}
		delivered++
	}

	span.SetAttributes(attribute.Int("notify.delivered", delivered))
	s.logger.Info().Uint("assignment_id", assignment.ID).Int("delivered", delivered).Msg("assignment notifications dispatched")
}

func (s *assignmentService) ownedClass(ctx context.Context, teacherID, classID uint) (models.Class, error) {
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
