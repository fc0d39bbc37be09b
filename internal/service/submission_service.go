package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/classwork-tracker-api/internal/dto"
	"github.com/noah-isme/classwork-tracker-api/internal/models"
	"github.com/noah-isme/classwork-tracker-api/internal/repository"
)

// SubmissionService manages completion records. Students toggle their own
// status; teachers may toggle on a student's behalf through the class they
// own. Both paths run through the same upsert and converge on the same state.
type SubmissionService interface {
	SetStatusAsStudent(ctx context.Context, studentID, assignmentID uint, payload dto.SubmissionStatusRequest) (dto.SubmissionResponse, error)
	SetStatusAsTeacher(ctx context.Context, teacherID, assignmentID, studentID uint, payload dto.SubmissionStatusRequest) (dto.SubmissionResponse, error)
	ListForStudent(ctx context.Context, classID, studentID uint) ([]dto.AssignmentStatusResponse, error)
	ListForAssignment(ctx context.Context, teacherID, assignmentID uint) ([]dto.StudentStatusResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	students    repository.StudentRepository
	classes     repository.ClassRepository
	cache       *listCache
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance. A nil cache
// client disables caching without changing behaviour.
func NewSubmissionService(submissions repository.SubmissionRepository, assignments repository.AssignmentRepository, students repository.StudentRepository, classes repository.ClassRepository, cacheClient *redis.Client, cacheTTL time.Duration, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissions,
		assignments: assignments,
		students:    students,
		classes:     classes,
		cache:       newListCache(cacheClient, cacheTTL, logger),
		validator:   validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) SetStatusAsStudent(ctx context.Context, studentID, assignmentID uint, payload dto.SubmissionStatusRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrStudentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if assignment.ClassID != student.ClassID {
		return dto.SubmissionResponse{}, ErrAssignmentNotFound
	}

	return s.setStatus(ctx, assignment, student, payload.Status)
}

func (s *submissionService) SetStatusAsTeacher(ctx context.Context, teacherID, assignmentID, studentID uint, payload dto.SubmissionStatusRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	class, err := s.classes.GetByID(ctx, assignment.ClassID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrClassNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if class.TeacherID != teacherID {
		return dto.SubmissionResponse{}, ErrNotClassOwner
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrStudentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if student.ClassID != assignment.ClassID {
		return dto.SubmissionResponse{}, ErrStudentNotFound
	}

	return s.setStatus(ctx, assignment, student, payload.Status)
}

// setStatus is the single write path for both actors. Marking done stamps the
// completion time; reverting to pending clears it.
func (s *submissionService) setStatus(ctx context.Context, assignment models.Assignment, student models.Student, status string) (dto.SubmissionResponse, error) {
	submission := models.Submission{
		AssignmentID: assignment.ID,
		StudentID:    student.ID,
		Status:       status,
	}

	if status == models.SubmissionStatusDone {
		completedAt := s.now().UTC()
		submission.CompletedAt = &completedAt
	}

	if err := s.submissions.Upsert(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	// Re-read so the caller sees the surviving row, not the insert candidate.
	stored, err := s.submissions.GetByAssignmentAndStudent(ctx, assignment.ID, student.ID)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.cache.invalidateStudent(ctx, assignment.ClassID, student.ID)

	s.logger.Info().
		Uint("assignment_id", assignment.ID).
		Uint("student_id", student.ID).
		Str("status", status).
		Msg("submission status updated")

	return dto.NewSubmissionResponse(stored), nil
}

func (s *submissionService) ListForStudent(ctx context.Context, classID, studentID uint) ([]dto.AssignmentStatusResponse, error) {
	if cached, ok := s.cache.get(ctx, classID, studentID); ok {
		return cached, nil
	}

	assignments, err := s.assignments.ListByClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	submissions, err := s.submissions.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	byAssignment := make(map[uint]models.Submission, len(submissions))
	for _, submission := range submissions {
		byAssignment[submission.AssignmentID] = submission
	}

	response := make([]dto.AssignmentStatusResponse, 0, len(assignments))
	for _, assignment := range assignments {
		row := dto.AssignmentStatusResponse{
			Assignment: dto.NewAssignmentResponse(assignment),
			Status:     models.SubmissionStatusPending,
		}

		if submission, ok := byAssignment[assignment.ID]; ok {
			row.Status = submission.Status
			row.CompletedAt = submission.CompletedAt
		}

		response = append(response, row)
	}

	s.cache.set(ctx, classID, studentID, response)

	return response, nil
}

func (s *submissionService) ListForAssignment(ctx context.Context, teacherID, assignmentID uint) ([]dto.StudentStatusResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}

	class, err := s.classes.GetByID(ctx, assignment.ClassID)
	if err != nil {
		return nil, err
	}

	if class.TeacherID != teacherID {
		return nil, ErrNotClassOwner
	}

	students, err := s.students.ListByClass(ctx, assignment.ClassID)
	if err != nil {
		return nil, err
	}

	submissions, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	byStudent := make(map[uint]models.Submission, len(submissions))
	for _, submission := range submissions {
		byStudent[submission.StudentID] = submission
	}

	response := make([]dto.StudentStatusResponse, 0, len(students))
	for _, student := range students {
		row := dto.StudentStatusResponse{
			Student: dto.NewStudentResponse(student),
			Status:  models.SubmissionStatusPending,
		}

		if submission, ok := byStudent[student.ID]; ok {
			row.Status = submission.Status
			row.CompletedAt = submission.CompletedAt
		}

		response = append(response, row)
	}

	return response, nil
}
