package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/classwork-tracker-api/internal/dto"
	"github.com/noah-isme/classwork-tracker-api/internal/models"
	"github.com/noah-isme/classwork-tracker-api/internal/repository"
)

// newTestDB opens a private in-memory database with the same settings the
// production connector uses, so unique conflicts and cascades behave the same.
func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_foreign_keys=on", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Teacher{},
		&models.Class{},
		&models.Student{},
		&models.Assignment{},
		&models.Submission{},
		&models.ActivityLog{},
	))

	return db
}

func newTestValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

type testEnv struct {
	db          *gorm.DB
	auth        AuthService
	classes     ClassService
	assignments AssignmentService
	submissions SubmissionService
	students    StudentService
	admin       AdminService
}

func newTestEnv(t *testing.T, name string) *testEnv {
	t.Helper()

	db := newTestDB(t, name)
	validate := newTestValidator()
	logger := zerolog.Nop()

	teacherRepo := repository.NewTeacherRepository(db)
	classRepo := repository.NewClassRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	return &testEnv{
		db:          db,
		auth:        NewAuthService(teacherRepo, validate, logger),
		classes:     NewClassService(classRepo, studentRepo, activityRepo, validate, logger),
		assignments: NewAssignmentService(assignmentRepo, classRepo, studentRepo, activityRepo, nil, 0, nil, validate, logger),
		submissions: NewSubmissionService(submissionRepo, assignmentRepo, studentRepo, classRepo, nil, 0, validate, logger),
		students:    NewStudentService(studentRepo, validate, logger),
		admin:       NewAdminService(adminRepo, activityRepo, logger),
	}
}

func (e *testEnv) registerTeacher(t *testing.T, username string) dto.TeacherResponse {
	t.Helper()

	teacher, err := e.auth.Register(context.Background(), dto.RegisterRequest{
		Username: username,
		Password: "correct-horse",
	})
	require.NoError(t, err)

	return teacher
}

func (e *testEnv) createClass(t *testing.T, teacherID uint, name string) dto.ClassResponse {
	t.Helper()

	class, err := e.classes.Create(context.Background(), teacherID, dto.ClassCreateRequest{Name: name})
	require.NoError(t, err)

	return class
}

func (e *testEnv) joinClass(t *testing.T, name, code string) dto.JoinResponse {
	t.Helper()

	joined, err := e.classes.Join(context.Background(), dto.JoinRequest{Name: name, AccessCode: code})
	require.NoError(t, err)

	return joined
}

func (e *testEnv) createAssignment(t *testing.T, teacherID, classID uint, payload dto.AssignmentCreateRequest) dto.AssignmentResponse {
	t.Helper()

	assignment, err := e.assignments.Create(context.Background(), teacherID, classID, payload)
	require.NoError(t, err)

	return assignment
}

func (e *testEnv) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var count int64
	tx := e.db.Model(model)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	require.NoError(t, tx.Count(&count).Error)

	return count
}
