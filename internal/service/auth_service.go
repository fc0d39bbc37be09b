package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/classwork-tracker-api/internal/dto"
	"github.com/noah-isme/classwork-tracker-api/internal/models"
	"github.com/noah-isme/classwork-tracker-api/internal/repository"
)

// ErrDuplicateUsername indicates the requested username is already taken.
var ErrDuplicateUsername = errors.New("username already taken")

// ErrInvalidCredentials covers both unknown usernames and wrong passwords so
// the two cases cannot be told apart by the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrTeacherNotFound indicates the teacher account does not exist.
var ErrTeacherNotFound = errors.New("teacher not found")

// Hash of an unused password, compared against when the username is unknown
// so both failure paths spend a bcrypt verification.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService manages teacher registration and login.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.TeacherResponse, error)
	Authenticate(ctx context.Context, payload dto.LoginRequest) (dto.TeacherResponse, error)
	DeleteTeacher(ctx context.Context, id uint) error
}

type authService struct {
	teachers  repository.TeacherRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(teachers repository.TeacherRepository, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		teachers:  teachers,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.TeacherResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeacherResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.TeacherResponse{}, err
	}

	teacher := models.Teacher{
		Username:     payload.Username,
		PasswordHash: string(hash),
	}

	if err := s.teachers.Create(ctx, &teacher); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.TeacherResponse{}, ErrDuplicateUsername
		}
		return dto.TeacherResponse{}, err
	}

	s.logger.Info().Uint("teacher_id", teacher.ID).Msg("teacher registered")

	return dto.NewTeacherResponse(teacher), nil
}

func (s *authService) Authenticate(ctx context.Context, payload dto.LoginRequest) (dto.TeacherResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.TeacherResponse{}, err
	}

	teacher, err := s.teachers.GetByUsername(ctx, payload.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a comparison so unknown usernames cost the same as mismatches.
			_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(payload.Password))
			return dto.TeacherResponse{}, ErrInvalidCredentials
		}
		return dto.TeacherResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(teacher.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.TeacherResponse{}, ErrInvalidCredentials
	}

	return dto.NewTeacherResponse(teacher), nil
}

func (s *authService) DeleteTeacher(ctx context.Context, id uint) error {
	if err := s.teachers.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeacherNotFound
		}
		return err
	}

	s.logger.Info().Uint("teacher_id", id).Msg("teacher deleted")
	return nil
}
