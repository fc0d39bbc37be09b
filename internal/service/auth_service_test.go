package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classwork-tracker-api/internal/dto"
	"github.com/noah-isme/classwork-tracker-api/internal/models"
)

func TestAuthServiceRegisterAndAuthenticate(t *testing.T) {
	env := newTestEnv(t, "auth_register")
	ctx := context.Background()

	teacher, err := env.auth.Register(ctx, dto.RegisterRequest{Username: "ms_lee", Password: "hunter22"})
	require.NoError(t, err)
	require.Equal(t, "ms_lee", teacher.Username)
	require.NotZero(t, teacher.ID)

	// The stored hash never round-trips through the response type.
	var stored models.Teacher
	require.NoError(t, env.db.First(&stored, teacher.ID).Error)
	require.NotEqual(t, "hunter22", stored.PasswordHash)
	require.NotEmpty(t, stored.PasswordHash)

	authenticated, err := env.auth.Authenticate(ctx, dto.LoginRequest{Username: "ms_lee", Password: "hunter22"})
	require.NoError(t, err)
	require.Equal(t, teacher.ID, authenticated.ID)
}

func TestAuthServiceWrongPassword(t *testing.T) {
	env := newTestEnv(t, "auth_wrong_password")
	ctx := context.Background()

	_, err := env.auth.Register(ctx, dto.RegisterRequest{Username: "ms_lee", Password: "hunter22"})
	require.NoError(t, err)

	_, err = env.auth.Authenticate(ctx, dto.LoginRequest{Username: "ms_lee", Password: "hunter23"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceUnknownUsername(t *testing.T) {
	env := newTestEnv(t, "auth_unknown_user")

	_, err := env.auth.Authenticate(context.Background(), dto.LoginRequest{Username: "nobody", Password: "whatever"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceDuplicateUsername(t *testing.T) {
	env := newTestEnv(t, "auth_duplicate")
	ctx := context.Background()

	_, err := env.auth.Register(ctx, dto.RegisterRequest{Username: "ms_lee", Password: "hunter22"})
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, dto.RegisterRequest{Username: "ms_lee", Password: "different1"})
	require.ErrorIs(t, err, ErrDuplicateUsername)

	require.EqualValues(t, 1, env.count(t, &models.Teacher{}, ""))
}

func TestAuthServiceRejectsShortPassword(t *testing.T) {
	env := newTestEnv(t, "auth_short_password")

	_, err := env.auth.Register(context.Background(), dto.RegisterRequest{Username: "ms_lee", Password: "abc"})
	require.Error(t, err)
	require.EqualValues(t, 0, env.count(t, &models.Teacher{}, ""))
}

func TestAuthServiceDeleteTeacher(t *testing.T) {
	env := newTestEnv(t, "auth_delete")
	ctx := context.Background()

	teacher := env.registerTeacher(t, "ms_lee")
	require.NoError(t, env.auth.DeleteTeacher(ctx, teacher.ID))
	require.ErrorIs(t, env.auth.DeleteTeacher(ctx, teacher.ID), ErrTeacherNotFound)
}
