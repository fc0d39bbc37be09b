package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classwork-tracker-api/internal/dto"
)

func TestStudentServiceUpdateProfileEmail(t *testing.T) {
	env := newTestEnv(t, "student_email")
	teacher := env.registerTeacher(t, "ms_lee")
	class := env.createClass(t, teacher.ID, "Algebra I")
	ctx := context.Background()

	joined := env.joinClass(t, "Ana", class.AccessCode)

	email := "ana@example.com"
	updated, err := env.students.UpdateProfile(ctx, joined.Student.ID, dto.StudentProfileUpdateRequest{Email: &email})
	require.NoError(t, err)
	require.Equal(t, email, updated.Email)

	// An empty string clears the address and stops notifications.
	blank := ""
	cleared, err := env.students.UpdateProfile(ctx, joined.Student.ID, dto.StudentProfileUpdateRequest{Email: &blank})
	require.NoError(t, err)
	require.Empty(t, cleared.Email)
}

func TestStudentServiceUpdateProfileRejectsBadEmail(t *testing.T) {
	env := newTestEnv(t, "student_bad_email")
	teacher := env.registerTeacher(t, "ms_lee")
	class := env.createClass(t, teacher.ID, "Algebra I")

	joined := env.joinClass(t, "Ana", class.AccessCode)

	bad := "not-an-address"
	_, err := env.students.UpdateProfile(context.Background(), joined.Student.ID, dto.StudentProfileUpdateRequest{Email: &bad})
	require.Error(t, err)
}

func TestStudentServiceRenameToExistingNameFails(t *testing.T) {
	env := newTestEnv(t, "student_rename_conflict")
	teacher := env.registerTeacher(t, "ms_lee")
	class := env.createClass(t, teacher.ID, "Algebra I")
	ctx := context.Background()

	env.joinClass(t, "Ana", class.AccessCode)
	ben := env.joinClass(t, "Ben", class.AccessCode)

	taken := "Ana"
	_, err := env.students.UpdateProfile(ctx, ben.Student.ID, dto.StudentProfileUpdateRequest{Name: &taken})
	require.ErrorIs(t, err, ErrDuplicateStudent)
}

func TestStudentServiceGetUnknown(t *testing.T) {
	env := newTestEnv(t, "student_get_unknown")

	_, err := env.students.Get(context.Background(), 42)
	require.ErrorIs(t, err, ErrStudentNotFound)
}
