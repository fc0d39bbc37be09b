package service

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classwork-tracker-api/internal/dto"
	"github.com/noah-isme/classwork-tracker-api/internal/models"
)

var accessCodePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func TestClassServiceCreateGeneratesAccessCode(t *testing.T) {
	env := newTestEnv(t, "class_create")
	teacher := env.registerTeacher(t, "ms_lee")

	class := env.createClass(t, teacher.ID, "Algebra I")
	require.Equal(t, "Algebra I", class.Name)
	require.Regexp(t, accessCodePattern, class.AccessCode)

	// Ambiguous characters are excluded from the alphabet entirely.
	require.NotContains(t, class.AccessCode, "O")
	require.NotContains(t, class.AccessCode, "0")
	require.NotContains(t, class.AccessCode, "I")
	require.NotContains(t, class.AccessCode, "L")
	require.NotContains(t, class.AccessCode, "1")
}

func TestClassServiceJoinIsIdempotent(t *testing.T) {
	env := newTestEnv(t, "class_join_idempotent")
	teacher := env.registerTeacher(t, "ms_lee")
	class := env.createClass(t, teacher.ID, "Algebra I")

	first := env.joinClass(t, "Ana", class.AccessCode)
	second := env.joinClass(t, "Ana", class.AccessCode)

	require.Equal(t, first.Student.ID, second.Student.ID)
	require.EqualValues(t, 1, env.count(t, &models.Student{}, "class_id = ?", class.ID))
}

func TestClassServiceJoinNormalizesCode(t *testing.T) {
	env := newTestEnv(t, "class_join_normalize")
	teacher := env.registerTeacher(t, "ms_lee")
	class := env.createClass(t, teacher.ID, "Algebra I")

	joined, err := env.classes.Join(context.Background(), dto.JoinRequest{
		Name:       "Ben",
		AccessCode: strings.ToLower(class.AccessCode),
	})
	require.NoError(t, err)
	require.Equal(t, class.ID, joined.Class.ID)
}

func TestClassServiceJoinUnknownCode(t *testing.T) {
	env := newTestEnv(t, "class_join_unknown")

	_, err := env.classes.Join(context.Background(), dto.JoinRequest{Name: "Ana", AccessCode: "ZZZZZZ"})
	require.ErrorIs(t, err, ErrClassNotFound)
}

func TestClassServiceRegenerateCodeInvalidatesOldCode(t *testing.T) {
	env := newTestEnv(t, "class_regenerate")
	teacher := env.registerTeacher(t, "ms_lee")
	class := env.createClass(t, teacher.ID, "Algebra I")
	ctx := context.Background()

	updated, err := env.classes.RegenerateCode(ctx, teacher.ID, class.ID)
	require.NoError(t, err)
	require.NotEqual(t, class.AccessCode, updated.AccessCode)
	require.Regexp(t, accessCodePattern, updated.AccessCode)

	_, err = env.classes.Join(ctx, dto.JoinRequest{Name: "Ana", AccessCode: class.AccessCode})
	require.ErrorIs(t, err, ErrClassNotFound)

	joined := env.joinClass(t, "Ana", updated.AccessCode)
	require.Equal(t, class.ID, joined.Class.ID)
}

func TestClassServiceOwnership(t *testing.T) {
	env := newTestEnv(t, "class_ownership")
	owner := env.registerTeacher(t, "ms_lee")
	other := env.registerTeacher(t, "mr_ortiz")
	class := env.createClass(t, owner.ID, "Algebra I")
	ctx := context.Background()

	_, err := env.classes.Get(ctx, other.ID, class.ID)
	require.ErrorIs(t, err, ErrNotClassOwner)

	_, err = env.classes.Rename(ctx, other.ID, class.ID, dto.ClassUpdateRequest{Name: "Stolen"})
	require.ErrorIs(t, err, ErrNotClassOwner)

	require.ErrorIs(t, env.classes.Delete(ctx, other.ID, class.ID), ErrNotClassOwner)

	_, err = env.classes.Get(ctx, owner.ID, 9999)
	require.ErrorIs(t, err, ErrClassNotFound)
}

func TestClassServiceRenameRejectsBlankName(t *testing.T) {
	env := newTestEnv(t, "class_rename_blank")
	teacher := env.registerTeacher(t, "ms_lee")
	class := env.createClass(t, teacher.ID, "Algebra I")

	_, err := env.classes.Rename(context.Background(), teacher.ID, class.ID, dto.ClassUpdateRequest{Name: "   "})
	require.ErrorIs(t, err, ErrValidation)

	kept, err := env.classes.Get(context.Background(), teacher.ID, class.ID)
	require.NoError(t, err)
	require.Equal(t, "Algebra I", kept.Name)
}

func TestClassServiceDeleteCascades(t *testing.T) {
	env := newTestEnv(t, "class_delete_cascade")
	teacher := env.registerTeacher(t, "ms_lee")
	class := env.createClass(t, teacher.ID, "Algebra I")
	ctx := context.Background()

	joined := env.joinClass(t, "Ana", class.AccessCode)
	assignment := env.createAssignment(t, teacher.ID, class.ID, dto.AssignmentCreateRequest{Title: "Worksheet 1"})

	_, err := env.submissions.SetStatusAsStudent(ctx, joined.Student.ID, assignment.ID, dto.SubmissionStatusRequest{Status: models.SubmissionStatusDone})
	require.NoError(t, err)

	require.NoError(t, env.classes.Delete(ctx, teacher.ID, class.ID))

	require.EqualValues(t, 0, env.count(t, &models.Class{}, "id = ?", class.ID))
	require.EqualValues(t, 0, env.count(t, &models.Student{}, "class_id = ?", class.ID))
	require.EqualValues(t, 0, env.count(t, &models.Assignment{}, "class_id = ?", class.ID))
	require.EqualValues(t, 0, env.count(t, &models.Submission{}, "assignment_id = ?", assignment.ID))
}

func TestClassServiceRemoveStudent(t *testing.T) {
	env := newTestEnv(t, "class_remove_student")
	teacher := env.registerTeacher(t, "ms_lee")
	class := env.createClass(t, teacher.ID, "Algebra I")
	otherClass := env.createClass(t, teacher.ID, "Geometry")
	ctx := context.Background()

	joined := env.joinClass(t, "Ana", class.AccessCode)
	stranger := env.joinClass(t, "Ben", otherClass.AccessCode)

	// Students are scoped to the class given in the URL.
	require.ErrorIs(t, env.classes.RemoveStudent(ctx, teacher.ID, class.ID, stranger.Student.ID), ErrStudentNotFound)

	require.NoError(t, env.classes.RemoveStudent(ctx, teacher.ID, class.ID, joined.Student.ID))
	require.EqualValues(t, 0, env.count(t, &models.Student{}, "class_id = ?", class.ID))
}
