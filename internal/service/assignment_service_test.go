package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classwork-tracker-api/internal/dto"
	"github.com/noah-isme/classwork-tracker-api/internal/models"
	"github.com/noah-isme/classwork-tracker-api/internal/repository"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *recordingMailer) Send(_ context.Context, to, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return nil
}

func (m *recordingMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

func TestAssignmentServiceCreateRejectsBlankTitle(t *testing.T) {
	env := newTestEnv(t, "assignment_blank_title")
	teacher := env.registerTeacher(t, "ms_lee")
	class := env.createClass(t, teacher.ID, "Algebra I")

	_, err := env.assignments.Create(context.Background(), teacher.ID, class.ID, dto.AssignmentCreateRequest{Title: "   "})
	require.ErrorIs(t, err, ErrValidation)
	require.EqualValues(t, 0, env.count(t, &models.Assignment{}, "class_id = ?", class.ID))
}

func TestAssignmentServiceCreateRejectsMalformedDueDate(t *testing.T) {
	env := newTestEnv(t, "assignment_bad_date")
	teacher := env.registerTeacher(t, "ms_lee")
	class := env.createClass(t, teacher.ID, "Algebra I")

	_, err := env.assignments.Create(context.Background(), teacher.ID, class.ID, dto.AssignmentCreateRequest{
		Title:   "Worksheet 1",
		DueDate: "September 1st",
	})
	require.Error(t, err)
	require.EqualValues(t, 0, env.count(t, &models.Assignment{}, "class_id = ?", class.ID))
}

func TestAssignmentServiceListOrdersDueDatesWithNullsLast(t *testing.T) {
	env := newTestEnv(t, "assignment_ordering")
	teacher := env.registerTeacher(t, "ms_lee")
	class := env.createClass(t, teacher.ID, "Algebra I")

	late := env.createAssignment(t, teacher.ID, class.ID, dto.AssignmentCreateRequest{Title: "Late", DueDate: "2026-09-10"})
	early := env.createAssignment(t, teacher.ID, class.ID, dto.AssignmentCreateRequest{Title: "Early", DueDate: "2026-09-01"})
	undated := env.createAssignment(t, teacher.ID, class.ID, dto.AssignmentCreateRequest{Title: "Undated"})
	earlyTie := env.createAssignment(t, teacher.ID, class.ID, dto.AssignmentCreateRequest{Title: "Early tie", DueDate: "2026-09-01"})

	listed, err := env.assignments.ListForClass(context.Background(), teacher.ID, class.ID)
	require.NoError(t, err)
	require.Len(t, listed, 4)

	// Soonest due dates first, newer assignment wins a date tie, undated last.
	require.Equal(t, earlyTie.ID, listed[0].ID)
	require.Equal(t, early.ID, listed[1].ID)
	require.Equal(t, late.ID, listed[2].ID)
	require.Equal(t, undated.ID, listed[3].ID)
	require.Nil(t, listed[3].DueDate)
}

func TestAssignmentServiceDeleteCascadesSubmissions(t *testing.T) {
	env := newTestEnv(t, "assignment_delete_cascade")
	teacher := env.registerTeacher(t, "ms_lee")
	class := env.createClass(t, teacher.ID, "Algebra I")
	ctx := context.Background()

	joined := env.joinClass(t, "Ana", class.AccessCode)
	assignment := env.createAssignment(t, teacher.ID, class.ID, dto.AssignmentCreateRequest{Title: "Worksheet 1"})

	_, err := env.submissions.SetStatusAsStudent(ctx, joined.Student.ID, assignment.ID, dto.SubmissionStatusRequest{Status: models.SubmissionStatusDone})
	require.NoError(t, err)

	require.NoError(t, env.assignments.Delete(ctx, teacher.ID, assignment.ID))
	require.EqualValues(t, 0, env.count(t, &models.Submission{}, "assignment_id = ?", assignment.ID))

	require.ErrorIs(t, env.assignments.Delete(ctx, teacher.ID, assignment.ID), ErrAssignmentNotFound)
}

func TestAssignmentServiceNotifySkipsStudentsWithoutEmail(t *testing.T) {
	env := newTestEnv(t, "assignment_notify")
	teacher := env.registerTeacher(t, "ms_lee")
	class := env.createClass(t, teacher.ID, "Algebra I")
	ctx := context.Background()

	withEmail := env.joinClass(t, "Ana", class.AccessCode)
	env.joinClass(t, "Ben", class.AccessCode)

	email := "ana@example.com"
	_, err := env.students.UpdateProfile(ctx, withEmail.Student.ID, dto.StudentProfileUpdateRequest{Email: &email})
	require.NoError(t, err)

	mail := &recordingMailer{}
	notifying := NewAssignmentService(
		repository.NewAssignmentRepository(env.db),
		repository.NewClassRepository(env.db),
		repository.NewStudentRepository(env.db),
		repository.NewActivityLogRepository(env.db),
		nil, 0,
		mail,
		newTestValidator(),
		zerolog.Nop(),
	)

	_, err = notifying.Create(ctx, teacher.ID, class.ID, dto.AssignmentCreateRequest{
		Title:  "Worksheet 1",
		Notify: true,
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return len(mail.recipients()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, []string{"ana@example.com"}, mail.recipients())
}
