package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-diary/diary-backend/internal/domain/gradebook"
	"github.com/school-diary/diary-backend/internal/domain/shared"
)

// gradebookFixture seeds a teacher with one scheduled lesson and one student.
func gradebookFixture(t *testing.T, enforceOwnership bool) (*fixture, shared.Identity, shared.Identity) {
	t.Helper()
	f := newFixture(enforceOwnership)
	teacher := f.addUser("t1", "ivan", shared.RoleTeacher)
	student := f.addUser("st1", "olena", shared.RoleStudent)
	f.addLesson("l1", "Mathematics", "t1")
	f.addPeriod("p1", 1)
	f.addSchedule("s1", "l1", "p1", "2024-01-10")
	return f, teacher, student
}

func TestCreateMark(t *testing.T) {
	f, teacher, _ := gradebookFixture(t, true)
	h := NewCreateMarkHandler(f.marks, f.validator, f.views, f.clock)

	m, err := h.Handle(context.Background(), CreateMarkCommand{
		Identity:   teacher,
		ScheduleID: "s1",
		StudentID:  "st1",
		Value:      9,
	})
	require.NoError(t, err)
	assert.Equal(t, gradebook.Value(9), m.Value)
	assert.Equal(t, 1, f.views.calls)
}

func TestCreateMarkDuplicate(t *testing.T) {
	f, teacher, _ := gradebookFixture(t, true)
	h := NewCreateMarkHandler(f.marks, f.validator, f.views, f.clock)

	cmd := CreateMarkCommand{Identity: teacher, ScheduleID: "s1", StudentID: "st1", Value: 9}
	_, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)

	// One mark per (schedule, student); regrading goes through update.
	cmd.Value = 5
	_, err = h.Handle(context.Background(), cmd)
	assert.True(t, shared.IsConflict(err))
}

func TestCreateMarkRejectsNonStudent(t *testing.T) {
	f, teacher, _ := gradebookFixture(t, true)
	f.addUser("t2", "petro", shared.RoleTeacher)
	h := NewCreateMarkHandler(f.marks, f.validator, f.views, f.clock)

	_, err := h.Handle(context.Background(), CreateMarkCommand{
		Identity: teacher, ScheduleID: "s1", StudentID: "t2", Value: 9,
	})
	assert.ErrorIs(t, err, shared.ErrNotAStudent)
	assert.True(t, shared.IsValidation(err))

	_, err = h.Handle(context.Background(), CreateMarkCommand{
		Identity: teacher, ScheduleID: "s1", StudentID: "missing", Value: 9,
	})
	assert.True(t, shared.IsNotFound(err))
}

func TestCreateMarkOnForeignSchedule(t *testing.T) {
	f, _, _ := gradebookFixture(t, true)
	other := f.addUser("t2", "petro", shared.RoleTeacher)
	h := NewCreateMarkHandler(f.marks, f.validator, f.views, f.clock)

	_, err := h.Handle(context.Background(), CreateMarkCommand{
		Identity: other, ScheduleID: "s1", StudentID: "st1", Value: 9,
	})
	assert.True(t, shared.IsForbidden(err))
}

func TestCreateMarkForbiddenForStudent(t *testing.T) {
	f, _, student := gradebookFixture(t, true)
	h := NewCreateMarkHandler(f.marks, f.validator, f.views, f.clock)

	_, err := h.Handle(context.Background(), CreateMarkCommand{
		Identity: student, ScheduleID: "s1", StudentID: "st1", Value: 12,
	})
	assert.True(t, shared.IsForbidden(err), "the capability check runs before any validation")
}

func TestUpdateMark(t *testing.T) {
	f, teacher, _ := gradebookFixture(t, true)
	create := NewCreateMarkHandler(f.marks, f.validator, f.views, f.clock)
	update := NewUpdateMarkHandler(f.marks, f.validator, f.views, f.clock)

	m, err := create.Handle(context.Background(), CreateMarkCommand{
		Identity: teacher, ScheduleID: "s1", StudentID: "st1", Value: 4,
	})
	require.NoError(t, err)

	m2, err := update.Handle(context.Background(), UpdateMarkCommand{Identity: teacher, MarkID: m.ID, Value: 9})
	require.NoError(t, err)
	assert.Equal(t, gradebook.Value(9), m2.Value)

	_, err = update.Handle(context.Background(), UpdateMarkCommand{Identity: teacher, MarkID: m.ID, Value: 0})
	assert.True(t, shared.IsValidation(err))

	_, err = update.Handle(context.Background(), UpdateMarkCommand{Identity: teacher, MarkID: "missing", Value: 9})
	assert.True(t, shared.IsNotFound(err))
}

func TestDeleteMark(t *testing.T) {
	f, teacher, _ := gradebookFixture(t, true)
	create := NewCreateMarkHandler(f.marks, f.validator, f.views, f.clock)
	del := NewDeleteMarkHandler(f.marks, f.validator, f.views)

	m, err := create.Handle(context.Background(), CreateMarkCommand{
		Identity: teacher, ScheduleID: "s1", StudentID: "st1", Value: 4,
	})
	require.NoError(t, err)

	require.NoError(t, del.Handle(context.Background(), DeleteMarkCommand{Identity: teacher, MarkID: m.ID}))
	_, err = f.marks.GetByID(context.Background(), m.ID)
	assert.True(t, shared.IsNotFound(err))
}

func TestCreateHomeTask(t *testing.T) {
	f, teacher, _ := gradebookFixture(t, true)
	h := NewCreateHomeTaskHandler(f.tasks, f.validator, f.views, f.clock)

	task, err := h.Handle(context.Background(), CreateHomeTaskCommand{
		Identity:    teacher,
		ScheduleID:  "s1",
		Description: "Solve exercises 1-10",
	})
	require.NoError(t, err)
	assert.Equal(t, "Solve exercises 1-10", task.Description)

	_, err = h.Handle(context.Background(), CreateHomeTaskCommand{
		Identity: teacher, ScheduleID: "s1", Description: "   ",
	})
	assert.True(t, shared.IsValidation(err))
}

func TestUpdateHomeTaskOwnership(t *testing.T) {
	f, teacher, _ := gradebookFixture(t, true)
	other := f.addUser("t2", "petro", shared.RoleTeacher)
	create := NewCreateHomeTaskHandler(f.tasks, f.validator, f.views, f.clock)
	update := NewUpdateHomeTaskHandler(f.tasks, f.validator, f.views, f.clock)

	task, err := create.Handle(context.Background(), CreateHomeTaskCommand{
		Identity: teacher, ScheduleID: "s1", Description: "Solve exercises 1-10",
	})
	require.NoError(t, err)

	_, err = update.Handle(context.Background(), UpdateHomeTaskCommand{
		Identity: other, HomeTaskID: task.ID, Description: "Changed",
	})
	assert.True(t, shared.IsForbidden(err))

	updated, err := update.Handle(context.Background(), UpdateHomeTaskCommand{
		Identity: teacher, HomeTaskID: task.ID, Description: "Solve exercises 1-20",
	})
	require.NoError(t, err)
	assert.Equal(t, "Solve exercises 1-20", updated.Description)
}

func TestDeleteHomeTask(t *testing.T) {
	f, teacher, _ := gradebookFixture(t, true)
	create := NewCreateHomeTaskHandler(f.tasks, f.validator, f.views, f.clock)
	del := NewDeleteHomeTaskHandler(f.tasks, f.validator, f.views)

	task, err := create.Handle(context.Background(), CreateHomeTaskCommand{
		Identity: teacher, ScheduleID: "s1", Description: "Solve exercises 1-10",
	})
	require.NoError(t, err)

	require.NoError(t, del.Handle(context.Background(), DeleteHomeTaskCommand{Identity: teacher, HomeTaskID: task.ID}))
	_, err = f.tasks.GetByID(context.Background(), task.ID)
	assert.True(t, shared.IsNotFound(err))
}
