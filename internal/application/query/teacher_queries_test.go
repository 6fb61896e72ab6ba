package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-diary/diary-backend/internal/domain/shared"
)

func TestGetProfile(t *testing.T) {
	users := newFakeUserRepo()
	identity := users.add("s1", "olena", shared.RoleStudent)
	h := NewGetProfileHandler(users)

	res, err := h.Handle(context.Background(), GetProfileQuery{Identity: identity})
	require.NoError(t, err)
	assert.Equal(t, "olena", res.User.Username)
	assert.Equal(t, "olena@school.ua", res.User.Email)
	assert.Equal(t, "student", res.Profile.Role)
	assert.Nil(t, res.Profile.DateOfBirth)
}

func TestGetProfileWithoutProfile(t *testing.T) {
	users := newFakeUserRepo()
	identity := users.add("u1", "ghost", shared.RoleStudent)
	delete(users.profiles, "u1")
	h := NewGetProfileHandler(users)

	_, err := h.Handle(context.Background(), GetProfileQuery{Identity: identity})
	assert.True(t, shared.IsNotFound(err))
}

func TestListTeacherSchedules(t *testing.T) {
	users := newFakeUserRepo()
	teacher := users.add("t1", "ivan", shared.RoleTeacher)
	users.add("t2", "petro", shared.RoleTeacher)

	lessons := newFakeLessonRepo()
	math := lessons.add("l1", "Mathematics", "t1")
	history := lessons.add("l2", "History", "t2")

	periods := newFakePeriodRepo()
	p1 := periods.add("p1", 1, "08:00:00", "08:45:00")
	p2 := periods.add("p2", 2, "09:00:00", "09:45:00")

	marks := newFakeMarkRepo()
	schedules := newFakeScheduleRepo(marks)
	schedules.add("s1", math, p2, "2024-01-10")
	schedules.add("s2", math, p1, "2024-01-10")
	schedules.add("s3", history, p1, "2024-01-11")

	h := NewListSchedulesHandler(schedules)
	dtos, err := h.Handle(context.Background(), ListSchedulesQuery{Identity: teacher})
	require.NoError(t, err)
	require.Len(t, dtos, 2, "only the acting teacher's schedules")
	assert.Equal(t, "s2", dtos[0].ID, "ordered by date then period number")
	assert.Equal(t, "s1", dtos[1].ID)
}

func TestGetScheduleHidesForeignSchedule(t *testing.T) {
	users := newFakeUserRepo()
	teacher := users.add("t1", "ivan", shared.RoleTeacher)
	users.add("t2", "petro", shared.RoleTeacher)

	lessons := newFakeLessonRepo()
	history := lessons.add("l2", "History", "t2")

	periods := newFakePeriodRepo()
	p1 := periods.add("p1", 1, "08:00:00", "08:45:00")

	marks := newFakeMarkRepo()
	schedules := newFakeScheduleRepo(marks)
	schedules.add("s1", history, p1, "2024-01-10")

	h := NewGetScheduleHandler(schedules, true)
	_, err := h.Handle(context.Background(), GetScheduleQuery{Identity: teacher, ScheduleID: "s1"})
	assert.True(t, shared.IsNotFound(err))

	relaxed := NewGetScheduleHandler(schedules, false)
	dto, err := relaxed.Handle(context.Background(), GetScheduleQuery{Identity: teacher, ScheduleID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "History", dto.LessonName)
	assert.Equal(t, 1, dto.Period.Number)
}

func TestListTeacherMarks(t *testing.T) {
	users := newFakeUserRepo()
	teacher := users.add("t1", "ivan", shared.RoleTeacher)

	marks := newFakeMarkRepo()
	marks.add("m1", "s1", "st1", 9, "2024-01-10", "Mathematics")

	h := NewListTeacherMarksHandler(marks)
	dtos, err := h.Handle(context.Background(), ListTeacherMarksQuery{Identity: teacher})
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, 9, dtos[0].Value)
	assert.Equal(t, "Mathematics", dtos[0].LessonName)
	assert.Equal(t, "2024-01-10", dtos[0].Date)
}

func TestListTeacherHomeTasks(t *testing.T) {
	users := newFakeUserRepo()
	teacher := users.add("t1", "ivan", shared.RoleTeacher)

	tasks := &fakeHomeTaskRepo{}
	tasks.add("h1", "s1", "Solve exercises 1-10", "2024-01-10", "Mathematics")

	h := NewListTeacherHomeTasksHandler(tasks)
	dtos, err := h.Handle(context.Background(), ListTeacherHomeTasksQuery{Identity: teacher})
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, "Solve exercises 1-10", dtos[0].Description)
}

func TestGetMarkHidesForeignMark(t *testing.T) {
	users := newFakeUserRepo()
	teacher := users.add("t1", "ivan", shared.RoleTeacher)
	users.add("t2", "petro", shared.RoleTeacher)

	lessons := newFakeLessonRepo()
	history := lessons.add("l2", "History", "t2")

	periods := newFakePeriodRepo()
	p1 := periods.add("p1", 1, "08:00:00", "08:45:00")

	marks := newFakeMarkRepo()
	schedules := newFakeScheduleRepo(marks)
	schedules.add("s1", history, p1, "2024-01-10")
	marks.add("m1", "s1", "st1", 7, "2024-01-10", "History")

	h := NewGetMarkHandler(marks, schedules, true)
	_, err := h.Handle(context.Background(), GetMarkQuery{Identity: teacher, MarkID: "m1"})
	assert.True(t, shared.IsNotFound(err))

	relaxed := NewGetMarkHandler(marks, schedules, false)
	dto, err := relaxed.Handle(context.Background(), GetMarkQuery{Identity: teacher, MarkID: "m1"})
	require.NoError(t, err)
	assert.Equal(t, 7, dto.Value)
	assert.Equal(t, "History", dto.LessonName)
	assert.Equal(t, "2024-01-10", dto.Date)

	_, err = relaxed.Handle(context.Background(), GetMarkQuery{Identity: teacher, MarkID: "missing"})
	assert.True(t, shared.IsNotFound(err))
}

func TestGetHomeTask(t *testing.T) {
	users := newFakeUserRepo()
	teacher := users.add("t1", "ivan", shared.RoleTeacher)

	lessons := newFakeLessonRepo()
	math := lessons.add("l1", "Mathematics", "t1")

	periods := newFakePeriodRepo()
	p1 := periods.add("p1", 1, "08:00:00", "08:45:00")

	marks := newFakeMarkRepo()
	schedules := newFakeScheduleRepo(marks)
	schedules.add("s1", math, p1, "2024-01-10")

	tasks := &fakeHomeTaskRepo{}
	tasks.add("h1", "s1", "Solve exercises 1-10", "2024-01-10", "Mathematics")

	h := NewGetHomeTaskHandler(tasks, schedules, true)
	dto, err := h.Handle(context.Background(), GetHomeTaskQuery{Identity: teacher, HomeTaskID: "h1"})
	require.NoError(t, err)
	assert.Equal(t, "Solve exercises 1-10", dto.Description)
	assert.Equal(t, "2024-01-10", dto.Date)

	_, err = h.Handle(context.Background(), GetHomeTaskQuery{Identity: teacher, HomeTaskID: "missing"})
	assert.True(t, shared.IsNotFound(err))
}

func TestListStudents(t *testing.T) {
	users := newFakeUserRepo()
	teacher := users.add("t1", "ivan", shared.RoleTeacher)
	olena := users.add("st2", "olena", shared.RoleStudent)
	users.add("st1", "andriy", shared.RoleStudent)

	h := NewListStudentsHandler(users)
	dtos, err := h.Handle(context.Background(), ListStudentsQuery{Identity: teacher})
	require.NoError(t, err)
	require.Len(t, dtos, 2, "teachers are not part of the roster")
	assert.Equal(t, "andriy", dtos[0].Username, "ordered by username")
	assert.Equal(t, "olena", dtos[1].Username)

	// The roster is a teacher-only view.
	_, err = h.Handle(context.Background(), ListStudentsQuery{Identity: olena})
	assert.True(t, shared.IsForbidden(err))
}
