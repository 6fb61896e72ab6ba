package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-diary/diary-backend/internal/domain/shared"
)

func lessonsFixture() (*fakeUserRepo, *fakeLessonRepo, shared.Identity) {
	users := newFakeUserRepo()
	teacher := users.add("t1", "ivan", shared.RoleTeacher)
	users.add("t2", "petro", shared.RoleTeacher)

	lessons := newFakeLessonRepo()
	lessons.add("l1", "Mathematics", "t1")
	lessons.add("l2", "History", "t2")
	return users, lessons, teacher
}

func TestListLessonsScopedToOwner(t *testing.T) {
	_, lessons, teacher := lessonsFixture()
	h := NewListLessonsHandler(lessons, true)

	dtos, err := h.Handle(context.Background(), ListLessonsQuery{Identity: teacher})
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, "Mathematics", dtos[0].Name)
}

func TestListLessonsSingleTenant(t *testing.T) {
	_, lessons, teacher := lessonsFixture()
	h := NewListLessonsHandler(lessons, false)

	dtos, err := h.Handle(context.Background(), ListLessonsQuery{Identity: teacher})
	require.NoError(t, err)
	require.Len(t, dtos, 2)
	assert.Equal(t, "History", dtos[0].Name, "ordered by name")
}

func TestListLessonsForbiddenForStudent(t *testing.T) {
	users, lessons, _ := lessonsFixture()
	student := users.add("s1", "olena", shared.RoleStudent)
	h := NewListLessonsHandler(lessons, true)

	_, err := h.Handle(context.Background(), ListLessonsQuery{Identity: student})
	assert.True(t, shared.IsForbidden(err))
}

func TestGetLessonHidesForeignLesson(t *testing.T) {
	_, lessons, teacher := lessonsFixture()
	h := NewGetLessonHandler(lessons, true)

	dto, err := h.Handle(context.Background(), GetLessonQuery{Identity: teacher, LessonID: "l1"})
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", dto.Name)

	// Another teacher's lesson looks exactly like a missing one.
	_, err = h.Handle(context.Background(), GetLessonQuery{Identity: teacher, LessonID: "l2"})
	assert.True(t, shared.IsNotFound(err))

	_, err = h.Handle(context.Background(), GetLessonQuery{Identity: teacher, LessonID: "missing"})
	assert.True(t, shared.IsNotFound(err))
}

func TestGetLessonSingleTenant(t *testing.T) {
	_, lessons, teacher := lessonsFixture()
	h := NewGetLessonHandler(lessons, false)

	dto, err := h.Handle(context.Background(), GetLessonQuery{Identity: teacher, LessonID: "l2"})
	require.NoError(t, err)
	assert.Equal(t, "History", dto.Name)
}
