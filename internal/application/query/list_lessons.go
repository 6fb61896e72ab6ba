package query

import (
	"context"

	"github.com/school-diary/diary-backend/internal/application/access"
	"github.com/school-diary/diary-backend/internal/domain/lesson"
	"github.com/school-diary/diary-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LESSON QUERIES
// Teachers list and retrieve lessons. With ownership enforced the listing is
// scoped to the teacher's own lessons; in single-tenant deployments every
// lesson is a shared subject and the listing returns all of them.
// ══════════════════════════════════════════════════════════════════════════════

// ListLessonsQuery asks for the lessons visible to the acting teacher.
type ListLessonsQuery struct {
	Identity shared.Identity
}

// GetLessonQuery asks for one lesson by ID.
type GetLessonQuery struct {
	Identity shared.Identity
	LessonID string
}

// ListLessonsHandler handles the ListLessonsQuery.
type ListLessonsHandler struct {
	lessonRepo       lesson.Repository
	enforceOwnership bool
}

// NewListLessonsHandler creates a ListLessonsHandler.
func NewListLessonsHandler(lessonRepo lesson.Repository, enforceOwnership bool) *ListLessonsHandler {
	return &ListLessonsHandler{lessonRepo: lessonRepo, enforceOwnership: enforceOwnership}
}

// Handle lists lessons ordered by name ascending.
func (h *ListLessonsHandler) Handle(ctx context.Context, q ListLessonsQuery) ([]LessonDTO, error) {
	if err := access.Check(q.Identity, access.EntityLesson, access.ActionList); err != nil {
		return nil, err
	}

	var (
		lessons []*lesson.Lesson
		err     error
	)
	if h.enforceOwnership {
		lessons, err = h.lessonRepo.ListByTeacher(ctx, q.Identity.UserID)
	} else {
		lessons, err = h.lessonRepo.ListAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	dtos := make([]LessonDTO, 0, len(lessons))
	for _, l := range lessons {
		dtos = append(dtos, NewLessonDTO(l))
	}
	return dtos, nil
}

// GetLessonHandler handles the GetLessonQuery.
type GetLessonHandler struct {
	lessonRepo       lesson.Repository
	enforceOwnership bool
}

// NewGetLessonHandler creates a GetLessonHandler.
func NewGetLessonHandler(lessonRepo lesson.Repository, enforceOwnership bool) *GetLessonHandler {
	return &GetLessonHandler{lessonRepo: lessonRepo, enforceOwnership: enforceOwnership}
}

// Handle returns one lesson. With ownership enforced, a lesson of another
// teacher is reported as not found, the same as a filtered listing would.
func (h *GetLessonHandler) Handle(ctx context.Context, q GetLessonQuery) (*LessonDTO, error) {
	if err := access.Check(q.Identity, access.EntityLesson, access.ActionRead); err != nil {
		return nil, err
	}

	l, err := h.lessonRepo.GetByID(ctx, q.LessonID)
	if err != nil {
		return nil, err
	}
	if h.enforceOwnership && !l.OwnedBy(q.Identity.UserID) {
		return nil, shared.ErrLessonNotFound
	}

	dto := NewLessonDTO(l)
	return &dto, nil
}
