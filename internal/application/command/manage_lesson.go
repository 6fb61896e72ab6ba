package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/school-diary/diary-backend/internal/application/access"
	"github.com/school-diary/diary-backend/internal/domain/lesson"
	"github.com/school-diary/diary-backend/internal/domain/shared"
	"github.com/school-diary/diary-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// LESSON COMMANDS
// Lessons are created by and owned by teachers. Deleting a lesson cascades to
// its schedules, marks and home tasks in the store.
// ══════════════════════════════════════════════════════════════════════════════

// CreateLessonCommand contains the data to create a lesson.
type CreateLessonCommand struct {
	Identity shared.Identity
	Name     string
}

// UpdateLessonCommand renames a lesson.
type UpdateLessonCommand struct {
	Identity shared.Identity
	LessonID string
	Name     string
}

// DeleteLessonCommand removes a lesson and everything scheduled under it.
type DeleteLessonCommand struct {
	Identity shared.Identity
	LessonID string
}

// CreateLessonHandler handles the CreateLessonCommand.
type CreateLessonHandler struct {
	lessonRepo lesson.Repository
	views      ViewInvalidator
	clock      timeutil.Clock
}

// NewCreateLessonHandler creates a CreateLessonHandler.
func NewCreateLessonHandler(lessonRepo lesson.Repository, views ViewInvalidator, clock timeutil.Clock) *CreateLessonHandler {
	return &CreateLessonHandler{lessonRepo: lessonRepo, views: views, clock: clock}
}

// Handle creates a lesson owned by the acting teacher.
// Returns shared.ErrLessonExists on a name collision.
func (h *CreateLessonHandler) Handle(ctx context.Context, cmd CreateLessonCommand) (*lesson.Lesson, error) {
	if err := access.Check(cmd.Identity, access.EntityLesson, access.ActionCreate); err != nil {
		return nil, err
	}

	l, err := lesson.New(uuid.New().String(), lesson.Name(cmd.Name), cmd.Identity.UserID, h.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := h.lessonRepo.Create(ctx, l); err != nil {
		return nil, err
	}

	_ = h.views.Invalidate(ctx)
	return l, nil
}

// UpdateLessonHandler handles the UpdateLessonCommand.
type UpdateLessonHandler struct {
	lessonRepo lesson.Repository
	validator  *WriteValidator
	views      ViewInvalidator
	clock      timeutil.Clock
}

// NewUpdateLessonHandler creates an UpdateLessonHandler.
func NewUpdateLessonHandler(lessonRepo lesson.Repository, validator *WriteValidator, views ViewInvalidator, clock timeutil.Clock) *UpdateLessonHandler {
	return &UpdateLessonHandler{lessonRepo: lessonRepo, validator: validator, views: views, clock: clock}
}

// Handle renames a lesson after the ownership check.
func (h *UpdateLessonHandler) Handle(ctx context.Context, cmd UpdateLessonCommand) (*lesson.Lesson, error) {
	if err := access.Check(cmd.Identity, access.EntityLesson, access.ActionUpdate); err != nil {
		return nil, err
	}

	l, err := h.validator.LessonOwned(ctx, cmd.LessonID, cmd.Identity)
	if err != nil {
		return nil, err
	}

	if err := l.Rename(lesson.Name(cmd.Name), h.clock.Now()); err != nil {
		return nil, err
	}

	if err := h.lessonRepo.Update(ctx, l); err != nil {
		return nil, err
	}

	_ = h.views.Invalidate(ctx)
	return l, nil
}

// DeleteLessonHandler handles the DeleteLessonCommand.
type DeleteLessonHandler struct {
	lessonRepo lesson.Repository
	validator  *WriteValidator
	views      ViewInvalidator
}

// NewDeleteLessonHandler creates a DeleteLessonHandler.
func NewDeleteLessonHandler(lessonRepo lesson.Repository, validator *WriteValidator, views ViewInvalidator) *DeleteLessonHandler {
	return &DeleteLessonHandler{lessonRepo: lessonRepo, validator: validator, views: views}
}

// Handle removes a lesson after the ownership check. Schedules, marks and
// home tasks under the lesson are removed by cascade.
func (h *DeleteLessonHandler) Handle(ctx context.Context, cmd DeleteLessonCommand) error {
	if err := access.Check(cmd.Identity, access.EntityLesson, access.ActionDelete); err != nil {
		return err
	}

	if _, err := h.validator.LessonOwned(ctx, cmd.LessonID, cmd.Identity); err != nil {
		return err
	}

	if err := h.lessonRepo.Delete(ctx, cmd.LessonID); err != nil {
		return err
	}

	_ = h.views.Invalidate(ctx)
	return nil
}
