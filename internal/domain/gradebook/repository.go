package gradebook

import (
	"context"

	"github.com/school-diary/diary-backend/internal/domain/timetable"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Implementations live in infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// MarkRepository defines persistence operations for marks.
type MarkRepository interface {
	// Create creates a new mark.
	// Returns shared.ErrDuplicateMark if the (schedule, student) pair is
	// already graded - the store's unique constraint is the single point of
	// enforcement, there is no separate pre-check.
	Create(ctx context.Context, m *Mark) error

	// GetByID returns a mark by ID.
	// Returns shared.ErrMarkNotFound if the mark does not exist.
	GetByID(ctx context.Context, id string) (*Mark, error)

	// FindForSchedule returns the student's mark on a specific schedule, or
	// nil if the student is ungraded there. "No mark" is a normal result,
	// not an error.
	FindForSchedule(ctx context.Context, scheduleID, studentID string) (*Mark, error)

	// ListByTeacher returns marks on schedules of lessons owned by a
	// teacher, ordered by schedule date ascending then lesson name ascending.
	ListByTeacher(ctx context.Context, teacherID string) ([]*MarkDetail, error)

	// ListByStudent returns the student's own marks, ordered by schedule
	// date ascending then lesson name ascending.
	ListByStudent(ctx context.Context, studentID string) ([]*MarkDetail, error)

	// Update updates a mark value.
	// Returns shared.ErrMarkNotFound if the mark does not exist.
	Update(ctx context.Context, m *Mark) error

	// Delete removes a mark.
	// Returns shared.ErrMarkNotFound if the mark does not exist.
	Delete(ctx context.Context, id string) error
}

// HomeTaskRepository defines persistence operations for home tasks.
type HomeTaskRepository interface {
	// Create creates a new home task.
	Create(ctx context.Context, h *HomeTask) error

	// GetByID returns a home task by ID.
	// Returns shared.ErrHomeTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id string) (*HomeTask, error)

	// ListByTeacher returns home tasks on schedules of lessons owned by a
	// teacher, ordered by schedule date ascending.
	ListByTeacher(ctx context.Context, teacherID string) ([]*HomeTaskDetail, error)

	// ListFromDate returns home tasks whose schedule date is on or after the
	// given date, ordered by schedule date ascending. This is the student
	// listing; home tasks are visible to every student.
	ListFromDate(ctx context.Context, from timetable.Date) ([]*HomeTaskDetail, error)

	// Update updates a home task description.
	// Returns shared.ErrHomeTaskNotFound if the task does not exist.
	Update(ctx context.Context, h *HomeTask) error

	// Delete removes a home task.
	// Returns shared.ErrHomeTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id string) error
}
