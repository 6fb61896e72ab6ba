package lesson

import "context"

// Repository defines persistence operations for lessons.
// Implementations live in infrastructure/persistence.
type Repository interface {
	// Create creates a new lesson.
	// Returns shared.ErrLessonExists on a name collision.
	Create(ctx context.Context, l *Lesson) error

	// GetByID returns a lesson by ID.
	// Returns shared.ErrLessonNotFound if the lesson does not exist.
	GetByID(ctx context.Context, id string) (*Lesson, error)

	// ListByTeacher returns the lessons owned by a teacher, ordered by name
	// ascending.
	ListByTeacher(ctx context.Context, teacherID string) ([]*Lesson, error)

	// ListAll returns every lesson, ordered by name ascending.
	// Used by the query layer in single-tenant mode.
	ListAll(ctx context.Context) ([]*Lesson, error)

	// Update updates a lesson.
	// Returns shared.ErrLessonNotFound if the lesson does not exist and
	// shared.ErrLessonExists on a name collision.
	Update(ctx context.Context, l *Lesson) error

	// Delete removes a lesson; dependent schedules, marks and home tasks are
	// removed by cascade.
	// Returns shared.ErrLessonNotFound if the lesson does not exist.
	Delete(ctx context.Context, id string) error
}
