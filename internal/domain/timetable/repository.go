package timetable

import "context"

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Implementations live in infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// PeriodRepository defines persistence operations for periods.
type PeriodRepository interface {
	// Create creates a new period.
	// Returns shared.ErrPeriodExists on a number collision.
	Create(ctx context.Context, p *Period) error

	// GetByID returns a period by ID.
	// Returns shared.ErrPeriodNotFound if the period does not exist.
	GetByID(ctx context.Context, id string) (*Period, error)

	// ListAll returns every period ordered by number ascending.
	ListAll(ctx context.Context) ([]*Period, error)
}

// ScheduleRepository defines persistence operations for schedules.
type ScheduleRepository interface {
	// Create creates a new schedule entry.
	// Returns shared.ErrSlotTaken if the (date, period) slot is already
	// occupied - the store's unique constraint backs the pre-check.
	Create(ctx context.Context, s *Schedule) error

	// GetByID returns a schedule by ID.
	// Returns shared.ErrScheduleNotFound if the schedule does not exist.
	GetByID(ctx context.Context, id string) (*Schedule, error)

	// GetDetail returns a schedule joined with its lesson and period.
	// Returns shared.ErrScheduleNotFound if the schedule does not exist.
	GetDetail(ctx context.Context, id string) (*ScheduleDetail, error)

	// ExistsAt reports whether a schedule occupies the (date, period) slot,
	// excluding the given schedule ID (pass "" on create).
	ExistsAt(ctx context.Context, date Date, periodID string, excludeID string) (bool, error)

	// ListByTeacher returns schedules of lessons owned by a teacher, ordered
	// by date ascending then period number ascending.
	ListByTeacher(ctx context.Context, teacherID string) ([]*ScheduleDetail, error)

	// ListByDateForStudent returns the schedules on a date whose lesson the
	// student has at least one mark for, ordered by period number ascending.
	ListByDateForStudent(ctx context.Context, studentID string, date Date) ([]*ScheduleDetail, error)

	// Update updates a schedule entry.
	// Returns shared.ErrScheduleNotFound if the schedule does not exist and
	// shared.ErrSlotTaken if the new (date, period) slot is occupied.
	Update(ctx context.Context, s *Schedule) error

	// Delete removes a schedule; dependent marks and home tasks are removed
	// by cascade.
	// Returns shared.ErrScheduleNotFound if the schedule does not exist.
	Delete(ctx context.Context, id string) error
}
