package query

import (
	"context"

	"github.com/school-diary/diary-backend/internal/application/access"
	"github.com/school-diary/diary-backend/internal/domain/shared"
	"github.com/school-diary/diary-backend/internal/domain/timetable"
)

// ══════════════════════════════════════════════════════════════════════════════
// TEACHER SCHEDULE QUERIES
// A teacher's timetable: schedules under the teacher's own lessons, ordered
// by date then period number. The listing is always per-teacher; the single
// versus multi tenant switch only affects who may modify a row, not whose
// timetable a listing shows.
// ══════════════════════════════════════════════════════════════════════════════

// ListSchedulesQuery asks for the acting teacher's timetable.
type ListSchedulesQuery struct {
	Identity shared.Identity
}

// GetScheduleQuery asks for one schedule by ID.
type GetScheduleQuery struct {
	Identity   shared.Identity
	ScheduleID string
}

// ListSchedulesHandler handles the ListSchedulesQuery.
type ListSchedulesHandler struct {
	scheduleRepo timetable.ScheduleRepository
}

// NewListSchedulesHandler creates a ListSchedulesHandler.
func NewListSchedulesHandler(scheduleRepo timetable.ScheduleRepository) *ListSchedulesHandler {
	return &ListSchedulesHandler{scheduleRepo: scheduleRepo}
}

// Handle lists the acting teacher's schedules ordered by date ascending then
// period number ascending.
func (h *ListSchedulesHandler) Handle(ctx context.Context, q ListSchedulesQuery) ([]ScheduleDTO, error) {
	if err := access.Check(q.Identity, access.EntitySchedule, access.ActionList); err != nil {
		return nil, err
	}

	details, err := h.scheduleRepo.ListByTeacher(ctx, q.Identity.UserID)
	if err != nil {
		return nil, err
	}

	dtos := make([]ScheduleDTO, 0, len(details))
	for _, d := range details {
		dtos = append(dtos, NewScheduleDTO(d))
	}
	return dtos, nil
}

// GetScheduleHandler handles the GetScheduleQuery.
type GetScheduleHandler struct {
	scheduleRepo     timetable.ScheduleRepository
	enforceOwnership bool
}

// NewGetScheduleHandler creates a GetScheduleHandler.
func NewGetScheduleHandler(scheduleRepo timetable.ScheduleRepository, enforceOwnership bool) *GetScheduleHandler {
	return &GetScheduleHandler{scheduleRepo: scheduleRepo, enforceOwnership: enforceOwnership}
}

// Handle returns one schedule with its lesson and period. With ownership
// enforced, another teacher's schedule is reported as not found.
func (h *GetScheduleHandler) Handle(ctx context.Context, q GetScheduleQuery) (*ScheduleDTO, error) {
	if err := access.Check(q.Identity, access.EntitySchedule, access.ActionRead); err != nil {
		return nil, err
	}

	d, err := h.scheduleRepo.GetDetail(ctx, q.ScheduleID)
	if err != nil {
		return nil, err
	}
	if h.enforceOwnership && d.TeacherID != q.Identity.UserID {
		return nil, shared.ErrScheduleNotFound
	}

	dto := NewScheduleDTO(d)
	return &dto, nil
}
