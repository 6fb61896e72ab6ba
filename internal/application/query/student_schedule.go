package query

import (
	"context"

	"github.com/school-diary/diary-backend/internal/application/access"
	"github.com/school-diary/diary-backend/internal/domain/gradebook"
	"github.com/school-diary/diary-backend/internal/domain/shared"
	"github.com/school-diary/diary-backend/internal/domain/timetable"
	"github.com/school-diary/diary-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT DAY SCHEDULE QUERY
// The student's day view: the schedules on the target date for lessons the
// student has been graded in at least once, ordered by period number, each
// row annotated with the student's own mark on that slot. "No mark" is a
// normal null, not an error. This is the hottest read of the system and is
// served read-through from the cache; mark annotation runs after the cache
// so a cached view never pins a stale grade.
// ══════════════════════════════════════════════════════════════════════════════

// GetStudentScheduleQuery asks for the acting student's day view.
type GetStudentScheduleQuery struct {
	Identity shared.Identity

	// Date is an optional YYYY-MM-DD target; empty means today.
	Date string
}

// GetStudentScheduleHandler handles the GetStudentScheduleQuery.
type GetStudentScheduleHandler struct {
	scheduleRepo timetable.ScheduleRepository
	markRepo     gradebook.MarkRepository
	cache        TimetableCache
	clock        timeutil.Clock
}

// NewGetStudentScheduleHandler creates a GetStudentScheduleHandler.
func NewGetStudentScheduleHandler(
	scheduleRepo timetable.ScheduleRepository,
	markRepo gradebook.MarkRepository,
	cache TimetableCache,
	clock timeutil.Clock,
) *GetStudentScheduleHandler {
	return &GetStudentScheduleHandler{
		scheduleRepo: scheduleRepo,
		markRepo:     markRepo,
		cache:        cache,
		clock:        clock,
	}
}

// Handle returns the acting student's schedule rows for the target date,
// ordered by period number ascending, annotated with the student's own marks.
func (h *GetStudentScheduleHandler) Handle(ctx context.Context, q GetStudentScheduleQuery) ([]DayScheduleRowDTO, error) {
	if err := access.Check(q.Identity, access.EntitySchedule, access.ActionList); err != nil {
		return nil, err
	}

	date, err := parseTargetDate(q.Date, h.clock)
	if err != nil {
		return nil, err
	}

	details, hit := h.cache.GetDayView(ctx, q.Identity.UserID, date)
	if !hit {
		details, err = h.scheduleRepo.ListByDateForStudent(ctx, q.Identity.UserID, date)
		if err != nil {
			return nil, err
		}
		_ = h.cache.SetDayView(ctx, q.Identity.UserID, date, details)
	}

	rows := make([]DayScheduleRowDTO, 0, len(details))
	for _, d := range details {
		row := DayScheduleRowDTO{ScheduleDTO: NewScheduleDTO(d)}

		m, err := h.markRepo.FindForSchedule(ctx, d.Schedule.ID, q.Identity.UserID)
		if err != nil {
			return nil, err
		}
		if m != nil {
			value := int(m.Value)
			row.Mark = &value
		}

		rows = append(rows, row)
	}
	return rows, nil
}
