package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/school-diary/diary-backend/internal/application/access"
	"github.com/school-diary/diary-backend/internal/domain/shared"
	"github.com/school-diary/diary-backend/internal/domain/timetable"
	"github.com/school-diary/diary-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULE COMMANDS
// A schedule occupies one (date, period) slot. Writes run the slot conflict
// check against current store state, excluding the record being updated; the
// store's unique constraint settles concurrent writers, first writer wins.
// ══════════════════════════════════════════════════════════════════════════════

// CreateScheduleCommand contains the data to create a schedule entry.
type CreateScheduleCommand struct {
	Identity shared.Identity
	LessonID string
	PeriodID string
	Date     string // YYYY-MM-DD
}

// UpdateScheduleCommand moves a schedule to a different lesson, period or date.
type UpdateScheduleCommand struct {
	Identity   shared.Identity
	ScheduleID string
	LessonID   string
	PeriodID   string
	Date       string // YYYY-MM-DD
}

// DeleteScheduleCommand removes a schedule entry.
type DeleteScheduleCommand struct {
	Identity   shared.Identity
	ScheduleID string
}

// CreateScheduleHandler handles the CreateScheduleCommand.
type CreateScheduleHandler struct {
	scheduleRepo timetable.ScheduleRepository
	periodRepo   timetable.PeriodRepository
	validator    *WriteValidator
	views        ViewInvalidator
	clock        timeutil.Clock
}

// NewCreateScheduleHandler creates a CreateScheduleHandler.
func NewCreateScheduleHandler(
	scheduleRepo timetable.ScheduleRepository,
	periodRepo timetable.PeriodRepository,
	validator *WriteValidator,
	views ViewInvalidator,
	clock timeutil.Clock,
) *CreateScheduleHandler {
	return &CreateScheduleHandler{
		scheduleRepo: scheduleRepo,
		periodRepo:   periodRepo,
		validator:    validator,
		views:        views,
		clock:        clock,
	}
}

// Handle creates a schedule entry after the ownership and slot checks.
// Returns shared.ErrSlotTaken if the (date, period) slot is occupied.
func (h *CreateScheduleHandler) Handle(ctx context.Context, cmd CreateScheduleCommand) (*timetable.Schedule, error) {
	if err := access.Check(cmd.Identity, access.EntitySchedule, access.ActionCreate); err != nil {
		return nil, err
	}

	date, err := timetable.ParseDate(cmd.Date)
	if err != nil {
		return nil, err
	}

	if _, err := h.validator.LessonOwned(ctx, cmd.LessonID, cmd.Identity); err != nil {
		return nil, err
	}
	if _, err := h.periodRepo.GetByID(ctx, cmd.PeriodID); err != nil {
		return nil, err
	}
	if err := h.validator.SlotFree(ctx, date, cmd.PeriodID, ""); err != nil {
		return nil, err
	}

	s, err := timetable.NewSchedule(uuid.New().String(), cmd.LessonID, cmd.PeriodID, date, h.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := h.scheduleRepo.Create(ctx, s); err != nil {
		return nil, err
	}

	_ = h.views.Invalidate(ctx)
	return s, nil
}

// UpdateScheduleHandler handles the UpdateScheduleCommand.
type UpdateScheduleHandler struct {
	scheduleRepo timetable.ScheduleRepository
	periodRepo   timetable.PeriodRepository
	validator    *WriteValidator
	views        ViewInvalidator
	clock        timeutil.Clock
}

// NewUpdateScheduleHandler creates an UpdateScheduleHandler.
func NewUpdateScheduleHandler(
	scheduleRepo timetable.ScheduleRepository,
	periodRepo timetable.PeriodRepository,
	validator *WriteValidator,
	views ViewInvalidator,
	clock timeutil.Clock,
) *UpdateScheduleHandler {
	return &UpdateScheduleHandler{
		scheduleRepo: scheduleRepo,
		periodRepo:   periodRepo,
		validator:    validator,
		views:        views,
		clock:        clock,
	}
}

// Handle moves a schedule. The slot check excludes the schedule itself, so
// updates that keep the same (date, period) do not conflict with their own
// row. Ownership of both the current and the target lesson is required.
func (h *UpdateScheduleHandler) Handle(ctx context.Context, cmd UpdateScheduleCommand) (*timetable.Schedule, error) {
	if err := access.Check(cmd.Identity, access.EntitySchedule, access.ActionUpdate); err != nil {
		return nil, err
	}

	date, err := timetable.ParseDate(cmd.Date)
	if err != nil {
		return nil, err
	}

	s, err := h.validator.ScheduleOwned(ctx, cmd.ScheduleID, cmd.Identity)
	if err != nil {
		return nil, err
	}

	if cmd.LessonID != s.LessonID {
		if _, err := h.validator.LessonOwned(ctx, cmd.LessonID, cmd.Identity); err != nil {
			return nil, err
		}
	}
	if cmd.PeriodID != s.PeriodID {
		if _, err := h.periodRepo.GetByID(ctx, cmd.PeriodID); err != nil {
			return nil, err
		}
	}
	if err := h.validator.SlotFree(ctx, date, cmd.PeriodID, s.ID); err != nil {
		return nil, err
	}

	if err := s.Reslot(cmd.LessonID, cmd.PeriodID, date, h.clock.Now()); err != nil {
		return nil, err
	}

	if err := h.scheduleRepo.Update(ctx, s); err != nil {
		return nil, err
	}

	_ = h.views.Invalidate(ctx)
	return s, nil
}

// DeleteScheduleHandler handles the DeleteScheduleCommand.
type DeleteScheduleHandler struct {
	scheduleRepo timetable.ScheduleRepository
	validator    *WriteValidator
	views        ViewInvalidator
}

// NewDeleteScheduleHandler creates a DeleteScheduleHandler.
func NewDeleteScheduleHandler(scheduleRepo timetable.ScheduleRepository, validator *WriteValidator, views ViewInvalidator) *DeleteScheduleHandler {
	return &DeleteScheduleHandler{scheduleRepo: scheduleRepo, validator: validator, views: views}
}

// Handle removes a schedule after the ownership check. Marks and home tasks
// on the schedule are removed by cascade.
func (h *DeleteScheduleHandler) Handle(ctx context.Context, cmd DeleteScheduleCommand) error {
	if err := access.Check(cmd.Identity, access.EntitySchedule, access.ActionDelete); err != nil {
		return err
	}

	if _, err := h.validator.ScheduleOwned(ctx, cmd.ScheduleID, cmd.Identity); err != nil {
		return err
	}

	if err := h.scheduleRepo.Delete(ctx, cmd.ScheduleID); err != nil {
		return err
	}

	_ = h.views.Invalidate(ctx)
	return nil
}
