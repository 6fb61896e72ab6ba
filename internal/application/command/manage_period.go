package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/school-diary/diary-backend/internal/application/access"
	"github.com/school-diary/diary-backend/internal/domain/shared"
	"github.com/school-diary/diary-backend/internal/domain/timetable"
)

// ══════════════════════════════════════════════════════════════════════════════
// PERIOD COMMAND
// Periods are the fixed grid of the school day, provisioned once by a teacher
// and then only read. There is no update or delete path; a wrong period is
// fixed by recreating the grid before any schedules reference it.
// ══════════════════════════════════════════════════════════════════════════════

// CreatePeriodCommand contains the data to create a period.
type CreatePeriodCommand struct {
	Identity  shared.Identity
	Number    int
	StartTime string // HH:MM:SS
	EndTime   string // HH:MM:SS
}

// CreatePeriodHandler handles the CreatePeriodCommand.
type CreatePeriodHandler struct {
	periodRepo timetable.PeriodRepository
	views      ViewInvalidator
}

// NewCreatePeriodHandler creates a CreatePeriodHandler.
func NewCreatePeriodHandler(periodRepo timetable.PeriodRepository, views ViewInvalidator) *CreatePeriodHandler {
	return &CreatePeriodHandler{periodRepo: periodRepo, views: views}
}

// Handle creates a period.
// Returns shared.ErrPeriodExists on a number collision.
func (h *CreatePeriodHandler) Handle(ctx context.Context, cmd CreatePeriodCommand) (*timetable.Period, error) {
	if err := access.Check(cmd.Identity, access.EntityPeriod, access.ActionCreate); err != nil {
		return nil, err
	}

	p, err := timetable.NewPeriod(uuid.New().String(), timetable.PeriodNumber(cmd.Number), cmd.StartTime, cmd.EndTime)
	if err != nil {
		return nil, err
	}

	if err := h.periodRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	_ = h.views.Invalidate(ctx)
	return p, nil
}
