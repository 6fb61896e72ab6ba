package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/school-diary/diary-backend/internal/application/access"
	"github.com/school-diary/diary-backend/internal/domain/gradebook"
	"github.com/school-diary/diary-backend/internal/domain/shared"
	"github.com/school-diary/diary-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// HOME TASK COMMANDS
// Home tasks are free-text assignments attached to a schedule slot. Any number
// may exist per schedule; ownership follows the schedule's lesson.
// ══════════════════════════════════════════════════════════════════════════════

// CreateHomeTaskCommand contains the data to assign a home task.
type CreateHomeTaskCommand struct {
	Identity    shared.Identity
	ScheduleID  string
	Description string
}

// UpdateHomeTaskCommand replaces the description of a home task.
type UpdateHomeTaskCommand struct {
	Identity    shared.Identity
	HomeTaskID  string
	Description string
}

// DeleteHomeTaskCommand removes a home task.
type DeleteHomeTaskCommand struct {
	Identity   shared.Identity
	HomeTaskID string
}

// CreateHomeTaskHandler handles the CreateHomeTaskCommand.
type CreateHomeTaskHandler struct {
	taskRepo  gradebook.HomeTaskRepository
	validator *WriteValidator
	views     ViewInvalidator
	clock     timeutil.Clock
}

// NewCreateHomeTaskHandler creates a CreateHomeTaskHandler.
func NewCreateHomeTaskHandler(taskRepo gradebook.HomeTaskRepository, validator *WriteValidator, views ViewInvalidator, clock timeutil.Clock) *CreateHomeTaskHandler {
	return &CreateHomeTaskHandler{taskRepo: taskRepo, validator: validator, views: views, clock: clock}
}

// Handle assigns a home task on a schedule the acting teacher owns.
func (h *CreateHomeTaskHandler) Handle(ctx context.Context, cmd CreateHomeTaskCommand) (*gradebook.HomeTask, error) {
	if err := access.Check(cmd.Identity, access.EntityHomeTask, access.ActionCreate); err != nil {
		return nil, err
	}

	if _, err := h.validator.ScheduleOwned(ctx, cmd.ScheduleID, cmd.Identity); err != nil {
		return nil, err
	}

	t, err := gradebook.NewHomeTask(uuid.New().String(), cmd.ScheduleID, cmd.Description, h.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := h.taskRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	_ = h.views.Invalidate(ctx)
	return t, nil
}

// UpdateHomeTaskHandler handles the UpdateHomeTaskCommand.
type UpdateHomeTaskHandler struct {
	taskRepo  gradebook.HomeTaskRepository
	validator *WriteValidator
	views     ViewInvalidator
	clock     timeutil.Clock
}

// NewUpdateHomeTaskHandler creates an UpdateHomeTaskHandler.
func NewUpdateHomeTaskHandler(taskRepo gradebook.HomeTaskRepository, validator *WriteValidator, views ViewInvalidator, clock timeutil.Clock) *UpdateHomeTaskHandler {
	return &UpdateHomeTaskHandler{taskRepo: taskRepo, validator: validator, views: views, clock: clock}
}

// Handle replaces the description of a home task after the ownership check.
func (h *UpdateHomeTaskHandler) Handle(ctx context.Context, cmd UpdateHomeTaskCommand) (*gradebook.HomeTask, error) {
	if err := access.Check(cmd.Identity, access.EntityHomeTask, access.ActionUpdate); err != nil {
		return nil, err
	}

	t, err := h.taskRepo.GetByID(ctx, cmd.HomeTaskID)
	if err != nil {
		return nil, err
	}
	if _, err := h.validator.ScheduleOwned(ctx, t.ScheduleID, cmd.Identity); err != nil {
		return nil, err
	}

	if err := t.Edit(cmd.Description, h.clock.Now()); err != nil {
		return nil, err
	}

	if err := h.taskRepo.Update(ctx, t); err != nil {
		return nil, err
	}

	_ = h.views.Invalidate(ctx)
	return t, nil
}

// DeleteHomeTaskHandler handles the DeleteHomeTaskCommand.
type DeleteHomeTaskHandler struct {
	taskRepo  gradebook.HomeTaskRepository
	validator *WriteValidator
	views     ViewInvalidator
}

// NewDeleteHomeTaskHandler creates a DeleteHomeTaskHandler.
func NewDeleteHomeTaskHandler(taskRepo gradebook.HomeTaskRepository, validator *WriteValidator, views ViewInvalidator) *DeleteHomeTaskHandler {
	return &DeleteHomeTaskHandler{taskRepo: taskRepo, validator: validator, views: views}
}

// Handle removes a home task after the ownership check.
func (h *DeleteHomeTaskHandler) Handle(ctx context.Context, cmd DeleteHomeTaskCommand) error {
	if err := access.Check(cmd.Identity, access.EntityHomeTask, access.ActionDelete); err != nil {
		return err
	}

	t, err := h.taskRepo.GetByID(ctx, cmd.HomeTaskID)
	if err != nil {
		return err
	}
	if _, err := h.validator.ScheduleOwned(ctx, t.ScheduleID, cmd.Identity); err != nil {
		return err
	}

	if err := h.taskRepo.Delete(ctx, cmd.HomeTaskID); err != nil {
		return err
	}

	_ = h.views.Invalidate(ctx)
	return nil
}
