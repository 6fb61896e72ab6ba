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
// MARK COMMANDS
// A mark grades one student for one schedule slot. The (schedule, student)
// uniqueness is enforced only at the store constraint; the write path
// translates the violation to a conflict instead of pre-checking, so
// concurrent graders cannot slip a duplicate through.
// ══════════════════════════════════════════════════════════════════════════════

// CreateMarkCommand contains the data to grade a student.
type CreateMarkCommand struct {
	Identity   shared.Identity
	ScheduleID string
	StudentID  string
	Value      int
}

// UpdateMarkCommand changes a mark value through the explicit update path.
type UpdateMarkCommand struct {
	Identity shared.Identity
	MarkID   string
	Value    int
}

// DeleteMarkCommand removes a mark.
type DeleteMarkCommand struct {
	Identity shared.Identity
	MarkID   string
}

// CreateMarkHandler handles the CreateMarkCommand.
type CreateMarkHandler struct {
	markRepo  gradebook.MarkRepository
	validator *WriteValidator
	views     ViewInvalidator
	clock     timeutil.Clock
}

// NewCreateMarkHandler creates a CreateMarkHandler.
func NewCreateMarkHandler(markRepo gradebook.MarkRepository, validator *WriteValidator, views ViewInvalidator, clock timeutil.Clock) *CreateMarkHandler {
	return &CreateMarkHandler{markRepo: markRepo, validator: validator, views: views, clock: clock}
}

// Handle grades a student on a schedule the acting teacher owns.
// Returns shared.ErrNotAStudent if the referenced user is not a student and
// shared.ErrDuplicateMark if the pair is already graded.
func (h *CreateMarkHandler) Handle(ctx context.Context, cmd CreateMarkCommand) (*gradebook.Mark, error) {
	if err := access.Check(cmd.Identity, access.EntityMark, access.ActionCreate); err != nil {
		return nil, err
	}

	if _, err := h.validator.ScheduleOwned(ctx, cmd.ScheduleID, cmd.Identity); err != nil {
		return nil, err
	}
	if err := h.validator.StudentExists(ctx, cmd.StudentID); err != nil {
		return nil, err
	}

	m, err := gradebook.NewMark(uuid.New().String(), cmd.ScheduleID, cmd.StudentID, gradebook.Value(cmd.Value), h.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := h.markRepo.Create(ctx, m); err != nil {
		return nil, err
	}

	_ = h.views.Invalidate(ctx)
	return m, nil
}

// UpdateMarkHandler handles the UpdateMarkCommand.
type UpdateMarkHandler struct {
	markRepo  gradebook.MarkRepository
	validator *WriteValidator
	views     ViewInvalidator
	clock     timeutil.Clock
}

// NewUpdateMarkHandler creates an UpdateMarkHandler.
func NewUpdateMarkHandler(markRepo gradebook.MarkRepository, validator *WriteValidator, views ViewInvalidator, clock timeutil.Clock) *UpdateMarkHandler {
	return &UpdateMarkHandler{markRepo: markRepo, validator: validator, views: views, clock: clock}
}

// Handle regrades an existing mark. The schedule and student references stay
// fixed; changing the value is the only legal mutation.
func (h *UpdateMarkHandler) Handle(ctx context.Context, cmd UpdateMarkCommand) (*gradebook.Mark, error) {
	if err := access.Check(cmd.Identity, access.EntityMark, access.ActionUpdate); err != nil {
		return nil, err
	}

	m, err := h.markRepo.GetByID(ctx, cmd.MarkID)
	if err != nil {
		return nil, err
	}
	if _, err := h.validator.ScheduleOwned(ctx, m.ScheduleID, cmd.Identity); err != nil {
		return nil, err
	}

	if err := m.Regrade(gradebook.Value(cmd.Value), h.clock.Now()); err != nil {
		return nil, err
	}

	if err := h.markRepo.Update(ctx, m); err != nil {
		return nil, err
	}

	_ = h.views.Invalidate(ctx)
	return m, nil
}

// DeleteMarkHandler handles the DeleteMarkCommand.
type DeleteMarkHandler struct {
	markRepo  gradebook.MarkRepository
	validator *WriteValidator
	views     ViewInvalidator
}

// NewDeleteMarkHandler creates a DeleteMarkHandler.
func NewDeleteMarkHandler(markRepo gradebook.MarkRepository, validator *WriteValidator, views ViewInvalidator) *DeleteMarkHandler {
	return &DeleteMarkHandler{markRepo: markRepo, validator: validator, views: views}
}

// Handle removes a mark after the ownership check.
func (h *DeleteMarkHandler) Handle(ctx context.Context, cmd DeleteMarkCommand) error {
	if err := access.Check(cmd.Identity, access.EntityMark, access.ActionDelete); err != nil {
		return err
	}

	m, err := h.markRepo.GetByID(ctx, cmd.MarkID)
	if err != nil {
		return err
	}
	if _, err := h.validator.ScheduleOwned(ctx, m.ScheduleID, cmd.Identity); err != nil {
		return err
	}

	if err := h.markRepo.Delete(ctx, cmd.MarkID); err != nil {
		return err
	}

	_ = h.views.Invalidate(ctx)
	return nil
}
