package command

import (
	"context"
	"time"

	"github.com/school-diary/diary-backend/internal/application/access"
	"github.com/school-diary/diary-backend/internal/domain/shared"
	"github.com/school-diary/diary-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE PROFILE COMMAND
// A user may edit the personal details of their own profile. The role is
// fixed at registration; there is no path to switch between student and
// teacher.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateProfileCommand contains the editable profile fields.
type UpdateProfileCommand struct {
	Identity    shared.Identity
	DateOfBirth *time.Time
	Address     string
}

// UpdateProfileHandler handles the UpdateProfileCommand.
type UpdateProfileHandler struct {
	userRepo user.Repository
}

// NewUpdateProfileHandler creates an UpdateProfileHandler.
func NewUpdateProfileHandler(userRepo user.Repository) *UpdateProfileHandler {
	return &UpdateProfileHandler{userRepo: userRepo}
}

// Handle updates the acting user's own profile.
// Returns shared.ErrProfileNotFound if the user has no profile.
func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) (*user.Profile, error) {
	if err := access.Check(cmd.Identity, access.EntityProfile, access.ActionUpdate); err != nil {
		return nil, err
	}

	p, err := h.userRepo.GetProfile(ctx, cmd.Identity.UserID)
	if err != nil {
		return nil, err
	}

	p.DateOfBirth = cmd.DateOfBirth
	p.Address = cmd.Address

	if err := h.userRepo.UpdateProfile(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}
