package query

import (
	"context"

	"github.com/school-diary/diary-backend/internal/application/access"
	"github.com/school-diary/diary-backend/internal/domain/shared"
	"github.com/school-diary/diary-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PROFILE QUERY
// Returns the acting user's own account and profile. Never anyone else's.
// ══════════════════════════════════════════════════════════════════════════════

// GetProfileQuery asks for the acting user's profile.
type GetProfileQuery struct {
	Identity shared.Identity
}

// GetProfileResult is the combined account and profile view.
type GetProfileResult struct {
	User    UserDTO    `json:"user"`
	Profile ProfileDTO `json:"profile"`
}

// GetProfileHandler handles the GetProfileQuery.
type GetProfileHandler struct {
	userRepo user.Repository
}

// NewGetProfileHandler creates a GetProfileHandler.
func NewGetProfileHandler(userRepo user.Repository) *GetProfileHandler {
	return &GetProfileHandler{userRepo: userRepo}
}

// Handle returns the acting user's account and profile.
// Returns shared.ErrProfileNotFound if the user has no profile.
func (h *GetProfileHandler) Handle(ctx context.Context, q GetProfileQuery) (*GetProfileResult, error) {
	if err := access.Check(q.Identity, access.EntityProfile, access.ActionRead); err != nil {
		return nil, err
	}

	u, err := h.userRepo.GetByID(ctx, q.Identity.UserID)
	if err != nil {
		return nil, err
	}
	p, err := h.userRepo.GetProfile(ctx, q.Identity.UserID)
	if err != nil {
		return nil, err
	}

	return &GetProfileResult{
		User:    NewUserDTO(u),
		Profile: NewProfileDTO(p),
	}, nil
}
