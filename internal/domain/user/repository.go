package user

import (
	"context"

	"github.com/school-diary/diary-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Implementations live in infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines persistence operations for users and profiles.
type Repository interface {
	// CreateWithProfile creates a user and its profile atomically.
	// Returns shared.ErrUserAlreadyExists on a username or email collision.
	CreateWithProfile(ctx context.Context, u *User, p *Profile) error

	// GetByID returns a user by internal ID.
	// Returns shared.ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByUsername returns a user by username.
	// Returns shared.ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username Username) (*User, error)

	// GetProfile returns the profile of a user.
	// Returns shared.ErrProfileNotFound if the user has no profile yet.
	GetProfile(ctx context.Context, userID string) (*Profile, error)

	// UpdateProfile updates the mutable fields of a profile.
	// Returns shared.ErrProfileNotFound if the profile does not exist.
	UpdateProfile(ctx context.Context, p *Profile) error

	// ListByRole returns all users holding the given role, ordered by
	// username ascending.
	ListByRole(ctx context.Context, role shared.Role) ([]*User, error)

	// Delete removes a user; the profile and all marks referencing the user
	// are removed by cascade.
	// Returns shared.ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id string) error
}
