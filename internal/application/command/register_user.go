package command

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/school-diary/diary-backend/internal/domain/shared"
	"github.com/school-diary/diary-backend/internal/domain/user"
	"github.com/school-diary/diary-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER USER COMMAND
// Registration is open: anyone may create a user with either diary role. The
// user and its profile are written atomically so no user ever exists without
// a role.
// ══════════════════════════════════════════════════════════════════════════════

// PasswordHasher hashes and verifies passwords. Implemented by the auth layer.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// RegisterUserCommand contains the data to register a user with a profile.
type RegisterUserCommand struct {
	// Username is the unique login name.
	Username string

	// Email is the unique contact email.
	Email string

	// Password is the plaintext password, hashed before storage.
	Password string

	// Role is the diary role: "student" or "teacher".
	Role string

	// DateOfBirth is optional.
	DateOfBirth *time.Time

	// Address is optional free text.
	Address string
}

// Validate validates the command.
func (c RegisterUserCommand) Validate() error {
	if !user.Username(c.Username).IsValid() {
		return shared.NewDomainError("command", "RegisterUser", shared.ErrValidation, "invalid username")
	}
	if !user.Email(c.Email).IsValid() {
		return shared.NewDomainError("command", "RegisterUser", shared.ErrValidation, "invalid email")
	}
	if len(c.Password) < 8 {
		return shared.NewDomainError("command", "RegisterUser", shared.ErrValidation, "password must be at least 8 characters")
	}
	if !shared.ParseRole(c.Role).IsValid() {
		return shared.ErrInvalidRole
	}
	return nil
}

// RegisterUserResult contains the registered user and profile.
type RegisterUserResult struct {
	User    *user.User
	Profile *user.Profile
}

// RegisterUserHandler handles the RegisterUserCommand.
type RegisterUserHandler struct {
	userRepo user.Repository
	hasher   PasswordHasher
	clock    timeutil.Clock
}

// NewRegisterUserHandler creates a RegisterUserHandler.
func NewRegisterUserHandler(userRepo user.Repository, hasher PasswordHasher, clock timeutil.Clock) *RegisterUserHandler {
	return &RegisterUserHandler{
		userRepo: userRepo,
		hasher:   hasher,
		clock:    clock,
	}
}

// Handle executes the register user command.
// Returns shared.ErrUserAlreadyExists on a username or email collision.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*RegisterUserResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.clock.Now()

	hash, err := h.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, shared.WrapError("command", "RegisterUser", shared.ErrValidation, "failed to hash password", err)
	}

	u, err := user.NewUser(uuid.New().String(), user.Username(cmd.Username), user.Email(cmd.Email), hash, now)
	if err != nil {
		return nil, err
	}

	p, err := user.NewProfile(u.ID, shared.ParseRole(cmd.Role), cmd.DateOfBirth, cmd.Address, now)
	if err != nil {
		return nil, err
	}

	if err := h.userRepo.CreateWithProfile(ctx, u, p); err != nil {
		return nil, err
	}

	return &RegisterUserResult{User: u, Profile: p}, nil
}
