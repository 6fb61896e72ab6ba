package command

import (
	"context"
	"time"

	"github.com/school-diary/diary-backend/internal/domain/shared"
	"github.com/school-diary/diary-backend/internal/domain/user"
	"github.com/school-diary/diary-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOGIN COMMAND
// Exchanges credentials for an access token. The token carries the role from
// the user's profile; users without a profile get a token with no role claim
// and no diary data visible.
// ══════════════════════════════════════════════════════════════════════════════

// TokenIssuer issues signed access tokens. Implemented by the auth layer.
type TokenIssuer interface {
	Issue(userID string, role shared.Role, now time.Time) (string, error)
}

// LoginCommand contains login credentials.
type LoginCommand struct {
	Username string
	Password string
}

// Validate validates the command.
func (c LoginCommand) Validate() error {
	if c.Username == "" || c.Password == "" {
		return shared.NewDomainError("command", "Login", shared.ErrValidation, "username and password are required")
	}
	return nil
}

// LoginResult contains the issued token and the authenticated identity.
type LoginResult struct {
	Token  string
	UserID string
	Role   shared.Role
}

// LoginHandler handles the LoginCommand.
type LoginHandler struct {
	userRepo user.Repository
	hasher   PasswordHasher
	tokens   TokenIssuer
	clock    timeutil.Clock
}

// NewLoginHandler creates a LoginHandler.
func NewLoginHandler(userRepo user.Repository, hasher PasswordHasher, tokens TokenIssuer, clock timeutil.Clock) *LoginHandler {
	return &LoginHandler{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		clock:    clock,
	}
}

// Handle executes the login command. Unknown usernames and wrong passwords
// both map to shared.ErrBadCredentials so the response does not reveal which
// part was wrong.
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	u, err := h.userRepo.GetByUsername(ctx, user.Username(cmd.Username))
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.ErrBadCredentials
		}
		return nil, err
	}

	if !h.hasher.Compare(u.PasswordHash, cmd.Password) {
		return nil, shared.ErrBadCredentials
	}

	role := shared.RoleNone
	profile, err := h.userRepo.GetProfile(ctx, u.ID)
	switch {
	case err == nil:
		role = profile.Role
	case shared.IsNotFound(err):
		// No profile yet: issue a token without a role claim.
	default:
		return nil, err
	}

	token, err := h.tokens.Issue(u.ID, role, h.clock.Now())
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, UserID: u.ID, Role: role}, nil
}
