// Package user contains the user and profile domain model.
// A user is the authentication identity; the profile attaches the diary role
// (student or teacher) plus optional personal details.
package user

import (
	"strings"
	"time"

	"github.com/school-diary/diary-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Username is the unique login name of a user.
type Username string

// IsValid checks the username is non-empty, short enough and has no spaces.
func (u Username) IsValid() bool {
	s := string(u)
	return len(s) >= 2 && len(s) <= 150 && !strings.ContainsAny(s, " \t\n\r")
}

// String returns the string representation of the username.
func (u Username) String() string {
	return string(u)
}

// Email is the contact email of a user. Only a shallow shape check is done
// here; deliverability is not a domain concern.
type Email string

// IsValid checks the email has a plausible shape.
func (e Email) IsValid() bool {
	s := string(e)
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t\n\r")
}

// String returns the string representation of the email.
func (e Email) String() string {
	return string(e)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// User is the authentication identity. It has exactly one Profile, created at
// registration time and removed by cascade when the user is deleted.
type User struct {
	// ID is the internal unique identifier (UUID).
	ID string

	// Username is the unique login name.
	Username Username

	// Email is the unique contact email.
	Email Email

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is when the user registered.
	CreatedAt time.Time

	// UpdatedAt is when the user was last modified.
	UpdatedAt time.Time
}

// Profile carries the diary role and optional personal details.
// One-to-one with User, never independently deleted.
type Profile struct {
	// UserID links the profile to its user.
	UserID string

	// Role is the diary role: student or teacher.
	Role shared.Role

	// DateOfBirth is optional.
	DateOfBirth *time.Time

	// Address is optional free text.
	Address string

	// CreatedAt is when the profile was created (registration time).
	CreatedAt time.Time
}

// NewUser creates a user with validated username and email.
// The password hash is produced by the auth layer, not here.
func NewUser(id string, username Username, email Email, passwordHash string, now time.Time) (*User, error) {
	if id == "" {
		return nil, shared.NewDomainError("user", "New", shared.ErrValidation, "id is required")
	}
	if !username.IsValid() {
		return nil, shared.NewDomainError("user", "New", shared.ErrValidation, "invalid username")
	}
	if !email.IsValid() {
		return nil, shared.NewDomainError("user", "New", shared.ErrValidation, "invalid email")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("user", "New", shared.ErrValidation, "password hash is required")
	}

	return &User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// NewProfile creates a profile for a user with a validated role.
func NewProfile(userID string, role shared.Role, dateOfBirth *time.Time, address string, now time.Time) (*Profile, error) {
	if userID == "" {
		return nil, shared.NewDomainError("user", "NewProfile", shared.ErrValidation, "user id is required")
	}
	if !role.IsValid() {
		return nil, shared.ErrInvalidRole
	}

	return &Profile{
		UserID:      userID,
		Role:        role,
		DateOfBirth: dateOfBirth,
		Address:     address,
		CreatedAt:   now,
	}, nil
}
