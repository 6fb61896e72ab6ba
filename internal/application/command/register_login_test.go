package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-diary/diary-backend/internal/domain/shared"
)

func TestRegisterUser(t *testing.T) {
	f := newFixture(true)
	h := NewRegisterUserHandler(f.users, stubHasher{}, f.clock)

	res, err := h.Handle(context.Background(), RegisterUserCommand{
		Username: "olena",
		Email:    "olena@school.ua",
		Password: "secret123",
		Role:     "student",
		Address:  "Kyiv",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.User.ID)
	assert.Equal(t, "hashed:secret123", res.User.PasswordHash)
	assert.Equal(t, shared.RoleStudent, res.Profile.Role)
	assert.Equal(t, res.User.ID, res.Profile.UserID)
}

func TestRegisterUserValidation(t *testing.T) {
	f := newFixture(true)
	h := NewRegisterUserHandler(f.users, stubHasher{}, f.clock)

	cases := []struct {
		name string
		cmd  RegisterUserCommand
	}{
		{"short password", RegisterUserCommand{Username: "olena", Email: "o@x.ua", Password: "short", Role: "student"}},
		{"bad username", RegisterUserCommand{Username: "a", Email: "o@x.ua", Password: "secret123", Role: "student"}},
		{"bad email", RegisterUserCommand{Username: "olena", Email: "not-an-email", Password: "secret123", Role: "student"}},
		{"unknown role", RegisterUserCommand{Username: "olena", Email: "o@x.ua", Password: "secret123", Role: "admin"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.Handle(context.Background(), tc.cmd)
			assert.True(t, shared.IsValidation(err))
		})
	}
}

func TestRegisterUserDuplicate(t *testing.T) {
	f := newFixture(true)
	h := NewRegisterUserHandler(f.users, stubHasher{}, f.clock)

	cmd := RegisterUserCommand{Username: "olena", Email: "olena@school.ua", Password: "secret123", Role: "student"}
	_, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)

	_, err = h.Handle(context.Background(), cmd)
	assert.True(t, shared.IsConflict(err))
}

func TestLogin(t *testing.T) {
	f := newFixture(true)
	f.addUser("t1", "ivan", shared.RoleTeacher)
	h := NewLoginHandler(f.users, stubHasher{}, stubTokenIssuer{}, f.clock)

	res, err := h.Handle(context.Background(), LoginCommand{Username: "ivan", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "t1", res.UserID)
	assert.Equal(t, shared.RoleTeacher, res.Role)
	assert.Equal(t, "token:t1:teacher", res.Token)
}

func TestLoginBadCredentials(t *testing.T) {
	f := newFixture(true)
	f.addUser("t1", "ivan", shared.RoleTeacher)
	h := NewLoginHandler(f.users, stubHasher{}, stubTokenIssuer{}, f.clock)

	_, err := h.Handle(context.Background(), LoginCommand{Username: "ivan", Password: "wrong-password"})
	assert.ErrorIs(t, err, shared.ErrBadCredentials)

	// An unknown username yields the same error as a wrong password.
	_, err = h.Handle(context.Background(), LoginCommand{Username: "nobody", Password: "secret123"})
	assert.ErrorIs(t, err, shared.ErrBadCredentials)
	assert.True(t, shared.IsUnauthenticated(err))
}

func TestLoginWithoutProfile(t *testing.T) {
	f := newFixture(true)
	f.addUser("u1", "ghost", shared.RoleStudent)
	delete(f.users.profiles, "u1")
	h := NewLoginHandler(f.users, stubHasher{}, stubTokenIssuer{}, f.clock)

	res, err := h.Handle(context.Background(), LoginCommand{Username: "ghost", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, shared.RoleNone, res.Role, "no profile means a token without a role")
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(true)
	identity := f.addUser("s1", "olena", shared.RoleStudent)
	h := NewUpdateProfileHandler(f.users)

	p, err := h.Handle(context.Background(), UpdateProfileCommand{
		Identity: identity,
		Address:  "Lviv, Rynok Square 1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Lviv, Rynok Square 1", p.Address)
	assert.Equal(t, shared.RoleStudent, p.Role, "role is immutable through the profile update")

	stored, err := f.users.GetProfile(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Lviv, Rynok Square 1", stored.Address)
}

func TestUpdateProfileRequiresIdentity(t *testing.T) {
	f := newFixture(true)
	h := NewUpdateProfileHandler(f.users)

	_, err := h.Handle(context.Background(), UpdateProfileCommand{})
	assert.True(t, shared.IsUnauthenticated(err))
}
