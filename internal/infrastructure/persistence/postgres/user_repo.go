package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/school-diary/diary-backend/internal/domain/shared"
	"github.com/school-diary/diary-backend/internal/domain/user"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// USER REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// UserRepository implements user.Repository for PostgreSQL.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

// CreateWithProfile creates a user and its profile in one transaction.
func (r *UserRepository) CreateWithProfile(ctx context.Context, u *user.User, p *user.Profile) error {
	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, u.ID, u.Username.String(), u.Email.String(), u.PasswordHash, u.CreatedAt, u.UpdatedAt)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO profiles (user_id, role, date_of_birth, address, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, p.UserID, string(p.Role), p.DateOfBirth, p.Address, p.CreatedAt)
		return err
	})
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID returns a user by internal ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanUser(row)
}

// GetByUsername returns a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username user.Username) (*user.User, error) {
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users
		WHERE username = $1
	`

	row := r.conn.QueryRow(ctx, query, username.String())
	return r.scanUser(row)
}

// GetProfile returns the profile of a user.
func (r *UserRepository) GetProfile(ctx context.Context, userID string) (*user.Profile, error) {
	query := `
		SELECT user_id, role, date_of_birth, address, created_at
		FROM profiles
		WHERE user_id = $1
	`

	var (
		p    user.Profile
		role string
	)
	err := r.conn.QueryRow(ctx, query, userID).Scan(&p.UserID, &role, &p.DateOfBirth, &p.Address, &p.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	p.Role = shared.ParseRole(role)

	return &p, nil
}

// UpdateProfile updates the mutable fields of a profile.
func (r *UserRepository) UpdateProfile(ctx context.Context, p *user.Profile) error {
	query := `
		UPDATE profiles SET
			date_of_birth = $1,
			address = $2
		WHERE user_id = $3
	`

	result, err := r.conn.Exec(ctx, query, p.DateOfBirth, p.Address, p.UserID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrProfileNotFound
	}

	return nil
}

// ListByRole returns all users holding the given role.
func (r *UserRepository) ListByRole(ctx context.Context, role shared.Role) ([]*user.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.password_hash, u.created_at, u.updated_at
		FROM users u
		JOIN profiles p ON p.user_id = u.id
		WHERE p.role = $1
		ORDER BY u.username ASC
	`

	rows, err := r.conn.Query(ctx, query, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to query users by role: %w", err)
	}
	defer rows.Close()

	return r.scanUsers(rows)
}

// Delete removes a user; the profile and dependent marks cascade.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrUserNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *UserRepository) scanUser(row pgx.Row) (*user.User, error) {
	var (
		u         user.User
		username  string
		email     string
		createdAt time.Time
		updatedAt time.Time
	)

	err := row.Scan(&u.ID, &username, &email, &u.PasswordHash, &createdAt, &updatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	u.Username = user.Username(username)
	u.Email = user.Email(email)
	u.CreatedAt = createdAt
	u.UpdatedAt = updatedAt

	return &u, nil
}

func (r *UserRepository) scanUsers(rows pgx.Rows) ([]*user.User, error) {
	users := make([]*user.User, 0)
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
