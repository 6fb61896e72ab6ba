package postgres

import (
	"context"
	"fmt"

	"github.com/school-diary/diary-backend/internal/domain/lesson"
	"github.com/school-diary/diary-backend/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// LESSON REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// LessonRepository implements lesson.Repository for PostgreSQL.
type LessonRepository struct {
	conn *Connection
}

// NewLessonRepository creates a new LessonRepository.
func NewLessonRepository(conn *Connection) *LessonRepository {
	return &LessonRepository{conn: conn}
}

// Create creates a new lesson.
func (r *LessonRepository) Create(ctx context.Context, l *lesson.Lesson) error {
	query := `
		INSERT INTO lessons (id, name, teacher_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.conn.Exec(ctx, query, l.ID, l.Name.String(), l.TeacherID, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrLessonExists
		}
		if IsForeignKeyViolation(err) {
			return shared.ErrUserNotFound
		}
		return fmt.Errorf("failed to create lesson: %w", err)
	}

	return nil
}

// GetByID returns a lesson by ID.
func (r *LessonRepository) GetByID(ctx context.Context, id string) (*lesson.Lesson, error) {
	query := `
		SELECT id, name, teacher_id, created_at, updated_at
		FROM lessons
		WHERE id = $1
	`

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanLesson(row)
}

// ListByTeacher returns the lessons owned by a teacher.
func (r *LessonRepository) ListByTeacher(ctx context.Context, teacherID string) ([]*lesson.Lesson, error) {
	query := `
		SELECT id, name, teacher_id, created_at, updated_at
		FROM lessons
		WHERE teacher_id = $1
		ORDER BY name ASC
	`

	rows, err := r.conn.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons by teacher: %w", err)
	}
	defer rows.Close()

	return r.scanLessons(rows)
}

// ListAll returns every lesson.
func (r *LessonRepository) ListAll(ctx context.Context) ([]*lesson.Lesson, error) {
	query := `
		SELECT id, name, teacher_id, created_at, updated_at
		FROM lessons
		ORDER BY name ASC
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer rows.Close()

	return r.scanLessons(rows)
}

// Update updates a lesson.
func (r *LessonRepository) Update(ctx context.Context, l *lesson.Lesson) error {
	query := `
		UPDATE lessons SET
			name = $1,
			updated_at = $2
		WHERE id = $3
	`

	result, err := r.conn.Exec(ctx, query, l.Name.String(), l.UpdatedAt, l.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrLessonExists
		}
		return fmt.Errorf("failed to update lesson: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrLessonNotFound
	}

	return nil
}

// Delete removes a lesson; schedules, marks and home tasks cascade.
func (r *LessonRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, "DELETE FROM lessons WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrLessonNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *LessonRepository) scanLesson(row pgx.Row) (*lesson.Lesson, error) {
	var (
		l    lesson.Lesson
		name string
	)

	err := row.Scan(&l.ID, &name, &l.TeacherID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to scan lesson: %w", err)
	}
	l.Name = lesson.Name(name)

	return &l, nil
}

func (r *LessonRepository) scanLessons(rows pgx.Rows) ([]*lesson.Lesson, error) {
	lessons := make([]*lesson.Lesson, 0)
	for rows.Next() {
		l, err := r.scanLesson(rows)
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}
