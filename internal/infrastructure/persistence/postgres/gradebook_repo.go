package postgres

import (
	"context"
	"fmt"

	"github.com/school-diary/diary-backend/internal/domain/gradebook"
	"github.com/school-diary/diary-backend/internal/domain/shared"
	"github.com/school-diary/diary-backend/internal/domain/timetable"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// MARK REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// MarkRepository implements gradebook.MarkRepository for PostgreSQL.
type MarkRepository struct {
	conn *Connection
}

// NewMarkRepository creates a new MarkRepository.
func NewMarkRepository(conn *Connection) *MarkRepository {
	return &MarkRepository{conn: conn}
}

// Create creates a new mark. Duplicate (schedule, student) pairs fail at the
// uq_marks_schedule_student constraint; that rejection is the single point
// of enforcement and surfaces as a domain conflict.
func (r *MarkRepository) Create(ctx context.Context, m *gradebook.Mark) error {
	query := `
		INSERT INTO marks (id, schedule_id, student_id, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.conn.Exec(ctx, query, m.ID, m.ScheduleID, m.StudentID, int(m.Value), m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrDuplicateMark
		}
		if IsForeignKeyViolation(err) {
			return shared.ErrScheduleNotFound
		}
		return fmt.Errorf("failed to create mark: %w", err)
	}

	return nil
}

// GetByID returns a mark by ID.
func (r *MarkRepository) GetByID(ctx context.Context, id string) (*gradebook.Mark, error) {
	query := `
		SELECT id, schedule_id, student_id, value, created_at, updated_at
		FROM marks
		WHERE id = $1
	`

	row := r.conn.QueryRow(ctx, query, id)
	return scanMark(row)
}

// FindForSchedule returns the student's mark on a schedule, or nil if the
// student is ungraded there.
func (r *MarkRepository) FindForSchedule(ctx context.Context, scheduleID, studentID string) (*gradebook.Mark, error) {
	query := `
		SELECT id, schedule_id, student_id, value, created_at, updated_at
		FROM marks
		WHERE schedule_id = $1 AND student_id = $2
	`

	m, err := scanMark(r.conn.QueryRow(ctx, query, scheduleID, studentID))
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, nil // ungraded is a normal result
		}
		return nil, err
	}

	return m, nil
}

// ListByTeacher returns marks on schedules of lessons owned by a teacher.
func (r *MarkRepository) ListByTeacher(ctx context.Context, teacherID string) ([]*gradebook.MarkDetail, error) {
	query := `
		SELECT m.id, m.schedule_id, m.student_id, m.value, m.created_at, m.updated_at,
			   s.date::text, l.name
		FROM marks m
		JOIN schedules s ON s.id = m.schedule_id
		JOIN lessons l ON l.id = s.lesson_id
		WHERE l.teacher_id = $1
		ORDER BY s.date ASC, l.name ASC
	`

	rows, err := r.conn.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to query marks by teacher: %w", err)
	}
	defer rows.Close()

	return scanMarkDetails(rows)
}

// ListByStudent returns the student's own marks.
func (r *MarkRepository) ListByStudent(ctx context.Context, studentID string) ([]*gradebook.MarkDetail, error) {
	query := `
		SELECT m.id, m.schedule_id, m.student_id, m.value, m.created_at, m.updated_at,
			   s.date::text, l.name
		FROM marks m
		JOIN schedules s ON s.id = m.schedule_id
		JOIN lessons l ON l.id = s.lesson_id
		WHERE m.student_id = $1
		ORDER BY s.date ASC, l.name ASC
	`

	rows, err := r.conn.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query marks by student: %w", err)
	}
	defer rows.Close()

	return scanMarkDetails(rows)
}

// Update updates a mark value.
func (r *MarkRepository) Update(ctx context.Context, m *gradebook.Mark) error {
	query := `
		UPDATE marks SET
			value = $1,
			updated_at = $2
		WHERE id = $3
	`

	result, err := r.conn.Exec(ctx, query, int(m.Value), m.UpdatedAt, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update mark: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrMarkNotFound
	}

	return nil
}

// Delete removes a mark.
func (r *MarkRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, "DELETE FROM marks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete mark: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrMarkNotFound
	}

	return nil
}

func scanMark(row pgx.Row) (*gradebook.Mark, error) {
	var (
		m     gradebook.Mark
		value int
	)

	err := row.Scan(&m.ID, &m.ScheduleID, &m.StudentID, &value, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrMarkNotFound
		}
		return nil, fmt.Errorf("failed to scan mark: %w", err)
	}
	m.Value = gradebook.Value(value)

	return &m, nil
}

func scanMarkDetails(rows pgx.Rows) ([]*gradebook.MarkDetail, error) {
	details := make([]*gradebook.MarkDetail, 0)
	for rows.Next() {
		var (
			d     gradebook.MarkDetail
			value int
		)
		err := rows.Scan(
			&d.Mark.ID,
			&d.Mark.ScheduleID,
			&d.Mark.StudentID,
			&value,
			&d.Mark.CreatedAt,
			&d.Mark.UpdatedAt,
			&d.Date,
			&d.LessonName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mark detail: %w", err)
		}
		d.Mark.Value = gradebook.Value(value)
		details = append(details, &d)
	}
	return details, rows.Err()
}

// ══════════════════════════════════════════════════════════════════════════════
// HOME TASK REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// HomeTaskRepository implements gradebook.HomeTaskRepository for PostgreSQL.
type HomeTaskRepository struct {
	conn *Connection
}

// NewHomeTaskRepository creates a new HomeTaskRepository.
func NewHomeTaskRepository(conn *Connection) *HomeTaskRepository {
	return &HomeTaskRepository{conn: conn}
}

// Create creates a new home task.
func (r *HomeTaskRepository) Create(ctx context.Context, h *gradebook.HomeTask) error {
	query := `
		INSERT INTO home_tasks (id, schedule_id, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.conn.Exec(ctx, query, h.ID, h.ScheduleID, h.Description, h.CreatedAt, h.UpdatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrScheduleNotFound
		}
		return fmt.Errorf("failed to create home task: %w", err)
	}

	return nil
}

// GetByID returns a home task by ID.
func (r *HomeTaskRepository) GetByID(ctx context.Context, id string) (*gradebook.HomeTask, error) {
	query := `
		SELECT id, schedule_id, description, created_at, updated_at
		FROM home_tasks
		WHERE id = $1
	`

	var h gradebook.HomeTask
	err := r.conn.QueryRow(ctx, query, id).Scan(&h.ID, &h.ScheduleID, &h.Description, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrHomeTaskNotFound
		}
		return nil, fmt.Errorf("failed to get home task: %w", err)
	}

	return &h, nil
}

// ListByTeacher returns home tasks on schedules of lessons owned by a teacher.
func (r *HomeTaskRepository) ListByTeacher(ctx context.Context, teacherID string) ([]*gradebook.HomeTaskDetail, error) {
	query := `
		SELECT h.id, h.schedule_id, h.description, h.created_at, h.updated_at,
			   s.date::text, l.name
		FROM home_tasks h
		JOIN schedules s ON s.id = h.schedule_id
		JOIN lessons l ON l.id = s.lesson_id
		WHERE l.teacher_id = $1
		ORDER BY s.date ASC
	`

	rows, err := r.conn.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to query home tasks by teacher: %w", err)
	}
	defer rows.Close()

	return scanHomeTaskDetails(rows)
}

// ListFromDate returns home tasks whose schedule date is on or after the
// given date.
func (r *HomeTaskRepository) ListFromDate(ctx context.Context, from timetable.Date) ([]*gradebook.HomeTaskDetail, error) {
	query := `
		SELECT h.id, h.schedule_id, h.description, h.created_at, h.updated_at,
			   s.date::text, l.name
		FROM home_tasks h
		JOIN schedules s ON s.id = h.schedule_id
		JOIN lessons l ON l.id = s.lesson_id
		WHERE s.date >= $1::date
		ORDER BY s.date ASC
	`

	rows, err := r.conn.Query(ctx, query, from.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query home tasks from date: %w", err)
	}
	defer rows.Close()

	return scanHomeTaskDetails(rows)
}

// Update updates a home task description.
func (r *HomeTaskRepository) Update(ctx context.Context, h *gradebook.HomeTask) error {
	query := `
		UPDATE home_tasks SET
			description = $1,
			updated_at = $2
		WHERE id = $3
	`

	result, err := r.conn.Exec(ctx, query, h.Description, h.UpdatedAt, h.ID)
	if err != nil {
		return fmt.Errorf("failed to update home task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrHomeTaskNotFound
	}

	return nil
}

// Delete removes a home task.
func (r *HomeTaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, "DELETE FROM home_tasks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete home task: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrHomeTaskNotFound
	}

	return nil
}

func scanHomeTaskDetails(rows pgx.Rows) ([]*gradebook.HomeTaskDetail, error) {
	details := make([]*gradebook.HomeTaskDetail, 0)
	for rows.Next() {
		var d gradebook.HomeTaskDetail
		err := rows.Scan(
			&d.HomeTask.ID,
			&d.HomeTask.ScheduleID,
			&d.HomeTask.Description,
			&d.HomeTask.CreatedAt,
			&d.HomeTask.UpdatedAt,
			&d.Date,
			&d.LessonName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan home task detail: %w", err)
		}
		details = append(details, &d)
	}
	return details, rows.Err()
}
