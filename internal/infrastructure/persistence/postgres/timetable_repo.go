package postgres

import (
	"context"
	"fmt"

	"github.com/school-diary/diary-backend/internal/domain/shared"
	"github.com/school-diary/diary-backend/internal/domain/timetable"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// PERIOD REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// PeriodRepository implements timetable.PeriodRepository for PostgreSQL.
type PeriodRepository struct {
	conn *Connection
}

// NewPeriodRepository creates a new PeriodRepository.
func NewPeriodRepository(conn *Connection) *PeriodRepository {
	return &PeriodRepository{conn: conn}
}

// Create creates a new period.
func (r *PeriodRepository) Create(ctx context.Context, p *timetable.Period) error {
	query := `
		INSERT INTO periods (id, number, start_time, end_time)
		VALUES ($1, $2, $3::time, $4::time)
	`

	_, err := r.conn.Exec(ctx, query, p.ID, int(p.Number), p.StartTime, p.EndTime)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrPeriodExists
		}
		return fmt.Errorf("failed to create period: %w", err)
	}

	return nil
}

// GetByID returns a period by ID.
func (r *PeriodRepository) GetByID(ctx context.Context, id string) (*timetable.Period, error) {
	query := `
		SELECT id, number, start_time::text, end_time::text
		FROM periods
		WHERE id = $1
	`

	row := r.conn.QueryRow(ctx, query, id)
	return scanPeriod(row)
}

// ListAll returns every period ordered by number ascending.
func (r *PeriodRepository) ListAll(ctx context.Context) ([]*timetable.Period, error) {
	query := `
		SELECT id, number, start_time::text, end_time::text
		FROM periods
		ORDER BY number ASC
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query periods: %w", err)
	}
	defer rows.Close()

	periods := make([]*timetable.Period, 0)
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

func scanPeriod(row pgx.Row) (*timetable.Period, error) {
	var (
		p      timetable.Period
		number int
	)

	err := row.Scan(&p.ID, &number, &p.StartTime, &p.EndTime)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrPeriodNotFound
		}
		return nil, fmt.Errorf("failed to scan period: %w", err)
	}
	p.Number = timetable.PeriodNumber(number)

	return &p, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// SCHEDULE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ScheduleRepository implements timetable.ScheduleRepository for PostgreSQL.
type ScheduleRepository struct {
	conn *Connection
}

// NewScheduleRepository creates a new ScheduleRepository.
func NewScheduleRepository(conn *Connection) *ScheduleRepository {
	return &ScheduleRepository{conn: conn}
}

// Create creates a new schedule entry. The uq_schedules_date_period
// constraint backs the write path's pre-check against concurrent writers.
func (r *ScheduleRepository) Create(ctx context.Context, s *timetable.Schedule) error {
	query := `
		INSERT INTO schedules (id, lesson_id, period_id, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4::date, $5, $6)
	`

	_, err := r.conn.Exec(ctx, query, s.ID, s.LessonID, s.PeriodID, s.Date.String(), s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrSlotTaken
		}
		if IsForeignKeyViolation(err) {
			return shared.ErrScheduleNotFound
		}
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	return nil
}

// GetByID returns a schedule by ID.
func (r *ScheduleRepository) GetByID(ctx context.Context, id string) (*timetable.Schedule, error) {
	query := `
		SELECT id, lesson_id, period_id, date::text, created_at, updated_at
		FROM schedules
		WHERE id = $1
	`

	var (
		s    timetable.Schedule
		date string
	)
	err := r.conn.QueryRow(ctx, query, id).Scan(&s.ID, &s.LessonID, &s.PeriodID, &date, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	s.Date = timetable.Date(date)

	return &s, nil
}

// GetDetail returns a schedule joined with its lesson and period.
func (r *ScheduleRepository) GetDetail(ctx context.Context, id string) (*timetable.ScheduleDetail, error) {
	query := detailSelect + `
		WHERE s.id = $1
	`

	row := r.conn.QueryRow(ctx, query, id)
	return scanScheduleDetail(row)
}

// ExistsAt reports whether the (date, period) slot is occupied, excluding the
// given schedule ID.
func (r *ScheduleRepository) ExistsAt(ctx context.Context, date timetable.Date, periodID string, excludeID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM schedules
			WHERE date = $1::date AND period_id = $2 AND ($3 = '' OR id::text <> $3)
		)
	`

	var exists bool
	err := r.conn.QueryRow(ctx, query, date.String(), periodID, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check schedule slot: %w", err)
	}

	return exists, nil
}

// ListByTeacher returns schedules of lessons owned by a teacher.
func (r *ScheduleRepository) ListByTeacher(ctx context.Context, teacherID string) ([]*timetable.ScheduleDetail, error) {
	query := detailSelect + `
		WHERE l.teacher_id = $1
		ORDER BY s.date ASC, p.number ASC
	`

	rows, err := r.conn.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules by teacher: %w", err)
	}
	defer rows.Close()

	return scanScheduleDetails(rows)
}

// ListByDateForStudent returns the schedules on a date whose lesson the
// student has at least one mark for. Gradebook-derived enrollment: a student
// "attends" the lessons they have ever been graded in.
func (r *ScheduleRepository) ListByDateForStudent(ctx context.Context, studentID string, date timetable.Date) ([]*timetable.ScheduleDetail, error) {
	query := detailSelect + `
		WHERE s.date = $2::date
		  AND s.lesson_id IN (
			SELECT DISTINCT s2.lesson_id
			FROM marks m
			JOIN schedules s2 ON s2.id = m.schedule_id
			WHERE m.student_id = $1
		  )
		ORDER BY p.number ASC
	`

	rows, err := r.conn.Query(ctx, query, studentID, date.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query student schedule: %w", err)
	}
	defer rows.Close()

	return scanScheduleDetails(rows)
}

// Update updates a schedule entry.
func (r *ScheduleRepository) Update(ctx context.Context, s *timetable.Schedule) error {
	query := `
		UPDATE schedules SET
			lesson_id = $1,
			period_id = $2,
			date = $3::date,
			updated_at = $4
		WHERE id = $5
	`

	result, err := r.conn.Exec(ctx, query, s.LessonID, s.PeriodID, s.Date.String(), s.UpdatedAt, s.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrSlotTaken
		}
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrScheduleNotFound
	}

	return nil
}

// Delete removes a schedule; marks and home tasks cascade.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, "DELETE FROM schedules WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrScheduleNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

const detailSelect = `
	SELECT s.id, s.lesson_id, s.period_id, s.date::text, s.created_at, s.updated_at,
		   l.name, l.teacher_id,
		   p.id, p.number, p.start_time::text, p.end_time::text
	FROM schedules s
	JOIN lessons l ON l.id = s.lesson_id
	JOIN periods p ON p.id = s.period_id
`

func scanScheduleDetail(row pgx.Row) (*timetable.ScheduleDetail, error) {
	var (
		d            timetable.ScheduleDetail
		date         string
		periodNumber int
	)

	err := row.Scan(
		&d.Schedule.ID,
		&d.Schedule.LessonID,
		&d.Schedule.PeriodID,
		&date,
		&d.Schedule.CreatedAt,
		&d.Schedule.UpdatedAt,
		&d.LessonName,
		&d.TeacherID,
		&d.Period.ID,
		&periodNumber,
		&d.Period.StartTime,
		&d.Period.EndTime,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to scan schedule: %w", err)
	}

	d.Schedule.Date = timetable.Date(date)
	d.Period.Number = timetable.PeriodNumber(periodNumber)

	return &d, nil
}

func scanScheduleDetails(rows pgx.Rows) ([]*timetable.ScheduleDetail, error) {
	details := make([]*timetable.ScheduleDetail, 0)
	for rows.Next() {
		d, err := scanScheduleDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}
