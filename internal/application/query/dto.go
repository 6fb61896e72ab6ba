// Package query contains read operations (CQRS - Queries).
// Every query takes the acting identity and returns DTOs scoped to what that
// identity may see: teachers see data under their own lessons, students see
// their own marks and the shared timetable.
package query

import (
	"context"

	"github.com/school-diary/diary-backend/internal/domain/gradebook"
	"github.com/school-diary/diary-backend/internal/domain/lesson"
	"github.com/school-diary/diary-backend/internal/domain/timetable"
	"github.com/school-diary/diary-backend/internal/domain/user"
	"github.com/school-diary/diary-backend/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// DTOS
// The wire shapes returned by queries and reused by the HTTP layer for
// command responses.
// ══════════════════════════════════════════════════════════════════════════════

// UserDTO is the wire shape of a user.
type UserDTO struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ProfileDTO is the wire shape of a profile.
type ProfileDTO struct {
	UserID      string  `json:"user_id"`
	Role        string  `json:"role"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	Address     string  `json:"address,omitempty"`
}

// LessonDTO is the wire shape of a lesson.
type LessonDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TeacherID string `json:"teacher_id"`
}

// PeriodDTO is the wire shape of a period.
type PeriodDTO struct {
	ID        string `json:"id"`
	Number    int    `json:"number"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ScheduleDTO is the wire shape of a schedule joined with its lesson and
// period.
type ScheduleDTO struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"`
	LessonID   string    `json:"lesson_id"`
	LessonName string    `json:"lesson_name"`
	Period     PeriodDTO `json:"period"`
}

// MarkDTO is the wire shape of a mark.
type MarkDTO struct {
	ID         string `json:"id"`
	ScheduleID string `json:"schedule_id"`
	StudentID  string `json:"student_id"`
	Value      int    `json:"value"`
}

// MarkDetailDTO is a mark joined with its schedule date and lesson name.
type MarkDetailDTO struct {
	MarkDTO
	Date       string `json:"date"`
	LessonName string `json:"lesson_name"`
}

// HomeTaskDTO is the wire shape of a home task.
type HomeTaskDTO struct {
	ID          string `json:"id"`
	ScheduleID  string `json:"schedule_id"`
	Description string `json:"description"`
}

// HomeTaskDetailDTO is a home task joined with its schedule date and lesson
// name.
type HomeTaskDetailDTO struct {
	HomeTaskDTO
	Date       string `json:"date"`
	LessonName string `json:"lesson_name"`
}

// DayScheduleRowDTO is one row of a student's day view: the schedule slot
// annotated with the student's own mark, null if ungraded.
type DayScheduleRowDTO struct {
	ScheduleDTO
	Mark *int `json:"mark"`
}

// ──────────────────────────────────────────────────────────────────────────────
// DTO constructors
// ──────────────────────────────────────────────────────────────────────────────

// NewUserDTO maps a user entity to its DTO.
func NewUserDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:       u.ID,
		Username: u.Username.String(),
		Email:    u.Email.String(),
	}
}

// NewProfileDTO maps a profile entity to its DTO.
func NewProfileDTO(p *user.Profile) ProfileDTO {
	dto := ProfileDTO{
		UserID:  p.UserID,
		Role:    p.Role.String(),
		Address: p.Address,
	}
	if p.DateOfBirth != nil {
		dob := timeutil.FormatDate(*p.DateOfBirth)
		dto.DateOfBirth = &dob
	}
	return dto
}

// NewLessonDTO maps a lesson entity to its DTO.
func NewLessonDTO(l *lesson.Lesson) LessonDTO {
	return LessonDTO{
		ID:        l.ID,
		Name:      l.Name.String(),
		TeacherID: l.TeacherID,
	}
}

// NewPeriodDTO maps a period entity to its DTO.
func NewPeriodDTO(p *timetable.Period) PeriodDTO {
	return PeriodDTO{
		ID:        p.ID,
		Number:    int(p.Number),
		StartTime: p.StartTime,
		EndTime:   p.EndTime,
	}
}

// NewScheduleDTO maps a schedule detail read model to its DTO.
func NewScheduleDTO(d *timetable.ScheduleDetail) ScheduleDTO {
	return ScheduleDTO{
		ID:         d.Schedule.ID,
		Date:       d.Schedule.Date.String(),
		LessonID:   d.Schedule.LessonID,
		LessonName: d.LessonName,
		Period:     NewPeriodDTO(&d.Period),
	}
}

// NewMarkDTO maps a mark entity to its DTO.
func NewMarkDTO(m *gradebook.Mark) MarkDTO {
	return MarkDTO{
		ID:         m.ID,
		ScheduleID: m.ScheduleID,
		StudentID:  m.StudentID,
		Value:      int(m.Value),
	}
}

// NewMarkDetailDTO maps a mark detail read model to its DTO.
func NewMarkDetailDTO(d *gradebook.MarkDetail) MarkDetailDTO {
	return MarkDetailDTO{
		MarkDTO:    NewMarkDTO(&d.Mark),
		Date:       d.Date,
		LessonName: d.LessonName,
	}
}

// NewHomeTaskDTO maps a home task entity to its DTO.
func NewHomeTaskDTO(t *gradebook.HomeTask) HomeTaskDTO {
	return HomeTaskDTO{
		ID:          t.ID,
		ScheduleID:  t.ScheduleID,
		Description: t.Description,
	}
}

// NewHomeTaskDetailDTO maps a home task detail read model to its DTO.
func NewHomeTaskDetailDTO(d *gradebook.HomeTaskDetail) HomeTaskDetailDTO {
	return HomeTaskDetailDTO{
		HomeTaskDTO: NewHomeTaskDTO(&d.HomeTask),
		Date:        d.Date,
		LessonName:  d.LessonName,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// TIMETABLE CACHE
// ══════════════════════════════════════════════════════════════════════════════

// TimetableCache is the read-through cache consulted by timetable queries.
// Implemented by the Redis cache; lookups degrade to a miss on any failure.
type TimetableCache interface {
	GetPeriods(ctx context.Context) ([]*timetable.Period, bool)
	SetPeriods(ctx context.Context, periods []*timetable.Period) error
	GetDayView(ctx context.Context, studentID string, date timetable.Date) ([]*timetable.ScheduleDetail, bool)
	SetDayView(ctx context.Context, studentID string, date timetable.Date, view []*timetable.ScheduleDetail) error
}

// NopCache is a TimetableCache that never hits. Used when caching is
// disabled.
type NopCache struct{}

// GetPeriods implements TimetableCache.
func (NopCache) GetPeriods(ctx context.Context) ([]*timetable.Period, bool) { return nil, false }

// SetPeriods implements TimetableCache.
func (NopCache) SetPeriods(ctx context.Context, periods []*timetable.Period) error { return nil }

// GetDayView implements TimetableCache.
func (NopCache) GetDayView(ctx context.Context, studentID string, date timetable.Date) ([]*timetable.ScheduleDetail, bool) {
	return nil, false
}

// SetDayView implements TimetableCache.
func (NopCache) SetDayView(ctx context.Context, studentID string, date timetable.Date, view []*timetable.ScheduleDetail) error {
	return nil
}

// parseTargetDate resolves an optional YYYY-MM-DD filter: empty defaults to
// today on the school clock, anything malformed is a validation failure.
func parseTargetDate(raw string, clock timeutil.Clock) (timetable.Date, error) {
	if raw == "" {
		return timetable.DateOf(clock.Now()), nil
	}
	return timetable.ParseDate(raw)
}
