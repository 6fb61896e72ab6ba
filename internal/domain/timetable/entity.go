// Package timetable contains the period and schedule domain model.
// A period is a numbered time slot; a schedule binds one lesson to one period
// on one calendar date. The (date, period) pair is the unit of uniqueness for
// timetable slots: only one lesson may occupy a given period on a given day.
package timetable

import (
	"time"

	"github.com/school-diary/diary-backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// PeriodNumber is the unique ordinal of a time slot within a school day.
type PeriodNumber int

// IsValid checks the period number is positive.
func (n PeriodNumber) IsValid() bool {
	return n > 0
}

// Date is a calendar date without a time component, stored as YYYY-MM-DD.
type Date string

// DateLayout is the wire and storage format of a Date.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", shared.WrapError("timetable", "ParseDate", shared.ErrValidation, "date must be YYYY-MM-DD", err)
	}
	return DateOf(t), nil
}

// DateOf truncates a time to its calendar date.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// IsZero returns true for the empty date.
func (d Date) IsZero() bool {
	return d == ""
}

// Time returns the date as a time.Time at midnight UTC.
func (d Date) Time() time.Time {
	t, _ := time.Parse(DateLayout, string(d))
	return t
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	return string(d) < string(other)
}

// String returns the YYYY-MM-DD representation.
func (d Date) String() string {
	return string(d)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// Period is a numbered time slot with a start and end time of day.
// Period numbers are unique school-wide.
type Period struct {
	// ID is the internal unique identifier (UUID).
	ID string

	// Number is the unique ordinal of the slot.
	Number PeriodNumber

	// StartTime is the slot start, as HH:MM:SS.
	StartTime string

	// EndTime is the slot end, as HH:MM:SS.
	EndTime string
}

// timeOfDayLayout is the format of Period start and end times.
const timeOfDayLayout = "15:04:05"

// NewPeriod creates a period with a validated number and time range.
func NewPeriod(id string, number PeriodNumber, startTime, endTime string) (*Period, error) {
	if id == "" {
		return nil, shared.NewDomainError("timetable", "NewPeriod", shared.ErrValidation, "id is required")
	}
	if !number.IsValid() {
		return nil, shared.NewDomainError("timetable", "NewPeriod", shared.ErrValidation, "period number must be positive")
	}

	start, err := time.Parse(timeOfDayLayout, startTime)
	if err != nil {
		return nil, shared.WrapError("timetable", "NewPeriod", shared.ErrValidation, "start time must be HH:MM:SS", err)
	}
	end, err := time.Parse(timeOfDayLayout, endTime)
	if err != nil {
		return nil, shared.WrapError("timetable", "NewPeriod", shared.ErrValidation, "end time must be HH:MM:SS", err)
	}
	if !end.After(start) {
		return nil, shared.NewDomainError("timetable", "NewPeriod", shared.ErrValidation, "end time must be after start time")
	}

	return &Period{
		ID:        id,
		Number:    number,
		StartTime: startTime,
		EndTime:   endTime,
	}, nil
}

// Schedule binds one lesson to one period on one calendar date.
type Schedule struct {
	// ID is the internal unique identifier (UUID).
	ID string

	// LessonID is the lesson taught in this slot.
	LessonID string

	// PeriodID is the occupied time slot.
	PeriodID string

	// Date is the calendar date of the slot.
	Date Date

	// CreatedAt is when the schedule was created.
	CreatedAt time.Time

	// UpdatedAt is when the schedule was last modified.
	UpdatedAt time.Time
}

// NewSchedule creates a schedule entry with validated references.
// Slot uniqueness is checked by the write path against current store state;
// the store's unique constraint is the final backstop for concurrent writers.
func NewSchedule(id, lessonID, periodID string, date Date, now time.Time) (*Schedule, error) {
	if id == "" {
		return nil, shared.NewDomainError("timetable", "NewSchedule", shared.ErrValidation, "id is required")
	}
	if lessonID == "" {
		return nil, shared.NewDomainError("timetable", "NewSchedule", shared.ErrValidation, "lesson id is required")
	}
	if periodID == "" {
		return nil, shared.NewDomainError("timetable", "NewSchedule", shared.ErrValidation, "period id is required")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("timetable", "NewSchedule", shared.ErrValidation, "date is required")
	}

	return &Schedule{
		ID:        id,
		LessonID:  lessonID,
		PeriodID:  periodID,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Reslot moves the schedule to a different lesson, period or date.
func (s *Schedule) Reslot(lessonID, periodID string, date Date, now time.Time) error {
	if lessonID == "" || periodID == "" || date.IsZero() {
		return shared.NewDomainError("timetable", "Reslot", shared.ErrValidation, "lesson id, period id and date are required")
	}
	s.LessonID = lessonID
	s.PeriodID = periodID
	s.Date = date
	s.UpdatedAt = now
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// READ MODELS
// ══════════════════════════════════════════════════════════════════════════════

// ScheduleDetail is a schedule joined with its lesson and period, as returned
// by listings. Read-only.
type ScheduleDetail struct {
	Schedule   Schedule
	LessonName string
	TeacherID  string
	Period     Period
}
