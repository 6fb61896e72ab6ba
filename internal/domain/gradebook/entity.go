// Package gradebook contains the mark and home task domain model.
// A mark grades one student for one schedule slot; a home task is a free-text
// assignment attached to a schedule slot. Both inherit their ownership from
// the schedule's lesson and its teacher.
package gradebook

import (
	"strings"
	"time"

	"github.com/school-diary/diary-backend/internal/domain/shared"
)

// Value is a numeric grade.
type Value int

// Grading scale bounds.
const (
	MinValue Value = 1
	MaxValue Value = 10
)

// IsValid checks the grade is within the grading scale.
func (v Value) IsValid() bool {
	return v >= MinValue && v <= MaxValue
}

// Mark is a numeric grade linking one student to one schedule.
// At most one mark exists per (schedule, student) pair.
type Mark struct {
	// ID is the internal unique identifier (UUID).
	ID string

	// ScheduleID is the graded schedule slot.
	ScheduleID string

	// StudentID is the graded student. The referenced user must hold the
	// student role.
	StudentID string

	// Value is the numeric grade.
	Value Value

	// CreatedAt is when the mark was given.
	CreatedAt time.Time

	// UpdatedAt is when the mark was last changed.
	UpdatedAt time.Time
}

// NewMark creates a mark with validated references and value.
// The (schedule, student) uniqueness is enforced by the store constraint and
// surfaced by the write path as a conflict.
func NewMark(id, scheduleID, studentID string, value Value, now time.Time) (*Mark, error) {
	if id == "" {
		return nil, shared.NewDomainError("gradebook", "NewMark", shared.ErrValidation, "id is required")
	}
	if scheduleID == "" {
		return nil, shared.NewDomainError("gradebook", "NewMark", shared.ErrValidation, "schedule id is required")
	}
	if studentID == "" {
		return nil, shared.NewDomainError("gradebook", "NewMark", shared.ErrValidation, "student id is required")
	}
	if !value.IsValid() {
		return nil, shared.NewDomainError("gradebook", "NewMark", shared.ErrValidation, "mark value is out of the grading scale")
	}

	return &Mark{
		ID:         id,
		ScheduleID: scheduleID,
		StudentID:  studentID,
		Value:      value,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Regrade changes the mark value through the explicit update path.
func (m *Mark) Regrade(value Value, now time.Time) error {
	if !value.IsValid() {
		return shared.NewDomainError("gradebook", "Regrade", shared.ErrValidation, "mark value is out of the grading scale")
	}
	m.Value = value
	m.UpdatedAt = now
	return nil
}

// HomeTask is a free-text assignment attached to a schedule slot.
// Zero or more home tasks may exist per schedule.
type HomeTask struct {
	// ID is the internal unique identifier (UUID).
	ID string

	// ScheduleID is the schedule slot the task was assigned in.
	ScheduleID string

	// Description is the assignment text.
	Description string

	// CreatedAt is when the task was assigned.
	CreatedAt time.Time

	// UpdatedAt is when the task was last edited.
	UpdatedAt time.Time
}

// NewHomeTask creates a home task with a validated description.
func NewHomeTask(id, scheduleID, description string, now time.Time) (*HomeTask, error) {
	if id == "" {
		return nil, shared.NewDomainError("gradebook", "NewHomeTask", shared.ErrValidation, "id is required")
	}
	if scheduleID == "" {
		return nil, shared.NewDomainError("gradebook", "NewHomeTask", shared.ErrValidation, "schedule id is required")
	}
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("gradebook", "NewHomeTask", shared.ErrValidation, "description is required")
	}

	return &HomeTask{
		ID:          id,
		ScheduleID:  scheduleID,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Edit replaces the description of the task.
func (h *HomeTask) Edit(description string, now time.Time) error {
	if strings.TrimSpace(description) == "" {
		return shared.NewDomainError("gradebook", "Edit", shared.ErrValidation, "description is required")
	}
	h.Description = description
	h.UpdatedAt = now
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// READ MODELS
// ══════════════════════════════════════════════════════════════════════════════

// MarkDetail is a mark joined with its schedule date and lesson name, as
// returned by the student listing. Read-only.
type MarkDetail struct {
	Mark       Mark
	Date       string // schedule date, YYYY-MM-DD
	LessonName string
}

// HomeTaskDetail is a home task joined with its schedule date and lesson
// name. Read-only.
type HomeTaskDetail struct {
	HomeTask   HomeTask
	Date       string // schedule date, YYYY-MM-DD
	LessonName string
}
