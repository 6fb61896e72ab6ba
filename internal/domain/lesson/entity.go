// Package lesson contains the lesson domain model. A lesson is a named
// subject; in multi-tenant mode it is owned by the teacher who created it,
// and that ownership flows transitively to schedules, marks and home tasks.
package lesson

import (
	"strings"
	"time"

	"github.com/school-diary/diary-backend/internal/domain/shared"
)

// Name is the unique subject name of a lesson.
type Name string

// IsValid checks the name is non-empty after trimming and fits the column.
func (n Name) IsValid() bool {
	s := strings.TrimSpace(string(n))
	return len(s) >= 1 && len(s) <= 100
}

// String returns the string representation of the name.
func (n Name) String() string {
	return string(n)
}

// Lesson is a named subject taught by a teacher.
type Lesson struct {
	// ID is the internal unique identifier (UUID).
	ID string

	// Name is the unique subject name.
	Name Name

	// TeacherID is the owning teacher. Ownership checks against this field
	// are skipped in single-tenant mode, but the owner is always recorded.
	TeacherID string

	// CreatedAt is when the lesson was created.
	CreatedAt time.Time

	// UpdatedAt is when the lesson was last modified.
	UpdatedAt time.Time
}

// New creates a lesson with a validated name and owner.
func New(id string, name Name, teacherID string, now time.Time) (*Lesson, error) {
	if id == "" {
		return nil, shared.NewDomainError("lesson", "New", shared.ErrValidation, "id is required")
	}
	if !name.IsValid() {
		return nil, shared.NewDomainError("lesson", "New", shared.ErrValidation, "lesson name is required and must be at most 100 characters")
	}
	if teacherID == "" {
		return nil, shared.NewDomainError("lesson", "New", shared.ErrValidation, "teacher id is required")
	}

	return &Lesson{
		ID:        id,
		Name:      Name(strings.TrimSpace(name.String())),
		TeacherID: teacherID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// OwnedBy returns true if the lesson belongs to the given teacher.
func (l *Lesson) OwnedBy(teacherID string) bool {
	return l.TeacherID == teacherID
}

// Rename changes the lesson name after validation.
func (l *Lesson) Rename(name Name, now time.Time) error {
	if !name.IsValid() {
		return shared.NewDomainError("lesson", "Rename", shared.ErrValidation, "lesson name is required and must be at most 100 characters")
	}
	l.Name = Name(strings.TrimSpace(name.String()))
	l.UpdatedAt = now
	return nil
}
