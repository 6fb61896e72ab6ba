// Package shared contains common domain types and errors used across all
// domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
// Every failure surfaced to a caller resolves to exactly one of these kinds;
// they are never collapsed into a generic failure.
var (
	// ErrUnauthenticated - no identity or an invalid identity was presented.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden - authenticated but the role or ownership does not permit
	// the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict - a uniqueness invariant was violated (double-booked
	// period, duplicate mark).
	ErrConflict = errors.New("conflict")

	// ErrNotFound - a referenced entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrValidation - malformed or incomplete input.
	ErrValidation = errors.New("validation failed")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "timetable", "gradebook", "user"
	Op      string // Operation that failed, e.g., "Create", "List"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// User domain errors
var (
	ErrUserNotFound      = NewDomainError("user", "Find", ErrNotFound, "user not found")
	ErrUserAlreadyExists = NewDomainError("user", "Create", ErrConflict, "user already exists")
	ErrProfileNotFound   = NewDomainError("user", "FindProfile", ErrNotFound, "profile not found")
	ErrInvalidRole       = NewDomainError("user", "Validate", ErrValidation, "role must be student or teacher")
	ErrNotAStudent       = NewDomainError("user", "CheckRole", ErrValidation, "referenced user is not a student")
	ErrBadCredentials    = NewDomainError("user", "Login", ErrUnauthenticated, "invalid username or password")
)

// Lesson domain errors
var (
	ErrLessonNotFound = NewDomainError("lesson", "Find", ErrNotFound, "lesson not found")
	ErrLessonExists   = NewDomainError("lesson", "Create", ErrConflict, "lesson with this name already exists")
	ErrNotLessonOwner = NewDomainError("lesson", "CheckOwner", ErrForbidden, "lesson is owned by another teacher")
)

// Timetable domain errors
var (
	ErrPeriodNotFound   = NewDomainError("timetable", "FindPeriod", ErrNotFound, "period not found")
	ErrPeriodExists     = NewDomainError("timetable", "CreatePeriod", ErrConflict, "period with this number already exists")
	ErrScheduleNotFound = NewDomainError("timetable", "FindSchedule", ErrNotFound, "schedule not found")
	ErrSlotTaken        = NewDomainError("timetable", "CheckSlot", ErrConflict, "a schedule already exists for this date and period")
)

// Gradebook domain errors
var (
	ErrMarkNotFound     = NewDomainError("gradebook", "FindMark", ErrNotFound, "mark not found")
	ErrDuplicateMark    = NewDomainError("gradebook", "CreateMark", ErrConflict, "student already has a mark for this schedule")
	ErrHomeTaskNotFound = NewDomainError("gradebook", "FindHomeTask", ErrNotFound, "home task not found")
)

// IsUnauthenticated checks if the error is an authentication failure.
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}

// IsForbidden checks if the error is an authorization failure.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsConflict checks if the error is a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
