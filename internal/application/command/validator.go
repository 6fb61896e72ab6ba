// Package command contains write operations (CQRS - Commands).
// Every handler resolves the capability table first, then runs the write
// validations (ownership, slot conflicts, role of referenced users) before
// touching the store. Store constraints back the same invariants as the final
// word for concurrent writers.
package command

import (
	"context"

	"github.com/school-diary/diary-backend/internal/domain/lesson"
	"github.com/school-diary/diary-backend/internal/domain/shared"
	"github.com/school-diary/diary-backend/internal/domain/timetable"
	"github.com/school-diary/diary-backend/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// VIEW INVALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// ViewInvalidator drops cached read views after a write. Implemented by the
// Redis timetable cache.
type ViewInvalidator interface {
	Invalidate(ctx context.Context) error
}

// NopInvalidator is a ViewInvalidator that does nothing. Used when caching is
// disabled.
type NopInvalidator struct{}

// Invalidate implements ViewInvalidator.
func (NopInvalidator) Invalidate(ctx context.Context) error { return nil }

// ══════════════════════════════════════════════════════════════════════════════
// WRITE VALIDATOR
// The shared validation engine of the write path. Handlers call into it for
// the invariants that need store state: slot occupancy, lesson ownership and
// the role of referenced users.
// ══════════════════════════════════════════════════════════════════════════════

// WriteValidator validates writes against current store state.
type WriteValidator struct {
	lessonRepo   lesson.Repository
	scheduleRepo timetable.ScheduleRepository
	userRepo     user.Repository

	// enforceOwnership is false in single-tenant deployments, where every
	// teacher manages the shared timetable. The owner is still recorded.
	enforceOwnership bool
}

// NewWriteValidator creates a WriteValidator.
func NewWriteValidator(
	lessonRepo lesson.Repository,
	scheduleRepo timetable.ScheduleRepository,
	userRepo user.Repository,
	enforceOwnership bool,
) *WriteValidator {
	return &WriteValidator{
		lessonRepo:       lessonRepo,
		scheduleRepo:     scheduleRepo,
		userRepo:         userRepo,
		enforceOwnership: enforceOwnership,
	}
}

// EnforcesOwnership reports whether per-teacher ownership checks are active.
func (v *WriteValidator) EnforcesOwnership() bool {
	return v.enforceOwnership
}

// LessonOwned loads a lesson and checks the identity may modify it.
// Returns shared.ErrLessonNotFound for a missing lesson and
// shared.ErrNotLessonOwner when ownership is enforced and the lesson belongs
// to another teacher.
func (v *WriteValidator) LessonOwned(ctx context.Context, lessonID string, identity shared.Identity) (*lesson.Lesson, error) {
	l, err := v.lessonRepo.GetByID(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	if v.enforceOwnership && !l.OwnedBy(identity.UserID) {
		return nil, shared.ErrNotLessonOwner
	}
	return l, nil
}

// ScheduleOwned loads a schedule and checks the identity may modify it,
// following the ownership chain schedule -> lesson -> teacher.
func (v *WriteValidator) ScheduleOwned(ctx context.Context, scheduleID string, identity shared.Identity) (*timetable.Schedule, error) {
	s, err := v.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if _, err := v.LessonOwned(ctx, s.LessonID, identity); err != nil {
		return nil, err
	}
	return s, nil
}

// SlotFree checks no other schedule occupies the (date, period) slot.
// Pass the schedule's own ID as excludeID on update, "" on create.
// Returns shared.ErrSlotTaken when the slot is occupied.
func (v *WriteValidator) SlotFree(ctx context.Context, date timetable.Date, periodID, excludeID string) error {
	taken, err := v.scheduleRepo.ExistsAt(ctx, date, periodID, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return shared.ErrSlotTaken
	}
	return nil
}

// StudentExists checks the referenced user exists and holds the student role.
// Returns shared.ErrUserNotFound for a missing user and shared.ErrNotAStudent
// for a user without the student role.
func (v *WriteValidator) StudentExists(ctx context.Context, studentID string) error {
	if _, err := v.userRepo.GetByID(ctx, studentID); err != nil {
		return err
	}
	profile, err := v.userRepo.GetProfile(ctx, studentID)
	if err != nil {
		if shared.IsNotFound(err) {
			return shared.ErrNotAStudent
		}
		return err
	}
	if profile.Role != shared.RoleStudent {
		return shared.ErrNotAStudent
	}
	return nil
}
