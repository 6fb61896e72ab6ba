package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/school-diary/diary-backend/internal/domain/timetable"
)

// ══════════════════════════════════════════════════════════════════════════════
// TIMETABLE CACHE
// Caches the period list and per-student day-schedule views. Both are
// invalidated wholesale on any timetable or gradebook write; with human-paced
// writes the churn is negligible and staleness never crosses a write.
// ══════════════════════════════════════════════════════════════════════════════

// TimetableCache provides typed caching for timetable read models.
type TimetableCache struct {
	cache *Cache
	ttl   time.Duration
}

// NewTimetableCache creates a TimetableCache with the given TTL for views.
func NewTimetableCache(cache *Cache, ttl time.Duration) *TimetableCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TimetableCache{cache: cache, ttl: ttl}
}

// periodsKey is the single key holding the full period list.
const periodsKey = PrefixPeriods + "all"

func dayViewKey(studentID string, date timetable.Date) string {
	return fmt.Sprintf("%s%s:%s", PrefixDayView, studentID, date.String())
}

// GetPeriods returns the cached period list, or (nil, false) on a miss.
// Cache errors degrade to a miss - the caller falls through to the store.
func (t *TimetableCache) GetPeriods(ctx context.Context) ([]*timetable.Period, bool) {
	var periods []*timetable.Period
	if err := t.cache.Get(ctx, periodsKey, &periods); err != nil {
		return nil, false
	}
	return periods, true
}

// SetPeriods caches the period list.
func (t *TimetableCache) SetPeriods(ctx context.Context, periods []*timetable.Period) error {
	return t.cache.Set(ctx, periodsKey, periods, t.ttl)
}

// GetDayView returns a cached per-student day view, or (nil, false) on a miss.
func (t *TimetableCache) GetDayView(ctx context.Context, studentID string, date timetable.Date) ([]*timetable.ScheduleDetail, bool) {
	var view []*timetable.ScheduleDetail
	if err := t.cache.Get(ctx, dayViewKey(studentID, date), &view); err != nil {
		return nil, false
	}
	return view, true
}

// SetDayView caches a per-student day view.
func (t *TimetableCache) SetDayView(ctx context.Context, studentID string, date timetable.Date, view []*timetable.ScheduleDetail) error {
	return t.cache.Set(ctx, dayViewKey(studentID, date), view, t.ttl)
}

// Invalidate drops every cached timetable view. Called after each write to
// lessons, periods, schedules or marks.
func (t *TimetableCache) Invalidate(ctx context.Context) error {
	var errs []error
	if err := t.cache.Delete(ctx, periodsKey); err != nil {
		errs = append(errs, err)
	}
	if err := t.cache.DeleteByPrefix(ctx, PrefixDayView); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
