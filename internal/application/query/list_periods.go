package query

import (
	"context"

	"github.com/school-diary/diary-backend/internal/application/access"
	"github.com/school-diary/diary-backend/internal/domain/shared"
	"github.com/school-diary/diary-backend/internal/domain/timetable"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST PERIODS QUERY
// The period grid is read by every role on every timetable screen, so it is
// served read-through from the cache.
// ══════════════════════════════════════════════════════════════════════════════

// ListPeriodsQuery asks for the full period grid.
type ListPeriodsQuery struct {
	Identity shared.Identity
}

// ListPeriodsHandler handles the ListPeriodsQuery.
type ListPeriodsHandler struct {
	periodRepo timetable.PeriodRepository
	cache      TimetableCache
}

// NewListPeriodsHandler creates a ListPeriodsHandler.
func NewListPeriodsHandler(periodRepo timetable.PeriodRepository, cache TimetableCache) *ListPeriodsHandler {
	return &ListPeriodsHandler{periodRepo: periodRepo, cache: cache}
}

// Handle lists all periods ordered by number ascending.
func (h *ListPeriodsHandler) Handle(ctx context.Context, q ListPeriodsQuery) ([]PeriodDTO, error) {
	if err := access.Check(q.Identity, access.EntityPeriod, access.ActionList); err != nil {
		return nil, err
	}

	periods, hit := h.cache.GetPeriods(ctx)
	if !hit {
		var err error
		periods, err = h.periodRepo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		_ = h.cache.SetPeriods(ctx, periods)
	}

	dtos := make([]PeriodDTO, 0, len(periods))
	for _, p := range periods {
		dtos = append(dtos, NewPeriodDTO(p))
	}
	return dtos, nil
}
