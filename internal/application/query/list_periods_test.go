package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/school-diary/diary-backend/internal/domain/shared"
)

func TestListPeriodsReadThrough(t *testing.T) {
	users := newFakeUserRepo()
	student := users.add("s1", "olena", shared.RoleStudent)

	periods := newFakePeriodRepo()
	periods.add("p2", 2, "09:00:00", "09:45:00")
	periods.add("p1", 1, "08:00:00", "08:45:00")

	cache := newRecordingCache()
	h := NewListPeriodsHandler(periods, cache)

	dtos, err := h.Handle(context.Background(), ListPeriodsQuery{Identity: student})
	require.NoError(t, err)
	require.Len(t, dtos, 2)
	assert.Equal(t, 1, dtos[0].Number, "ordered by period number")
	assert.Equal(t, 2, dtos[1].Number)
	assert.Equal(t, 1, periods.listCalls)
	assert.Equal(t, 1, cache.periodSets, "a miss populates the cache")

	_, err = h.Handle(context.Background(), ListPeriodsQuery{Identity: student})
	require.NoError(t, err)
	assert.Equal(t, 1, periods.listCalls, "the second read is served from the cache")
}

func TestListPeriodsWithoutCache(t *testing.T) {
	users := newFakeUserRepo()
	teacher := users.add("t1", "ivan", shared.RoleTeacher)

	periods := newFakePeriodRepo()
	periods.add("p1", 1, "08:00:00", "08:45:00")

	h := NewListPeriodsHandler(periods, NopCache{})

	for i := 0; i < 2; i++ {
		dtos, err := h.Handle(context.Background(), ListPeriodsQuery{Identity: teacher})
		require.NoError(t, err)
		assert.Len(t, dtos, 1)
	}
	assert.Equal(t, 2, periods.listCalls, "NopCache never hits")
}

func TestListPeriodsRequiresIdentity(t *testing.T) {
	h := NewListPeriodsHandler(newFakePeriodRepo(), NopCache{})

	_, err := h.Handle(context.Background(), ListPeriodsQuery{})
	assert.True(t, shared.IsUnauthenticated(err))
}
