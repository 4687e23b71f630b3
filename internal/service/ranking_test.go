package service

import (
	"testing"
	"time"

	"EventHub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeRanking(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	participants := []*model.Participant{
		{ID: 1, Points: 10, JoinedAt: t0.Add(2 * time.Minute)},
		{ID: 2, Points: 30, JoinedAt: t0.Add(3 * time.Minute)},
		{ID: 3, Points: 10, JoinedAt: t0.Add(1 * time.Minute)},
		{ID: 4, Points: 0, JoinedAt: t0},
		{ID: 5, Points: 10, JoinedAt: t0.Add(1 * time.Minute)},
	}
	badges := map[uint64][]string{2: {"🎤"}}

	got := ComputeRanking(participants, badges, 0)
	require.Len(t, got, 5)

	var ids []uint64
	for i, e := range got {
		assert.Equal(t, i+1, e.Position, "positions are dense 1..N")
		require.NotNil(t, e.Participant.RankPosition)
		assert.Equal(t, e.Position, *e.Participant.RankPosition)
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].Participant.Points, e.Participant.Points)
		}
		ids = append(ids, e.Participant.ID)
	}
	assert.Equal(t, []uint64{2, 3, 5, 1, 4}, ids, "ties by join time, then id")
	assert.Equal(t, []string{"🎤"}, got[0].Badges)
	assert.NotNil(t, got[1].Badges)
	assert.Empty(t, got[1].Badges)

	for _, p := range participants {
		assert.Nil(t, p.RankPosition, "input is not mutated")
	}

	again := ComputeRanking(participants, badges, 0)
	assert.Equal(t, got, again, "stable across recomputation")
}

func TestComputeRanking_LimitAndEmpty(t *testing.T) {
	participants := []*model.Participant{{ID: 1, Points: 1}, {ID: 2, Points: 2}, {ID: 3, Points: 3}}

	top := ComputeRanking(participants, nil, 2)
	require.Len(t, top, 2)
	assert.Equal(t, uint64(3), top[0].Participant.ID)
	assert.Equal(t, 2, top[1].Position)

	empty := ComputeRanking(nil, nil, 10)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
