package webhook

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryReplayStore_Expiry(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0)
	s := NewMemoryReplayStore()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	first, err := s.MarkSeen(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	first, err = s.MarkSeen(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, first)

	now = now.Add(time.Minute)
	first, err = s.MarkSeen(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, first, "expired keys are accepted again")
}

func TestMemoryReplayStore_Sweep(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0)
	s := NewMemoryReplayStore()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	for i := range sweepEvery - 1 {
		_, err := s.MarkSeen(ctx, fmt.Sprintf("k%d", i), time.Second)
		require.NoError(t, err)
	}
	assert.Equal(t, sweepEvery-1, s.Len())

	now = now.Add(time.Hour)
	_, err := s.MarkSeen(ctx, "fresh", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}
