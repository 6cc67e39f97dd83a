package insights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataplunge/dataplunge/internal/pkg/backend"
	"github.com/dataplunge/dataplunge/internal/pkg/cache"
	"github.com/dataplunge/dataplunge/internal/pkg/daterange"
)

func TestMessagesSanitisesAndCaches(t *testing.T) {
	svc := NewService(cache.NewMemoryStore(), time.Minute)
	r, err := daterange.Parse("2024-03-01", "2024-03-31")
	require.NoError(t, err)

	calls := 0
	fetch := func(ctx context.Context) ([]backend.Insight, error) {
		calls++
		return []backend.Insight{
			{Message: "<b>Costs</b> rose by 12% & CPC fell"},
			{Message: "<script>alert(1)</script>"},
			{Message: "   "},
		}, nil
	}

	msgs, err := svc.Messages(context.Background(), 7, r, fetch)
	require.NoError(t, err)
	assert.Equal(t, []string{"Costs rose by 12% & CPC fell"}, msgs)

	again, err := svc.Messages(context.Background(), 7, r, fetch)
	require.NoError(t, err)
	assert.Equal(t, msgs, again)
	assert.Equal(t, 1, calls)

	_, err = svc.Messages(context.Background(), 8, r, fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "cache is per user")

	require.NoError(t, svc.Invalidate(context.Background(), 7, r))
	_, err = svc.Messages(context.Background(), 7, r, fetch)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestMessagesPropagatesFetchError(t *testing.T) {
	svc := NewService(cache.NewMemoryStore(), 0)
	r, err := daterange.Parse("2024-03-01", "2024-03-31")
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = svc.Messages(context.Background(), 1, r, func(context.Context) ([]backend.Insight, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}
