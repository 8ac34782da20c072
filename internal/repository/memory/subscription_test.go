package memory

import (
	"context"
	"testing"

	"github.com/shenikar/civic_alert_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionRepository(t *testing.T) {
	repo := NewSubscriptionRepository()
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, &models.Subscription{UserID: "u1", Token: "t1"}))
	require.NoError(t, repo.Add(ctx, &models.Subscription{UserID: "u1", Token: "t2"}))
	require.NoError(t, repo.Add(ctx, &models.Subscription{UserID: "u2", Token: "t1"}))

	// повторная подписка обновляет фильтры
	require.NoError(t, repo.Add(ctx, &models.Subscription{
		UserID:  "u1",
		Token:   "t1",
		Filters: models.SubscriptionFilters{Types: []string{"fire"}},
	}))

	subs, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, []string{"fire"}, subs[0].Filters.Types)

	require.NoError(t, repo.Remove(ctx, "u1", "t1"))
	subs, err = repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "t2", subs[0].Token)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
