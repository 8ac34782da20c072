package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/civic_alert_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRewardLedger_GrantIsIdempotent(t *testing.T) {
	ledger := NewRewardLedger()
	ctx := context.Background()
	id := uuid.New()

	grant := models.RewardGrant{
		Key:    models.GrantKey(id, models.RewardVerified, ""),
		UserID: "reporter",
		Kind:   models.RewardVerified,
		Points: 10,
	}

	applied, err := ledger.Grant(ctx, grant)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = ledger.Grant(ctx, grant)
	require.NoError(t, err)
	assert.False(t, applied)

	u, err := ledger.GetRewards(ctx, "reporter")
	require.NoError(t, err)
	assert.Equal(t, 10, u.Points)
	assert.Equal(t, 1, u.Stats.VerifiedReports)
}

func TestRewardLedger_BadgeGrantedOnce(t *testing.T) {
	ledger := NewRewardLedger()
	ctx := context.Background()
	ledger.Seed(models.UserRewards{UserID: "reporter", Points: 95})

	for i := 0; i < 2; i++ {
		id := uuid.New()
		_, err := ledger.Grant(ctx, models.RewardGrant{
			Key:            models.GrantKey(id, models.RewardVerified, ""),
			UserID:         "reporter",
			Kind:           models.RewardVerified,
			Points:         10,
			Badge:          "reliable-reporter",
			BadgeThreshold: 100,
		})
		require.NoError(t, err)
	}

	u, err := ledger.GetRewards(ctx, "reporter")
	require.NoError(t, err)
	assert.Equal(t, 115, u.Points)
	assert.Equal(t, []string{"reliable-reporter"}, u.Badges)
}

func TestRewardLedger_Validation(t *testing.T) {
	ledger := NewRewardLedger()
	_, err := ledger.Grant(context.Background(), models.RewardGrant{UserID: "u"})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = ledger.GetRewards(context.Background(), "nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestRewardLedger_TopReporters(t *testing.T) {
	ledger := NewRewardLedger()
	ctx := context.Background()
	ledger.Seed(models.UserRewards{UserID: "low", Points: 5})
	ledger.Seed(models.UserRewards{UserID: "tie-fewer", Points: 50, Stats: models.UserStats{VerifiedReports: 1}})
	ledger.Seed(models.UserRewards{UserID: "tie-more", Points: 50, Stats: models.UserStats{VerifiedReports: 4}})
	ledger.Seed(models.UserRewards{UserID: "top", Points: 120})

	top, err := ledger.TopReporters(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)

	ids := []string{top[0].UserID, top[1].UserID, top[2].UserID}
	assert.Equal(t, []string{"top", "tie-more", "tie-fewer"}, ids)

	all, err := ledger.TopReporters(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
