package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shenikar/civic_alert_system/internal/models"
	"github.com/shenikar/civic_alert_system/internal/repository/memory"
	"github.com/shenikar/civic_alert_system/internal/service"
	"github.com/shenikar/civic_alert_system/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSubscribe_Validation(t *testing.T) {
	svc := service.NewSubscriptionService(memory.NewSubscriptionRepository(), silentLogger())
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, models.Caller{}, "token", models.SubscriptionFilters{})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Subscribe(ctx, citizen, " ", models.SubscriptionFilters{})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Subscribe(ctx, citizen, "token", models.SubscriptionFilters{Location: &models.Location{Lat: 120}})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Subscribe(ctx, citizen, "token", models.SubscriptionFilters{RadiusKm: -1})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestSubscribe_ListAndUnsubscribe(t *testing.T) {
	svc := service.NewSubscriptionService(memory.NewSubscriptionRepository(), silentLogger())
	ctx := context.Background()

	sub, err := svc.Subscribe(ctx, citizen, "phone", models.SubscriptionFilters{Types: []string{"fire"}})
	require.NoError(t, err)
	assert.Equal(t, citizen.UserID, sub.UserID)

	// повторная подписка того же устройства обновляет фильтры
	_, err = svc.Subscribe(ctx, citizen, "phone", models.SubscriptionFilters{Types: []string{"flood"}})
	require.NoError(t, err)

	subs, err := svc.ListSubscriptions(ctx, citizen, citizen.UserID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, []string{"flood"}, subs[0].Filters.Types)

	require.NoError(t, svc.Unsubscribe(ctx, citizen, "phone"))

	subs, err = svc.ListSubscriptions(ctx, citizen, citizen.UserID)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestListSubscriptions_Access(t *testing.T) {
	svc := service.NewSubscriptionService(memory.NewSubscriptionRepository(), silentLogger())
	ctx := context.Background()
	admin := models.Caller{UserID: "admin-1", Role: models.RoleAdmin}

	_, err := svc.Subscribe(ctx, citizen, "phone", models.SubscriptionFilters{})
	require.NoError(t, err)

	_, err = svc.ListSubscriptions(ctx, models.Caller{UserID: "someone-else"}, citizen.UserID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	_, err = svc.ListSubscriptions(ctx, responder, citizen.UserID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	subs, err := svc.ListSubscriptions(ctx, admin, citizen.UserID)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestMatchSubscribers(t *testing.T) {
	svc := service.NewSubscriptionService(memory.NewSubscriptionRepository(), silentLogger())
	ctx := context.Background()
	downtown := models.Location{Lat: 40.7128, Lng: -74.0060}
	incident := &models.Incident{
		Type:     "fire",
		Severity: models.SeverityCritical,
		Location: models.Location{Lat: 40.7138, Lng: -74.0070},
	}

	subscribe := func(user string, f models.SubscriptionFilters) {
		_, err := svc.Subscribe(ctx, models.Caller{UserID: user}, user+"-device", f)
		require.NoError(t, err)
	}
	subscribe("everything", models.SubscriptionFilters{})
	subscribe("critical-only", models.SubscriptionFilters{Severities: []models.Severity{models.SeverityCritical}})
	subscribe("low-only", models.SubscriptionFilters{Severities: []models.Severity{models.SeverityLow}})
	subscribe("floods", models.SubscriptionFilters{Types: []string{"flood"}})
	subscribe("nearby", models.SubscriptionFilters{Location: &downtown, RadiusKm: 1})
	subscribe("far-away", models.SubscriptionFilters{Location: &models.Location{Lat: 51.5, Lng: -0.12}, RadiusKm: 5})

	matched, err := svc.MatchSubscribers(ctx, incident)

	require.NoError(t, err)
	var users []string
	for _, s := range matched {
		users = append(users, s.UserID)
	}
	assert.ElementsMatch(t, []string{"everything", "critical-only", "nearby"}, users)
}

func TestMatchSubscribers_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockSubscriptionRepository(ctrl)
	svc := service.NewSubscriptionService(repoMock, silentLogger())

	repoMock.EXPECT().ListAll(gomock.Any()).Return(nil, errors.New("redis down"))

	_, err := svc.MatchSubscribers(context.Background(), &models.Incident{})

	assert.ErrorIs(t, err, models.ErrDependencyUnavailable)
}
