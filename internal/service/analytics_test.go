package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/civic_alert_system/internal/config"
	"github.com/shenikar/civic_alert_system/internal/models"
	"github.com/shenikar/civic_alert_system/internal/service"
	"github.com/shenikar/civic_alert_system/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func analyticsConfig() *config.Config {
	return &config.Config{
		HotspotWindow:           24 * time.Hour,
		HotspotThresholdDegrees: 0.01,
		HotspotTopN:             10,
		PredictRadiusDegrees:    0.01,
		PredictWindow:           30 * 24 * time.Hour,
		PredictMinProbability:   0.1,
	}
}

func newTestAnalyticsService(t *testing.T) (service.AnalyticsService, *mocks.MockIncidentRepository, *mocks.MockHotspotCache) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockIncidentRepository(ctrl)
	cacheMock := mocks.NewMockHotspotCache(ctrl)
	return service.NewAnalyticsService(repoMock, cacheMock, silentLogger(), analyticsConfig()), repoMock, cacheMock
}

func incidentAt(typ string, sev models.Severity, lat, lng float64, age time.Duration) *models.Incident {
	return &models.Incident{
		ID:         uuid.New(),
		Type:       typ,
		Severity:   sev,
		Status:     models.StatusUnverified,
		Location:   models.Location{Lat: lat, Lng: lng},
		ReportedAt: time.Now().UTC().Add(-age),
	}
}

func TestHotspots_FromCache(t *testing.T) {
	svc, _, cacheMock := newTestAnalyticsService(t)
	ctx := context.Background()
	cached := []models.Hotspot{{Type: "fire", Incidents: 3, Score: 7.5}}

	cacheMock.EXPECT().Get(ctx).Return(cached, true, nil)

	hotspots, err := svc.Hotspots(ctx)

	require.NoError(t, err)
	assert.Equal(t, cached, hotspots)
}

func TestHotspots_CacheMissComputesAndStores(t *testing.T) {
	svc, repoMock, cacheMock := newTestAnalyticsService(t)
	ctx := context.Background()
	incidents := []*models.Incident{
		incidentAt("flood", models.SeverityHigh, 40.7128, -74.0060, time.Hour),
		incidentAt("flood", models.SeverityHigh, 40.7130, -74.0062, 2*time.Hour),
		incidentAt("pothole", models.SeverityLow, 40.7500, -73.9000, time.Hour),
	}

	cacheMock.EXPECT().Get(ctx).Return(nil, false, nil)
	repoMock.EXPECT().FindRecentUnresolved(ctx, gomock.Any()).Return(incidents, nil)
	cacheMock.EXPECT().
		Set(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, hs []models.Hotspot) error {
			assert.Len(t, hs, 2)
			return nil
		})

	hotspots, err := svc.Hotspots(ctx)

	require.NoError(t, err)
	require.Len(t, hotspots, 2)
	assert.Equal(t, "flood", hotspots[0].Type)
	assert.Equal(t, 2, hotspots[0].Incidents)
	assert.Equal(t, models.SeverityHigh, hotspots[0].Severity)
	assert.GreaterOrEqual(t, hotspots[0].Score, hotspots[1].Score)
}

func TestHotspots_CacheErrorFallsBackToLive(t *testing.T) {
	svc, repoMock, cacheMock := newTestAnalyticsService(t)
	ctx := context.Background()

	cacheMock.EXPECT().Get(ctx).Return(nil, false, errors.New("redis down"))
	repoMock.EXPECT().FindRecentUnresolved(ctx, gomock.Any()).Return([]*models.Incident{}, nil)
	cacheMock.EXPECT().Set(ctx, gomock.Any()).Return(errors.New("redis down"))

	hotspots, err := svc.Hotspots(ctx)

	require.NoError(t, err)
	assert.NotNil(t, hotspots)
	assert.Empty(t, hotspots)
}

func TestRefreshHotspots_RepositoryError(t *testing.T) {
	svc, repoMock, _ := newTestAnalyticsService(t)
	ctx := context.Background()

	repoMock.EXPECT().FindRecentUnresolved(ctx, gomock.Any()).Return(nil, errors.New("database is down"))

	_, err := svc.RefreshHotspots(ctx)

	assert.ErrorIs(t, err, models.ErrDependencyUnavailable)
}

func TestRefreshHotspots_CanceledContext(t *testing.T) {
	svc, repoMock, _ := newTestAnalyticsService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repoMock.EXPECT().
		FindRecentUnresolved(ctx, gomock.Any()).
		Return([]*models.Incident{incidentAt("fire", models.SeverityHigh, 1, 1, time.Hour)}, nil)

	_, err := svc.RefreshHotspots(ctx)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestHotspots_WithoutCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockIncidentRepository(ctrl)
	svc := service.NewAnalyticsService(repoMock, nil, silentLogger(), analyticsConfig())
	ctx := context.Background()

	repoMock.EXPECT().FindRecentUnresolved(ctx, gomock.Any()).Return([]*models.Incident{}, nil)

	hotspots, err := svc.Hotspots(ctx)

	require.NoError(t, err)
	assert.Empty(t, hotspots)
}

func TestPredict(t *testing.T) {
	svc, repoMock, _ := newTestAnalyticsService(t)
	ctx := context.Background()
	center := models.Location{Lat: 40.7128, Lng: -74.0060}
	history := []*models.Incident{
		incidentAt("theft", models.SeverityHigh, 40.7128, -74.0060, 48*time.Hour),
		incidentAt("theft", models.SeverityHigh, 40.7129, -74.0061, 72*time.Hour),
		incidentAt("theft", models.SeverityHigh, 40.7127, -74.0059, 96*time.Hour),
		incidentAt("noise", models.SeverityLow, 40.7126, -74.0058, 24*time.Hour),
	}

	repoMock.EXPECT().FindInBox(ctx, center, 0.01, gomock.Any()).Return(history, nil)

	predictions, err := svc.Predict(ctx, center, 24)

	require.NoError(t, err)
	require.Len(t, predictions, 2)
	assert.Equal(t, "theft", predictions[0].Type)
	assert.Equal(t, 75, predictions[0].Probability)
	assert.Equal(t, "24 hours", predictions[0].ExpectedTimeframe)
	assert.Equal(t, "noise", predictions[1].Type)
	assert.Equal(t, 25, predictions[1].Probability)
}

func TestPredict_Validation(t *testing.T) {
	svc, _, _ := newTestAnalyticsService(t)
	ctx := context.Background()

	_, err := svc.Predict(ctx, models.Location{Lat: 100}, 24)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Predict(ctx, models.Location{Lat: 10, Lng: 10}, 0)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestPredict_EmptyHistory(t *testing.T) {
	svc, repoMock, _ := newTestAnalyticsService(t)
	ctx := context.Background()
	center := models.Location{Lat: 1, Lng: 1}

	repoMock.EXPECT().FindInBox(ctx, center, 0.01, gomock.Any()).Return([]*models.Incident{}, nil)

	predictions, err := svc.Predict(ctx, center, 12)

	require.NoError(t, err)
	assert.NotNil(t, predictions)
	assert.Empty(t, predictions)
}
