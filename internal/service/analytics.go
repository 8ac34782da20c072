package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shenikar/civic_alert_system/internal/cluster"
	"github.com/shenikar/civic_alert_system/internal/config"
	"github.com/shenikar/civic_alert_system/internal/geo"
	"github.com/shenikar/civic_alert_system/internal/models"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=analytics.go -destination=mocks/analytics_mock.go -package=mocks

// HotspotCache хранит последний снимок горячих точек
type HotspotCache interface {
	Get(ctx context.Context) ([]models.Hotspot, bool, error)
	Set(ctx context.Context, hotspots []models.Hotspot) error
}

// AnalyticsService - горячие точки и прогноз
type AnalyticsService interface {
	Hotspots(ctx context.Context) ([]models.Hotspot, error)
	RefreshHotspots(ctx context.Context) ([]models.Hotspot, error)
	Predict(ctx context.Context, location models.Location, timeRangeHours int) ([]models.Prediction, error)
}

type analyticsService struct {
	repo   IncidentRepository
	cache  HotspotCache
	logger *logrus.Logger
	cfg    *config.Config
	now    func() time.Time
}

func NewAnalyticsService(repo IncidentRepository, cache HotspotCache, logger *logrus.Logger, cfg *config.Config) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		cache:  cache,
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Hotspots отдает снимок из кэша, при его отсутствии считает заново
func (s *analyticsService) Hotspots(ctx context.Context) ([]models.Hotspot, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "analytics",
		"method":  "Hotspots",
	})

	if s.cache != nil {
		hotspots, ok, err := s.cache.Get(ctx)
		if err != nil {
			log.WithError(err).Warn("Failed to read hotspot snapshot, computing live")
		}
		if ok {
			return hotspots, nil
		}
	}
	return s.RefreshHotspots(ctx)
}

// RefreshHotspots кластеризует свежие нерешенные инциденты и обновляет снимок
func (s *analyticsService) RefreshHotspots(ctx context.Context) ([]models.Hotspot, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "analytics",
		"method":  "RefreshHotspots",
	})

	now := s.now().UTC()
	incidents, err := s.repo.FindRecentUnresolved(ctx, now.Add(-s.cfg.HotspotWindow))
	if err != nil {
		log.WithError(err).Error("Failed to fetch recent incidents")
		return nil, fmt.Errorf("service: could not fetch incidents for hotspots: %w", classifyRepoErr(err))
	}

	// порог задан в градусах, расстояние считается в километрах
	thresholdKm := geo.DegreesToKm(s.cfg.HotspotThresholdDegrees)
	clusters, err := cluster.HotspotsContext(ctx, incidents, thresholdKm, now, s.cfg.HotspotTopN)
	if err != nil {
		log.WithError(err).Info("Hotspot computation abandoned")
		return nil, fmt.Errorf("service: hotspots: %w", err)
	}
	hotspots := cluster.ToHotspots(clusters)

	if s.cache != nil {
		if err := s.cache.Set(ctx, hotspots); err != nil {
			log.WithError(err).Warn("Failed to store hotspot snapshot")
		}
	}

	log.WithFields(logrus.Fields{
		"incidents": len(incidents),
		"hotspots":  len(hotspots),
	}).Info("Hotspots computed")
	return hotspots, nil
}

// Predict оценивает вероятные типы инцидентов рядом с точкой по истории
func (s *analyticsService) Predict(ctx context.Context, location models.Location, timeRangeHours int) ([]models.Prediction, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":    "analytics",
		"method":     "Predict",
		"lat":        location.Lat,
		"lng":        location.Lng,
		"time_range": timeRangeHours,
	})

	if err := location.Validate(); err != nil {
		return nil, fmt.Errorf("service: predict: %w", err)
	}
	if timeRangeHours <= 0 {
		return nil, fmt.Errorf("service: predict: %w: time range must be positive", models.ErrValidation)
	}

	since := s.now().UTC().Add(-s.cfg.PredictWindow)
	history, err := s.repo.FindInBox(ctx, location, s.cfg.PredictRadiusDegrees, since)
	if err != nil {
		log.WithError(err).Error("Failed to fetch incident history")
		return nil, fmt.Errorf("service: could not fetch history: %w", classifyRepoErr(err))
	}

	predictions := cluster.Predict(history, timeRangeHours, s.cfg.PredictMinProbability)
	log.WithFields(logrus.Fields{
		"history":     len(history),
		"predictions": len(predictions),
	}).Info("Prediction computed")
	return predictions, nil
}
