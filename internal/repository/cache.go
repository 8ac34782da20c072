package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/civic_alert_system/internal/models"
	"github.com/shenikar/civic_alert_system/internal/service"
	"github.com/sirupsen/logrus"
)

// CachedIncidentRepository - кэш инцидентов в Redis поверх основного хранилища.
// Ошибки Redis не прерывают запрос: чтение уходит в хранилище.
type CachedIncidentRepository struct {
	service.IncidentRepository
	redisClient *redis.Client
	ttl         time.Duration
	logger      *logrus.Logger
}

func NewCachedIncidentRepository(next service.IncidentRepository, redisClient *redis.Client, ttl time.Duration, logger *logrus.Logger) *CachedIncidentRepository {
	return &CachedIncidentRepository{
		IncidentRepository: next,
		redisClient:        redisClient,
		ttl:                ttl,
		logger:             logger,
	}
}

// GetByID сначала смотрит в кэш, при промахе читает хранилище и кладет результат в кэш
func (r *CachedIncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	log := r.logger.WithFields(logrus.Fields{
		"repository":  "incident_cache",
		"incident_id": id,
	})

	cached, err := r.getIncidentFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read incident from cache")
	}
	if cached != nil {
		return cached, nil
	}

	incident, err := r.IncidentRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.setIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to write incident to cache")
	}
	return incident, nil
}

// CompareAndSwap обновляет кэш после успешной записи. При конфликте версий
// запись из кэша удаляется, чтобы повторная попытка прочитала хранилище.
func (r *CachedIncidentRepository) CompareAndSwap(ctx context.Context, next *models.Incident, expectedVersion int64) error {
	err := r.IncidentRepository.CompareAndSwap(ctx, next, expectedVersion)
	if err != nil {
		if errors.Is(err, models.ErrConcurrencyConflict) || errors.Is(err, models.ErrNotFound) {
			r.invalidate(ctx, next.ID)
		}
		return err
	}
	if err := r.setIncidentCache(ctx, next); err != nil {
		r.logger.WithError(err).WithField("incident_id", next.ID).Warn("Failed to refresh incident cache")
		r.invalidate(ctx, next.ID)
	}
	return nil
}

func (r *CachedIncidentRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if err := r.invalidateIncidentCache(ctx, id); err != nil {
		r.logger.WithError(err).WithField("incident_id", id).Warn("Failed to invalidate incident cache")
	}
}

func incidentCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("incident:%s", id.String())
}

// getIncidentFromCache пытается получить инцидент из Redis, (nil, nil) при промахе
func (r *CachedIncidentRepository) getIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	val, err := r.redisClient.Get(ctx, incidentCacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// setIncidentCache сохраняет инцидент в Redis
func (r *CachedIncidentRepository) setIncidentCache(ctx context.Context, incident *models.Incident) error {
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, incidentCacheKey(incident.ID), val, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// invalidateIncidentCache удаляет инцидент из Redis кэша
func (r *CachedIncidentRepository) invalidateIncidentCache(ctx context.Context, id uuid.UUID) error {
	if err := r.redisClient.Del(ctx, incidentCacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
