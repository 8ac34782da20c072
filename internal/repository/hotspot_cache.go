package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/civic_alert_system/internal/models"
)

const hotspotSnapshotKey = "analytics:hotspots"

// HotspotCache хранит последний рассчитанный список горячих точек
type HotspotCache struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewHotspotCache(redisClient *redis.Client, ttl time.Duration) *HotspotCache {
	return &HotspotCache{redisClient: redisClient, ttl: ttl}
}

// Get возвращает снимок; ok=false при отсутствии
func (c *HotspotCache) Get(ctx context.Context) ([]models.Hotspot, bool, error) {
	val, err := c.redisClient.Get(ctx, hotspotSnapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get hotspots from cache: %w", err)
	}
	var hotspots []models.Hotspot
	if err := json.Unmarshal(val, &hotspots); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal hotspots: %w", err)
	}
	return hotspots, true, nil
}

// Set сохраняет снимок
func (c *HotspotCache) Set(ctx context.Context, hotspots []models.Hotspot) error {
	val, err := json.Marshal(hotspots)
	if err != nil {
		return fmt.Errorf("failed to marshal hotspots: %w", err)
	}
	if err := c.redisClient.Set(ctx, hotspotSnapshotKey, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set hotspots in cache: %w", err)
	}
	return nil
}
