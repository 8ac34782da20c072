package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/shenikar/civic_alert_system/internal/models"
)

// HotspotCache - снимок горячих точек в памяти с временем жизни
type HotspotCache struct {
	mu        sync.RWMutex
	hotspots  []models.Hotspot
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

func NewHotspotCache(ttl time.Duration) *HotspotCache {
	return &HotspotCache{ttl: ttl, now: time.Now}
}

func (c *HotspotCache) Get(_ context.Context) ([]models.Hotspot, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.hotspots == nil || !c.now().Before(c.expiresAt) {
		return nil, false, nil
	}
	return slices.Clone(c.hotspots), true, nil
}

func (c *HotspotCache) Set(_ context.Context, hotspots []models.Hotspot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hotspots = slices.Clone(hotspots)
	if c.hotspots == nil {
		c.hotspots = []models.Hotspot{}
	}
	c.expiresAt = c.now().Add(c.ttl)
	return nil
}
