package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shenikar/civic_alert_system/internal/models"
)

// ActivityLog - журнал действий в памяти, хранится в порядке добавления
type ActivityLog struct {
	mu    sync.RWMutex
	items []models.Activity
}

// NewActivityLog создает пустой журнал
func NewActivityLog() *ActivityLog {
	return &ActivityLog{}
}

// Append добавляет запись
func (l *ActivityLog) Append(_ context.Context, a *models.Activity) error {
	if a.UserID == "" || a.Action == "" {
		return fmt.Errorf("activity requires user and action: %w", models.ErrValidation)
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, *a)
	return nil
}

// List возвращает страницу записей по фильтру, новые первыми
func (l *ActivityLog) List(_ context.Context, filter models.ActivityFilter) ([]*models.Activity, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	offset := (filter.Page - 1) * filter.PageSize
	out := make([]*models.Activity, 0)
	skipped := 0
	for i := len(l.items) - 1; i >= 0 && len(out) < filter.PageSize; i-- {
		a := l.items[i]
		if !filter.Matches(&a) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, &a)
	}
	return out, nil
}
