package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shenikar/civic_alert_system/internal/models"
)

// SubscriptionRepository хранит подписки в памяти
type SubscriptionRepository struct {
	mu   sync.RWMutex
	subs []*models.Subscription
}

// NewSubscriptionRepository создает пустое хранилище подписок
func NewSubscriptionRepository() *SubscriptionRepository {
	return &SubscriptionRepository{}
}

// Add добавляет подписку или обновляет фильтры существующей (по паре пользователь+токен)
func (r *SubscriptionRepository) Add(_ context.Context, sub *models.Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, s := range r.subs {
		if s.UserID == sub.UserID && s.Token == sub.Token {
			s.Filters = sub.Filters
			s.UpdatedAt = now
			*sub = *s
			return nil
		}
	}
	sub.CreatedAt = now
	sub.UpdatedAt = now
	c := *sub
	r.subs = append(r.subs, &c)
	return nil
}

// Remove удаляет подписку
func (r *SubscriptionRepository) Remove(_ context.Context, userID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.subs[:0]
	for _, s := range r.subs {
		if !(s.UserID == userID && s.Token == token) {
			kept = append(kept, s)
		}
	}
	r.subs = kept
	return nil
}

// ListByUser возвращает подписки пользователя
func (r *SubscriptionRepository) ListByUser(_ context.Context, userID string) ([]*models.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Subscription, 0)
	for _, s := range r.subs {
		if s.UserID == userID {
			c := *s
			out = append(out, &c)
		}
	}
	return out, nil
}

// ListAll возвращает все подписки
func (r *SubscriptionRepository) ListAll(_ context.Context) ([]*models.Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Subscription, 0, len(r.subs))
	for _, s := range r.subs {
		c := *s
		out = append(out, &c)
	}
	return out, nil
}
