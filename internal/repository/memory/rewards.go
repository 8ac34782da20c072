package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shenikar/civic_alert_system/internal/models"
)

// RewardLedger - журнал наград в памяти
type RewardLedger struct {
	mu      sync.Mutex
	users   map[string]*models.UserRewards
	applied map[string]struct{}
	now     func() time.Time
}

// NewRewardLedger создает пустой журнал
func NewRewardLedger() *RewardLedger {
	return &RewardLedger{
		users:   make(map[string]*models.UserRewards),
		applied: make(map[string]struct{}),
		now:     time.Now,
	}
}

// Seed задает начальное состояние пользователя
func (l *RewardLedger) Seed(u models.UserRewards) {
	l.mu.Lock()
	defer l.mu.Unlock()
	u.Badges = slices.Clone(u.Badges)
	l.users[u.UserID] = &u
}

// Grant применяет начисление, если ключ еще не встречался
func (l *RewardLedger) Grant(_ context.Context, g models.RewardGrant) (bool, error) {
	if g.Key == "" || g.UserID == "" {
		return false, fmt.Errorf("reward grant requires key and user: %w", models.ErrValidation)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, done := l.applied[g.Key]; done {
		return false, nil
	}
	u, ok := l.users[g.UserID]
	if !ok {
		u = &models.UserRewards{UserID: g.UserID, Badges: []string{}}
		l.users[g.UserID] = u
	}
	u.Apply(g, l.now())
	l.applied[g.Key] = struct{}{}
	return true, nil
}

// GetRewards возвращает копию записи пользователя
func (l *RewardLedger) GetRewards(_ context.Context, userID string) (*models.UserRewards, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	u, ok := l.users[userID]
	if !ok {
		return nil, fmt.Errorf("rewards for user %s: %w", userID, models.ErrNotFound)
	}
	c := *u
	c.Badges = slices.Clone(u.Badges)
	return &c, nil
}

// TopReporters возвращает до limit пользователей с наибольшими баллами
func (l *RewardLedger) TopReporters(_ context.Context, limit int) ([]*models.UserRewards, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	top := make([]*models.UserRewards, 0, len(l.users))
	for _, u := range l.users {
		c := *u
		c.Badges = slices.Clone(u.Badges)
		top = append(top, &c)
	}
	slices.SortFunc(top, func(a, b *models.UserRewards) int {
		if a.Points != b.Points {
			return cmp.Compare(b.Points, a.Points)
		}
		if a.Stats.VerifiedReports != b.Stats.VerifiedReports {
			return cmp.Compare(b.Stats.VerifiedReports, a.Stats.VerifiedReports)
		}
		return strings.Compare(a.UserID, b.UserID)
	})
	if limit >= 0 && len(top) > limit {
		top = top[:limit]
	}
	return top, nil
}
