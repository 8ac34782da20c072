package models

import (
	"slices"
	"time"
)

// SubscriptionFilters - условия, при которых подписчик получает уведомление
type SubscriptionFilters struct {
	Severities []Severity `json:"severity,omitempty"`
	Types      []string   `json:"types,omitempty"`
	Location   *Location  `json:"location,omitempty"`
	RadiusKm   float64    `json:"radius,omitempty"`
}

// Subscription - подписка устройства пользователя на уведомления
type Subscription struct {
	UserID    string              `json:"user_id"`
	Token     string              `json:"token"`
	Filters   SubscriptionFilters `json:"filters"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// MatchesAttributes проверяет фильтры по типу и серьезности.
// Пространственный фильтр проверяется отдельно, см. service.
func (f SubscriptionFilters) MatchesAttributes(inc *Incident) bool {
	if len(f.Severities) > 0 && !slices.Contains(f.Severities, inc.Severity) {
		return false
	}
	if len(f.Types) > 0 && !slices.Contains(f.Types, inc.Type) {
		return false
	}
	return true
}
