package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RewardKind - вид начисления в журнале наград
type RewardKind string

const (
	RewardReport   RewardKind = "report"
	RewardUpvote   RewardKind = "upvote"
	RewardVerified RewardKind = "verified"
	RewardResolved RewardKind = "resolved"
)

// RewardGrant - команда изменения журнала наград пользователя.
// Журнал применяет начисление не более одного раза для каждого Key.
type RewardGrant struct {
	Key            string     `json:"key"`
	UserID         string     `json:"user_id"`
	IncidentID     uuid.UUID  `json:"incident_id"`
	Kind           RewardKind `json:"kind"`
	Points         int        `json:"points"`
	Badge          string     `json:"badge,omitempty"`
	BadgeThreshold int        `json:"badge_threshold,omitempty"`
}

// GrantKey строит детерминированный ключ идемпотентности
func GrantKey(incidentID uuid.UUID, kind RewardKind, suffix string) string {
	if suffix == "" {
		return fmt.Sprintf("%s:%s", incidentID, kind)
	}
	return fmt.Sprintf("%s:%s:%s", incidentID, kind, suffix)
}

// UserStats - счетчики активности пользователя
type UserStats struct {
	TotalReports    int        `json:"total_reports"`
	VerifiedReports int        `json:"verified_reports"`
	ResolvedReports int        `json:"resolved_reports"`
	TotalUpvotes    int        `json:"total_upvotes"`
	LastReportAt    *time.Time `json:"last_report_at,omitempty"`
}

// UserRewards - баллы, значки и статистика пользователя
type UserRewards struct {
	UserID    string    `json:"user_id"`
	Points    int       `json:"points"`
	Badges    []string  `json:"badges"`
	Stats     UserStats `json:"stats"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Apply применяет начисление к записи. Возвращает true, если был выдан значок.
func (u *UserRewards) Apply(g RewardGrant, now time.Time) bool {
	u.Points += g.Points
	switch g.Kind {
	case RewardReport:
		u.Stats.TotalReports++
		t := now
		u.Stats.LastReportAt = &t
	case RewardUpvote:
		u.Stats.TotalUpvotes++
	case RewardVerified:
		u.Stats.VerifiedReports++
	case RewardResolved:
		u.Stats.ResolvedReports++
	}
	u.UpdatedAt = now

	if g.Badge == "" || g.BadgeThreshold <= 0 || u.Points < g.BadgeThreshold {
		return false
	}
	for _, b := range u.Badges {
		if b == g.Badge {
			return false
		}
	}
	u.Badges = append(u.Badges, g.Badge)
	return true
}

// PointsPerLevel - сколько баллов занимает один уровень пользователя
const PointsPerLevel = 100

// Level возвращает уровень пользователя и прогресс до следующего уровня в баллах
func (u *UserRewards) Level() (level, progress, remaining int) {
	progress = u.Points % PointsPerLevel
	return u.Points/PointsPerLevel + 1, progress, PointsPerLevel - progress
}
