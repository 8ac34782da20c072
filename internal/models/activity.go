package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityAction - вид действия в журнале активности
type ActivityAction string

const (
	ActivityReported      ActivityAction = "incident.reported"
	ActivityVoted         ActivityAction = "incident.voted"
	ActivityStatusChanged ActivityAction = "incident.status_changed"
	ActivityUpdated       ActivityAction = "incident.updated"
	ActivityEscalated     ActivityAction = "incident.escalated"
)

// Activity - запись журнала действий пользователей над инцидентами
type Activity struct {
	ID         uuid.UUID      `json:"id"`
	UserID     string         `json:"user_id"`
	Action     ActivityAction `json:"action"`
	IncidentID uuid.UUID      `json:"incident_id"`
	Details    string         `json:"details,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// ActivityFilter - параметры выборки журнала. Пустые поля не ограничивают выборку.
type ActivityFilter struct {
	UserID     string
	IncidentID uuid.UUID
	Page       int
	PageSize   int
}

// Matches проверяет запись на соответствие фильтру без учета страниц
func (f ActivityFilter) Matches(a *Activity) bool {
	if f.UserID != "" && a.UserID != f.UserID {
		return false
	}
	return f.IncidentID == uuid.Nil || a.IncidentID == f.IncidentID
}
