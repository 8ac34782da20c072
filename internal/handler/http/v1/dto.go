package v1

import (
	"time"

	"github.com/google/uuid"
)

// LocationRequest - координаты в запросе. Указатели позволяют отличить 0 от отсутствия значения.
type LocationRequest struct {
	Lat     *float64 `json:"lat" validate:"required,latitude"`
	Lng     *float64 `json:"lng" validate:"required,longitude"`
	Address string   `json:"address,omitempty" validate:"max=500"`
}

// CreateIncidentRequest DTO для создания инцидента
// @Description DTO для создания инцидента
type CreateIncidentRequest struct {
	Type        string          `json:"type" validate:"required,max=64"`
	Title       string          `json:"title" validate:"required,min=2,max=255"`
	Description string          `json:"description,omitempty" validate:"max=5000"`
	Location    LocationRequest `json:"location"`
	MediaURLs   []string        `json:"mediaUrls,omitempty" validate:"omitempty,max=10,dive,url"`
}

// UpdateIncidentRequest DTO для правки инцидента оператором, отсутствующие поля не меняются
// @Description DTO для правки инцидента оператором
type UpdateIncidentRequest struct {
	Title       *string          `json:"title,omitempty" validate:"omitempty,min=2,max=255"`
	Description *string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	Severity    *string          `json:"severity,omitempty" validate:"omitempty,oneof=critical high medium low"`
	Location    *LocationRequest `json:"location,omitempty"`
	AssignedTo  *string          `json:"assignedTo,omitempty" validate:"omitempty,max=255"`
	IsDuplicate *bool            `json:"isDuplicate,omitempty"`
	DuplicateOf *string          `json:"duplicateOf,omitempty" validate:"omitempty,uuid"`
}

// VoteRequest DTO для голоса за инцидент
type VoteRequest struct {
	Type string `json:"type" validate:"required,oneof=up down"`
}

// StatusRequest DTO для смены статуса
type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=unverified partially-verified verified in-progress resolved"`
}

// EscalateRequest DTO для эскалации
type EscalateRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// PredictRequest DTO для прогноза, без timeRange прогноз строится на сутки
type PredictRequest struct {
	Location  LocationRequest `json:"location"`
	TimeRange int             `json:"timeRange,omitempty" validate:"omitempty,gt=0,lte=720"`
}

// SubscriptionFiltersRequest - фильтры подписки
type SubscriptionFiltersRequest struct {
	Severity []string         `json:"severity,omitempty" validate:"omitempty,dive,oneof=critical high medium low"`
	Types    []string         `json:"types,omitempty" validate:"omitempty,dive,required"`
	Location *LocationRequest `json:"location,omitempty"`
	Radius   float64          `json:"radius,omitempty" validate:"gte=0"`
}

// SubscribeRequest DTO для подписки на уведомления
type SubscribeRequest struct {
	Token   string                     `json:"token" validate:"required,max=4096"`
	Filters SubscriptionFiltersRequest `json:"filters"`
}

// UnsubscribeRequest DTO для отписки
type UnsubscribeRequest struct {
	Token string `json:"token" validate:"required"`
}

// LocationResponse - координаты в ответе
type LocationResponse struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID          uuid.UUID        `json:"id"`
	Type        string           `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Severity    string           `json:"severity"`
	Status      string           `json:"status"`
	Location    LocationResponse `json:"location"`
	ReportedBy  string           `json:"reportedBy"`
	AssignedTo  string           `json:"assignedTo,omitempty"`
	MediaURLs   []string         `json:"mediaUrls"`
	Upvotes     int              `json:"upvotes"`
	Downvotes   int              `json:"downvotes"`
	DuplicateOf *uuid.UUID       `json:"duplicateOf,omitempty"`
	Version     int64            `json:"version"`
	ReportedAt  time.Time        `json:"reportedAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// CreateIncidentResponse - созданный инцидент и вероятные дубликаты
type CreateIncidentResponse struct {
	Incident            *IncidentResponse   `json:"incident"`
	PotentialDuplicates []*IncidentResponse `json:"potentialDuplicates"`
}

// IncidentDetailsResponse - инцидент и похожие сообщения
type IncidentDetailsResponse struct {
	Incident    *IncidentResponse   `json:"incident"`
	Suggestions []*IncidentResponse `json:"suggestions"`
}

// SubscriptionResponse DTO подписки
type SubscriptionResponse struct {
	UserID    string                     `json:"userId"`
	Token     string                     `json:"token"`
	Filters   SubscriptionFiltersRequest `json:"filters"`
	CreatedAt time.Time                  `json:"createdAt"`
	UpdatedAt time.Time                  `json:"updatedAt"`
}

// UserStatsResponse - счетчики активности пользователя
type UserStatsResponse struct {
	TotalReports    int        `json:"totalReports"`
	VerifiedReports int        `json:"verifiedReports"`
	ResolvedReports int        `json:"resolvedReports"`
	TotalUpvotes    int        `json:"totalUpvotes"`
	LastReportAt    *time.Time `json:"lastReportAt,omitempty"`
}

// RewardsResponse - профиль наград пользователя с уровнем
// @Description Баллы, значки, уровень и статистика пользователя
type RewardsResponse struct {
	UserID              string            `json:"userId"`
	Points              int               `json:"points"`
	Level               int               `json:"level"`
	ProgressToNextLevel int               `json:"progressToNextLevel"`
	NextLevelPoints     int               `json:"nextLevelPoints"`
	Badges              []string          `json:"badges"`
	Stats               UserStatsResponse `json:"stats"`
	UpdatedAt           time.Time         `json:"updatedAt"`
}

// ActivityResponse - запись журнала действий
type ActivityResponse struct {
	ID         uuid.UUID `json:"id"`
	UserID     string    `json:"userId"`
	Action     string    `json:"action"`
	IncidentID uuid.UUID `json:"incidentId"`
	Details    string    `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
