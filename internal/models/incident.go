package models

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Severity - уровень серьезности инцидента
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// ParseSeverity проверяет, что строка является допустимым уровнем серьезности
func ParseSeverity(s string) (Severity, error) {
	switch sev := Severity(strings.ToLower(strings.TrimSpace(s))); sev {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return sev, nil
	}
	return "", fmt.Errorf("%w: unknown severity %q", ErrValidation, s)
}

// Status - статус жизненного цикла инцидента
type Status string

const (
	StatusUnverified        Status = "unverified"
	StatusPartiallyVerified Status = "partially-verified"
	StatusVerified          Status = "verified"
	StatusInProgress        Status = "in-progress"
	StatusResolved          Status = "resolved"
)

var statusRank = map[Status]int{
	StatusUnverified:        0,
	StatusPartiallyVerified: 1,
	StatusVerified:          1,
	StatusInProgress:        2,
	StatusResolved:          3,
}

// ParseStatus проверяет, что строка является допустимым статусом
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := statusRank[st]; !ok {
		return "", fmt.Errorf("%w: unknown status %q", ErrValidation, s)
	}
	return st, nil
}

// Rank возвращает позицию статуса в прямом порядке жизненного цикла.
// partially-verified и verified стоят на одной ступени.
func (s Status) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return -1
}

// VoteDirection - направление голоса
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)

// ParseVoteDirection проверяет направление голоса
func ParseVoteDirection(s string) (VoteDirection, error) {
	switch d := VoteDirection(strings.ToLower(strings.TrimSpace(s))); d {
	case VoteUp, VoteDown:
		return d, nil
	}
	return "", fmt.Errorf("%w: unknown vote type %q", ErrValidation, s)
}

// Location - координаты и адрес инцидента
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// Validate проверяет диапазоны координат
func (l Location) Validate() error {
	if math.IsNaN(l.Lat) || math.IsInf(l.Lat, 0) || l.Lat < -90 || l.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrValidation, l.Lat)
	}
	if math.IsNaN(l.Lng) || math.IsInf(l.Lng, 0) || l.Lng < -180 || l.Lng > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrValidation, l.Lng)
	}
	return nil
}

// Incident - сообщение гражданина о происшествии
type Incident struct {
	ID          uuid.UUID  `json:"id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Severity    Severity   `json:"severity"`
	Status      Status     `json:"status"`
	Location    Location   `json:"location"`
	ReportedBy  string     `json:"reported_by"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	MediaURLs   []string   `json:"media_urls"`
	Upvotes     int        `json:"upvotes"`
	Downvotes   int        `json:"downvotes"`
	VotedBy     []string   `json:"voted_by"`
	UpvotedBy   []string   `json:"upvoted_by"`
	DuplicateOf *uuid.UUID `json:"duplicate_of,omitempty"`

	// VerificationRewarded выставляется тем же атомарным обновлением, что и переход в verified
	VerificationRewarded bool `json:"verification_rewarded"`
	// ResolvedCount - число переходов в resolved, каждый дает автору отдельную награду
	ResolvedCount int   `json:"resolved_count"`
	Version       int64 `json:"version"`

	ReportedAt time.Time `json:"reported_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HasVoted проверяет, голосовал ли пользователь за инцидент
func (i *Incident) HasVoted(userID string) bool {
	return slices.Contains(i.VotedBy, userID)
}

// ApplyVote учитывает голос. Проверка на повторный голос - забота вызывающего.
func (i *Incident) ApplyVote(userID string, dir VoteDirection) {
	if dir == VoteUp {
		i.Upvotes++
		i.UpvotedBy = append(i.UpvotedBy, userID)
	} else {
		i.Downvotes++
	}
	i.VotedBy = append(i.VotedBy, userID)
}

// Clone возвращает глубокую копию инцидента
func (i *Incident) Clone() *Incident {
	c := *i
	c.MediaURLs = slices.Clone(i.MediaURLs)
	c.VotedBy = slices.Clone(i.VotedBy)
	c.UpvotedBy = slices.Clone(i.UpvotedBy)
	if i.DuplicateOf != nil {
		d := *i.DuplicateOf
		c.DuplicateOf = &d
	}
	return &c
}

// IncidentFilter - параметры выборки списка инцидентов
type IncidentFilter struct {
	Status   Status
	Severity Severity
	Page     int
	PageSize int
}
