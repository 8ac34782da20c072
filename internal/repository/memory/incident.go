// Package memory содержит хранилища в памяти процесса для локального режима и тестов.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/civic_alert_system/internal/duplicate"
	"github.com/shenikar/civic_alert_system/internal/geo"
	"github.com/shenikar/civic_alert_system/internal/models"
)

// IncidentRepository хранит инциденты в map под мьютексом.
// Запись выполняется через проверку версии, как и в PostgreSQL.
type IncidentRepository struct {
	mu        sync.RWMutex
	incidents map[uuid.UUID]*models.Incident
	now       func() time.Time
}

// NewIncidentRepository создает пустое хранилище
func NewIncidentRepository() *IncidentRepository {
	return &IncidentRepository{
		incidents: make(map[uuid.UUID]*models.Incident),
		now:       time.Now,
	}
}

// WithClock подменяет источник времени
func (r *IncidentRepository) WithClock(now func() time.Time) *IncidentRepository {
	r.now = now
	return r
}

// Create сохраняет новый инцидент и выставляет ID, версию и метки времени
func (r *IncidentRepository) Create(_ context.Context, incident *models.Incident) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if incident.ID == uuid.Nil {
		incident.ID = uuid.New()
	}
	if _, exists := r.incidents[incident.ID]; exists {
		return fmt.Errorf("incident with id %s already exists", incident.ID)
	}
	now := r.now()
	if incident.ReportedAt.IsZero() {
		incident.ReportedAt = now
	}
	incident.UpdatedAt = now
	incident.Version = 1
	if incident.MediaURLs == nil {
		incident.MediaURLs = []string{}
	}
	if incident.VotedBy == nil {
		incident.VotedBy = []string{}
	}
	if incident.UpvotedBy == nil {
		incident.UpvotedBy = []string{}
	}

	r.incidents[incident.ID] = incident.Clone()
	return nil
}

// GetByID возвращает копию инцидента
func (r *IncidentRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inc, ok := r.incidents[id]
	if !ok {
		return nil, fmt.Errorf("incident with id %s: %w", id, models.ErrNotFound)
	}
	return inc.Clone(), nil
}

// CompareAndSwap заменяет инцидент, если версия не изменилась
func (r *IncidentRepository) CompareAndSwap(_ context.Context, next *models.Incident, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.incidents[next.ID]
	if !ok {
		return fmt.Errorf("incident with id %s: %w", next.ID, models.ErrNotFound)
	}
	if stored.Version != expectedVersion {
		return fmt.Errorf("incident %s version %d, expected %d: %w", next.ID, stored.Version, expectedVersion, models.ErrConcurrencyConflict)
	}

	next.Version = expectedVersion + 1
	next.UpdatedAt = r.now()
	r.incidents[next.ID] = next.Clone()
	return nil
}

// List возвращает страницу инцидентов, не помеченных как дубликаты, новые изменения первыми
func (r *IncidentRepository) List(_ context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	items := r.collect(func(inc *models.Incident) bool {
		if inc.DuplicateOf != nil {
			return false
		}
		if filter.Status != "" && inc.Status != filter.Status {
			return false
		}
		if filter.Severity != "" && inc.Severity != filter.Severity {
			return false
		}
		return true
	})
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})

	offset := (filter.Page - 1) * filter.PageSize
	if offset < 0 || offset >= len(items) {
		return []*models.Incident{}, nil
	}
	end := min(offset+filter.PageSize, len(items))
	return items[offset:end], nil
}

// FindDuplicateCandidates возвращает инциденты, подходящие под форму запроса кандидатов
func (r *IncidentRepository) FindDuplicateCandidates(_ context.Context, q duplicate.CandidateQuery) ([]*models.Incident, error) {
	items := r.collect(q.Matches)
	sortByReportedAt(items)
	return items, nil
}

// FindRecentUnresolved возвращает нерешенные инциденты, созданные после since, в порядке создания
func (r *IncidentRepository) FindRecentUnresolved(_ context.Context, since time.Time) ([]*models.Incident, error) {
	items := r.collect(func(inc *models.Incident) bool {
		return inc.Status != models.StatusResolved && !inc.ReportedAt.Before(since)
	})
	sortByReportedAt(items)
	return items, nil
}

// FindInBox возвращает инциденты в квадрате ±deltaDeg вокруг center, созданные после since
func (r *IncidentRepository) FindInBox(_ context.Context, center models.Location, deltaDeg float64, since time.Time) ([]*models.Incident, error) {
	c := geo.Point{Lat: center.Lat, Lng: center.Lng}
	items := r.collect(func(inc *models.Incident) bool {
		p := geo.Point{Lat: inc.Location.Lat, Lng: inc.Location.Lng}
		return !inc.ReportedAt.Before(since) && geo.InBox(c, p, deltaDeg)
	})
	sortByReportedAt(items)
	return items, nil
}

// ListUpdatedSince возвращает инциденты, измененные начиная с since
func (r *IncidentRepository) ListUpdatedSince(_ context.Context, since time.Time) ([]*models.Incident, error) {
	items := r.collect(func(inc *models.Incident) bool {
		return !inc.UpdatedAt.Before(since)
	})
	sortByReportedAt(items)
	return items, nil
}

func (r *IncidentRepository) collect(keep func(*models.Incident) bool) []*models.Incident {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Incident, 0)
	for _, inc := range r.incidents {
		if keep(inc) {
			out = append(out, inc.Clone())
		}
	}
	return out
}

func sortByReportedAt(items []*models.Incident) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ReportedAt.Equal(items[j].ReportedAt) {
			return items[i].ID.String() < items[j].ID.String()
		}
		return items[i].ReportedAt.Before(items[j].ReportedAt)
	})
}
