// Package duplicate находит вероятные дубликаты только что созданного инцидента.
package duplicate

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/civic_alert_system/internal/models"
	"github.com/shenikar/civic_alert_system/internal/textsim"
)

// Config - настраиваемые параметры детектора
type Config struct {
	// SimilarityThreshold - кандидат считается дубликатом при сходстве описаний строго больше порога
	SimilarityThreshold float64
	// Window - насколько недавним должен быть кандидат
	Window time.Duration
	// BoxDegrees - полуширина квадрата предварительного отбора в градусах
	BoxDegrees float64
}

// DefaultConfig возвращает значения по умолчанию
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.6,
		Window:              2 * time.Hour,
		BoxDegrees:          0.01,
	}
}

// CandidateQuery - форма запроса кандидатов к хранилищу: тот же тип, не resolved,
// создан не раньше Since, координаты внутри квадрата.
type CandidateQuery struct {
	ExcludeID uuid.UUID
	Type      string
	Since     time.Time
	MinLat    float64
	MaxLat    float64
	MinLng    float64
	MaxLng    float64
}

// Matches применяет форму запроса к инциденту в памяти
func (q CandidateQuery) Matches(inc *models.Incident) bool {
	return inc.ID != q.ExcludeID &&
		inc.Type == q.Type &&
		inc.Status != models.StatusResolved &&
		!inc.ReportedAt.Before(q.Since) &&
		inc.Location.Lat >= q.MinLat && inc.Location.Lat <= q.MaxLat &&
		inc.Location.Lng >= q.MinLng && inc.Location.Lng <= q.MaxLng
}

// Detector сравнивает описания кандидатов с описанием нового инцидента
type Detector struct {
	cfg Config
}

// NewDetector создает детектор, нулевые поля конфигурации заменяются значениями по умолчанию
func NewDetector(cfg Config) *Detector {
	def := DefaultConfig()
	if cfg.SimilarityThreshold <= 0 {
		cfg.SimilarityThreshold = def.SimilarityThreshold
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.BoxDegrees <= 0 {
		cfg.BoxDegrees = def.BoxDegrees
	}
	return &Detector{cfg: cfg}
}

// Query строит запрос кандидатов для инцидента
func (d *Detector) Query(inc *models.Incident, now time.Time) CandidateQuery {
	return CandidateQuery{
		ExcludeID: inc.ID,
		Type:      inc.Type,
		Since:     now.Add(-d.cfg.Window),
		MinLat:    inc.Location.Lat - d.cfg.BoxDegrees,
		MaxLat:    inc.Location.Lat + d.cfg.BoxDegrees,
		MinLng:    inc.Location.Lng - d.cfg.BoxDegrees,
		MaxLng:    inc.Location.Lng + d.cfg.BoxDegrees,
	}
}

// FindDuplicates возвращает кандидатов с похожим описанием.
// Кандидаты должны быть уже отобраны по форме Query; сам инцидент пропускается.
func (d *Detector) FindDuplicates(inc *models.Incident, candidates []*models.Incident) []*models.Incident {
	duplicates := make([]*models.Incident, 0)
	for _, c := range candidates {
		if c.ID == inc.ID {
			continue
		}
		if textsim.Similarity(inc.Description, c.Description) > d.cfg.SimilarityThreshold {
			duplicates = append(duplicates, c)
		}
	}
	return duplicates
}
