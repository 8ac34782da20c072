package cluster

import (
	"math"
	"time"

	"github.com/shenikar/civic_alert_system/internal/models"
)

var severityWeights = map[models.Severity]float64{
	models.SeverityCritical: 5,
	models.SeverityHigh:     4,
	models.SeverityMedium:   3,
	models.SeverityLow:      1,
}

// SeverityWeight возвращает вес серьезности, для неизвестных значений - 1
func SeverityWeight(s models.Severity) float64 {
	if w, ok := severityWeights[s]; ok {
		return w
	}
	return 1
}

// RecencyWeight линейно убывает от 2 до нижней границы 0.5 (примерно через 10.5 дней)
func RecencyWeight(reportedAt, now time.Time) float64 {
	daysAgo := now.Sub(reportedAt).Hours() / 24
	return math.Max(0.5, 2-daysAgo/7)
}

// Score - рейтинг очага: сумма вес_серьезности * вес_давности по участникам
func Score(members []*models.Incident, now time.Time) float64 {
	var score float64
	for _, m := range members {
		score += SeverityWeight(m.Severity) * RecencyWeight(m.ReportedAt, now)
	}
	return score
}
