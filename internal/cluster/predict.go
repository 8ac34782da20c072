package cluster

import (
	"fmt"
	"math"
	"sort"

	"github.com/shenikar/civic_alert_system/internal/models"
)

// Predict оценивает вероятные типы инцидентов по истории окрестности.
// Вероятность типа - его доля в истории; в ответ попадают типы с долей больше minProbability.
func Predict(history []*models.Incident, timeRangeHours int, minProbability float64) []models.Prediction {
	if len(history) == 0 {
		return []models.Prediction{}
	}

	type bucket struct {
		count    int
		severity models.Severity
	}
	var order []string
	byType := make(map[string]*bucket)
	for _, inc := range history {
		b, ok := byType[inc.Type]
		if !ok {
			b = &bucket{severity: inc.Severity}
			byType[inc.Type] = b
			order = append(order, inc.Type)
		}
		b.count++
	}

	total := float64(len(history))
	predictions := make([]models.Prediction, 0, len(order))
	for _, typ := range order {
		b := byType[typ]
		p := float64(b.count) / total
		if p <= minProbability {
			continue
		}
		predictions = append(predictions, models.Prediction{
			Type:              typ,
			Severity:          b.severity,
			Probability:       int(math.Round(p * 100)),
			ExpectedTimeframe: fmt.Sprintf("%d hours", timeRangeHours),
		})
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Probability > predictions[j].Probability
	})
	return predictions
}
