// Package cluster группирует недавние инциденты в очаги и ранжирует их.
package cluster

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/shenikar/civic_alert_system/internal/geo"
	"github.com/shenikar/civic_alert_system/internal/models"
)

// Cluster жадно распределяет инциденты по кластерам в порядке входа.
//
// Инцидент присоединяется к первому кластеру, центр которого ближе thresholdKm.
// Центр не пересчитывается и остается координатой первого участника, поэтому
// результат зависит от порядка входных данных.
func Cluster(incidents []*models.Incident, thresholdKm float64) []*models.Cluster {
	clusters, _ := clusterContext(context.Background(), incidents, thresholdKm)
	return clusters
}

func clusterContext(ctx context.Context, incidents []*models.Incident, thresholdKm float64) ([]*models.Cluster, error) {
	var clusters []*models.Cluster

	for i, inc := range incidents {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		p := geo.Point{Lat: inc.Location.Lat, Lng: inc.Location.Lng}
		assigned := false
		for _, c := range clusters {
			center := geo.Point{Lat: c.Center.Lat, Lng: c.Center.Lng}
			if geo.DistanceKm(p, center) < thresholdKm {
				c.Members = append(c.Members, inc)
				assigned = true
				break
			}
		}
		if !assigned {
			clusters = append(clusters, &models.Cluster{
				Center:  models.Location{Lat: inc.Location.Lat, Lng: inc.Location.Lng},
				Members: []*models.Incident{inc},
			})
		}
	}

	for _, c := range clusters {
		c.DominantType, c.DominantSeverity = dominant(c.Members)
	}
	return clusters, nil
}

// Hotspots строит кластеры, считает их рейтинг и возвращает topN лучших.
// topN <= 0 означает без ограничения.
func Hotspots(incidents []*models.Incident, thresholdKm float64, now time.Time, topN int) []*models.Cluster {
	out, _ := HotspotsContext(context.Background(), incidents, thresholdKm, now, topN)
	return out
}

// HotspotsContext - то же, что Hotspots, но прерывается при отмене контекста
func HotspotsContext(ctx context.Context, incidents []*models.Incident, thresholdKm float64, now time.Time, topN int) ([]*models.Cluster, error) {
	clusters, err := clusterContext(ctx, incidents, thresholdKm)
	if err != nil {
		return nil, err
	}

	for _, c := range clusters {
		c.Score = Score(c.Members, now)
	}
	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Score > clusters[j].Score
	})

	if topN > 0 && len(clusters) > topN {
		clusters = clusters[:topN]
	}
	return clusters, nil
}

// ToHotspots проецирует кластеры в ответ API
func ToHotspots(clusters []*models.Cluster) []models.Hotspot {
	out := make([]models.Hotspot, 0, len(clusters))
	for _, c := range clusters {
		out = append(out, models.Hotspot{
			Location:  c.Center,
			Incidents: len(c.Members),
			Score:     math.Round(c.Score*100) / 100,
			Type:      c.DominantType,
			Severity:  c.DominantSeverity,
		})
	}
	return out
}

// dominant возвращает самые частые тип и серьезность участников.
// При равенстве побеждает значение, первым набравшее это количество.
func dominant(members []*models.Incident) (string, models.Severity) {
	if len(members) == 0 {
		return "", ""
	}
	typeCount := make(map[string]int)
	sevCount := make(map[models.Severity]int)
	bestType, bestSev := members[0].Type, members[0].Severity

	for _, m := range members {
		typeCount[m.Type]++
		if typeCount[m.Type] > typeCount[bestType] {
			bestType = m.Type
		}
		sevCount[m.Severity]++
		if sevCount[m.Severity] > sevCount[bestSev] {
			bestSev = m.Severity
		}
	}
	return bestType, bestSev
}
