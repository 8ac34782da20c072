package cluster

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shenikar/civic_alert_system/internal/geo"
	"github.com/shenikar/civic_alert_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func incidentAt(lat, lng float64, typ string, sev models.Severity, age time.Duration) *models.Incident {
	return &models.Incident{
		ID:         uuid.New(),
		Type:       typ,
		Severity:   sev,
		Status:     models.StatusUnverified,
		Location:   models.Location{Lat: lat, Lng: lng},
		ReportedAt: now.Add(-age),
	}
}

func TestCluster_GroupingDeterminism(t *testing.T) {
	a := incidentAt(0, 0, "fire", models.SeverityHigh, 0)
	b := incidentAt(0, 0.0001, "fire", models.SeverityHigh, 0)
	c := incidentAt(10, 10, "flood", models.SeverityLow, 0)

	clusters := Cluster([]*models.Incident{a, b, c}, geo.DegreesToKm(0.001))

	require.Len(t, clusters, 2)
	assert.Equal(t, []*models.Incident{a, b}, clusters[0].Members)
	assert.Equal(t, []*models.Incident{c}, clusters[1].Members)
	assert.Equal(t, models.Location{Lat: 0, Lng: 0}, clusters[0].Center)
	assert.Equal(t, models.Location{Lat: 10, Lng: 10}, clusters[1].Center)
}

func TestCluster_CenterIsNotRecomputed(t *testing.T) {
	threshold := geo.DegreesToKm(0.001)
	// каждый следующий в 0.0008° от предыдущего: второй попадает в кластер первого,
	// третий уже дальше порога от неподвижного центра
	first := incidentAt(0, 0, "fire", models.SeverityHigh, 0)
	second := incidentAt(0, 0.0008, "fire", models.SeverityHigh, 0)
	third := incidentAt(0, 0.0016, "fire", models.SeverityHigh, 0)

	clusters := Cluster([]*models.Incident{first, second, third}, threshold)
	require.Len(t, clusters, 2)
	assert.Len(t, clusters[0].Members, 2)
	assert.Equal(t, models.Location{Lat: 0, Lng: 0}, clusters[0].Center)

	// при другом порядке средняя точка собирает всех
	clusters = Cluster([]*models.Incident{second, first, third}, threshold)
	require.Len(t, clusters, 1)
	assert.Len(t, clusters[0].Members, 3)
}

func TestCluster_JoinsFirstMatchingCluster(t *testing.T) {
	threshold := geo.DegreesToKm(0.001)
	left := incidentAt(0, 0, "a", models.SeverityLow, 0)
	right := incidentAt(0, 0.0015, "b", models.SeverityLow, 0)
	middle := incidentAt(0, 0.00075, "c", models.SeverityLow, 0)

	clusters := Cluster([]*models.Incident{left, right, middle}, threshold)
	require.Len(t, clusters, 2)
	assert.Equal(t, []*models.Incident{left, middle}, clusters[0].Members)
}

func TestCluster_Empty(t *testing.T) {
	assert.Empty(t, Cluster(nil, 1))
	assert.Empty(t, Hotspots(nil, 1, now, 10))
}

func TestCluster_DominantTypeAndSeverity(t *testing.T) {
	members := []*models.Incident{
		incidentAt(0, 0, "flood", models.SeverityLow, 0),
		incidentAt(0, 0, "fire", models.SeverityCritical, 0),
		incidentAt(0, 0, "fire", models.SeverityCritical, 0),
	}
	clusters := Cluster(members, 1)
	require.Len(t, clusters, 1)
	assert.Equal(t, "fire", clusters[0].DominantType)
	assert.Equal(t, models.SeverityCritical, clusters[0].DominantSeverity)

	tie := Cluster([]*models.Incident{
		incidentAt(0, 0, "flood", models.SeverityLow, 0),
		incidentAt(0, 0, "fire", models.SeverityHigh, 0),
	}, 1)
	assert.Equal(t, "flood", tie[0].DominantType)
	assert.Equal(t, models.SeverityLow, tie[0].DominantSeverity)
}

func TestHotspots_SeverityOrdering(t *testing.T) {
	low := []*models.Incident{
		incidentAt(10, 10, "noise", models.SeverityLow, time.Hour),
		incidentAt(10, 10, "noise", models.SeverityLow, time.Hour),
	}
	critical := []*models.Incident{
		incidentAt(20, 20, "fire", models.SeverityCritical, time.Hour),
		incidentAt(20, 20, "fire", models.SeverityCritical, time.Hour),
	}

	hotspots := Hotspots(append(low, critical...), geo.DegreesToKm(0.001), now, 10)
	require.Len(t, hotspots, 2)
	assert.Equal(t, "fire", hotspots[0].DominantType)
	assert.Equal(t, "noise", hotspots[1].DominantType)
	assert.Greater(t, hotspots[0].Score, hotspots[1].Score)
}

func TestHotspots_TopNAndProjection(t *testing.T) {
	var incidents []*models.Incident
	for i := 0; i < 15; i++ {
		incidents = append(incidents, incidentAt(float64(i), 0, "fire", models.SeverityMedium, 0))
	}
	incidents = append(incidents, incidentAt(0, 0, "fire", models.SeverityMedium, 0))

	top := Hotspots(incidents, geo.DegreesToKm(0.001), now, 10)
	require.Len(t, top, 10)

	got := ToHotspots(top[:1])
	want := []models.Hotspot{{
		Location:  models.Location{Lat: 0, Lng: 0},
		Incidents: 2,
		Score:     12,
		Type:      "fire",
		Severity:  models.SeverityMedium,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToHotspots() mismatch (-want +got):\n%s", diff)
	}
}

func TestHotspotsContext_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := HotspotsContext(ctx, []*models.Incident{incidentAt(0, 0, "a", models.SeverityLow, 0)}, 1, now, 10)
	assert.ErrorIs(t, err, context.Canceled)
}
