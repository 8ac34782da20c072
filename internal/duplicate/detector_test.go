package duplicate

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/civic_alert_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC)

func newIncident(desc string, lat, lng float64, reportedAt time.Time) *models.Incident {
	return &models.Incident{
		ID:          uuid.New(),
		Type:        "fire",
		Description: desc,
		Status:      models.StatusUnverified,
		Location:    models.Location{Lat: lat, Lng: lng},
		ReportedAt:  reportedAt,
	}
}

func TestFindDuplicates_SimilarDescriptionFlagged(t *testing.T) {
	d := NewDetector(DefaultConfig())
	// 5 метров к северу - около 0.000045°
	target := newIncident("Large fire near Main St warehouse", 40.0, -74.0, now)
	candidate := newIncident("Big fire by warehouse on Main Street", 40.000045, -74.0, now.Add(-30*time.Second))

	require.True(t, d.Query(target, now).Matches(candidate))
	got := d.FindDuplicates(target, []*models.Incident{candidate})
	assert.Equal(t, []*models.Incident{candidate}, got)
}

func TestFindDuplicates_DifferentDescriptionNotFlagged(t *testing.T) {
	d := NewDetector(DefaultConfig())
	target := newIncident("Large fire near Main St warehouse", 40.0, -74.0, now)
	candidate := newIncident("Minor pothole on side street", 40.000045, -74.0, now)

	got := d.FindDuplicates(target, []*models.Incident{candidate})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestFindDuplicates_SkipsSelf(t *testing.T) {
	d := NewDetector(DefaultConfig())
	target := newIncident("Large fire near Main St warehouse", 40.0, -74.0, now)

	assert.Empty(t, d.FindDuplicates(target, []*models.Incident{target}))
}

func TestFindDuplicates_ThresholdIsConfigurable(t *testing.T) {
	target := newIncident("Large fire near Main St warehouse", 40.0, -74.0, now)
	candidate := newIncident("Big fire by warehouse on Main Street", 40.0, -74.0, now)

	strict := NewDetector(Config{SimilarityThreshold: 0.95})
	assert.Empty(t, strict.FindDuplicates(target, []*models.Incident{candidate}))

	loose := NewDetector(Config{SimilarityThreshold: 0.1})
	pothole := newIncident("Minor pothole on side street", 40.0, -74.0, now)
	assert.Len(t, loose.FindDuplicates(target, []*models.Incident{candidate, pothole}), 2)
}

func TestQuery_Shape(t *testing.T) {
	d := NewDetector(DefaultConfig())
	target := newIncident("x", 40.0, -74.0, now)
	q := d.Query(target, now)

	assert.Equal(t, target.ID, q.ExcludeID)
	assert.Equal(t, "fire", q.Type)
	assert.Equal(t, now.Add(-2*time.Hour), q.Since)
	assert.InDelta(t, 39.99, q.MinLat, 1e-9)
	assert.InDelta(t, 40.01, q.MaxLat, 1e-9)
	assert.InDelta(t, -74.01, q.MinLng, 1e-9)
	assert.InDelta(t, -73.99, q.MaxLng, 1e-9)
}

func TestQuery_Matches(t *testing.T) {
	d := NewDetector(DefaultConfig())
	target := newIncident("x", 40.0, -74.0, now)
	q := d.Query(target, now)

	ok := newIncident("y", 40.005, -74.005, now.Add(-time.Hour))
	assert.True(t, q.Matches(ok))

	otherType := ok.Clone()
	otherType.Type = "flood"
	assert.False(t, q.Matches(otherType))

	resolved := ok.Clone()
	resolved.Status = models.StatusResolved
	assert.False(t, q.Matches(resolved))

	old := ok.Clone()
	old.ReportedAt = now.Add(-3 * time.Hour)
	assert.False(t, q.Matches(old))

	far := ok.Clone()
	far.Location.Lat = 40.02
	assert.False(t, q.Matches(far))

	assert.False(t, q.Matches(target))
}
