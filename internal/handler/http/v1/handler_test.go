package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/civic_alert_system/internal/config"
	"github.com/shenikar/civic_alert_system/internal/models"
	"github.com/shenikar/civic_alert_system/internal/service"
	"github.com/shenikar/civic_alert_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type serviceMocks struct {
	incidents     *mocks.MockIncidentService
	analytics     *mocks.MockAnalyticsService
	subscriptions *mocks.MockSubscriptionService
	rewards       *mocks.MockRewardService
	activity      *mocks.MockActivityService
}

var (
	apiKey       = map[string]string{"X-API-Key": "test-api-key"}
	asCitizen    = map[string]string{"X-API-Key": "test-api-key", "X-User-ID": "citizen-1"}
	asResponder  = map[string]string{"X-API-Key": "test-api-key", "X-User-ID": "responder-1", "X-User-Role": "responder"}
	citizenOne   = models.Caller{UserID: "citizen-1", Role: models.RoleCitizen}
	responderOne = models.Caller{UserID: "responder-1", Role: models.RoleResponder}
)

// newTestHandler создает Handler с мокированными сервисами
func newTestHandler(t *testing.T, cfgOverride ...func(*config.Config)) (*serviceMocks, *gin.Engine) {
	ctrl := gomock.NewController(t)
	m := &serviceMocks{
		incidents:     mocks.NewMockIncidentService(ctrl),
		analytics:     mocks.NewMockAnalyticsService(ctrl),
		subscriptions: mocks.NewMockSubscriptionService(ctrl),
		rewards:       mocks.NewMockRewardService(ctrl),
		activity:      mocks.NewMockActivityService(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		APIKeys:        []string{"test-api-key"},
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}
	for _, f := range cfgOverride {
		f(cfg)
	}

	handler := NewHandler(Services{
		Incidents:     m.incidents,
		Analytics:     m.analytics,
		Subscriptions: m.subscriptions,
		Rewards:       m.rewards,
		Activity:      m.activity,
	}, logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return m, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonBody(t *testing.T, v any) io.Reader {
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func ptr[T any](v T) *T { return &v }

func testIncident() *models.Incident {
	return &models.Incident{
		ID:          uuid.New(),
		Type:        "fire",
		Title:       "Smoke in the stairwell",
		Description: "thick smoke on the third floor",
		Severity:    models.SeverityCritical,
		Status:      models.StatusUnverified,
		Location:    models.Location{Lat: 40.7128, Lng: -74.006},
		ReportedBy:  "citizen-1",
		Version:     1,
		ReportedAt:  time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func TestCreateIncident_Success(t *testing.T) {
	m, router := newTestHandler(t)
	created := testIncident()
	duplicate := testIncident()
	reqBody := CreateIncidentRequest{
		Type:        "fire",
		Title:       "Smoke in the stairwell",
		Description: "thick smoke on the third floor",
		Location:    LocationRequest{Lat: ptr(40.7128), Lng: ptr(-74.006)},
	}

	m.incidents.EXPECT().
		CreateIncident(gomock.Any(), citizenOne, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Caller, inc *models.Incident) (*service.CreateResult, error) {
			assert.Equal(t, "fire", inc.Type)
			assert.Equal(t, 40.7128, inc.Location.Lat)
			return &service.CreateResult{Incident: created, PotentialDuplicates: []*models.Incident{duplicate}}, nil
		}).Times(1)

	w := makeRequest(router, "POST", "/api/v1/incidents", jsonBody(t, reqBody), asCitizen)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp CreateIncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, created.ID, resp.Incident.ID)
	assert.Equal(t, "critical", resp.Incident.Severity)
	require.Len(t, resp.PotentialDuplicates, 1)
	assert.Equal(t, duplicate.ID, resp.PotentialDuplicates[0].ID)
}

func TestCreateIncident_ZeroCoordinatesAccepted(t *testing.T) {
	m, router := newTestHandler(t)
	reqBody := CreateIncidentRequest{
		Type:     "flood",
		Title:    "Water on the road",
		Location: LocationRequest{Lat: ptr(0.0), Lng: ptr(0.0)},
	}

	m.incidents.EXPECT().
		CreateIncident(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&service.CreateResult{Incident: testIncident(), PotentialDuplicates: []*models.Incident{}}, nil)

	w := makeRequest(router, "POST", "/api/v1/incidents", jsonBody(t, reqBody), asCitizen)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"potentialDuplicates":[]`)
}

func TestCreateIncident_MediaURLs(t *testing.T) {
	m, router := newTestHandler(t)
	created := testIncident()
	created.MediaURLs = []string{"https://cdn.example.com/a.jpg"}

	m.incidents.EXPECT().
		CreateIncident(gomock.Any(), citizenOne, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Caller, inc *models.Incident) (*service.CreateResult, error) {
			assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.mp4"}, inc.MediaURLs)
			return &service.CreateResult{Incident: created, PotentialDuplicates: []*models.Incident{}}, nil
		})

	body := `{"type":"fire","title":"Smoke","location":{"lat":40.7,"lng":-74},` +
		`"mediaUrls":["https://cdn.example.com/a.jpg","https://cdn.example.com/b.mp4"]}`
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBufferString(body), asCitizen)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"mediaUrls":["https://cdn.example.com/a.jpg"]`)
	assert.Contains(t, w.Body.String(), `"reportedBy":"citizen-1"`)
	assert.NotContains(t, w.Body.String(), "media_urls")
}

func TestCreateIncident_InvalidMediaURL(t *testing.T) {
	m, router := newTestHandler(t)

	m.incidents.EXPECT().CreateIncident(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	body := `{"type":"fire","title":"Smoke","location":{"lat":40.7,"lng":-74},"mediaUrls":["not a url"]}`
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBufferString(body), asCitizen)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateIncident_InvalidJSON(t *testing.T) {
	m, router := newTestHandler(t)

	m.incidents.EXPECT().CreateIncident(gomock.Any(), gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBufferString(`{"title": "test"`), asCitizen)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestCreateIncident_ValidationError(t *testing.T) {
	tests := []struct {
		name     string
		body     CreateIncidentRequest
		contains string
	}{
		{
			name:     "missing title",
			body:     CreateIncidentRequest{Type: "fire", Location: LocationRequest{Lat: ptr(1.0), Lng: ptr(1.0)}},
			contains: "Error:Field validation for 'Title' failed on the 'required' tag",
		},
		{
			name:     "missing latitude",
			body:     CreateIncidentRequest{Type: "fire", Title: "Fire", Location: LocationRequest{Lng: ptr(1.0)}},
			contains: "Error:Field validation for 'Lat' failed on the 'required' tag",
		},
		{
			name:     "latitude out of range",
			body:     CreateIncidentRequest{Type: "fire", Title: "Fire", Location: LocationRequest{Lat: ptr(95.0), Lng: ptr(1.0)}},
			contains: "Error:Field validation for 'Lat' failed on the 'latitude' tag",
		},
		{
			name:     "bad media url",
			body:     CreateIncidentRequest{Type: "fire", Title: "Fire", Location: LocationRequest{Lat: ptr(1.0), Lng: ptr(1.0)}, MediaURLs: []string{"not a url"}},
			contains: "failed on the 'url' tag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, router := newTestHandler(t)
			m.incidents.EXPECT().CreateIncident(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			w := makeRequest(router, "POST", "/api/v1/incidents", jsonBody(t, tt.body), asCitizen)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestCreateIncident_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     int
		contains string
	}{
		{"validation", fmt.Errorf("service: %w: reporter is required", models.ErrValidation), http.StatusBadRequest, "reporter is required"},
		{"storage unavailable", fmt.Errorf("%w: connection refused", models.ErrDependencyUnavailable), http.StatusServiceUnavailable, "service temporarily unavailable"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, router := newTestHandler(t)
			reqBody := CreateIncidentRequest{Type: "fire", Title: "Fire", Location: LocationRequest{Lat: ptr(1.0), Lng: ptr(1.0)}}

			m.incidents.EXPECT().CreateIncident(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tt.err)

			w := makeRequest(router, "POST", "/api/v1/incidents", jsonBody(t, reqBody), asCitizen)

			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestGetIncident_Success(t *testing.T) {
	m, router := newTestHandler(t)
	inc := testIncident()
	similar := testIncident()

	m.incidents.EXPECT().
		GetIncident(gomock.Any(), inc.ID).
		Return(&service.IncidentDetails{Incident: inc, Suggestions: []*models.Incident{similar}}, nil).
		Times(1)

	w := makeRequest(router, "GET", fmt.Sprintf("/api/v1/incidents/%s", inc.ID.String()), nil, apiKey)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp IncidentDetailsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, inc.ID, resp.Incident.ID)
	assert.Equal(t, inc.Title, resp.Incident.Title)
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, similar.ID, resp.Suggestions[0].ID)
}

func TestGetIncident_InvalidID(t *testing.T) {
	m, router := newTestHandler(t)

	m.incidents.EXPECT().GetIncident(gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(router, "GET", "/api/v1/incidents/invalid-uuid", nil, apiKey)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid incident ID")
}

func TestGetIncident_NotFound(t *testing.T) {
	m, router := newTestHandler(t)
	id := uuid.New()

	m.incidents.EXPECT().GetIncident(gomock.Any(), id).Return(nil, fmt.Errorf("service: %w", models.ErrNotFound))

	w := makeRequest(router, "GET", fmt.Sprintf("/api/v1/incidents/%s", id), nil, apiKey)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "incident not found")
}

func TestListIncidents_Success(t *testing.T) {
	m, router := newTestHandler(t)
	incidents := []*models.Incident{testIncident(), testIncident()}

	m.incidents.EXPECT().
		ListIncidents(gomock.Any(), models.IncidentFilter{
			Status:   models.StatusVerified,
			Severity: models.SeverityHigh,
			Page:     2,
			PageSize: 5,
		}).
		Return(incidents, nil)

	w := makeRequest(router, "GET", "/api/v1/incidents?status=verified&severity=high&page=2&pageSize=5", nil, apiKey)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestListIncidents_InvalidFilter(t *testing.T) {
	m, router := newTestHandler(t)

	m.incidents.EXPECT().ListIncidents(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/incidents?status=closed", nil, apiKey)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown status")
}

func TestUpdateIncident_Success(t *testing.T) {
	m, router := newTestHandler(t)
	inc := testIncident()
	canonical := uuid.New()
	reqBody := UpdateIncidentRequest{
		Severity:    ptr("low"),
		AssignedTo:  ptr("crew-7"),
		DuplicateOf: ptr(canonical.String()),
	}

	m.incidents.EXPECT().
		UpdateIncident(gomock.Any(), responderOne, inc.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ models.Caller, _ uuid.UUID, patch service.IncidentPatch) (*models.Incident, error) {
			require.NotNil(t, patch.Severity)
			assert.Equal(t, models.SeverityLow, *patch.Severity)
			require.NotNil(t, patch.DuplicateOf)
			assert.Equal(t, canonical, *patch.DuplicateOf)
			assert.Nil(t, patch.Title)
			inc.AssignedTo = *patch.AssignedTo
			return inc, nil
		})

	w := makeRequest(router, "PATCH", fmt.Sprintf("/api/v1/incidents/%s", inc.ID), jsonBody(t, reqBody), asResponder)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "crew-7", resp.AssignedTo)
}

func TestUpdateIncident_InvalidSeverity(t *testing.T) {
	m, router := newTestHandler(t)

	m.incidents.EXPECT().UpdateIncident(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "PATCH", fmt.Sprintf("/api/v1/incidents/%s", uuid.New()),
		jsonBody(t, UpdateIncidentRequest{Severity: ptr("catastrophic")}), asResponder)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateIncident_Conflict(t *testing.T) {
	m, router := newTestHandler(t)
	id := uuid.New()

	m.incidents.EXPECT().
		UpdateIncident(gomock.Any(), gomock.Any(), id, gomock.Any()).
		Return(nil, models.ErrConcurrencyConflict)

	w := makeRequest(router, "PATCH", fmt.Sprintf("/api/v1/incidents/%s", id),
		jsonBody(t, UpdateIncidentRequest{Title: ptr("Renamed")}), asResponder)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestVote_Success(t *testing.T) {
	m, router := newTestHandler(t)
	inc := testIncident()
	inc.Upvotes = 5
	inc.Status = models.StatusVerified

	m.incidents.EXPECT().Vote(gomock.Any(), citizenOne, inc.ID, models.VoteUp).Return(inc, nil)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/incidents/%s/vote", inc.ID), jsonBody(t, VoteRequest{Type: "up"}), asCitizen)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "verified", resp.Status)
	assert.Equal(t, 5, resp.Upvotes)
}

func TestVote_DuplicateVote(t *testing.T) {
	m, router := newTestHandler(t)
	id := uuid.New()

	m.incidents.EXPECT().Vote(gomock.Any(), citizenOne, id, models.VoteDown).Return(nil, models.ErrDuplicateVote)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/incidents/%s/vote", id), jsonBody(t, VoteRequest{Type: "down"}), asCitizen)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already voted")
}

func TestVote_InvalidType(t *testing.T) {
	m, router := newTestHandler(t)

	m.incidents.EXPECT().Vote(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/incidents/%s/vote", uuid.New()), jsonBody(t, VoteRequest{Type: "sideways"}), asCitizen)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetStatus_Success(t *testing.T) {
	m, router := newTestHandler(t)
	inc := testIncident()
	inc.Status = models.StatusResolved

	m.incidents.EXPECT().SetStatus(gomock.Any(), responderOne, inc.ID, models.StatusResolved).Return(inc, nil)

	w := makeRequest(router, "PATCH", fmt.Sprintf("/api/v1/incidents/%s/status", inc.ID), jsonBody(t, StatusRequest{Status: "resolved"}), asResponder)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"resolved"`)
}

func TestSetStatus_Forbidden(t *testing.T) {
	m, router := newTestHandler(t)
	id := uuid.New()

	m.incidents.EXPECT().SetStatus(gomock.Any(), citizenOne, id, models.StatusResolved).Return(nil, models.ErrForbidden)

	w := makeRequest(router, "PATCH", fmt.Sprintf("/api/v1/incidents/%s/status", id), jsonBody(t, StatusRequest{Status: "resolved"}), asCitizen)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEscalate(t *testing.T) {
	m, router := newTestHandler(t)
	inc := testIncident()

	m.incidents.EXPECT().Escalate(gomock.Any(), responderOne, inc.ID, "gas smell").Return(inc, nil)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/incidents/%s/escalate", inc.ID), jsonBody(t, EscalateRequest{Reason: "gas smell"}), asResponder)

	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestEscalate_WithoutBody(t *testing.T) {
	m, router := newTestHandler(t)
	inc := testIncident()

	m.incidents.EXPECT().Escalate(gomock.Any(), responderOne, inc.ID, "").Return(nil, models.ErrDependencyUnavailable)

	w := makeRequest(router, "POST", fmt.Sprintf("/api/v1/incidents/%s/escalate", inc.ID), nil, asResponder)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetHotspots(t *testing.T) {
	m, router := newTestHandler(t)
	hotspots := []models.Hotspot{{Location: models.Location{Lat: 1, Lng: 2}, Incidents: 4, Score: 9.5, Type: "flood", Severity: models.SeverityHigh}}

	m.analytics.EXPECT().Hotspots(gomock.Any()).Return(hotspots, nil)

	w := makeRequest(router, "GET", "/api/v1/analytics/hotspots", nil, asResponder)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []models.Hotspot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, hotspots, resp)
}

func TestPredict(t *testing.T) {
	m, router := newTestHandler(t)
	predictions := []models.Prediction{{Type: "theft", Severity: models.SeverityHigh, Probability: 75, ExpectedTimeframe: "24 hours"}}

	m.analytics.EXPECT().
		Predict(gomock.Any(), models.Location{Lat: 40.7, Lng: -74}, 24).
		Return(predictions, nil)

	w := makeRequest(router, "POST", "/api/v1/analytics/predict",
		bytes.NewBufferString(`{"location":{"lat":40.7,"lng":-74},"timeRange":24}`), asResponder)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"expectedTimeframe":"24 hours"`)
}

func TestPredict_DefaultTimeRange(t *testing.T) {
	m, router := newTestHandler(t)

	m.analytics.EXPECT().
		Predict(gomock.Any(), models.Location{Lat: 40.7, Lng: -74}, 24).
		Return([]models.Prediction{}, nil)

	w := makeRequest(router, "POST", "/api/v1/analytics/predict",
		bytes.NewBufferString(`{"location":{"lat":40.7,"lng":-74}}`), asResponder)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPredict_ValidationError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "negative time range", body: `{"location":{"lat":40.7,"lng":-74},"timeRange":-1}`},
		{name: "time range too long", body: `{"location":{"lat":40.7,"lng":-74},"timeRange":721}`},
		{name: "missing location", body: `{"timeRange":24}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, router := newTestHandler(t)

			m.analytics.EXPECT().Predict(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			w := makeRequest(router, "POST", "/api/v1/analytics/predict", bytes.NewBufferString(tt.body), asResponder)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAnalytics_OperatorOnly(t *testing.T) {
	tests := []struct {
		name    string
		method  string
		url     string
		body    string
		headers map[string]string
	}{
		{name: "citizen hotspots", method: "GET", url: "/api/v1/analytics/hotspots", headers: asCitizen},
		{name: "anonymous hotspots", method: "GET", url: "/api/v1/analytics/hotspots", headers: apiKey},
		{name: "citizen predict", method: "POST", url: "/api/v1/analytics/predict",
			body: `{"location":{"lat":40.7,"lng":-74},"timeRange":24}`, headers: asCitizen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, router := newTestHandler(t)

			m.analytics.EXPECT().Hotspots(gomock.Any()).Times(0)
			m.analytics.EXPECT().Predict(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			var body io.Reader
			if tt.body != "" {
				body = bytes.NewBufferString(tt.body)
			}
			w := makeRequest(router, tt.method, tt.url, body, tt.headers)

			assert.Equal(t, http.StatusForbidden, w.Code)
		})
	}

	t.Run("admin allowed", func(t *testing.T) {
		m, router := newTestHandler(t)
		m.analytics.EXPECT().Hotspots(gomock.Any()).Return([]models.Hotspot{}, nil)

		admin := map[string]string{"X-API-Key": "test-api-key", "X-User-ID": "admin-1", "X-User-Role": "admin"}
		w := makeRequest(router, "GET", "/api/v1/analytics/hotspots", nil, admin)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSubscribe(t *testing.T) {
	m, router := newTestHandler(t)

	m.subscriptions.EXPECT().
		Subscribe(gomock.Any(), citizenOne, "device-token", gomock.Any()).
		DoAndReturn(func(_ context.Context, caller models.Caller, token string, f models.SubscriptionFilters) (*models.Subscription, error) {
			assert.Equal(t, []models.Severity{models.SeverityCritical}, f.Severities)
			assert.Equal(t, 2.5, f.RadiusKm)
			require.NotNil(t, f.Location)
			return &models.Subscription{UserID: caller.UserID, Token: token, Filters: f}, nil
		})

	body := `{"token":"device-token","filters":{"severity":["critical"],"location":{"lat":1,"lng":2},"radius":2.5}}`
	w := makeRequest(router, "POST", "/api/v1/notifications/subscribe", bytes.NewBufferString(body), asCitizen)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp SubscriptionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "citizen-1", resp.UserID)
	assert.Equal(t, []string{"critical"}, resp.Filters.Severity)
}

func TestSubscribe_InvalidSeverity(t *testing.T) {
	m, router := newTestHandler(t)

	m.subscriptions.EXPECT().Subscribe(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	body := `{"token":"device-token","filters":{"severity":["apocalyptic"]}}`
	w := makeRequest(router, "POST", "/api/v1/notifications/subscribe", bytes.NewBufferString(body), asCitizen)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnsubscribe(t *testing.T) {
	m, router := newTestHandler(t)

	m.subscriptions.EXPECT().Unsubscribe(gomock.Any(), citizenOne, "device-token").Return(nil)

	w := makeRequest(router, "POST", "/api/v1/notifications/unsubscribe", jsonBody(t, UnsubscribeRequest{Token: "device-token"}), asCitizen)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestListSubscriptions_Forbidden(t *testing.T) {
	m, router := newTestHandler(t)

	m.subscriptions.EXPECT().ListSubscriptions(gomock.Any(), citizenOne, "someone-else").Return(nil, models.ErrForbidden)

	w := makeRequest(router, "GET", "/api/v1/notifications/subscriptions/someone-else", nil, asCitizen)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetRewards(t *testing.T) {
	m, router := newTestHandler(t)
	rewards := &models.UserRewards{
		UserID: "citizen-1",
		Points: 110,
		Badges: []string{"reliable-reporter"},
		Stats:  models.UserStats{VerifiedReports: 3},
	}

	m.rewards.EXPECT().GetRewards(gomock.Any(), "citizen-1").Return(rewards, nil)

	w := makeRequest(router, "GET", "/api/v1/users/citizen-1/rewards", nil, apiKey)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp RewardsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 110, resp.Points)
	assert.Equal(t, 2, resp.Level)
	assert.Equal(t, 10, resp.ProgressToNextLevel)
	assert.Equal(t, 90, resp.NextLevelPoints)
	assert.Equal(t, 3, resp.Stats.VerifiedReports)
	assert.Equal(t, []string{"reliable-reporter"}, resp.Badges)
}

func TestTopReporters(t *testing.T) {
	m, router := newTestHandler(t)
	top := []*models.UserRewards{
		{UserID: "alice", Points: 250, Badges: []string{"reliable-reporter"}},
		{UserID: "bob", Points: 40},
	}

	m.rewards.EXPECT().TopReporters(gomock.Any(), 5).Return(top, nil)

	w := makeRequest(router, "GET", "/api/v1/leaderboards/top-reporters?limit=5", nil, asCitizen)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []RewardsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "alice", resp[0].UserID)
	assert.Equal(t, 3, resp[0].Level)
	assert.Equal(t, []string{}, resp[1].Badges)
}

func TestTopReporters_DefaultLimit(t *testing.T) {
	m, router := newTestHandler(t)

	// лимит без значения передается сервису как 0, сервис подставляет значение по умолчанию
	m.rewards.EXPECT().TopReporters(gomock.Any(), 0).Return([]*models.UserRewards{}, nil)

	w := makeRequest(router, "GET", "/api/v1/leaderboards/top-reporters", nil, asCitizen)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestListActivity(t *testing.T) {
	m, router := newTestHandler(t)
	incidentID := uuid.New()
	entry := &models.Activity{
		ID:         uuid.New(),
		UserID:     "citizen-1",
		Action:     models.ActivityVoted,
		IncidentID: incidentID,
		Details:    "direction=up",
		Timestamp:  time.Now().UTC(),
	}

	m.activity.EXPECT().
		ListActivity(gomock.Any(), responderOne, models.ActivityFilter{UserID: "citizen-1", IncidentID: incidentID, Page: 2, PageSize: 10}).
		Return([]*models.Activity{entry}, nil)

	url := fmt.Sprintf("/api/v1/activity?userId=citizen-1&incidentId=%s&page=2&pageSize=10", incidentID)
	w := makeRequest(router, "GET", url, nil, asResponder)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"action":"incident.voted"`)
	assert.Contains(t, w.Body.String(), `"incidentId":"`+incidentID.String()+`"`)
}

func TestListActivity_Forbidden(t *testing.T) {
	m, router := newTestHandler(t)

	m.activity.EXPECT().
		ListActivity(gomock.Any(), citizenOne, gomock.Any()).
		Return(nil, models.ErrForbidden)

	w := makeRequest(router, "GET", "/api/v1/activity?userId=someone-else", nil, asCitizen)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListActivity_InvalidIncidentID(t *testing.T) {
	m, router := newTestHandler(t)

	m.activity.EXPECT().ListActivity(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/activity?incidentId=not-a-uuid", nil, asCitizen)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthCheck_Success(t *testing.T) {
	_, router := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAPIKeyAuthMiddleware_Bearer(t *testing.T) {
	m, router := newTestHandler(t)

	m.analytics.EXPECT().Hotspots(gomock.Any()).Return([]models.Hotspot{}, nil)

	headers := map[string]string{"Authorization": "Bearer test-api-key", "X-User-ID": "responder-1", "X-User-Role": "responder"}
	w := makeRequest(router, "GET", "/api/v1/analytics/hotspots", nil, headers)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPIKeyAuthMiddleware_MissingKey(t *testing.T) {
	m, router := newTestHandler(t)

	m.analytics.EXPECT().Hotspots(gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/analytics/hotspots", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "API key required")
}

func TestAPIKeyAuthMiddleware_InvalidKey(t *testing.T) {
	m, router := newTestHandler(t)

	m.analytics.EXPECT().Hotspots(gomock.Any()).Times(0)

	w := makeRequest(router, "GET", "/api/v1/analytics/hotspots", nil, map[string]string{"X-API-Key": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid API key")
}

func TestIdentityMiddleware_InvalidRole(t *testing.T) {
	m, router := newTestHandler(t)

	m.incidents.EXPECT().SetStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	headers := map[string]string{"X-API-Key": "test-api-key", "X-User-ID": "u1", "X-User-Role": "mayor"}
	w := makeRequest(router, "PATCH", fmt.Sprintf("/api/v1/incidents/%s/status", uuid.New()), jsonBody(t, StatusRequest{Status: "resolved"}), headers)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "X-User-Role")
}

func TestRateLimitMiddleware(t *testing.T) {
	m, router := newTestHandler(t, func(cfg *config.Config) {
		cfg.RateLimitRPS = 0.001
		cfg.RateLimitBurst = 2
	})

	m.rewards.EXPECT().GetRewards(gomock.Any(), gomock.Any()).Return(&models.UserRewards{Badges: []string{}}, nil).Times(3)

	for i := 0; i < 2; i++ {
		w := makeRequest(router, "GET", "/api/v1/users/citizen-1/rewards", nil, asCitizen)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w := makeRequest(router, "GET", "/api/v1/users/citizen-1/rewards", nil, asCitizen)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// у другого пользователя своя квота
	other := map[string]string{"X-API-Key": "test-api-key", "X-User-ID": "citizen-2"}
	w = makeRequest(router, "GET", "/api/v1/users/citizen-1/rewards", nil, other)
	assert.Equal(t, http.StatusOK, w.Code)
}
