package v1

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shenikar/civic_alert_system/internal/config"
	"github.com/shenikar/civic_alert_system/internal/models"
	"github.com/shenikar/civic_alert_system/internal/service"
	"github.com/sirupsen/logrus"
)

// Services - сервисы, которые обслуживает API v1
type Services struct {
	Incidents     service.IncidentService
	Analytics     service.AnalyticsService
	Subscriptions service.SubscriptionService
	Rewards       service.RewardService
	Activity      service.ActivityService
}

// defaultPredictHours - горизонт прогноза, если timeRange не указан
const defaultPredictHours = 24

type Handler struct {
	Services
	logger   *logrus.Logger
	validate *validator.Validate
	cfg      *config.Config
}

func NewHandler(services Services, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		Services: services,
		logger:   logger,
		validate: validator.New(),
		cfg:      cfg,
	}
}

// bindAndValidate читает JSON тело и проверяет его валидатором; при ошибке ответ уже отправлен
func (h *Handler) bindAndValidate(c *gin.Context, log *logrus.Entry, input any) bool {
	if err := c.ShouldBindJSON(input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func parseIncidentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
		return uuid.Nil, false
	}
	return id, true
}

// respondError переводит доменную ошибку в HTTP статус
func (h *Handler) respondError(c *gin.Context, log *logrus.Entry, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		log.WithError(err).Warn("Request rejected by validation")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrDuplicateVote):
		log.WithError(err).Warn("Duplicate vote")
		c.JSON(http.StatusBadRequest, gin.H{"error": "user has already voted on this incident"})
	case errors.Is(err, models.ErrForbidden):
		log.WithError(err).Warn("Forbidden")
		c.JSON(http.StatusForbidden, gin.H{"error": "operation is not allowed for this role"})
	case errors.Is(err, models.ErrNotFound):
		log.WithError(err).Warn("Not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "incident not found"})
	case errors.Is(err, models.ErrConcurrencyConflict):
		log.WithError(err).Warn("Concurrent modification")
		c.JSON(http.StatusConflict, gin.H{"error": "incident was modified concurrently, retry the request"})
	case errors.Is(err, models.ErrDependencyUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		log.WithError(err).Error("Dependency unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
	default:
		log.WithError(err).Error("Unexpected service error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// @Summary Report a new incident
// @Description Create a new incident. Severity is classified automatically, similar recent reports are returned as potential duplicates.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-User-ID header string true "Reporter ID"
// @Param incident body CreateIncidentRequest true "Incident creation request"
// @Success 201 {object} CreateIncidentResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Storage unavailable"
// @Router /incidents [post]
func (h *Handler) createIncident(c *gin.Context) {
	var input CreateIncidentRequest
	log := h.logger.WithField("method", "createIncident")

	if !h.bindAndValidate(c, log, &input) {
		return
	}

	res, err := h.Incidents.CreateIncident(c.Request.Context(), callerFrom(c), DTOToIncidentModel(input))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, CreateIncidentResponse{
		Incident:            ModelToIncidentResponse(res.Incident),
		PotentialDuplicates: ModelsToIncidentResponses(res.PotentialDuplicates),
	})
}

// @Summary Get a list of incidents
// @Description Get a paginated list of incidents, incidents marked as duplicates are excluded.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "Status filter"
// @Param severity query string false "Severity filter"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(20)
// @Success 200 {array} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid filter"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Storage unavailable"
// @Router /incidents [get]
func (h *Handler) listIncidents(c *gin.Context) {
	log := h.logger.WithField("method", "listIncidents")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	filter := models.IncidentFilter{Page: page, PageSize: pageSize}
	if s := c.Query("status"); s != "" {
		status, err := models.ParseStatus(s)
		if err != nil {
			h.respondError(c, log, err)
			return
		}
		filter.Status = status
	}
	if s := c.Query("severity"); s != "" {
		sev, err := models.ParseSeverity(s)
		if err != nil {
			h.respondError(c, log, err)
			return
		}
		filter.Severity = sev
	}

	incidents, err := h.Incidents.ListIncidents(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, ModelsToIncidentResponses(incidents))
}

// @Summary Get incident by ID
// @Description Get a single incident with similar reports suggested as duplicates.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Incident ID"
// @Success 200 {object} IncidentDetailsResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /incidents/{id} [get]
func (h *Handler) getIncident(c *gin.Context) {
	id, ok := parseIncidentID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "getIncident").WithField("id", id)

	details, err := h.Incidents.GetIncident(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, IncidentDetailsResponse{
		Incident:    ModelToIncidentResponse(details.Incident),
		Suggestions: ModelsToIncidentResponses(details.Suggestions),
	})
}

// @Summary Update an incident
// @Description Operator edit of an incident. Only the fields present in the body are changed.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-User-ID header string true "Operator ID"
// @Param X-User-Role header string true "responder or admin"
// @Param id path string true "Incident ID"
// @Param incident body UpdateIncidentRequest true "Incident update request"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid incident ID or request body"
// @Failure 403 {object} map[string]string "Operator role required"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Router /incidents/{id} [patch]
func (h *Handler) updateIncident(c *gin.Context) {
	id, ok := parseIncidentID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "updateIncident").WithField("id", id)

	var input UpdateIncidentRequest
	if !h.bindAndValidate(c, log, &input) {
		return
	}

	incident, err := h.Incidents.UpdateIncident(c.Request.Context(), callerFrom(c), id, DTOToIncidentPatch(input))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Vote on an incident
// @Description Confirm (up) or dispute (down) an incident. Each user votes once; enough confirmations verify the incident.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-User-ID header string true "Voter ID"
// @Param id path string true "Incident ID"
// @Param vote body VoteRequest true "Vote"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid vote or duplicate vote"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Failure 503 {object} map[string]string "Reward ledger unavailable"
// @Router /incidents/{id}/vote [post]
func (h *Handler) voteIncident(c *gin.Context) {
	id, ok := parseIncidentID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "voteIncident").WithField("id", id)

	var input VoteRequest
	if !h.bindAndValidate(c, log, &input) {
		return
	}

	incident, err := h.Incidents.Vote(c.Request.Context(), callerFrom(c), id, models.VoteDirection(input.Type))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Set incident status
// @Description Operator status change. Resolving an incident rewards the reporter and requests a satisfaction survey.
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-User-ID header string true "Operator ID"
// @Param X-User-Role header string true "responder or admin"
// @Param id path string true "Incident ID"
// @Param status body StatusRequest true "New status"
// @Success 200 {object} IncidentResponse
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 403 {object} map[string]string "Operator role required"
// @Failure 404 {object} map[string]string "Incident not found"
// @Router /incidents/{id}/status [patch]
func (h *Handler) setStatus(c *gin.Context) {
	id, ok := parseIncidentID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "setStatus").WithField("id", id)

	var input StatusRequest
	if !h.bindAndValidate(c, log, &input) {
		return
	}

	incident, err := h.Incidents.SetStatus(c.Request.Context(), callerFrom(c), id, models.Status(input.Status))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToIncidentResponse(incident))
}

// @Summary Escalate an incident
// @Description Hand the incident over to external alerting (SMS/email).
// @Tags Incidents
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-User-ID header string true "Operator ID"
// @Param X-User-Role header string true "responder or admin"
// @Param id path string true "Incident ID"
// @Param escalation body EscalateRequest false "Escalation reason"
// @Success 202 {object} IncidentResponse
// @Failure 403 {object} map[string]string "Operator role required"
// @Failure 404 {object} map[string]string "Incident not found"
// @Failure 503 {object} map[string]string "Alerting unavailable"
// @Router /incidents/{id}/escalate [post]
func (h *Handler) escalateIncident(c *gin.Context) {
	id, ok := parseIncidentID(c)
	if !ok {
		return
	}
	log := h.logger.WithField("method", "escalateIncident").WithField("id", id)

	var input EscalateRequest
	if c.Request.ContentLength != 0 && !h.bindAndValidate(c, log, &input) {
		return
	}

	incident, err := h.Incidents.Escalate(c.Request.Context(), callerFrom(c), id, input.Reason)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusAccepted, ModelToIncidentResponse(incident))
}

// @Summary Get hotspots
// @Description Top clusters of recent unresolved incidents ranked by size, severity and recency. Operators only.
// @Tags Analytics
// @Produce json
// @Security ApiKeyAuth
// @Param X-User-Role header string true "responder or admin"
// @Success 200 {array} models.Hotspot
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 503 {object} map[string]string "Storage unavailable"
// @Router /analytics/hotspots [get]
func (h *Handler) getHotspots(c *gin.Context) {
	log := h.logger.WithField("method", "getHotspots")

	hotspots, err := h.Analytics.Hotspots(c.Request.Context())
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, hotspots)
}

// @Summary Predict incidents
// @Description Likely incident types near a location, based on its history. timeRange defaults to 24 hours. Operators only.
// @Tags Analytics
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-User-Role header string true "responder or admin"
// @Param request body PredictRequest true "Location and time range in hours"
// @Success 200 {array} models.Prediction
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 503 {object} map[string]string "Storage unavailable"
// @Router /analytics/predict [post]
func (h *Handler) predict(c *gin.Context) {
	var input PredictRequest
	log := h.logger.WithField("method", "predict")

	if !h.bindAndValidate(c, log, &input) {
		return
	}

	hours := input.TimeRange
	if hours == 0 {
		hours = defaultPredictHours
	}

	predictions, err := h.Analytics.Predict(c.Request.Context(), locationToModel(input.Location), hours)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, predictions)
}

// @Summary Subscribe to notifications
// @Description Register a device token with optional severity, type and radius filters.
// @Tags Notifications
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param X-User-ID header string true "User ID"
// @Param subscription body SubscribeRequest true "Subscription"
// @Success 201 {object} SubscriptionResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Router /notifications/subscribe [post]
func (h *Handler) subscribe(c *gin.Context) {
	var input SubscribeRequest
	log := h.logger.WithField("method", "subscribe")

	if !h.bindAndValidate(c, log, &input) {
		return
	}

	sub, err := h.Subscriptions.Subscribe(c.Request.Context(), callerFrom(c), input.Token, DTOToSubscriptionFilters(input.Filters))
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, ModelToSubscriptionResponse(sub))
}

// @Summary Unsubscribe from notifications
// @Tags Notifications
// @Accept json
// @Security ApiKeyAuth
// @Param X-User-ID header string true "User ID"
// @Param subscription body UnsubscribeRequest true "Device token"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Validation error"
// @Router /notifications/unsubscribe [post]
func (h *Handler) unsubscribe(c *gin.Context) {
	var input UnsubscribeRequest
	log := h.logger.WithField("method", "unsubscribe")

	if !h.bindAndValidate(c, log, &input) {
		return
	}

	if err := h.Subscriptions.Unsubscribe(c.Request.Context(), callerFrom(c), input.Token); err != nil {
		h.respondError(c, log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List subscriptions of a user
// @Description Available to the user and to admins.
// @Tags Notifications
// @Produce json
// @Security ApiKeyAuth
// @Param userId path string true "User ID"
// @Success 200 {array} SubscriptionResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /notifications/subscriptions/{userId} [get]
func (h *Handler) listSubscriptions(c *gin.Context) {
	userID := c.Param("userId")
	log := h.logger.WithField("method", "listSubscriptions").WithField("user_id", userID)

	subs, err := h.Subscriptions.ListSubscriptions(c.Request.Context(), callerFrom(c), userID)
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	responses := make([]*SubscriptionResponse, len(subs))
	for i, s := range subs {
		responses[i] = ModelToSubscriptionResponse(s)
	}
	c.JSON(http.StatusOK, responses)
}

// @Summary Get user rewards
// @Description Points, badges and activity statistics of a user.
// @Tags Users
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "User ID"
// @Success 200 {object} RewardsResponse
// @Failure 503 {object} map[string]string "Reward ledger unavailable"
// @Router /users/{id}/rewards [get]
func (h *Handler) getRewards(c *gin.Context) {
	userID := c.Param("id")
	log := h.logger.WithField("method", "getRewards").WithField("user_id", userID)

	rewards, err := h.Rewards.GetRewards(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToRewardsResponse(rewards))
}

// @Summary Top reporters
// @Description Users ordered by points, then by verified reports.
// @Tags Users
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "Number of users (default 10, max 100)"
// @Success 200 {array} RewardsResponse
// @Failure 503 {object} map[string]string "Reward ledger unavailable"
// @Router /leaderboards/top-reporters [get]
func (h *Handler) topReporters(c *gin.Context) {
	log := h.logger.WithField("method", "topReporters")
	limit, _ := strconv.Atoi(c.Query("limit"))

	top, err := h.Rewards.TopReporters(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	responses := make([]*RewardsResponse, len(top))
	for i, u := range top {
		responses[i] = ModelToRewardsResponse(u)
	}
	c.JSON(http.StatusOK, responses)
}

// @Summary Activity log
// @Description Audit trail of incident actions. Citizens see only their own entries.
// @Tags Users
// @Produce json
// @Security ApiKeyAuth
// @Param userId query string false "User ID"
// @Param incidentId query string false "Incident ID"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size (default 50, max 100)"
// @Success 200 {array} ActivityResponse
// @Failure 400 {object} map[string]string "Invalid incident ID"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /activity [get]
func (h *Handler) listActivity(c *gin.Context) {
	log := h.logger.WithField("method", "listActivity")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))

	filter := models.ActivityFilter{
		UserID:   c.Query("userId"),
		Page:     page,
		PageSize: pageSize,
	}
	if raw := c.Query("incidentId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			log.WithError(err).Warn("Invalid incident ID format")
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid incident ID"})
			return
		}
		filter.IncidentID = id
	}

	items, err := h.Activity.ListActivity(c.Request.Context(), callerFrom(c), filter)
	if err != nil {
		h.respondError(c, log, err)
		return
	}

	responses := make([]*ActivityResponse, len(items))
	for i, a := range items {
		responses[i] = ModelToActivityResponse(a)
	}
	c.JSON(http.StatusOK, responses)
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
