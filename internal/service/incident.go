package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/civic_alert_system/internal/config"
	"github.com/shenikar/civic_alert_system/internal/duplicate"
	"github.com/shenikar/civic_alert_system/internal/metrics"
	"github.com/shenikar/civic_alert_system/internal/models"
	"github.com/shenikar/civic_alert_system/internal/severity"
	"github.com/shenikar/civic_alert_system/internal/verification"
	"github.com/shenikar/civic_alert_system/internal/webhook"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=incident.go -destination=mocks/incident_mock.go -package=mocks

// IncidentRepository определяет контракт для работы с хранилищем инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	CompareAndSwap(ctx context.Context, next *models.Incident, expectedVersion int64) error
	List(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error)
	FindDuplicateCandidates(ctx context.Context, q duplicate.CandidateQuery) ([]*models.Incident, error)
	FindRecentUnresolved(ctx context.Context, since time.Time) ([]*models.Incident, error)
	FindInBox(ctx context.Context, center models.Location, deltaDeg float64, since time.Time) ([]*models.Incident, error)
	ListUpdatedSince(ctx context.Context, since time.Time) ([]*models.Incident, error)
}

// RewardLedger - журнал наград пользователей
type RewardLedger interface {
	Grant(ctx context.Context, grant models.RewardGrant) (bool, error)
	GetRewards(ctx context.Context, userID string) (*models.UserRewards, error)
	TopReporters(ctx context.Context, limit int) ([]*models.UserRewards, error)
}

// Verifier - машина состояний верификации.
// Ненулевой результат вместе с ошибкой означает, что изменение сохранено, а награды нет.
type Verifier interface {
	RecordVote(ctx context.Context, id uuid.UUID, voterID string, dir models.VoteDirection) (*verification.VoteResult, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.Status, operatorID string) (*verification.StatusResult, error)
}

// SubscriberMatcher подбирает подписки, которым интересен инцидент
type SubscriberMatcher interface {
	MatchSubscribers(ctx context.Context, incident *models.Incident) ([]*models.Subscription, error)
}

// IncidentService определяет контракт для бизнес-логики управления инцидентами
type IncidentService interface {
	CreateIncident(ctx context.Context, caller models.Caller, incident *models.Incident) (*CreateResult, error)
	GetIncident(ctx context.Context, id uuid.UUID) (*IncidentDetails, error)
	ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error)
	UpdateIncident(ctx context.Context, caller models.Caller, id uuid.UUID, patch IncidentPatch) (*models.Incident, error)
	Vote(ctx context.Context, caller models.Caller, id uuid.UUID, dir models.VoteDirection) (*models.Incident, error)
	SetStatus(ctx context.Context, caller models.Caller, id uuid.UUID, status models.Status) (*models.Incident, error)
	Escalate(ctx context.Context, caller models.Caller, id uuid.UUID, reason string) (*models.Incident, error)
}

// CreateResult - созданный инцидент и вероятные дубликаты
type CreateResult struct {
	Incident            *models.Incident
	PotentialDuplicates []*models.Incident
}

// IncidentDetails - инцидент и похожие на него сообщения
type IncidentDetails struct {
	Incident    *models.Incident
	Suggestions []*models.Incident
}

// IncidentPatch - изменяемые оператором поля, nil означает "не менять"
type IncidentPatch struct {
	Title       *string
	Description *string
	Severity    *models.Severity
	Location    *models.Location
	AssignedTo  *string
	IsDuplicate *bool
	DuplicateOf *uuid.UUID
}

// IncidentDeps - зависимости сервиса инцидентов
type IncidentDeps struct {
	Repo        IncidentRepository
	Ledger      RewardLedger
	Verifier    Verifier
	Classifier  *severity.Classifier
	Detector    *duplicate.Detector
	Subscribers SubscriberMatcher
	Publisher   webhook.WebhookPublisher
	Activity    ActivityRepository
	Metrics     *metrics.Metrics
}

type incidentService struct {
	IncidentDeps
	logger *logrus.Logger
	cfg    *config.Config
	now    func() time.Time
}

func NewIncidentService(deps IncidentDeps, logger *logrus.Logger, cfg *config.Config) IncidentService {
	return &incidentService{
		IncidentDeps: deps,
		logger:       logger,
		cfg:          cfg,
		now:          time.Now,
	}
}

// CreateIncident создает инцидент. Сохранение и выборка кандидатов в дубликаты идут параллельно;
// сбой или таймаут выборки дает пустой список дубликатов, но не мешает созданию.
func (s *incidentService) CreateIncident(ctx context.Context, caller models.Caller, incident *models.Incident) (*CreateResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "CreateIncident",
		"type":    incident.Type,
		"user_id": caller.UserID,
	})
	log.Info("Attempting to create a new incident")

	if err := validateNewIncident(caller, incident); err != nil {
		log.WithError(err).Warn("Incident rejected")
		return nil, fmt.Errorf("service: invalid incident: %w", err)
	}

	incident.ID = uuid.New()
	incident.ReportedBy = caller.UserID
	incident.ReportedAt = s.now().UTC()
	incident.Status = models.StatusUnverified
	incident.Severity = s.Classifier.Classify(incident.Description, incident.Type)
	incident.Upvotes, incident.Downvotes = 0, 0
	incident.VotedBy = []string{}
	incident.UpvotedBy = []string{}
	incident.ResolvedCount = 0
	incident.DuplicateOf = nil
	incident.VerificationRewarded = false
	if incident.MediaURLs == nil {
		incident.MediaURLs = []string{}
	}

	query := s.Detector.Query(incident, incident.ReportedAt)
	var candidates []*models.Incident

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Repo.Create(gctx, incident)
	})
	g.Go(func() error {
		candidates = s.fetchCandidates(gctx, query, log)
		return nil
	})
	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return nil, fmt.Errorf("service: could not create incident: %w", classifyRepoErr(err))
	}

	duplicates := s.Detector.FindDuplicates(incident, candidates)
	log = log.WithFields(logrus.Fields{
		"incident_id": incident.ID,
		"severity":    incident.Severity,
		"duplicates":  len(duplicates),
	})
	log.Info("Incident created successfully")

	s.Metrics.IncidentsCreated.Inc()
	s.Metrics.DuplicatesFlagged.Add(float64(len(duplicates)))

	s.grantReportCredit(ctx, incident, log)
	s.recordActivity(ctx, caller.UserID, models.ActivityReported, incident.ID,
		fmt.Sprintf("type=%s severity=%s", incident.Type, incident.Severity), log)
	s.publish(ctx, webhook.WebhookEvent{
		Type:       webhook.EventIncidentCreated,
		IncidentID: incident.ID,
		UserID:     incident.ReportedBy,
		Incident:   incident,
	}, log)
	if len(duplicates) > 0 {
		s.publish(ctx, webhook.WebhookEvent{
			Type:       webhook.EventPotentialDuplicate,
			IncidentID: incident.ID,
			Incident:   incident,
			Duplicates: duplicates,
		}, log)
	}
	s.notifySubscribers(ctx, incident, log)

	return &CreateResult{Incident: incident, PotentialDuplicates: duplicates}, nil
}

func validateNewIncident(caller models.Caller, incident *models.Incident) error {
	if caller.UserID == "" {
		return fmt.Errorf("%w: reporter is required", models.ErrValidation)
	}
	if strings.TrimSpace(incident.Type) == "" {
		return fmt.Errorf("%w: type is required", models.ErrValidation)
	}
	if strings.TrimSpace(incident.Title) == "" {
		return fmt.Errorf("%w: title is required", models.ErrValidation)
	}
	return incident.Location.Validate()
}

// fetchCandidates выбирает кандидатов с ограничением по времени; при ошибке возвращает nil
func (s *incidentService) fetchCandidates(ctx context.Context, q duplicate.CandidateQuery, log *logrus.Entry) []*models.Incident {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.DuplicateFetchTimeout)
	defer cancel()

	candidates, err := s.Repo.FindDuplicateCandidates(fetchCtx, q)
	if err != nil {
		log.WithError(err).Warn("Duplicate candidate fetch failed, assuming no duplicates")
		s.Metrics.DuplicateFallbacks.Inc()
		return nil
	}
	return candidates
}

func (s *incidentService) grantReportCredit(ctx context.Context, incident *models.Incident, log *logrus.Entry) {
	if _, err := s.Ledger.Grant(ctx, verification.ReportGrant(incident)); err != nil {
		log.WithError(err).Warn("Failed to update reporter statistics")
	}
}

func (s *incidentService) notifySubscribers(ctx context.Context, incident *models.Incident, log *logrus.Entry) {
	subs, err := s.Subscribers.MatchSubscribers(ctx, incident)
	if err != nil {
		log.WithError(err).Warn("Failed to match subscribers")
		return
	}
	for _, sub := range subs {
		s.publish(ctx, webhook.WebhookEvent{
			Type:       webhook.EventNotification,
			IncidentID: incident.ID,
			UserID:     sub.UserID,
			Incident:   incident,
			Data:       map[string]string{"token": sub.Token},
		}, log)
	}
	if len(subs) > 0 {
		log.WithField("subscribers", len(subs)).Info("Subscribers notified")
	}
}

// recordActivity пишет запись аудита; журнал вспомогательный, сбой только логируется
func (s *incidentService) recordActivity(ctx context.Context, userID string, action models.ActivityAction, id uuid.UUID, details string, log *logrus.Entry) {
	if s.Activity == nil {
		return
	}
	err := s.Activity.Append(ctx, &models.Activity{
		ID:         uuid.New(),
		UserID:     userID,
		Action:     action,
		IncidentID: id,
		Details:    details,
		Timestamp:  s.now().UTC(),
	})
	if err != nil {
		log.WithError(err).WithField("action", action).Warn("Failed to record activity")
	}
}

// publish - события информационные, сбой публикации только логируется
func (s *incidentService) publish(ctx context.Context, event webhook.WebhookEvent, log *logrus.Entry) {
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now().UTC()
	}
	if err := s.Publisher.Publish(ctx, event); err != nil {
		log.WithError(err).WithField("event_type", event.Type).Warn("Failed to publish webhook event")
	}
}

// GetIncident получает инцидент по ID вместе с похожими сообщениями
func (s *incidentService) GetIncident(ctx context.Context, id uuid.UUID) (*IncidentDetails, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "GetIncident",
		"incident_id": id,
	})
	log.Info("Fetching incident by ID")

	incident, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to get incident in repository")
		return nil, fmt.Errorf("service: could not get incident: %w", classifyRepoErr(err))
	}

	candidates := s.fetchCandidates(ctx, s.Detector.Query(incident, incident.ReportedAt), log)
	suggestions := s.Detector.FindDuplicates(incident, candidates)

	log.WithField("suggestions", len(suggestions)).Info("Incident fetched successfully")
	return &IncidentDetails{Incident: incident, Suggestions: suggestions}, nil
}

// ListIncidents возвращает список инцидентов с пагинацией
func (s *incidentService) ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}

	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	log := s.logger.WithFields(logrus.Fields{
		"service":   "incident",
		"method":    "ListIncidents",
		"page":      filter.Page,
		"page_size": filter.PageSize,
		"status":    filter.Status,
		"severity":  filter.Severity,
	})
	log.Info("Listing incidents")

	incidents, err := s.Repo.List(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", classifyRepoErr(err))
	}

	log.WithField("count", len(incidents)).Info("Incidents listed successfully")
	return incidents, nil
}

// UpdateIncident применяет правку оператора через compare-and-swap
func (s *incidentService) UpdateIncident(ctx context.Context, caller models.Caller, id uuid.UUID, patch IncidentPatch) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateIncident",
		"incident_id": id,
		"operator_id": caller.UserID,
	})
	log.Info("Attempting to update incident")

	if !caller.IsOperator() {
		return nil, fmt.Errorf("service: update incident %s: %w", id, models.ErrForbidden)
	}
	if err := s.validatePatch(ctx, id, patch); err != nil {
		log.WithError(err).Warn("Invalid incident patch")
		return nil, fmt.Errorf("service: invalid patch: %w", err)
	}

	for attempt := 1; attempt <= s.cfg.VoteMaxRetries; attempt++ {
		existing, err := s.Repo.GetByID(ctx, id)
		if err != nil {
			log.WithError(err).Warn("Attempted to update a non-existent incident")
			return nil, fmt.Errorf("service: incident with id %s not found for update: %w", id, classifyRepoErr(err))
		}

		next := existing.Clone()
		patch.apply(next)

		err = s.Repo.CompareAndSwap(ctx, next, existing.Version)
		if errors.Is(err, models.ErrConcurrencyConflict) {
			log.WithField("attempt", attempt).Debug("Lost optimistic race, re-reading incident")
			continue
		}
		if err != nil {
			log.WithError(err).Error("Failed to update incident in repository")
			return nil, fmt.Errorf("service: could not update incident: %w", classifyRepoErr(err))
		}

		log.Info("Incident updated successfully")
		s.recordActivity(ctx, caller.UserID, models.ActivityUpdated, id, "fields="+strings.Join(patch.fields(), ","), log)
		return next, nil
	}
	return nil, fmt.Errorf("service: update incident %s: %w", id, models.ErrConcurrencyConflict)
}

func (s *incidentService) validatePatch(ctx context.Context, id uuid.UUID, patch IncidentPatch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", models.ErrValidation)
	}
	if patch.Severity != nil {
		if _, err := models.ParseSeverity(string(*patch.Severity)); err != nil {
			return err
		}
	}
	if patch.Location != nil {
		if err := patch.Location.Validate(); err != nil {
			return err
		}
	}
	if patch.DuplicateOf != nil {
		if *patch.DuplicateOf == id {
			return fmt.Errorf("%w: incident cannot duplicate itself", models.ErrValidation)
		}
		if _, err := s.Repo.GetByID(ctx, *patch.DuplicateOf); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return fmt.Errorf("%w: canonical incident %s does not exist", models.ErrValidation, *patch.DuplicateOf)
			}
			return classifyRepoErr(err)
		}
	}
	return nil
}

// fields перечисляет имена изменяемых полей
func (p IncidentPatch) fields() []string {
	var out []string
	if p.Title != nil {
		out = append(out, "title")
	}
	if p.Description != nil {
		out = append(out, "description")
	}
	if p.Severity != nil {
		out = append(out, "severity")
	}
	if p.Location != nil {
		out = append(out, "location")
	}
	if p.AssignedTo != nil {
		out = append(out, "assignedTo")
	}
	if p.IsDuplicate != nil {
		out = append(out, "isDuplicate")
	}
	if p.DuplicateOf != nil {
		out = append(out, "duplicateOf")
	}
	return out
}

func (p IncidentPatch) apply(inc *models.Incident) {
	if p.Title != nil {
		inc.Title = *p.Title
	}
	if p.Description != nil {
		inc.Description = *p.Description
	}
	if p.Severity != nil {
		inc.Severity = *p.Severity
	}
	if p.Location != nil {
		inc.Location = *p.Location
	}
	if p.AssignedTo != nil {
		inc.AssignedTo = *p.AssignedTo
	}
	if p.DuplicateOf != nil {
		d := *p.DuplicateOf
		inc.DuplicateOf = &d
	}
	if p.IsDuplicate != nil && !*p.IsDuplicate {
		inc.DuplicateOf = nil
	}
}

// Vote учитывает голос гражданина
func (s *incidentService) Vote(ctx context.Context, caller models.Caller, id uuid.UUID, dir models.VoteDirection) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "Vote",
		"incident_id": id,
		"user_id":     caller.UserID,
		"direction":   dir,
	})

	res, err := s.Verifier.RecordVote(ctx, id, caller.UserID, dir)
	if res == nil {
		outcome := "failed"
		if errors.Is(err, models.ErrDuplicateVote) {
			outcome = "duplicate"
		}
		s.Metrics.Votes.WithLabelValues(string(dir), outcome).Inc()
		log.WithError(err).Warn("Vote rejected")
		return nil, fmt.Errorf("service: could not record vote: %w", err)
	}
	s.Metrics.Votes.WithLabelValues(string(dir), "recorded").Inc()
	s.recordActivity(ctx, caller.UserID, models.ActivityVoted, id, "direction="+string(dir), log)

	if res.Promoted {
		s.Metrics.Promotions.Inc()
		log.Info("Incident verified by community votes")
		s.publish(ctx, webhook.WebhookEvent{
			Type:       webhook.EventIncidentVerified,
			IncidentID: id,
			UserID:     res.Incident.ReportedBy,
			Incident:   res.Incident,
		}, log)
	}

	if err != nil {
		s.Metrics.RewardFailures.Inc()
		log.WithError(err).Error("Vote recorded but rewards are pending reconciliation")
		return nil, fmt.Errorf("service: vote recorded, rewards pending: %w", err)
	}
	return res.Incident, nil
}

// SetStatus - ручная смена статуса оператором
func (s *incidentService) SetStatus(ctx context.Context, caller models.Caller, id uuid.UUID, status models.Status) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "SetStatus",
		"incident_id": id,
		"operator_id": caller.UserID,
		"status":      status,
	})

	if !caller.IsOperator() {
		log.Warn("Status change attempted without operator role")
		return nil, fmt.Errorf("service: set status on %s: %w", id, models.ErrForbidden)
	}

	res, err := s.Verifier.SetStatus(ctx, id, status, caller.UserID)
	if res == nil {
		log.WithError(err).Error("Failed to set incident status")
		return nil, fmt.Errorf("service: could not set status: %w", err)
	}
	s.Metrics.StatusChanges.WithLabelValues(string(status)).Inc()
	s.recordActivity(ctx, caller.UserID, models.ActivityStatusChanged, id,
		fmt.Sprintf("status=%s previous=%s", res.Incident.Status, res.Previous), log)

	s.publish(ctx, webhook.WebhookEvent{
		Type:       webhook.EventStatusChanged,
		IncidentID: id,
		UserID:     caller.UserID,
		Incident:   res.Incident,
		Data: map[string]string{
			"previous_status": string(res.Previous),
			"status":          string(res.Incident.Status),
		},
	}, log)

	if err != nil {
		s.Metrics.RewardFailures.Inc()
		log.WithError(err).Error("Status changed but rewards are pending reconciliation")
		return nil, fmt.Errorf("service: status changed, rewards pending: %w", err)
	}
	return res.Incident, nil
}

// Escalate передает инцидент во внешнюю службу оповещения (SMS/email)
func (s *incidentService) Escalate(ctx context.Context, caller models.Caller, id uuid.UUID, reason string) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "Escalate",
		"incident_id": id,
		"operator_id": caller.UserID,
	})
	log.Info("Escalating incident")

	if !caller.IsOperator() {
		return nil, fmt.Errorf("service: escalate %s: %w", id, models.ErrForbidden)
	}

	incident, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to load incident for escalation")
		return nil, fmt.Errorf("service: could not escalate incident: %w", classifyRepoErr(err))
	}

	// в отличие от прочих событий, эскалация без доставки не имеет смысла
	err = s.Publisher.Publish(ctx, webhook.WebhookEvent{
		Type:       webhook.EventIncidentEscalated,
		IncidentID: id,
		UserID:     caller.UserID,
		Timestamp:  s.now().UTC(),
		Incident:   incident,
		Data:       map[string]string{"reason": reason},
	})
	if err != nil {
		log.WithError(err).Error("Failed to publish escalation")
		return nil, fmt.Errorf("service: could not escalate incident: %w: %w", models.ErrDependencyUnavailable, err)
	}

	log.Info("Incident escalated")
	s.recordActivity(ctx, caller.UserID, models.ActivityEscalated, id,
		fmt.Sprintf("severity=%s type=%s reason=%s", incident.Severity, incident.Type, reason), log)
	return incident, nil
}

// classifyRepoErr оставляет доменные ошибки, остальное считает недоступностью хранилища
func classifyRepoErr(err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrValidation),
		errors.Is(err, models.ErrConcurrencyConflict),
		errors.Is(err, models.ErrDependencyUnavailable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%w: %w", models.ErrDependencyUnavailable, err)
}
