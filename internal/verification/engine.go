// Package verification реализует машину состояний инцидента: голоса граждан,
// автоматическое подтверждение по порогу, ручную смену статуса операторами
// и начисление наград.
package verification

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/civic_alert_system/internal/models"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=engine.go -destination=mocks/engine_mock.go -package=mocks

// IncidentStore - хранилище инцидентов с примитивом compare-and-swap
type IncidentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	// CompareAndSwap сохраняет next, только если хранимая версия равна expectedVersion.
	// При успехе выставляет next.Version и next.UpdatedAt; при проигрыше гонки
	// возвращает models.ErrConcurrencyConflict.
	CompareAndSwap(ctx context.Context, next *models.Incident, expectedVersion int64) error
	// ListUpdatedSince возвращает инциденты, измененные начиная с since
	ListUpdatedSince(ctx context.Context, since time.Time) ([]*models.Incident, error)
}

// RewardLedger - журнал наград пользователей. Grant идемпотентен по ключу.
type RewardLedger interface {
	Grant(ctx context.Context, grant models.RewardGrant) (bool, error)
}

// SurveyTrigger запускает опрос автора после закрытия инцидента
type SurveyTrigger interface {
	TriggerSurvey(ctx context.Context, incidentID uuid.UUID, reporterID string) error
}

// Config - пороги и размеры наград
type Config struct {
	MinConfirmations int
	VerifyPoints     int
	ResolvePoints    int
	VoteCreditPoints int
	BadgeThreshold   int
	Badge            string
	MaxRetries       int
}

// DefaultConfig возвращает значения по умолчанию
func DefaultConfig() Config {
	return Config{
		MinConfirmations: 5,
		VerifyPoints:     10,
		ResolvePoints:    5,
		VoteCreditPoints: 1,
		BadgeThreshold:   100,
		Badge:            "reliable-reporter",
		MaxRetries:       5,
	}
}

// VoteResult - результат учета голоса
type VoteResult struct {
	Incident *models.Incident
	// Promoted истинно ровно для одного голоса, переведшего инцидент в verified
	Promoted bool
}

// StatusResult - результат ручной смены статуса
type StatusResult struct {
	Incident *models.Incident
	Previous models.Status
	Resolved bool
}

// Engine - машина состояний верификации
type Engine struct {
	store   IncidentStore
	ledger  RewardLedger
	surveys SurveyTrigger
	cfg     Config
	logger  *logrus.Logger
}

// NewEngine создает движок верификации
func NewEngine(store IncidentStore, ledger RewardLedger, surveys SurveyTrigger, cfg Config, logger *logrus.Logger) *Engine {
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	return &Engine{
		store:   store,
		ledger:  ledger,
		surveys: surveys,
		cfg:     cfg,
		logger:  logger,
	}
}

// RecordVote учитывает голос пользователя.
//
// Голос, счетчики и статус меняются одной операцией read-modify-write через
// CompareAndSwap. При конфликте состояние перечитывается и решение принимается
// заново, поэтому переход в verified и награда автору происходят ровно один раз.
//
// Если голос сохранен, а журнал наград недоступен, возвращаются и результат, и ошибка
// с models.ErrDependencyUnavailable. Недоданные награды восстанавливает ReconcileRewards.
func (e *Engine) RecordVote(ctx context.Context, id uuid.UUID, voterID string, dir models.VoteDirection) (*VoteResult, error) {
	log := e.logger.WithFields(logrus.Fields{
		"component":   "verification",
		"method":      "RecordVote",
		"incident_id": id,
		"voter_id":    voterID,
		"direction":   dir,
	})

	if voterID == "" {
		return nil, fmt.Errorf("verification: voter id is required: %w", models.ErrValidation)
	}
	if dir != models.VoteUp && dir != models.VoteDown {
		return nil, fmt.Errorf("verification: unknown vote direction %q: %w", dir, models.ErrValidation)
	}

	for attempt := 1; attempt <= e.cfg.MaxRetries; attempt++ {
		current, err := e.store.GetByID(ctx, id)
		if err != nil {
			return nil, wrapStoreErr("could not load incident", err)
		}

		if current.HasVoted(voterID) {
			log.Warn("Voter has already voted on this incident")
			return nil, fmt.Errorf("verification: voter %s on incident %s: %w", voterID, id, models.ErrDuplicateVote)
		}

		next := current.Clone()
		next.ApplyVote(voterID, dir)

		promoted := dir == models.VoteUp && e.shouldPromote(next)
		if promoted {
			next.Status = models.StatusVerified
			next.VerificationRewarded = true
		}

		err = e.store.CompareAndSwap(ctx, next, current.Version)
		if errors.Is(err, models.ErrConcurrencyConflict) {
			log.WithField("attempt", attempt).Debug("Lost optimistic race, re-reading incident")
			continue
		}
		if err != nil {
			log.WithError(err).Error("Failed to persist vote")
			return nil, wrapStoreErr("could not persist vote", err)
		}

		log.WithFields(logrus.Fields{
			"upvotes":  next.Upvotes,
			"status":   next.Status,
			"promoted": promoted,
		}).Info("Vote recorded")

		result := &VoteResult{Incident: next, Promoted: promoted}

		var grants []models.RewardGrant
		if promoted {
			grants = append(grants, e.verificationGrant(next))
		}
		if dir == models.VoteUp {
			grants = append(grants, e.upvoteGrant(next, voterID))
		}
		if err := e.grant(ctx, grants...); err != nil {
			log.WithError(err).Error("Vote recorded but rewards failed, left for reconciliation")
			return result, fmt.Errorf("verification: vote on incident %s: %w", id, err)
		}
		return result, nil
	}

	log.WithField("attempts", e.cfg.MaxRetries).Error("Giving up on vote after repeated conflicts")
	return nil, fmt.Errorf("verification: vote on incident %s failed after %d attempts: %w", id, e.cfg.MaxRetries, models.ErrConcurrencyConflict)
}

func (e *Engine) shouldPromote(inc *models.Incident) bool {
	return inc.Upvotes >= e.cfg.MinConfirmations &&
		inc.Status == models.StatusUnverified &&
		!inc.VerificationRewarded
}

// SetStatus - ручная смена статуса оператором. Допускается любой переход.
// Переход в resolved из любого другого статуса начисляет бонус автору и запускает опрос.
// Опрос запускается и при сбое журнала наград; тогда, как и в RecordVote, возвращаются
// результат и ошибка с models.ErrDependencyUnavailable.
func (e *Engine) SetStatus(ctx context.Context, id uuid.UUID, status models.Status, operatorID string) (*StatusResult, error) {
	log := e.logger.WithFields(logrus.Fields{
		"component":   "verification",
		"method":      "SetStatus",
		"incident_id": id,
		"operator_id": operatorID,
		"status":      status,
	})

	if status.Rank() < 0 {
		return nil, fmt.Errorf("verification: unknown status %q: %w", status, models.ErrValidation)
	}

	for attempt := 1; attempt <= e.cfg.MaxRetries; attempt++ {
		current, err := e.store.GetByID(ctx, id)
		if err != nil {
			return nil, wrapStoreErr("could not load incident", err)
		}

		resolving := status == models.StatusResolved && current.Status != models.StatusResolved

		next := current.Clone()
		next.Status = status
		if resolving {
			next.ResolvedCount++
		}

		err = e.store.CompareAndSwap(ctx, next, current.Version)
		if errors.Is(err, models.ErrConcurrencyConflict) {
			log.WithField("attempt", attempt).Debug("Lost optimistic race, re-reading incident")
			continue
		}
		if err != nil {
			log.WithError(err).Error("Failed to persist status")
			return nil, wrapStoreErr("could not persist status", err)
		}

		result := &StatusResult{
			Incident: next,
			Previous: current.Status,
			Resolved: resolving,
		}
		log.WithField("previous_status", current.Status).Info("Incident status updated by operator")

		if !resolving {
			return result, nil
		}

		rewardErr := e.grant(ctx, e.resolutionGrant(next, next.ResolvedCount))
		if rewardErr != nil {
			log.WithError(rewardErr).Error("Incident resolved but reporter reward failed, left for reconciliation")
		}
		if e.surveys != nil {
			if err := e.surveys.TriggerSurvey(ctx, next.ID, next.ReportedBy); err != nil {
				log.WithError(err).Warn("Failed to trigger survey")
			}
		}
		if rewardErr != nil {
			return result, fmt.Errorf("verification: status of incident %s: %w", id, rewardErr)
		}
		return result, nil
	}

	return nil, fmt.Errorf("verification: status update on incident %s failed after %d attempts: %w", id, e.cfg.MaxRetries, models.ErrConcurrencyConflict)
}

// ReconcileRewards заново выдает все награды, которые следуют из сохраненного состояния
// инцидентов, измененных начиная с since: за сообщение, подтверждение, каждое закрытие
// и голоса "за". Журнал идемпотентен, поэтому уже выданные награды не дублируются.
func (e *Engine) ReconcileRewards(ctx context.Context, since time.Time) (int, error) {
	log := e.logger.WithFields(logrus.Fields{
		"component": "verification",
		"method":    "ReconcileRewards",
		"since":     since,
	})

	incidents, err := e.store.ListUpdatedSince(ctx, since)
	if err != nil {
		return 0, wrapStoreErr("could not list updated incidents", err)
	}

	applied := 0
	var errs []error
	for _, inc := range incidents {
		for _, g := range e.GrantsFor(inc) {
			ok, err := e.ledger.Grant(ctx, g)
			if err != nil {
				errs = append(errs, fmt.Errorf("grant %s: %w", g.Key, err))
				continue
			}
			if ok {
				applied++
			}
		}
	}

	if applied > 0 {
		log.WithField("applied", applied).Warn("Recovered missing rewards")
	}
	if len(errs) > 0 {
		return applied, fmt.Errorf("verification: reconcile rewards: %w: %w", models.ErrDependencyUnavailable, errors.Join(errs...))
	}
	return applied, nil
}

// GrantsFor перечисляет все начисления, которые положены по состоянию инцидента
func (e *Engine) GrantsFor(inc *models.Incident) []models.RewardGrant {
	grants := []models.RewardGrant{ReportGrant(inc)}
	if inc.VerificationRewarded {
		grants = append(grants, e.verificationGrant(inc))
	}
	for n := 1; n <= inc.ResolvedCount; n++ {
		grants = append(grants, e.resolutionGrant(inc, n))
	}
	for _, voter := range inc.UpvotedBy {
		grants = append(grants, e.upvoteGrant(inc, voter))
	}
	return grants
}

// ReportGrant - учет нового сообщения в статистике автора, без баллов
func ReportGrant(inc *models.Incident) models.RewardGrant {
	return models.RewardGrant{
		Key:        models.GrantKey(inc.ID, models.RewardReport, ""),
		UserID:     inc.ReportedBy,
		IncidentID: inc.ID,
		Kind:       models.RewardReport,
	}
}

func (e *Engine) verificationGrant(inc *models.Incident) models.RewardGrant {
	return models.RewardGrant{
		Key:            models.GrantKey(inc.ID, models.RewardVerified, ""),
		UserID:         inc.ReportedBy,
		IncidentID:     inc.ID,
		Kind:           models.RewardVerified,
		Points:         e.cfg.VerifyPoints,
		Badge:          e.cfg.Badge,
		BadgeThreshold: e.cfg.BadgeThreshold,
	}
}

// resolutionGrant - бонус за n-й переход инцидента в resolved
func (e *Engine) resolutionGrant(inc *models.Incident, n int) models.RewardGrant {
	return models.RewardGrant{
		Key:        models.GrantKey(inc.ID, models.RewardResolved, strconv.Itoa(n)),
		UserID:     inc.ReportedBy,
		IncidentID: inc.ID,
		Kind:       models.RewardResolved,
		Points:     e.cfg.ResolvePoints,
	}
}

func (e *Engine) upvoteGrant(inc *models.Incident, voterID string) models.RewardGrant {
	return models.RewardGrant{
		Key:        models.GrantKey(inc.ID, models.RewardUpvote, voterID),
		UserID:     voterID,
		IncidentID: inc.ID,
		Kind:       models.RewardUpvote,
		Points:     e.cfg.VoteCreditPoints,
	}
}

// grant пробует выдать все начисления, сбой одного не мешает остальным
func (e *Engine) grant(ctx context.Context, grants ...models.RewardGrant) error {
	var errs []error
	for _, g := range grants {
		if _, err := e.ledger.Grant(ctx, g); err != nil {
			errs = append(errs, fmt.Errorf("%s for %s: %w", g.Kind, g.UserID, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("reward ledger: %w: %w", models.ErrDependencyUnavailable, errors.Join(errs...))
	}
	return nil
}

// wrapStoreErr оставляет доменные ошибки как есть, остальное считает недоступностью хранилища
func wrapStoreErr(op string, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, models.ErrConcurrencyConflict),
		errors.Is(err, models.ErrValidation),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("verification: %s: %w", op, err)
	}
	return fmt.Errorf("verification: %s: %w: %w", op, models.ErrDependencyUnavailable, err)
}
