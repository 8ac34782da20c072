package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shenikar/civic_alert_system/internal/geo"
	"github.com/shenikar/civic_alert_system/internal/models"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=subscription.go -destination=mocks/subscription_mock.go -package=mocks

// SubscriptionRepository - хранилище подписок на уведомления
type SubscriptionRepository interface {
	Add(ctx context.Context, sub *models.Subscription) error
	Remove(ctx context.Context, userID, token string) error
	ListByUser(ctx context.Context, userID string) ([]*models.Subscription, error)
	ListAll(ctx context.Context) ([]*models.Subscription, error)
}

// SubscriptionService - управление подписками и подбор получателей
type SubscriptionService interface {
	Subscribe(ctx context.Context, caller models.Caller, token string, filters models.SubscriptionFilters) (*models.Subscription, error)
	Unsubscribe(ctx context.Context, caller models.Caller, token string) error
	ListSubscriptions(ctx context.Context, caller models.Caller, userID string) ([]*models.Subscription, error)
	MatchSubscribers(ctx context.Context, incident *models.Incident) ([]*models.Subscription, error)
}

type subscriptionService struct {
	repo   SubscriptionRepository
	logger *logrus.Logger
}

func NewSubscriptionService(repo SubscriptionRepository, logger *logrus.Logger) SubscriptionService {
	return &subscriptionService{repo: repo, logger: logger}
}

// Subscribe сохраняет подписку вызывающего
func (s *subscriptionService) Subscribe(ctx context.Context, caller models.Caller, token string, filters models.SubscriptionFilters) (*models.Subscription, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "subscription",
		"method":  "Subscribe",
		"user_id": caller.UserID,
	})

	if caller.UserID == "" || strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("service: subscribe: %w: user and token are required", models.ErrValidation)
	}
	if filters.Location != nil {
		if err := filters.Location.Validate(); err != nil {
			return nil, fmt.Errorf("service: subscribe: %w", err)
		}
	}
	if filters.RadiusKm < 0 {
		return nil, fmt.Errorf("service: subscribe: %w: radius must not be negative", models.ErrValidation)
	}

	sub := &models.Subscription{UserID: caller.UserID, Token: token, Filters: filters}
	if err := s.repo.Add(ctx, sub); err != nil {
		log.WithError(err).Error("Failed to save subscription")
		return nil, fmt.Errorf("service: could not subscribe: %w", classifyRepoErr(err))
	}
	log.Info("Subscription saved")
	return sub, nil
}

// Unsubscribe удаляет подписку вызывающего
func (s *subscriptionService) Unsubscribe(ctx context.Context, caller models.Caller, token string) error {
	if caller.UserID == "" || strings.TrimSpace(token) == "" {
		return fmt.Errorf("service: unsubscribe: %w: user and token are required", models.ErrValidation)
	}
	if err := s.repo.Remove(ctx, caller.UserID, token); err != nil {
		s.logger.WithError(err).WithField("user_id", caller.UserID).Error("Failed to remove subscription")
		return fmt.Errorf("service: could not unsubscribe: %w", classifyRepoErr(err))
	}
	return nil
}

// ListSubscriptions доступен самому пользователю и администратору
func (s *subscriptionService) ListSubscriptions(ctx context.Context, caller models.Caller, userID string) ([]*models.Subscription, error) {
	if caller.UserID != userID && !caller.IsAdmin() {
		return nil, fmt.Errorf("service: subscriptions of %s: %w", userID, models.ErrForbidden)
	}
	subs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service: could not list subscriptions: %w", classifyRepoErr(err))
	}
	return subs, nil
}

// MatchSubscribers отбирает подписки по серьезности, типу и радиусу
func (s *subscriptionService) MatchSubscribers(ctx context.Context, incident *models.Incident) ([]*models.Subscription, error) {
	subs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: could not list subscriptions: %w", classifyRepoErr(err))
	}

	matched := make([]*models.Subscription, 0)
	for _, sub := range subs {
		if !sub.Filters.MatchesAttributes(incident) {
			continue
		}
		if f := sub.Filters; f.Location != nil && f.RadiusKm > 0 {
			d := geo.DistanceKm(
				geo.Point{Lat: f.Location.Lat, Lng: f.Location.Lng},
				geo.Point{Lat: incident.Location.Lat, Lng: incident.Location.Lng},
			)
			if d > f.RadiusKm {
				continue
			}
		}
		matched = append(matched, sub)
	}
	return matched, nil
}
