package service

import (
	"context"
	"fmt"

	"github.com/shenikar/civic_alert_system/internal/models"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=activity.go -destination=mocks/activity_mock.go -package=mocks

// ActivityRepository - журнал действий пользователей над инцидентами
type ActivityRepository interface {
	Append(ctx context.Context, activity *models.Activity) error
	List(ctx context.Context, filter models.ActivityFilter) ([]*models.Activity, error)
}

// ActivityService - чтение журнала действий
type ActivityService interface {
	ListActivity(ctx context.Context, caller models.Caller, filter models.ActivityFilter) ([]*models.Activity, error)
}

type activityService struct {
	repo   ActivityRepository
	logger *logrus.Logger
}

func NewActivityService(repo ActivityRepository, logger *logrus.Logger) ActivityService {
	return &activityService{repo: repo, logger: logger}
}

// ListActivity возвращает записи журнала, новые первыми.
// Гражданин видит только свои действия, оператор - любые.
func (s *activityService) ListActivity(ctx context.Context, caller models.Caller, filter models.ActivityFilter) ([]*models.Activity, error) {
	if !caller.IsOperator() {
		if caller.UserID == "" {
			return nil, fmt.Errorf("service: activity: %w", models.ErrForbidden)
		}
		if filter.UserID == "" {
			filter.UserID = caller.UserID
		}
		if filter.UserID != caller.UserID {
			return nil, fmt.Errorf("service: activity of %s: %w", filter.UserID, models.ErrForbidden)
		}
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 50
	}

	log := s.logger.WithFields(logrus.Fields{
		"service":     "activity",
		"method":      "ListActivity",
		"user_id":     filter.UserID,
		"incident_id": filter.IncidentID,
		"page":        filter.Page,
	})

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list activity")
		return nil, fmt.Errorf("service: could not list activity: %w", classifyRepoErr(err))
	}
	log.WithField("count", len(items)).Debug("Activity listed")
	return items, nil
}
