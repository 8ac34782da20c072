package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shenikar/civic_alert_system/internal/models"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=rewards.go -destination=mocks/rewards_mock.go -package=mocks

// RewardService - чтение баллов и значков пользователя
type RewardService interface {
	GetRewards(ctx context.Context, userID string) (*models.UserRewards, error)
	TopReporters(ctx context.Context, limit int) ([]*models.UserRewards, error)
}

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 100
)

type rewardService struct {
	ledger RewardLedger
	logger *logrus.Logger
}

func NewRewardService(ledger RewardLedger, logger *logrus.Logger) RewardService {
	return &rewardService{ledger: ledger, logger: logger}
}

// GetRewards возвращает запись пользователя, пустую если наград еще не было
func (s *rewardService) GetRewards(ctx context.Context, userID string) (*models.UserRewards, error) {
	if userID == "" {
		return nil, fmt.Errorf("service: rewards: %w: user id is required", models.ErrValidation)
	}
	rewards, err := s.ledger.GetRewards(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return &models.UserRewards{UserID: userID, Badges: []string{}}, nil
		}
		s.logger.WithError(err).WithField("user_id", userID).Error("Failed to read rewards")
		return nil, fmt.Errorf("service: could not get rewards: %w", classifyRepoErr(err))
	}
	return rewards, nil
}

// TopReporters возвращает таблицу лидеров по баллам
func (s *rewardService) TopReporters(ctx context.Context, limit int) ([]*models.UserRewards, error) {
	if limit < 1 {
		limit = defaultLeaderboardSize
	}
	if limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}
	top, err := s.ledger.TopReporters(ctx, limit)
	if err != nil {
		s.logger.WithError(err).WithField("limit", limit).Error("Failed to read top reporters")
		return nil, fmt.Errorf("service: could not get top reporters: %w", classifyRepoErr(err))
	}
	return top, nil
}
