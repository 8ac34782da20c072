// Package jobs запускает периодические задачи: пересчет горячих точек и сверку наград.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shenikar/civic_alert_system/internal/config"
	"github.com/shenikar/civic_alert_system/internal/models"
	"github.com/sirupsen/logrus"
)

// reconcileLookback - за какой период сверяются награды за верификацию
const reconcileLookback = 24 * time.Hour

// HotspotRefresher пересчитывает снимок горячих точек
type HotspotRefresher interface {
	RefreshHotspots(ctx context.Context) ([]models.Hotspot, error)
}

// RewardReconciler доначисляет награды, потерянные после сбоя журнала
type RewardReconciler interface {
	ReconcileRewards(ctx context.Context, since time.Time) (int, error)
}

type Scheduler struct {
	cron       *cron.Cron
	hotspots   HotspotRefresher
	reconciler RewardReconciler
	logger     *logrus.Logger
	timeout    time.Duration
	now        func() time.Time
}

// NewScheduler регистрирует задачи по расписаниям из конфигурации.
// Пустое расписание отключает задачу.
func NewScheduler(hotspots HotspotRefresher, reconciler RewardReconciler, cfg *config.Config, logger *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:       cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		hotspots:   hotspots,
		reconciler: reconciler,
		logger:     logger,
		timeout:    time.Minute,
		now:        time.Now,
	}

	if cfg.HotspotCron != "" {
		if _, err := s.cron.AddFunc(cfg.HotspotCron, func() { s.RefreshHotspots(context.Background()) }); err != nil {
			return nil, fmt.Errorf("failed to schedule hotspot refresh %q: %w", cfg.HotspotCron, err)
		}
	}
	if cfg.RewardReconcileCron != "" {
		if _, err := s.cron.AddFunc(cfg.RewardReconcileCron, func() { s.ReconcileRewards(context.Background()) }); err != nil {
			return nil, fmt.Errorf("failed to schedule reward reconciliation %q: %w", cfg.RewardReconcileCron, err)
		}
	}
	return s, nil
}

// Jobs возвращает число зарегистрированных задач
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) Start() {
	s.logger.WithField("jobs", s.Jobs()).Info("Starting scheduler...")
	s.cron.Start()
}

// Stop останавливает планировщик и ждет завершения запущенных задач или отмены ctx
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.logger.Info("Scheduler stopped.")
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out, jobs still running")
	}
}

// RefreshHotspots - один прогон пересчета горячих точек
func (s *Scheduler) RefreshHotspots(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	log := s.logger.WithField("job", "refresh_hotspots")
	hotspots, err := s.hotspots.RefreshHotspots(ctx)
	if err != nil {
		log.WithError(err).Error("Hotspot refresh failed")
		return
	}
	log.WithField("hotspots", len(hotspots)).Debug("Hotspot snapshot refreshed")
}

// ReconcileRewards - один прогон сверки наград
func (s *Scheduler) ReconcileRewards(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	log := s.logger.WithField("job", "reconcile_rewards")
	applied, err := s.reconciler.ReconcileRewards(ctx, s.now().UTC().Add(-reconcileLookback))
	if err != nil {
		log.WithError(err).Error("Reward reconciliation failed")
		return
	}
	if applied > 0 {
		log.WithField("applied", applied).Warn("Recovered missing verification rewards")
		return
	}
	log.Debug("Rewards are consistent")
}
