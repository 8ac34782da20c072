package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/civic_alert_system/internal/config"
	"github.com/shenikar/civic_alert_system/internal/duplicate"
	v1 "github.com/shenikar/civic_alert_system/internal/handler/http/v1"
	"github.com/shenikar/civic_alert_system/internal/jobs"
	"github.com/shenikar/civic_alert_system/internal/metrics"
	"github.com/shenikar/civic_alert_system/internal/repository"
	"github.com/shenikar/civic_alert_system/internal/repository/memory"
	"github.com/shenikar/civic_alert_system/internal/service"
	"github.com/shenikar/civic_alert_system/internal/severity"
	"github.com/shenikar/civic_alert_system/internal/verification"
	"github.com/shenikar/civic_alert_system/internal/webhook"
	"github.com/shenikar/civic_alert_system/pkg/logger"
	"github.com/shenikar/civic_alert_system/pkg/postgres"
	redisclient "github.com/shenikar/civic_alert_system/pkg/redis"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	_ "github.com/shenikar/civic_alert_system/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shutdownTimeout = 5 * time.Second

func serveCmd() *cobra.Command {
	var migrationsPath string
	var skipMigrations bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, webhook worker and scheduled jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Загрузка конфигурации
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return serve(cfg, migrationsPath, skipMigrations)
		},
	}
	cmd.Flags().StringVar(&migrationsPath, "migrations", defaultMigrationsPath, "Directory with migration files")
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "Do not apply migrations on startup")
	return cmd
}

// storage - хранилища, выбранные конфигурацией
type storage struct {
	incidents     service.IncidentRepository
	ledger        service.RewardLedger
	activity      service.ActivityRepository
	subscriptions service.SubscriptionRepository
	hotspots      service.HotspotCache
	publisher     webhook.WebhookPublisher
	closers       []func()
}

func (s *storage) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func serve(cfg *config.Config, migrationsPath string, skipMigrations bool) error {
	// Инициализация логгера
	log := logger.New(cfg.LogLevel)

	// Контекст для graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	store, redisClient, err := openStorage(ctx, cfg, migrationsPath, skipMigrations, log)
	if err != nil {
		return err
	}
	defer store.close()

	// Воркер доставки вебхуков работает только поверх очереди в Redis
	if redisClient != nil {
		webhook.NewWebhookWorker(redisClient, log, cfg, m).Start(ctx)
	}

	rules := severity.Default()
	if cfg.SeverityRulesFile != "" {
		if rules, err = severity.LoadRules(cfg.SeverityRulesFile); err != nil {
			return err
		}
		log.WithField("file", cfg.SeverityRulesFile).Info("Severity rules loaded")
	}

	// Инициализация сервисов
	engine := verification.NewEngine(store.incidents, store.ledger, webhook.NewSurveyTrigger(store.publisher), verification.Config{
		MinConfirmations: cfg.VerifyMinConfirmations,
		VerifyPoints:     cfg.VerifyRewardPoints,
		ResolvePoints:    cfg.ResolveRewardPoints,
		VoteCreditPoints: cfg.VoteCreditPoints,
		BadgeThreshold:   cfg.BadgePointsThreshold,
		Badge:            cfg.BadgeName,
		MaxRetries:       cfg.VoteMaxRetries,
	}, log)

	subscriptionService := service.NewSubscriptionService(store.subscriptions, log)
	analyticsService := service.NewAnalyticsService(store.incidents, store.hotspots, log, cfg)
	incidentService := service.NewIncidentService(service.IncidentDeps{
		Repo:       store.incidents,
		Ledger:     store.ledger,
		Verifier:   engine,
		Classifier: severity.NewClassifier(rules),
		Detector: duplicate.NewDetector(duplicate.Config{
			SimilarityThreshold: cfg.DuplicateSimilarityThreshold,
			Window:              cfg.DuplicateWindow,
			BoxDegrees:          cfg.DuplicateBoxDegrees,
		}),
		Subscribers: subscriptionService,
		Publisher:   store.publisher,
		Activity:    store.activity,
		Metrics:     m,
	}, log, cfg)

	scheduler, err := jobs.NewScheduler(analyticsService, engine, cfg, log)
	if err != nil {
		return err
	}
	scheduler.Start()

	// Инициализация хэндлеров
	handler := v1.NewHandler(v1.Services{
		Incidents:     incidentService,
		Analytics:     analyticsService,
		Subscriptions: subscriptionService,
		Rewards:       service.NewRewardService(store.ledger, log),
		Activity:      service.NewActivityService(store.activity, log),
	}, log, cfg)

	// Настройка Gin роутера
	router := gin.Default()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	router.GET("/metrics", gin.WrapH(m.Handler()))
	// Добавление маршрута для Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()
	log.Infof("HTTP server started on port %s", cfg.HTTPPort)

	// Graceful shutdown
	select {
	case <-ctx.Done():
		log.Info("Received shutdown signal, shutting down server...")
	case err := <-serverErr:
		log.WithError(err).Error("Error starting HTTP server")
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	scheduler.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server gracefully stopped")
	return nil
}

// openStorage подключает PostgreSQL или хранилища в памяти, а при REDIS_ENABLED - кэш,
// подписки и очередь вебхуков в Redis
func openStorage(ctx context.Context, cfg *config.Config, migrationsPath string, skipMigrations bool, log *logrus.Logger) (*storage, *redis.Client, error) {
	store := &storage{}

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		// Запуск миграций
		if !skipMigrations {
			if err := runMigrations(cfg, migrationsPath, log); err != nil {
				return nil, nil, err
			}
		}

		// Подключение к PostgreSQL
		dbpool, err := postgres.NewPostgresDB(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		store.closers = append(store.closers, dbpool.Close)
		log.Info("Successfully connected to PostgreSQL")

		store.incidents = repository.NewIncidentRepository(dbpool)
		store.ledger = repository.NewRewardRepository(dbpool)
		store.activity = repository.NewActivityRepository(dbpool)
	default:
		log.Warn("Using in-memory storage, data is lost on restart")
		store.incidents = memory.NewIncidentRepository()
		store.ledger = memory.NewRewardLedger()
		store.activity = memory.NewActivityLog()
	}

	if !cfg.RedisEnabled {
		store.subscriptions = memory.NewSubscriptionRepository()
		store.hotspots = memory.NewHotspotCache(cfg.CacheTTL)
		store.publisher = webhook.NewLogWebhookPublisher(log)
		return store, nil, nil
	}

	// Инициализация Redis клиента
	redisClient, err := redisclient.NewRedisClient(ctx, cfg)
	if err != nil {
		store.close()
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	store.closers = append(store.closers, func() { _ = redisClient.Close() })
	log.Info("Successfully connected to Redis")

	store.incidents = repository.NewCachedIncidentRepository(store.incidents, redisClient, cfg.CacheTTL, log)
	store.subscriptions = repository.NewSubscriptionRepository(redisClient)
	store.hotspots = repository.NewHotspotCache(redisClient, cfg.CacheTTL)
	store.publisher = webhook.NewRedisWebhookPublisher(redisClient)
	return store, redisClient, nil
}
