package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL   string `env:"DATABASE_URL"`
	HTTPPort      string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config
	RedisEnabled bool          `env:"REDIS_ENABLED" envDefault:"true"`
	RedisAddr    string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass    string        `env:"REDIS_PASSWORD"`
	RedisDB      int           `env:"REDIS_DB" envDefault:"0"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`

	// API Keys for authentication
	APIKeys []string `env:"API_KEYS"`

	// Rate limit на одного вызывающего
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// Verification Config
	VerifyMinConfirmations int    `env:"VERIFY_MIN_CONFIRMATIONS" envDefault:"5"`
	VerifyRewardPoints     int    `env:"VERIFY_REWARD_POINTS" envDefault:"10"`
	ResolveRewardPoints    int    `env:"RESOLVE_REWARD_POINTS" envDefault:"5"`
	VoteCreditPoints       int    `env:"VOTE_CREDIT_POINTS" envDefault:"1"`
	BadgePointsThreshold   int    `env:"BADGE_POINTS_THRESHOLD" envDefault:"100"`
	BadgeName              string `env:"BADGE_NAME" envDefault:"reliable-reporter"`
	VoteMaxRetries         int    `env:"VOTE_MAX_RETRIES" envDefault:"5"`

	// Duplicate detection Config
	DuplicateSimilarityThreshold float64       `env:"DUPLICATE_SIMILARITY_THRESHOLD" envDefault:"0.6"`
	DuplicateWindow              time.Duration `env:"DUPLICATE_WINDOW" envDefault:"2h"`
	DuplicateBoxDegrees          float64       `env:"DUPLICATE_BOX_DEGREES" envDefault:"0.01"`
	DuplicateFetchTimeout        time.Duration `env:"DUPLICATE_FETCH_TIMEOUT" envDefault:"3s"`

	// Analytics Config
	HotspotWindow           time.Duration `env:"HOTSPOT_WINDOW" envDefault:"720h"`
	HotspotThresholdDegrees float64       `env:"HOTSPOT_THRESHOLD_DEGREES" envDefault:"0.001"`
	HotspotTopN             int           `env:"HOTSPOT_TOP_N" envDefault:"10"`
	HotspotCron             string        `env:"HOTSPOT_CRON" envDefault:"*/5 * * * *"`
	RewardReconcileCron     string        `env:"REWARD_RECONCILE_CRON" envDefault:"*/10 * * * *"`
	PredictRadiusDegrees    float64       `env:"PREDICT_RADIUS_DEGREES" envDefault:"0.01"`
	PredictWindow           time.Duration `env:"PREDICT_WINDOW" envDefault:"2160h"`
	PredictMinProbability   float64       `env:"PREDICT_MIN_PROBABILITY" envDefault:"0.05"`

	// YAML с правилами классификации серьезности, пусто - встроенные правила
	SeverityRulesFile string `env:"SEVERITY_RULES_FILE"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		StorageDriver:     strings.ToLower(getEnv("STORAGE_DRIVER", StoragePostgres)),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		RedisEnabled:      getEnvAsBool("REDIS_ENABLED", true),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		CacheTTL:          getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		WebhookURL:        os.Getenv("WEBHOOK_URL"),
		WebhookSecret:     os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:    getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries: getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:  getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
		APIKeys:           getEnvAsList("API_KEYS"),
		RateLimitRPS:      getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:    getEnvAsInt("RATE_LIMIT_BURST", 20),

		VerifyMinConfirmations: getEnvAsInt("VERIFY_MIN_CONFIRMATIONS", 5),
		VerifyRewardPoints:     getEnvAsInt("VERIFY_REWARD_POINTS", 10),
		ResolveRewardPoints:    getEnvAsInt("RESOLVE_REWARD_POINTS", 5),
		VoteCreditPoints:       getEnvAsInt("VOTE_CREDIT_POINTS", 1),
		BadgePointsThreshold:   getEnvAsInt("BADGE_POINTS_THRESHOLD", 100),
		BadgeName:              getEnv("BADGE_NAME", "reliable-reporter"),
		VoteMaxRetries:         getEnvAsInt("VOTE_MAX_RETRIES", 5),

		DuplicateSimilarityThreshold: getEnvAsFloat("DUPLICATE_SIMILARITY_THRESHOLD", 0.6),
		DuplicateWindow:              getEnvAsDuration("DUPLICATE_WINDOW", 2*time.Hour),
		DuplicateBoxDegrees:          getEnvAsFloat("DUPLICATE_BOX_DEGREES", 0.01),
		DuplicateFetchTimeout:        getEnvAsDuration("DUPLICATE_FETCH_TIMEOUT", 3*time.Second),

		HotspotWindow:           getEnvAsDuration("HOTSPOT_WINDOW", 30*24*time.Hour),
		HotspotThresholdDegrees: getEnvAsFloat("HOTSPOT_THRESHOLD_DEGREES", 0.001),
		HotspotTopN:             getEnvAsInt("HOTSPOT_TOP_N", 10),
		HotspotCron:             getEnv("HOTSPOT_CRON", "*/5 * * * *"),
		RewardReconcileCron:     getEnv("REWARD_RECONCILE_CRON", "*/10 * * * *"),
		PredictRadiusDegrees:    getEnvAsFloat("PREDICT_RADIUS_DEGREES", 0.01),
		PredictWindow:           getEnvAsDuration("PREDICT_WINDOW", 90*24*time.Hour),
		PredictMinProbability:   getEnvAsFloat("PREDICT_MIN_PROBABILITY", 0.05),

		SeverityRulesFile: os.Getenv("SEVERITY_RULES_FILE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is required")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.VerifyMinConfirmations < 1 {
		return fmt.Errorf("VERIFY_MIN_CONFIRMATIONS must be positive, got %d", c.VerifyMinConfirmations)
	}
	if c.VoteMaxRetries < 1 {
		return fmt.Errorf("VOTE_MAX_RETRIES must be positive, got %d", c.VoteMaxRetries)
	}
	if c.DuplicateSimilarityThreshold <= 0 || c.DuplicateSimilarityThreshold > 1 {
		return fmt.Errorf("DUPLICATE_SIMILARITY_THRESHOLD must be in (0, 1], got %v", c.DuplicateSimilarityThreshold)
	}
	if c.DuplicateBoxDegrees <= 0 || c.HotspotThresholdDegrees <= 0 || c.PredictRadiusDegrees <= 0 {
		return fmt.Errorf("spatial thresholds must be positive")
	}
	if c.DuplicateWindow <= 0 || c.HotspotWindow <= 0 || c.PredictWindow <= 0 {
		return fmt.Errorf("time windows must be positive")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst < 1 {
		return fmt.Errorf("rate limit must be positive")
	}
	return nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat возвращает значение переменной окружения как float64 или значение по умолчанию
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}

// getEnvAsList разбирает список через запятую, пустые элементы отбрасываются
func getEnvAsList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
