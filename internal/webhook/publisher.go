package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/civic_alert_system/internal/models"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=publisher.go -destination=mocks/publisher_mock.go -package=mocks

const (
	webhookQueueKey = "webhook_events"
)

// EventType - тип исходящего события
type EventType string

const (
	EventIncidentCreated    EventType = "incident.created"
	EventPotentialDuplicate EventType = "incident.potential_duplicate"
	EventIncidentVerified   EventType = "incident.verified"
	EventStatusChanged      EventType = "incident.status_changed"
	EventIncidentEscalated  EventType = "incident.escalated"
	EventNotification       EventType = "incident.notification"
	EventSurveyRequested    EventType = "survey.requested"
)

// WebhookEvent - структура для данных вебхука
type WebhookEvent struct {
	Type       EventType          `json:"type"`
	IncidentID uuid.UUID          `json:"incident_id"`
	UserID     string             `json:"user_id,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	Incident   *models.Incident   `json:"incident,omitempty"`
	Duplicates []*models.Incident `json:"duplicates,omitempty"`
	Data       map[string]string  `json:"data,omitempty"`
}

// WebhookPublisher - интерфейс для публикации вебхуков
type WebhookPublisher interface {
	Publish(ctx context.Context, event WebhookEvent) error
}

// RedisWebhookPublisher - реализация WebhookPublisher, использующая Redis
type RedisWebhookPublisher struct {
	redisClient *redis.Client
}

// NewRedisWebhookPublisher создает новый RedisWebhookPublisher
func NewRedisWebhookPublisher(client *redis.Client) *RedisWebhookPublisher {
	return &RedisWebhookPublisher{
		redisClient: client,
	}
}

// Publish публикует событие вебхука в очередь Redis
func (p *RedisWebhookPublisher) Publish(ctx context.Context, event WebhookEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	// Используем LPUSH для добавления события в левую часть списка (очереди)
	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}

// LogWebhookPublisher пишет события в лог. Используется без Redis.
type LogWebhookPublisher struct {
	logger *logrus.Logger
}

func NewLogWebhookPublisher(logger *logrus.Logger) *LogWebhookPublisher {
	return &LogWebhookPublisher{logger: logger}
}

func (p *LogWebhookPublisher) Publish(_ context.Context, event WebhookEvent) error {
	p.logger.WithFields(logrus.Fields{
		"event_type":  event.Type,
		"incident_id": event.IncidentID,
		"user_id":     event.UserID,
		"duplicates":  len(event.Duplicates),
	}).Info("Webhook event")
	return nil
}
