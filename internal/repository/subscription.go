package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/civic_alert_system/internal/models"
)

const subscriptionUsersKey = "subscriptions:users"

// SubscriptionRepository хранит подписки в Redis: hash на пользователя (token -> JSON)
// и множество пользователей с подписками.
type SubscriptionRepository struct {
	redisClient *redis.Client
}

func NewSubscriptionRepository(redisClient *redis.Client) *SubscriptionRepository {
	return &SubscriptionRepository{redisClient: redisClient}
}

func subscriptionKey(userID string) string {
	return fmt.Sprintf("subscriptions:user:%s", userID)
}

// Add добавляет подписку или обновляет фильтры существующей
func (r *SubscriptionRepository) Add(ctx context.Context, sub *models.Subscription) error {
	key := subscriptionKey(sub.UserID)
	now := time.Now().UTC()

	existing, err := r.redisClient.HGet(ctx, key, sub.Token).Bytes()
	switch {
	case err == nil:
		var prev models.Subscription
		if err := json.Unmarshal(existing, &prev); err == nil {
			sub.CreatedAt = prev.CreatedAt
		}
	case errors.Is(err, redis.Nil):
		sub.CreatedAt = now
	default:
		return fmt.Errorf("failed to read subscription: %w", err)
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = now
	}
	sub.UpdatedAt = now

	val, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to marshal subscription: %w", err)
	}

	pipe := r.redisClient.TxPipeline()
	pipe.HSet(ctx, key, sub.Token, val)
	pipe.SAdd(ctx, subscriptionUsersKey, sub.UserID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	return nil
}

// Remove удаляет подписку
func (r *SubscriptionRepository) Remove(ctx context.Context, userID, token string) error {
	key := subscriptionKey(userID)
	if err := r.redisClient.HDel(ctx, key, token).Err(); err != nil {
		return fmt.Errorf("failed to remove subscription: %w", err)
	}
	left, err := r.redisClient.HLen(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to count subscriptions: %w", err)
	}
	if left == 0 {
		if err := r.redisClient.SRem(ctx, subscriptionUsersKey, userID).Err(); err != nil {
			return fmt.Errorf("failed to unregister subscriber: %w", err)
		}
	}
	return nil
}

// ListByUser возвращает подписки пользователя
func (r *SubscriptionRepository) ListByUser(ctx context.Context, userID string) ([]*models.Subscription, error) {
	raw, err := r.redisClient.HGetAll(ctx, subscriptionKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return decodeSubscriptions(raw)
}

// ListAll возвращает подписки всех пользователей
func (r *SubscriptionRepository) ListAll(ctx context.Context) ([]*models.Subscription, error) {
	users, err := r.redisClient.SMembers(ctx, subscriptionUsersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	sort.Strings(users)

	pipe := r.redisClient.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(users))
	for i, userID := range users {
		cmds[i] = pipe.HGetAll(ctx, subscriptionKey(userID))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}

	out := make([]*models.Subscription, 0)
	for _, cmd := range cmds {
		subs, err := decodeSubscriptions(cmd.Val())
		if err != nil {
			return nil, err
		}
		out = append(out, subs...)
	}
	return out, nil
}

func decodeSubscriptions(raw map[string]string) ([]*models.Subscription, error) {
	tokens := make([]string, 0, len(raw))
	for token := range raw {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	out := make([]*models.Subscription, 0, len(raw))
	for _, token := range tokens {
		sub := &models.Subscription{}
		if err := json.Unmarshal([]byte(raw[token]), sub); err != nil {
			return nil, fmt.Errorf("failed to unmarshal subscription: %w", err)
		}
		out = append(out, sub)
	}
	return out, nil
}
