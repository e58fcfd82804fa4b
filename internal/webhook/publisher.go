package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/incident_intelligence/internal/models"
)

const (
	alertQueueKey = "alert_events"
)

// AlertEvent - событие о новом инциденте и оповещениях, которые на него ссылаются
type AlertEvent struct {
	IncidentID string         `json:"incident_id"`
	Alerts     []models.Alert `json:"alerts"`
	Timestamp  time.Time      `json:"timestamp"`
}

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

// AlertPublisher - интерфейс для публикации событий об оповещениях
type AlertPublisher interface {
	Publish(ctx context.Context, event AlertEvent) error
}

// RedisWebhookPublisher - реализация AlertPublisher, использующая очередь Redis
type RedisWebhookPublisher struct {
	redisClient *redis.Client
}

// NewRedisWebhookPublisher создает новый RedisWebhookPublisher
func NewRedisWebhookPublisher(client *redis.Client) *RedisWebhookPublisher {
	return &RedisWebhookPublisher{
		redisClient: client,
	}
}

// Publish кладет событие в очередь Redis, откуда его забирает WebhookWorker
func (p *RedisWebhookPublisher) Publish(ctx context.Context, event AlertEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	// LPUSH + BRPOP в воркере дают FIFO очередь
	if err := p.redisClient.LPush(ctx, alertQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish alert event to Redis: %w", err)
	}
	return nil
}

// MultiPublisher рассылает событие всем издателям и собирает ошибки
type MultiPublisher []AlertPublisher

// Publish публикует событие в каждый издатель, даже если предыдущий вернул ошибку
func (m MultiPublisher) Publish(ctx context.Context, event AlertEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
