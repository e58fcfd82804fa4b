package repository

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
	incidentCacheTTL = 5 * time.Minute
	alertsCacheKey   = "alerts:current"
)

func incidentCacheKey(id string) string {
	return fmt.Sprintf("incident:%s", id)
}

// GetIncidentFromCache пытается получить инцидент из Redis, nil при промахе
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id string) (*models.Incident, error) {
	val, err := r.redisClient.Get(ctx, incidentCacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncidentCache сохраняет инцидент в Redis
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, incidentCacheKey(incident.ID), val, incidentCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentCache удаляет инцидент из Redis кэша
func (r *IncidentRepository) InvalidateIncidentCache(ctx context.Context, id string) error {
	if err := r.redisClient.Del(ctx, incidentCacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}

// GetAlertsFromCache возвращает последний вычисленный список оповещений.
// Второе значение false означает промах кеша.
func (r *IncidentRepository) GetAlertsFromCache(ctx context.Context) ([]models.Alert, bool, error) {
	val, err := r.redisClient.Get(ctx, alertsCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get alerts from cache: %w", err)
	}

	alerts := make([]models.Alert, 0)
	if err := json.Unmarshal(val, &alerts); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal alerts from cache: %w", err)
	}
	return alerts, true, nil
}

// SetAlertsCache сохраняет список оповещений на ttl. Нулевой ttl отключает кеширование.
func (r *IncidentRepository) SetAlertsCache(ctx context.Context, alerts []models.Alert, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	val, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("failed to marshal alerts for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, alertsCacheKey, val, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set alerts in cache: %w", err)
	}
	return nil
}

// InvalidateAlertsCache удаляет список оповещений из кеша
func (r *IncidentRepository) InvalidateAlertsCache(ctx context.Context) error {
	if err := r.redisClient.Del(ctx, alertsCacheKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate alerts cache: %w", err)
	}
	return nil
}
