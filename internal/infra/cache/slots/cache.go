package slots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smartappt/booking-service/internal/domain"
)

// ErrCacheMiss возвращается, когда записи для дня нет в кеше
var ErrCacheMiss = errors.New("slots.cache: cache miss")

// Cache кеш свободных слотов на день поверх Redis.
// Ключ - тройка (бизнес, услуга, дата); значение инвалидируется
// при любой мутации бронирований или расписания бизнеса.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New создает кеш слотов с заданным TTL записей
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func key(businessID, serviceID int64, date time.Time) string {
	return fmt.Sprintf("slots:%d:%d:%s", businessID, serviceID, date.Format(domain.DateFormat))
}

// Get читает закешированный список слотов на день.
// При выключенном кеше всегда промах.
func (c *Cache) Get(ctx context.Context, businessID, serviceID int64, date time.Time) ([]time.Time, error) {
	if c == nil {
		return nil, ErrCacheMiss
	}

	raw, err := c.client.Get(ctx, key(businessID, serviceID, date)).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("slots.cache: Get - redis get: %w", err)
	}

	var slots []time.Time
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, fmt.Errorf("slots.cache: Get - decode value: %w", err)
	}

	return slots, nil
}

// Set сохраняет список слотов на день
func (c *Cache) Set(ctx context.Context, businessID, serviceID int64, date time.Time, slots []time.Time) error {
	if c == nil {
		return nil
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("slots.cache: Set - encode value: %w", err)
	}

	if err := c.client.Set(ctx, key(businessID, serviceID, date), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("slots.cache: Set - redis set: %w", err)
	}

	return nil
}

// Invalidate сбрасывает кеш слотов услуги на день.
// Вызывается после создания, переноса, подтверждения и отмены бронирования.
func (c *Cache) Invalidate(ctx context.Context, businessID, serviceID int64, date time.Time) error {
	if c == nil {
		return nil
	}

	if err := c.client.Del(ctx, key(businessID, serviceID, date)).Err(); err != nil {
		return fmt.Errorf("slots.cache: Invalidate - redis del: %w", err)
	}
	return nil
}

// InvalidateBusiness сбрасывает все слоты бизнеса.
// Вызывается при изменении расписания или выходных - затронуты все дни.
func (c *Cache) InvalidateBusiness(ctx context.Context, businessID int64) error {
	if c == nil {
		return nil
	}

	pattern := fmt.Sprintf("slots:%d:*", businessID)

	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("slots.cache: InvalidateBusiness - redis del: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("slots.cache: InvalidateBusiness - redis scan: %w", err)
	}

	return nil
}
