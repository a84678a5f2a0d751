package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fitbook/internal/config"
	"fitbook/internal/models"

	"github.com/redis/go-redis/v9"
)

const classListKeySet = "class_list:keys"

// RedisClassCache keeps localized class-list projections in Redis, keyed by
// the caller's timezone. Entries expire after ttl; slot mutations invalidate
// every zone's entry at once.
type RedisClassCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewRedisClassCache(client *redis.Client, ttl time.Duration) *RedisClassCache {
	return &RedisClassCache{
		client: client,
		ttl:    ttl,
	}
}

func classListKey(zone string) string {
	return fmt.Sprintf("class_list:%s", zone)
}

// Get returns the cached list for a zone, or nil on a miss.
func (r *RedisClassCache) Get(ctx context.Context, zone string) ([]models.ClassSummary, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	val, err := r.client.Get(ctx, classListKey(zone)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get class list from redis: %w", err)
	}

	var summaries []models.ClassSummary
	if err := json.Unmarshal([]byte(val), &summaries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal class list: %w", err)
	}

	return summaries, nil
}

func (r *RedisClassCache) Set(ctx context.Context, zone string, summaries []models.ClassSummary) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	data, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("failed to marshal class list: %w", err)
	}

	key := classListKey(zone)
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set class list in redis: %w", err)
	}

	// Ключи по зонам отслеживаются в set'е для массовой инвалидации.
	if err := r.client.SAdd(ctx, classListKeySet, key).Err(); err != nil {
		return fmt.Errorf("failed to track class list key: %w", err)
	}

	return nil
}

// Invalidate drops every zone's cached list.
func (r *RedisClassCache) Invalidate(ctx context.Context) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	keys, err := r.client.SMembers(ctx, classListKeySet).Result()
	if err != nil {
		return fmt.Errorf("failed to list class list keys: %w", err)
	}
	if len(keys) > 0 {
		if err := r.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete class list keys: %w", err)
		}
	}
	if err := r.client.Del(ctx, classListKeySet).Err(); err != nil {
		return fmt.Errorf("failed to delete class list key set: %w", err)
	}
	return nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}
