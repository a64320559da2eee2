package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "dentiq"

type CacheService interface {
	// Finance report caching
	GetReport(ctx context.Context, ownerID uuid.UUID, report string, dest any) (bool, error)
	SetReport(ctx context.Context, ownerID uuid.UUID, report string, value any, ttl time.Duration) error
	InvalidateTenantCache(ctx context.Context, ownerID uuid.UUID) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Generic string operations for verification codes
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
	log    *zap.Logger
}

// NewRedisClient builds a client from an address that may carry a redis:// scheme.
func NewRedisClient(addr, password string, db int) *redis.Client {
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")
	return redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})
}

func NewRedisCacheService(client *redis.Client, log *zap.Logger) CacheService {
	return &redisCacheService{client: client, log: log}
}

func reportKey(ownerID uuid.UUID, report string) string {
	return fmt.Sprintf("%s:finance:%s:%s", keyPrefix, ownerID.String(), report)
}

func tenantPattern(ownerID uuid.UUID) string {
	return fmt.Sprintf("%s:finance:%s:*", keyPrefix, ownerID.String())
}

func rateLimitKey(key string) string {
	return fmt.Sprintf("%s:ratelimit:%s", keyPrefix, key)
}

// GetReport decodes a cached report into dest. It reports false on a miss.
func (r *redisCacheService) GetReport(ctx context.Context, ownerID uuid.UUID, report string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, reportKey(ownerID, report)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisCacheService) SetReport(ctx context.Context, ownerID uuid.UUID, report string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, reportKey(ownerID, report), data, ttl).Err()
}

// InvalidateTenantCache drops every cached report of one tenant.
func (r *redisCacheService) InvalidateTenantCache(ctx context.Context, ownerID uuid.UUID) error {
	var keys []string
	iter := r.client.Scan(ctx, 0, tenantPattern(ownerID), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		r.log.Debug("invalidating tenant cache", zap.String("owner_id", ownerID.String()), zap.Int("keys", len(keys)))
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

// IsRateLimited counts a hit on key and reports whether the window limit is exceeded.
func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := rateLimitKey(key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Set expiry on first hit
	if count == 1 {
		if err := r.client.Expire(ctx, cacheKey, window).Err(); err != nil {
			r.log.Warn("failed to set rate limit expiry", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
