// Package cache wraps the Redis client with JSON helpers and the key layout
// used by the repositories.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mutralo/internal/models"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by typed getters when the key is absent.
var ErrMiss = errors.New("cache miss")

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

// Get decodes the value stored at key into dest. It reports false on a miss.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// User caching
func (s *CacheService) CacheUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("cannot cache nil user")
	}
	return s.Set(ctx, GenerateKey("user", "id", user.ID), user)
}

func (s *CacheService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	found, err := s.Get(ctx, GenerateKey("user", "id", id), &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrMiss
	}
	return &user, nil
}

func (s *CacheService) InvalidateUser(ctx context.Context, id uint) error {
	return s.Delete(ctx, GenerateKey("user", "id", id))
}

// Settings caching. The TTL is kept short so that an update made on another
// instance is picked up quickly.
func (s *CacheService) CacheSettings(ctx context.Context, settings models.Settings, ttl time.Duration) error {
	return s.SetWithTTL(ctx, GenerateKey("settings", "id", models.SettingsID), settings, ttl)
}

func (s *CacheService) GetSettings(ctx context.Context) (models.Settings, error) {
	var settings models.Settings
	found, err := s.Get(ctx, GenerateKey("settings", "id", models.SettingsID), &settings)
	if err != nil {
		return models.Settings{}, err
	}
	if !found {
		return models.Settings{}, ErrMiss
	}
	return settings, nil
}

func (s *CacheService) InvalidateSettings(ctx context.Context) error {
	return s.Delete(ctx, GenerateKey("settings", "id", models.SettingsID))
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
