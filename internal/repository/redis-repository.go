package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tenancy-service/internal/database/redis"
	"tenancy-service/internal/models"

	redis_v9 "github.com/redis/go-redis/v9"
)

const capabilityCacheTTL = 5 * time.Minute

type CacheRepository struct {
	client *redis_v9.Client
}

func NewCacheRepository() *CacheRepository {
	return &CacheRepository{
		client: redis.Redis_Client,
	}
}

func capabilityKey(userID string) string {
	return "capabilities:" + userID
}

func (c *CacheRepository) SaveCapabilities(ctx context.Context, userID string, caps *models.CapabilitySet) error {
	val, err := json.Marshal(caps)
	if err != nil {
		return fmt.Errorf("error caching capabilities: %s", err)
	}
	err = c.client.Set(ctx, capabilityKey(userID), val, capabilityCacheTTL).Err()
	if err != nil {
		return fmt.Errorf("error caching capabilities: %s", err)
	}
	return nil
}

// GetCapabilities returns (nil, nil) on a cache miss.
func (c *CacheRepository) GetCapabilities(ctx context.Context, userID string) (*models.CapabilitySet, error) {
	raw, err := c.client.Get(ctx, capabilityKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis_v9.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading cached capabilities: %s", err)
	}

	var caps models.CapabilitySet
	if err := json.Unmarshal(raw, &caps); err != nil {
		return nil, err
	}
	return &caps, nil
}
