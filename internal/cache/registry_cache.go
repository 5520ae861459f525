package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/model"
	"github.com/Acurioustractor/barkly-research-platform-sub002/internal/repository"
)

// RegistryCache is a read-through cache over the validator registry.
// Entries expire after a TTL and are invalidated on every registry write.
type RegistryCache interface {
	GetByCommunity(ctx context.Context, communityID string) ([]*model.Validator, error)
	GetByID(ctx context.Context, validatorID string) (*model.Validator, error)
	Invalidate(ctx context.Context, communityID string) error
	InvalidateValidator(ctx context.Context, validatorID string) error
}

type registryCache struct {
	client *redis.Client
	repo   repository.ValidatorRepo
	ttl    time.Duration
}

// NewRegistryCache creates a read-through validator cache
func NewRegistryCache(client *redis.Client, repo repository.ValidatorRepo) RegistryCache {
	return &registryCache{
		client: client,
		repo:   repo,
		ttl:    10 * time.Minute,
	}
}

func (c *registryCache) communityKey(communityID string) string {
	return fmt.Sprintf("registry:community:%s", communityID)
}

func (c *registryCache) validatorKey(validatorID string) string {
	return fmt.Sprintf("registry:validator:%s", validatorID)
}

func (c *registryCache) GetByCommunity(ctx context.Context, communityID string) ([]*model.Validator, error) {
	key := c.communityKey(communityID)
	data, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var validators []*model.Validator
		if err := json.Unmarshal([]byte(data), &validators); err == nil {
			return validators, nil
		}
		// Corrupt entry, fall through to the repo
	} else if err != redis.Nil {
		return nil, err
	}

	validators, err := c.repo.ListByCommunity(ctx, communityID)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(validators); err == nil {
		c.client.Set(ctx, key, encoded, c.ttl)
	}
	return validators, nil
}

func (c *registryCache) GetByID(ctx context.Context, validatorID string) (*model.Validator, error) {
	key := c.validatorKey(validatorID)
	data, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var v model.Validator
		if err := json.Unmarshal([]byte(data), &v); err == nil {
			return &v, nil
		}
	} else if err != redis.Nil {
		return nil, err
	}

	v, err := c.repo.GetByID(ctx, validatorID)
	if err != nil || v == nil {
		return v, err
	}

	if encoded, err := json.Marshal(v); err == nil {
		c.client.Set(ctx, key, encoded, c.ttl)
	}
	return v, nil
}

func (c *registryCache) Invalidate(ctx context.Context, communityID string) error {
	return c.client.Del(ctx, c.communityKey(communityID), c.communityKey(model.CommunityAll)).Err()
}

func (c *registryCache) InvalidateValidator(ctx context.Context, validatorID string) error {
	return c.client.Del(ctx, c.validatorKey(validatorID)).Err()
}
