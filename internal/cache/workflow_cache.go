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

// WorkflowCache is a read-through cache over the workflow catalog
type WorkflowCache interface {
	GetByContentType(ctx context.Context, contentType model.ContentType) (*model.WorkflowConfig, error)
	Invalidate(ctx context.Context, contentType model.ContentType) error
}

type workflowCache struct {
	client *redis.Client
	repo   repository.WorkflowRepo
	ttl    time.Duration
}

// NewWorkflowCache creates a read-through workflow config cache
func NewWorkflowCache(client *redis.Client, repo repository.WorkflowRepo) WorkflowCache {
	return &workflowCache{
		client: client,
		repo:   repo,
		ttl:    30 * time.Minute,
	}
}

func (c *workflowCache) key(contentType model.ContentType) string {
	return fmt.Sprintf("workflow:%s", contentType)
}

func (c *workflowCache) GetByContentType(ctx context.Context, contentType model.ContentType) (*model.WorkflowConfig, error) {
	key := c.key(contentType)
	data, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var cfg model.WorkflowConfig
		if err := json.Unmarshal([]byte(data), &cfg); err == nil {
			return &cfg, nil
		}
	} else if err != redis.Nil {
		return nil, err
	}

	cfg, err := c.repo.GetByContentType(ctx, contentType)
	if err != nil || cfg == nil {
		return cfg, err
	}

	if encoded, err := json.Marshal(cfg); err == nil {
		c.client.Set(ctx, key, encoded, c.ttl)
	}
	return cfg, nil
}

func (c *workflowCache) Invalidate(ctx context.Context, contentType model.ContentType) error {
	return c.client.Del(ctx, c.key(contentType)).Err()
}
