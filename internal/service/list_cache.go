package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/classwork-tracker-api/internal/dto"
)

// listCache keeps per-student assignment lists in Redis. Class-wide
// invalidation bumps a version counter baked into every key, so stale entries
// simply stop being addressed and age out via TTL. Every operation degrades
// to a cache miss on failure; the database stays authoritative.
type listCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func newListCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *listCache {
	return &listCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "list_cache").Logger(),
	}
}

func (c *listCache) enabled() bool {
	return c != nil && c.client != nil
}

func (c *listCache) key(ctx context.Context, classID, studentID uint) string {
	version := int64(0)
	if value, err := c.client.Get(ctx, c.versionKey(classID)).Int64(); err == nil {
		version = value
	}
	return fmt.Sprintf("assignments:class:%d:v%d:student:%d", classID, version, studentID)
}

func (c *listCache) versionKey(classID uint) string {
	return fmt.Sprintf("assignments:class:%d:version", classID)
}

func (c *listCache) get(ctx context.Context, classID, studentID uint) ([]dto.AssignmentStatusResponse, bool) {
	if !c.enabled() {
		return nil, false
	}

	cached, err := c.client.Get(ctx, c.key(ctx, classID, studentID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn().Err(err).Msg("failed to read assignment list cache")
		}
		return nil, false
	}

	var response []dto.AssignmentStatusResponse
	if err := json.Unmarshal([]byte(cached), &response); err != nil {
		return nil, false
	}

	return response, true
}

func (c *listCache) set(ctx context.Context, classID, studentID uint, response []dto.AssignmentStatusResponse) {
	if !c.enabled() {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, c.key(ctx, classID, studentID), payload, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to store assignment list cache")
	}
}

// invalidateStudent drops one student's cached list after they toggle a status.
func (c *listCache) invalidateStudent(ctx context.Context, classID, studentID uint) {
	if !c.enabled() {
		return
	}

	if err := c.client.Del(ctx, c.key(ctx, classID, studentID)).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to invalidate student list cache")
	}
}

// invalidateClass drops every student's cached list for the class, used when
// assignments are created or deleted.
func (c *listCache) invalidateClass(ctx context.Context, classID uint) {
	if !c.enabled() {
		return
	}

	if err := c.client.Incr(ctx, c.versionKey(classID)).Err(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to invalidate class list cache")
	}
}
