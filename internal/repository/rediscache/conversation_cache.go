package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"omniops-core/pkg/llm"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ConversationCache keeps the recent turn history per chat session in
// Redis so a hot session does not hit Postgres on every turn. The chat
// tables remain the source of truth.
type ConversationCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewConversationCache(rdb *redis.Client, ttl time.Duration) *ConversationCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &ConversationCache{
		rdb: rdb,
		ttl: ttl,
	}
}

func (c *ConversationCache) key(sessionId uuid.UUID) string {
	return fmt.Sprintf("conversation:%s", sessionId)
}

// Get returns the cached history, or (nil, nil) on a miss.
func (c *ConversationCache) Get(ctx context.Context, sessionId uuid.UUID) ([]llm.Message, error) {
	raw, err := c.rdb.Get(ctx, c.key(sessionId)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var history []llm.Message
	if err := json.Unmarshal(raw, &history); err != nil {
		// A corrupt entry behaves like a miss.
		return nil, nil
	}
	return history, nil
}

func (c *ConversationCache) Set(ctx context.Context, sessionId uuid.UUID, history []llm.Message) error {
	raw, err := json.Marshal(history)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(sessionId), raw, c.ttl).Err()
}

func (c *ConversationCache) Invalidate(ctx context.Context, sessionId uuid.UUID) error {
	return c.rdb.Del(ctx, c.key(sessionId)).Err()
}
