// Package cache keeps a capped per-conversation list of recent messages in
// Redis for cheap history fetches. It is write-through only; the message
// collection stays the source of truth.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/123varunshhhhhh/RealtimeChatApp/internal/domain"
)

const recentCap = 99

type RecentMessages struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRecentMessages(client *redis.Client, ttl time.Duration) *RecentMessages {
	return &RecentMessages{client: client, ttl: ttl}
}

func key(conversationID string) string { return "conv:" + conversationID + ":recent" }

// Push prepends the message to the conversation's recent list, trimming to a
// fixed cap. Failures are ignored by callers; the cache is best effort.
func (c *RecentMessages) Push(ctx context.Context, conversationID string, m *domain.Message) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	k := key(conversationID)
	if err := c.client.LPush(ctx, k, b).Err(); err != nil {
		return err
	}
	_ = c.client.LTrim(ctx, k, 0, recentCap).Err()
	return c.client.Expire(ctx, k, c.ttl).Err()
}

// Invalidate drops the cached list, used after deletes.
func (c *RecentMessages) Invalidate(ctx context.Context, conversationID string) error {
	return c.client.Del(ctx, key(conversationID)).Err()
}
