package snippetcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/logit-team/logit/internal/common"
	"github.com/logit-team/logit/internal/server/models"
)

// RedisGateway stores each owner's staged snippets in one Redis hash,
// field = snippet id, value = JSON-encoded snippet.
type RedisGateway struct {
	client *redis.Client
}

// NewRedisGateway constructs a gateway over the given Redis client.
func NewRedisGateway(client *redis.Client) *RedisGateway {
	return &RedisGateway{client: client}
}

func ownerKey(ownerID string) string {
	return "snippets:" + ownerID
}

func (g *RedisGateway) Save(ctx context.Context, ownerID string, snippet *models.Snippet) error {
	now := time.Now().UTC()
	if snippet.CreatedAt.IsZero() {
		snippet.CreatedAt = now
	}
	snippet.UpdatedAt = now

	data, err := json.Marshal(snippet)
	if err != nil {
		return fmt.Errorf("encoding snippet: %w", err)
	}
	if err := g.client.HSet(ctx, ownerKey(ownerID), snippet.ID, data).Err(); err != nil {
		return fmt.Errorf("cache error: %w", err)
	}
	return nil
}

func (g *RedisGateway) Get(ctx context.Context, ownerID, id string) (*models.Snippet, error) {
	data, err := g.client.HGet(ctx, ownerKey(ownerID), id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("cache error: %w", err)
	}
	var s models.Snippet
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding snippet: %w", err)
	}
	return &s, nil
}

func (g *RedisGateway) ListAll(ctx context.Context, ownerID string) ([]*models.Snippet, error) {
	entries, err := g.client.HGetAll(ctx, ownerKey(ownerID)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache error: %w", err)
	}
	result := make([]*models.Snippet, 0, len(entries))
	for _, raw := range entries {
		var s models.Snippet
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			return nil, fmt.Errorf("decoding snippet: %w", err)
		}
		result = append(result, &s)
	}
	return result, nil
}

func (g *RedisGateway) UpdateBlock(ctx context.Context, ownerID, id string, startOffset, endOffset int, code string) error {
	s, err := g.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	s.StartOffset = startOffset
	s.EndOffset = endOffset
	s.Code = code
	return g.Save(ctx, ownerID, s)
}

func (g *RedisGateway) MarkDeleted(ctx context.Context, ownerID, id string) error {
	s, err := g.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	s.Status = models.StatusDeleted
	return g.Save(ctx, ownerID, s)
}

func (g *RedisGateway) Clear(ctx context.Context, ownerID, commitID string) error {
	if err := g.client.Del(ctx, ownerKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("cache error: %w", err)
	}
	return nil
}
