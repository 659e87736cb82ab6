// Package cache keeps populated author projections in Redis so list
// endpoints skip the users lookup for creators seen recently.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/qa-community-api/internal/domain/entity"
)

const authorKeyPrefix = "author:"

type AuthorCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAuthorCache(rdb *redis.Client, ttl time.Duration) *AuthorCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &AuthorCache{rdb: rdb, ttl: ttl}
}

func authorKey(id string) string { return authorKeyPrefix + id }

// GetMany reads all ids with one MGET. Misses and undecodable entries are
// left out of the result.
func (c *AuthorCache) GetMany(ctx context.Context, ids []string) (map[string]entity.Author, error) {
	out := make(map[string]entity.Author, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = authorKey(id)
	}
	vals, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var a entity.Author
		if json.Unmarshal([]byte(s), &a) != nil || a.ID != ids[i] {
			continue
		}
		out[a.ID] = a
	}
	return out, nil
}

// SetMany writes each author with the configured TTL in one pipeline.
func (c *AuthorCache) SetMany(ctx context.Context, authors []entity.Author) error {
	if len(authors) == 0 {
		return nil
	}
	_, err := c.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, a := range authors {
			b, err := json.Marshal(a)
			if err != nil {
				return err
			}
			p.Set(ctx, authorKey(a.ID), b, c.ttl)
		}
		return nil
	})
	return err
}
