package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gibber-dev/gibber/internal/config"
	"github.com/gibber-dev/gibber/internal/domain"
)

// FeedCache keeps each profile's feed as a sorted set of post ids scored by
// creation time. It is strictly cache-aside: every error degrades to the
// database path at the caller.
type FeedCache struct {
	r   *redis.Client
	ttl time.Duration
}

func NewFeedCache(ctx context.Context, cfg *config.Config) (*FeedCache, error) {
	r := redis.NewClient(&redis.Options{
		Addr:     cfg.Private.Redis.Addr,
		Password: cfg.Private.Redis.Password,
		DB:       cfg.Private.Redis.Db,
	})
	if err := r.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &FeedCache{r: r, ttl: cfg.FeedCacheTTL()}, nil
}

func feedKey(profileId domain.ProfileId) string {
	return fmt.Sprintf("feed:%d", profileId)
}

// Get returns the cached feed post ids, newest first. The second return is
// false on a miss.
func (c *FeedCache) Get(ctx context.Context, profileId domain.ProfileId, limit int) ([]domain.PostId, bool, error) {
	key := feedKey(profileId)
	exists, err := c.r.Exists(ctx, key).Result()
	if err != nil {
		return nil, false, err
	}
	if exists == 0 {
		return nil, false, nil
	}

	members, err := c.r.ZRevRange(ctx, key, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, false, err
	}
	ids := make([]domain.PostId, 0, len(members))
	for _, m := range members {
		var id domain.PostId
		if _, err := fmt.Sscanf(m, "%d", &id); err != nil {
			return nil, false, fmt.Errorf("bad cache member %q: %w", m, err)
		}
		ids = append(ids, id)
	}
	return ids, true, nil
}

// Set replaces the cached feed for a profile with the given posts.
func (c *FeedCache) Set(ctx context.Context, profileId domain.ProfileId, posts []*domain.Post) error {
	key := feedKey(profileId)
	members := make([]redis.Z, 0, len(posts))
	for _, p := range posts {
		members = append(members, redis.Z{
			Score:  float64(p.CreatedAt.UnixMicro()),
			Member: fmt.Sprintf("%d", p.Id),
		})
	}

	pipe := c.r.TxPipeline()
	pipe.Del(ctx, key)
	if len(members) > 0 {
		pipe.ZAdd(ctx, key, members...)
	}
	pipe.Expire(ctx, key, c.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// Invalidate drops the cached feeds of the given profiles.
func (c *FeedCache) Invalidate(ctx context.Context, profileIds ...domain.ProfileId) error {
	if len(profileIds) == 0 {
		return nil
	}
	keys := make([]string, 0, len(profileIds))
	for _, id := range profileIds {
		keys = append(keys, feedKey(id))
	}
	return c.r.Del(ctx, keys...).Err()
}

func (c *FeedCache) Close() error {
	return c.r.Close()
}
