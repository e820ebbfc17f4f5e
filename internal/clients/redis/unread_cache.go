package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/brightboard/brightboard-backend/internal/pkg/logger"
)

// UnreadCounts mirrors the repo-level split so cached and fresh reads share
// a shape.
type UnreadCounts struct {
	Messages      int64 `json:"messages"`
	Notifications int64 `json:"notifications"`
}

// UnreadCache is a best-effort read-through cache for per-user unread badge
// counts. The notification rows stay the source of truth; a cache miss or a
// redis outage always falls back to counting rows, and every write path
// invalidates. Entries expire on a short TTL so a lost invalidation
// self-heals.
type UnreadCache interface {
	Get(ctx context.Context, userID uuid.UUID) (UnreadCounts, bool)
	Set(ctx context.Context, userID uuid.UUID, counts UnreadCounts)
	Invalidate(ctx context.Context, userID uuid.UUID)
	Close() error
}

type unreadCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

const defaultUnreadTTL = 30 * time.Second

func NewUnreadCache(log *logger.Logger) (UnreadCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	ttl := defaultUnreadTTL
	if raw := strings.TrimSpace(os.Getenv("UNREAD_CACHE_TTL")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			ttl = d
		}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &unreadCache{
		log: log.With("service", "RedisUnreadCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func unreadKey(userID uuid.UUID) string {
	return "unread:" + userID.String()
}

func (c *unreadCache) Get(ctx context.Context, userID uuid.UUID) (UnreadCounts, bool) {
	if c == nil || c.rdb == nil || userID == uuid.Nil {
		return UnreadCounts{}, false
	}
	raw, err := c.rdb.Get(ctx, unreadKey(userID)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("unread cache get failed", "user_id", userID, "error", err)
		}
		return UnreadCounts{}, false
	}
	var counts UnreadCounts
	if err := json.Unmarshal(raw, &counts); err != nil {
		return UnreadCounts{}, false
	}
	return counts, true
}

func (c *unreadCache) Set(ctx context.Context, userID uuid.UUID, counts UnreadCounts) {
	if c == nil || c.rdb == nil || userID == uuid.Nil {
		return
	}
	raw, err := json.Marshal(counts)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, unreadKey(userID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("unread cache set failed", "user_id", userID, "error", err)
	}
}

func (c *unreadCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if c == nil || c.rdb == nil || userID == uuid.Nil {
		return
	}
	if err := c.rdb.Del(ctx, unreadKey(userID)).Err(); err != nil {
		c.log.Warn("unread cache invalidate failed", "user_id", userID, "error", err)
	}
}

func (c *unreadCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
