package app

import (
	"fmt"

	"github.com/brightboard/brightboard-backend/internal/clients/gcp"
	"github.com/brightboard/brightboard-backend/internal/clients/redis"
	"github.com/brightboard/brightboard-backend/internal/pkg/logger"
)

type Clients struct {
	GcpBucket   gcp.BucketService
	UnreadCache redis.UnreadCache
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	bucket, err := gcp.NewBucketService(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init gcp bucket client: %w", err)
	}

	// The unread-count cache is optional. Without REDIS_ADDR every unread
	// query counts from rows.
	cache, err := redis.NewUnreadCache(log)
	if err != nil {
		log.Warn("unread cache unavailable, counting from rows", "error", err)
		cache = nil
	}

	return Clients{
		GcpBucket:   bucket,
		UnreadCache: cache,
	}, nil
}
