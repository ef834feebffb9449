// Package cache keeps recent marketplace lookups in Redis so repeated scans
// (e.g. from cron) don't hammer the search API.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jimezsa/rentcli/internal/models"
)

type ListingCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func New(addr string, ttl time.Duration, logger zerolog.Logger) *ListingCache {
	client := redis.NewClient(&redis.Options{Addr: addr})
	return &ListingCache{redis: client, ttl: ttl, logger: logger}
}

// Ping verifies the cache is reachable; callers fall back to uncached scans
// when it isn't.
func (c *ListingCache) Ping(ctx context.Context) error {
	return c.redis.Ping(ctx).Err()
}

func (c *ListingCache) Close() error {
	return c.redis.Close()
}

func (c *ListingCache) Get(ctx context.Context, provider string, criteria models.Criteria) ([]models.Listing, bool) {
	data, err := c.redis.Get(ctx, listingKey(provider, criteria)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug().Err(err).Msg("cache get failed")
		}
		return nil, false
	}

	var listings []models.Listing
	if err := json.Unmarshal([]byte(data), &listings); err != nil {
		c.logger.Debug().Err(err).Msg("cache entry unreadable")
		return nil, false
	}
	return listings, true
}

func (c *ListingCache) Set(ctx context.Context, provider string, criteria models.Criteria, listings []models.Listing) {
	if c.ttl <= 0 {
		return
	}

	data, err := json.Marshal(listings)
	if err != nil {
		c.logger.Debug().Err(err).Msg("cache marshal failed")
		return
	}
	if err := c.redis.Set(ctx, listingKey(provider, criteria), data, c.ttl).Err(); err != nil {
		c.logger.Debug().Err(err).Msg("cache set failed")
	}
}

func listingKey(provider string, criteria models.Criteria) string {
	// Detailed and plain scans must not share entries: a detailed scan
	// served a plain batch would silently lose trim/mileage fields.
	detail := "plain"
	if criteria.FetchDetails {
		detail = "detailed"
	}
	return fmt.Sprintf("listings:%s:%s:%s:%s:%s:%d:%d:%s",
		provider,
		criteria.ZipCode,
		criteria.Window.Start.Format("2006-01-02"),
		criteria.Make,
		criteria.Model,
		criteria.MaxMiles,
		criteria.ItemsPerPage,
		detail,
	)
}
