package geocoder

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/jobbee/jobboard-api/internal/core/domain"
	"github.com/jobbee/jobboard-api/internal/core/ports"
	"github.com/jobbee/jobboard-api/internal/pkg/metrics"
)

// ResultStore is a shared second-level cache, typically Redis.
type ResultStore interface {
	Get(ctx context.Context, address string) ([]domain.GeoResult, bool, error)
	Set(ctx context.Context, address string, results []domain.GeoResult) error
}

// Cached puts an in-process cache and an optional shared store in front of a
// provider. Empty results are never cached, so an address that failed to
// resolve is looked up again next time. Store errors are logged and skipped.
type Cached struct {
	next   ports.Geocoder
	memory *gocache.Cache
	store  ResultStore
	logger zerolog.Logger
}

func NewCached(next ports.Geocoder, store ResultStore, ttl time.Duration, logger zerolog.Logger) *Cached {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Cached{
		next:   next,
		memory: gocache.New(ttl, 2*ttl),
		store:  store,
		logger: logger,
	}
}

func (c *Cached) Geocode(ctx context.Context, address string) ([]domain.GeoResult, error) {
	key := cacheKey(address)

	if value, found := c.memory.Get(key); found {
		metrics.GeocodeCacheTotal.WithLabelValues("memory", "hit").Inc()
		return value.([]domain.GeoResult), nil
	}
	metrics.GeocodeCacheTotal.WithLabelValues("memory", "miss").Inc()

	if c.store != nil {
		results, found, err := c.store.Get(ctx, address)
		switch {
		case err != nil:
			c.logger.Warn().Err(err).Str("address", address).Msg("geocode cache read failed")
		case found && len(results) > 0:
			metrics.GeocodeCacheTotal.WithLabelValues("redis", "hit").Inc()
			c.memory.Set(key, results, gocache.DefaultExpiration)
			return results, nil
		default:
			metrics.GeocodeCacheTotal.WithLabelValues("redis", "miss").Inc()
		}
	}

	results, err := c.next.Geocode(ctx, address)
	if err != nil || len(results) == 0 {
		return results, err
	}

	c.memory.Set(key, results, gocache.DefaultExpiration)
	if c.store != nil {
		if err := c.store.Set(ctx, address, results); err != nil {
			c.logger.Warn().Err(err).Str("address", address).Msg("geocode cache write failed")
		}
	}
	return results, nil
}

func cacheKey(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}
