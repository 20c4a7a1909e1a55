package redis

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jobbee/jobboard-api/internal/core/domain"
)

const defaultGeoTTL = 24 * time.Hour

// GeoCache stores geocoding results as JSON.
// Key format: geocode:<provider>:<sha1 of normalized address>
type GeoCache struct {
	client   redis.Cmdable
	provider string
	ttl      time.Duration
}

// NewGeoCache creates a GeoCache wrapping the given Redis client. Results
// expire after ttl, or 24h when ttl is not positive.
func NewGeoCache(client redis.Cmdable, provider string, ttl time.Duration) *GeoCache {
	if ttl <= 0 {
		ttl = defaultGeoTTL
	}
	return &GeoCache{client: client, provider: provider, ttl: ttl}
}

// Get reports whether a cached result exists for address.
func (c *GeoCache) Get(ctx context.Context, address string) ([]domain.GeoResult, bool, error) {
	raw, err := c.client.Get(ctx, c.key(address)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("geocache get: %w", err)
	}

	var results []domain.GeoResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false, fmt.Errorf("geocache decode: %w", err)
	}
	return results, true, nil
}

// Set stores results for address. Empty results are not cached.
func (c *GeoCache) Set(ctx context.Context, address string, results []domain.GeoResult) error {
	if len(results) == 0 {
		return nil
	}
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("geocache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(address), raw, c.ttl).Err()
}

func (c *GeoCache) key(address string) string {
	return fmt.Sprintf("geocode:%s:%s", c.provider, AddressHash(address))
}

// AddressHash normalizes case and whitespace before hashing, so trivially
// different spellings of one address share an entry.
func AddressHash(address string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(address), " "))
	sum := sha1.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
