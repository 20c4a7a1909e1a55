// Package geocoder resolves free-text addresses to coordinates through an
// external provider, with rate limiting and two levels of caching.
package geocoder

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobbee/jobboard-api/internal/core/ports"
)

// Config selects and tunes the provider.
type Config struct {
	Provider string
	APIKey   string
	// RequestsPerSecond caps outgoing provider calls; zero disables the limit.
	RequestsPerSecond float64
	CacheTTL          time.Duration
}

// New builds the configured provider wrapped in a Cached decorator. store may
// be nil, in which case only the in-process cache is used.
func New(cfg Config, store ResultStore, logger zerolog.Logger) (ports.Geocoder, error) {
	var provider interface {
		ports.Geocoder
		SetRateLimit(float64)
	}

	switch cfg.Provider {
	case ProviderMapQuest, "":
		mq, err := NewMapQuest(cfg.APIKey)
		if err != nil {
			return nil, err
		}
		provider = mq
	case ProviderOpenStreetMap:
		provider = NewOpenStreetMap()
	default:
		return nil, fmt.Errorf("unknown geocoder provider %q", cfg.Provider)
	}

	provider.SetRateLimit(cfg.RequestsPerSecond)
	return NewCached(provider, store, cfg.CacheTTL, logger), nil
}
