package ports

import (
	"context"

	"github.com/jobbee/jobboard-api/internal/core/domain"
)

// Geocoder resolves a free-text address into candidate positions. An empty
// slice with a nil error means the provider found nothing.
type Geocoder interface {
	Geocode(ctx context.Context, address string) ([]domain.GeoResult, error)
}
