package geocoding

import (
	"context"

	"github.com/UnknownOlympus/postcodes/internal/models"
)

// Provider resolves a free-text address to coordinates. It is used for tasks
// that carry an address but no postcode; the coordinates are then passed to
// a nearest-postcode lookup.
type Provider interface {
	Geocode(ctx context.Context, address string) (*models.Coordinates, error)
}
