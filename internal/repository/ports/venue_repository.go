package ports

import (
	"context"

	"github.com/snapspot/snapspot-api/internal/domain"
)

type VenueRepository interface {
	// Search applies the filter and returns venues ordered by ascending
	// distance when the filter has a location, otherwise by descending
	// review count.
	Search(ctx context.Context, filter domain.VenueSearchFilter) ([]domain.Venue, error)
	FindByID(ctx context.Context, id string) (*domain.Venue, error)
	// FindByIDs batch-fetches venues so callers can hydrate result sets
	// without a round trip per row.
	FindByIDs(ctx context.Context, ids []string) (map[string]domain.Venue, error)
}
