package ports

import (
	"context"

	"github.com/snapspot/snapspot-api/internal/domain"
)

type FavoriteRepository interface {
	Add(ctx context.Context, userID, venueID string) (*domain.Favorite, error)
	Remove(ctx context.Context, userID, venueID string) error
	Exists(ctx context.Context, userID, venueID string) (bool, error)
	// FindVenueIDs is a batched membership check restricted to the
	// candidate set, not a full favorites scan.
	FindVenueIDs(ctx context.Context, userID string, candidateIDs []string) ([]string, error)
	ListByUser(ctx context.Context, userID string) ([]domain.FavoriteListItem, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
}
