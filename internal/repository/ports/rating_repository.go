package ports

import (
	"context"

	"github.com/snapspot/snapspot-api/internal/domain"
)

type RatingRepository interface {
	// Upsert inserts or replaces the caller's rating and returns the
	// venue's summary read from the same transaction.
	Upsert(ctx context.Context, userID, venueID string, rating int) (*domain.RatingSummary, error)
	// Delete removes the caller's rating and returns the recomputed summary
	// from the same transaction. sql.ErrNoRows when no rating exists.
	Delete(ctx context.Context, userID, venueID string) (*domain.RatingSummary, error)
	FindValue(ctx context.Context, userID, venueID string) (*int, error)
	Summary(ctx context.Context, venueID string) (*domain.RatingSummary, error)
	// Summaries batch-computes (average, count) for exactly the candidate
	// id set, grouped by venue id.
	Summaries(ctx context.Context, venueIDs []string) (map[string]domain.RatingSummary, error)
}
