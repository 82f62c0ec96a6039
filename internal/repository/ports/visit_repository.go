package ports

import (
	"context"

	"github.com/snapspot/snapspot-api/internal/domain"
)

type VisitRepository interface {
	// Record inserts a visit or bumps visited_at on revisit.
	Record(ctx context.Context, userID, venueID string) error
	Recent(ctx context.Context, userID string, limit int) ([]domain.VisitListItem, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	// DeleteOldest trims the per-user history back down to the FIFO cap.
	DeleteOldest(ctx context.Context, userID string, count int) error
}
