package domain

import (
	"time"

	"github.com/google/uuid"
)

// Rating is a single user's 1-5 score for a venue. At most one active row
// exists per (user, venue) pair; upserts replace the value in place.
type Rating struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	VenueID   string    `db:"venue_id" json:"venue_id"`
	Rating    int       `db:"rating" json:"rating"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RatingSummary is the derived (average, count) pair for a venue. It is
// recomputed on demand and never persisted; AverageRating is nil when the
// venue has no ratings.
type RatingSummary struct {
	VenueID       string   `db:"venue_id" json:"venue_id"`
	AverageRating *float64 `db:"average_rating" json:"average_rating"`
	TotalRatings  int      `db:"total_ratings" json:"total_ratings"`
}
