package domain

import (
	"time"

	"github.com/google/uuid"
)

// Visit records that a user has been to a venue. One row per (user, venue)
// pair; revisits bump VisitedAt. Kept FIFO-capped per user.
type Visit struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	VenueID   string    `db:"venue_id" json:"venue_id"`
	VisitedAt time.Time `db:"visited_at" json:"visited_at"`
}

// VisitListItem is a visit joined with its venue for list responses.
type VisitListItem struct {
	Visit
	VenueName   string  `db:"venue_name" json:"venue_name"`
	Brand       string  `db:"brand" json:"brand"`
	Region      string  `db:"region" json:"region"`
	Address     string  `db:"address" json:"address"`
	VenueImages *string `db:"image_urls" json:"-"`
}
