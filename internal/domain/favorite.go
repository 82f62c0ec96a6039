package domain

import (
	"time"

	"github.com/google/uuid"
)

// Favorite marks a venue as saved by a user. Presence of the row means
// favorited; toggling inserts or deletes, there is no soft state.
type Favorite struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	VenueID   string    `db:"venue_id" json:"venue_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// FavoriteListItem is a favorite joined with its venue for list responses.
type FavoriteListItem struct {
	Favorite
	VenueName   string  `db:"venue_name" json:"venue_name"`
	Brand       string  `db:"brand" json:"brand"`
	Region      string  `db:"region" json:"region"`
	Address     string  `db:"address" json:"address"`
	VenueImages *string `db:"image_urls" json:"-"`
}
