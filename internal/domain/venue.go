package domain

import "time"

// Venue is a photo-booth location record. Rows are written by the ingestion
// pipeline; this service only reads them.
type Venue struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Brand        string    `db:"brand" json:"brand"`
	Region       string    `db:"region" json:"region"`
	Address      string    `db:"address" json:"address"`
	Latitude     float64   `db:"latitude" json:"latitude"`
	Longitude    float64   `db:"longitude" json:"longitude"`
	ReviewCount  int       `db:"review_count" json:"review_count"`
	ImageURLs    *string   `db:"image_urls" json:"-"`
	AnalysisData *string   `db:"analysis_data" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// VenueSearchFilter is the filter set accepted by the venue search query.
// All fields are optional and AND-combined; Text matches name, brand and
// region case-insensitively (OR-combined across the three columns).
type VenueSearchFilter struct {
	Latitude     *float64
	Longitude    *float64
	RadiusMeters int
	Region       *string
	Brand        *string
	Text         *string
}

// HasLocation reports whether the filter carries a search center. Without a
// center the radius is ignored and results are ordered by popularity.
func (f VenueSearchFilter) HasLocation() bool {
	return f.Latitude != nil && f.Longitude != nil
}

// VenueView is the response projection of a venue with the caller's
// personalization overlay applied.
type VenueView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Brand       string `json:"brand"`
	Region      string `json:"region"`
	Address     string `json:"address"`
	ReviewCount int    `json:"review_count"`

	// Distance in meters from the caller's location. Zero and meaningless
	// when the caller supplied no location.
	Distance int `json:"distance"`

	ImageURL  *string  `json:"image_url,omitempty"`
	ImageURLs []string `json:"image_urls,omitempty"`

	Keywords      []Keyword `json:"keywords,omitempty"`
	IsRecommended bool      `json:"is_recommended"`
	IsFavorite    bool      `json:"is_favorite"`

	AverageRating *float64 `json:"average_rating,omitempty"`
	TotalRatings  int      `json:"total_ratings"`
	UserRating    *int     `json:"user_rating,omitempty"`
}
