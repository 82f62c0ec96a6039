package domain

import "time"

// User carries the per-caller personalization signals. Account lifecycle is
// owned by the upstream auth layer; this service only reads and updates the
// preferred-keyword list.
type User struct {
	ID                string    `db:"id" json:"id"`
	Nickname          string    `db:"nickname" json:"nickname"`
	ProfileImageURL   *string   `db:"profile_image_url" json:"profile_image_url,omitempty"`
	PreferredKeywords *string   `db:"preferred_keywords" json:"-"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}
