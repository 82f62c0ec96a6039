package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/snapspot/snapspot-api/internal/domain"
	"github.com/snapspot/snapspot-api/internal/repository/ports"
)

type VenueRepository struct {
	db *sqlx.DB
}

func NewVenueRepo(db *sqlx.DB) *VenueRepository {
	return &VenueRepository{db: db}
}

const venueColumns = `
	v.id, v.name, v.brand, v.region, v.address,
	v.latitude, v.longitude, v.review_count,
	v.image_urls, v.analysis_data, v.created_at, v.updated_at
`

// haversineExpr computes the great-circle distance in meters between the
// venue row and the given lat/lng placeholders.
func haversineExpr(latPlaceholder, lngPlaceholder string) string {
	return `(6371000 * acos(
		least(1.0,
			cos(radians(` + latPlaceholder + `)) * cos(radians(v.latitude)) *
			cos(radians(v.longitude) - radians(` + lngPlaceholder + `)) +
			sin(radians(` + latPlaceholder + `)) * sin(radians(v.latitude))
		)
	))`
}

func (r *VenueRepository) Search(ctx context.Context, filter domain.VenueSearchFilter) ([]domain.Venue, error) {
	params := make([]any, 0, 6)
	var builder strings.Builder
	builder.WriteString(`
		SELECT ` + venueColumns + `
		FROM venues v
		WHERE 1 = 1
	`)

	if filter.HasLocation() {
		latPlaceholder := fmt.Sprintf("$%d", len(params)+1)
		lngPlaceholder := fmt.Sprintf("$%d", len(params)+2)
		radiusPlaceholder := fmt.Sprintf("$%d", len(params)+3)
		builder.WriteString("\n\tAND " + haversineExpr(latPlaceholder, lngPlaceholder) + " <= " + radiusPlaceholder)
		params = append(params, *filter.Latitude, *filter.Longitude, filter.RadiusMeters)
	}

	if filter.Region != nil {
		if region := strings.TrimSpace(*filter.Region); region != "" {
			placeholder := fmt.Sprintf("$%d", len(params)+1)
			builder.WriteString("\n\tAND v.region = " + placeholder)
			params = append(params, region)
		}
	}

	if filter.Brand != nil {
		if brand := strings.TrimSpace(*filter.Brand); brand != "" {
			placeholder := fmt.Sprintf("$%d", len(params)+1)
			builder.WriteString("\n\tAND v.brand = " + placeholder)
			params = append(params, brand)
		}
	}

	if filter.Text != nil {
		if text := strings.TrimSpace(*filter.Text); text != "" {
			placeholder := fmt.Sprintf("$%d", len(params)+1)
			builder.WriteString(`
	AND (v.name ILIKE ` + placeholder + ` OR v.brand ILIKE ` + placeholder + ` OR v.region ILIKE ` + placeholder + `)`)
			params = append(params, "%"+text+"%")
		}
	}

	builder.WriteString("\n\tORDER BY ")
	if filter.HasLocation() {
		latPlaceholder := fmt.Sprintf("$%d", len(params)+1)
		lngPlaceholder := fmt.Sprintf("$%d", len(params)+2)
		builder.WriteString(haversineExpr(latPlaceholder, lngPlaceholder) + " ASC, v.id ASC")
		params = append(params, *filter.Latitude, *filter.Longitude)
	} else {
		builder.WriteString("v.review_count DESC, v.id ASC")
	}

	venues := make([]domain.Venue, 0)
	if err := r.db.SelectContext(ctx, &venues, builder.String(), params...); err != nil {
		return nil, err
	}
	return venues, nil
}

func (r *VenueRepository) FindByID(ctx context.Context, id string) (*domain.Venue, error) {
	const query = `
		SELECT ` + venueColumns + `
		FROM venues v
		WHERE v.id = $1
	`
	var venue domain.Venue
	if err := r.db.GetContext(ctx, &venue, query, id); err != nil {
		return nil, err
	}
	return &venue, nil
}

func (r *VenueRepository) FindByIDs(ctx context.Context, ids []string) (map[string]domain.Venue, error) {
	result := make(map[string]domain.Venue, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	const query = `
		SELECT ` + venueColumns + `
		FROM venues v
		WHERE v.id = ANY($1)
	`
	rows, err := r.db.QueryxContext(ctx, query, pq.StringArray(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var venue domain.Venue
		if err := rows.StructScan(&venue); err != nil {
			return nil, err
		}
		result[venue.ID] = venue
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

var _ ports.VenueRepository = (*VenueRepository)(nil)
