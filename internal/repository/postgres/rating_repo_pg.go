package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/snapspot/snapspot-api/internal/domain"
	"github.com/snapspot/snapspot-api/internal/repository/ports"
)

type RatingRepository struct {
	db *sqlx.DB
}

func NewRatingRepo(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

const summaryQuery = `
	SELECT $1::text AS venue_id,
	       AVG(rating)::float8 AS average_rating,
	       COUNT(*) AS total_ratings
	FROM venue_ratings
	WHERE venue_id = $1
`

func (r *RatingRepository) Upsert(ctx context.Context, userID, venueID string, rating int) (*domain.RatingSummary, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const upsert = `
		INSERT INTO venue_ratings (id, user_id, venue_id, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id, venue_id)
		DO UPDATE SET rating = EXCLUDED.rating, updated_at = NOW()
	`
	if _, err := tx.ExecContext(ctx, upsert, uuid.New(), userID, venueID, rating); err != nil {
		return nil, err
	}

	var summary domain.RatingSummary
	if err := tx.GetContext(ctx, &summary, summaryQuery, venueID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *RatingRepository) Delete(ctx context.Context, userID, venueID string) (*domain.RatingSummary, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM venue_ratings WHERE user_id = $1 AND venue_id = $2`,
		userID, venueID,
	)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, sql.ErrNoRows
	}

	var summary domain.RatingSummary
	if err := tx.GetContext(ctx, &summary, summaryQuery, venueID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *RatingRepository) FindValue(ctx context.Context, userID, venueID string) (*int, error) {
	var value int
	err := r.db.GetContext(ctx, &value,
		`SELECT rating FROM venue_ratings WHERE user_id = $1 AND venue_id = $2`,
		userID, venueID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (r *RatingRepository) Summary(ctx context.Context, venueID string) (*domain.RatingSummary, error) {
	var summary domain.RatingSummary
	if err := r.db.GetContext(ctx, &summary, summaryQuery, venueID); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *RatingRepository) Summaries(ctx context.Context, venueIDs []string) (map[string]domain.RatingSummary, error) {
	result := make(map[string]domain.RatingSummary, len(venueIDs))
	if len(venueIDs) == 0 {
		return result, nil
	}

	const query = `
		SELECT venue_id,
		       AVG(rating)::float8 AS average_rating,
		       COUNT(*) AS total_ratings
		FROM venue_ratings
		WHERE venue_id = ANY($1)
		GROUP BY venue_id
	`
	rows, err := r.db.QueryxContext(ctx, query, pq.StringArray(venueIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var summary domain.RatingSummary
		if err := rows.StructScan(&summary); err != nil {
			return nil, err
		}
		result[summary.VenueID] = summary
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

var _ ports.RatingRepository = (*RatingRepository)(nil)
