package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/snapspot/snapspot-api/internal/domain"
	"github.com/snapspot/snapspot-api/internal/repository/ports"
)

type VisitRepository struct {
	db *sqlx.DB
}

func NewVisitRepo(db *sqlx.DB) *VisitRepository {
	return &VisitRepository{db: db}
}

func (r *VisitRepository) Record(ctx context.Context, userID, venueID string) error {
	const query = `
		INSERT INTO user_visits (id, user_id, venue_id, visited_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, venue_id)
		DO UPDATE SET visited_at = NOW()
	`
	_, err := r.db.ExecContext(ctx, query, uuid.New(), userID, venueID)
	return err
}

func (r *VisitRepository) Recent(ctx context.Context, userID string, limit int) ([]domain.VisitListItem, error) {
	const query = `
		SELECT uv.id, uv.user_id, uv.venue_id, uv.visited_at,
		       v.name AS venue_name, v.brand, v.region, v.address, v.image_urls
		FROM user_visits uv
		JOIN venues v ON v.id = uv.venue_id
		WHERE uv.user_id = $1
		ORDER BY uv.visited_at DESC
		LIMIT $2
	`
	items := make([]domain.VisitListItem, 0, limit)
	if err := r.db.SelectContext(ctx, &items, query, userID, limit); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *VisitRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM user_visits WHERE user_id = $1`,
		userID,
	)
	return count, err
}

func (r *VisitRepository) DeleteOldest(ctx context.Context, userID string, count int) error {
	const query = `
		DELETE FROM user_visits
		WHERE id IN (
			SELECT id FROM user_visits
			WHERE user_id = $1
			ORDER BY visited_at ASC
			LIMIT $2
		)
	`
	_, err := r.db.ExecContext(ctx, query, userID, count)
	return err
}

var _ ports.VisitRepository = (*VisitRepository)(nil)
