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

type FavoriteRepository struct {
	db *sqlx.DB
}

func NewFavoriteRepo(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Add(ctx context.Context, userID, venueID string) (*domain.Favorite, error) {
	const query = `
		INSERT INTO venue_favorites (id, user_id, venue_id, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, user_id, venue_id, created_at
	`
	var favorite domain.Favorite
	if err := r.db.GetContext(ctx, &favorite, query, uuid.New(), userID, venueID); err != nil {
		return nil, err
	}
	return &favorite, nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, venueID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM venue_favorites WHERE user_id = $1 AND venue_id = $2`,
		userID, venueID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *FavoriteRepository) Exists(ctx context.Context, userID, venueID string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM venue_favorites WHERE user_id = $1 AND venue_id = $2)`,
		userID, venueID,
	)
	return exists, err
}

func (r *FavoriteRepository) FindVenueIDs(ctx context.Context, userID string, candidateIDs []string) ([]string, error) {
	if len(candidateIDs) == 0 {
		return []string{}, nil
	}
	ids := make([]string, 0, len(candidateIDs))
	err := r.db.SelectContext(ctx, &ids,
		`SELECT venue_id FROM venue_favorites WHERE user_id = $1 AND venue_id = ANY($2)`,
		userID, pq.StringArray(candidateIDs),
	)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]domain.FavoriteListItem, error) {
	const query = `
		SELECT f.id, f.user_id, f.venue_id, f.created_at,
		       v.name AS venue_name, v.brand, v.region, v.address, v.image_urls
		FROM venue_favorites f
		JOIN venues v ON v.id = f.venue_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`
	items := make([]domain.FavoriteListItem, 0)
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *FavoriteRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM venue_favorites WHERE user_id = $1`,
		userID,
	)
	return count, err
}

var _ ports.FavoriteRepository = (*FavoriteRepository)(nil)
