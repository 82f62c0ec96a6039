package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/snapspot/snapspot-api/internal/domain"
	"github.com/snapspot/snapspot-api/internal/repository/ports"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, nickname, profile_image_url, preferred_keywords, created_at`

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpdatePreferredKeywords(ctx context.Context, id string, keywordsJSON string) (*domain.User, error) {
	const query = `
		UPDATE users
		SET preferred_keywords = $2
		WHERE id = $1
		RETURNING ` + userColumns + `
	`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id, keywordsJSON); err != nil {
		return nil, err
	}
	return &user, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
