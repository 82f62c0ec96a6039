package ports

import (
	"context"

	"github.com/snapspot/snapspot-api/internal/domain"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdatePreferredKeywords(ctx context.Context, id string, keywordsJSON string) (*domain.User, error)
}
