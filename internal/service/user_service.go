package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/snapspot/snapspot-api/internal/domain"
	"github.com/snapspot/snapspot-api/internal/repository/ports"
)

type UserService struct {
	users     ports.UserRepository
	favorites ports.FavoriteRepository
}

// UserProfile is the caller-facing account view.
type UserProfile struct {
	ID                string   `json:"id"`
	Nickname          string   `json:"nickname"`
	ProfileImageURL   *string  `json:"profile_image_url,omitempty"`
	PreferredKeywords []string `json:"preferred_keywords"`
	FavoriteCount     int64    `json:"favorite_count"`
}

func NewUserService(userRepo ports.UserRepository, favoriteRepo ports.FavoriteRepository) *UserService {
	return &UserService{
		users:     userRepo,
		favorites: favoriteRepo,
	}
}

func (s *UserService) Profile(ctx context.Context, userID string) (*UserProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// Favorite count is decoration on the profile, not authoritative data.
	count, err := s.favorites.CountByUser(ctx, userID)
	if err != nil {
		count = 0
	}

	return &UserProfile{
		ID:                user.ID,
		Nickname:          user.Nickname,
		ProfileImageURL:   user.ProfileImageURL,
		PreferredKeywords: parseStringList(user.PreferredKeywords),
		FavoriteCount:     count,
	}, nil
}

func (s *UserService) PreferredKeywords(ctx context.Context, userID string) ([]string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return parseStringList(user.PreferredKeywords), nil
}

func (s *UserService) UpdatePreferredKeywords(ctx context.Context, userID string, keywordList []string) ([]string, error) {
	if keywordList == nil {
		keywordList = []string{}
	}
	encoded, err := json.Marshal(keywordList)
	if err != nil {
		return nil, fmt.Errorf("encode preferred keywords: %w", err)
	}

	user, err := s.users.UpdatePreferredKeywords(ctx, userID, string(encoded))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return parseStringList(user.PreferredKeywords), nil
}

func (s *UserService) Favorites(ctx context.Context, userID string) ([]domain.FavoriteListItem, error) {
	return s.favorites.ListByUser(ctx, userID)
}
