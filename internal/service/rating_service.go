package service

import (
	"context"
	"fmt"

	"github.com/snapspot/snapspot-api/internal/domain"
	"github.com/snapspot/snapspot-api/internal/repository/ports"
)

type RatingService struct {
	ratings ports.RatingRepository
	venues  ports.VenueRepository
}

func NewRatingService(ratingRepo ports.RatingRepository, venueRepo ports.VenueRepository) *RatingService {
	return &RatingService{
		ratings: ratingRepo,
		venues:  venueRepo,
	}
}

// Upsert inserts or replaces the caller's rating and returns the venue's
// recomputed summary. The mutation and the summary read share one
// transaction so concurrent writers cannot produce a torn snapshot.
func (s *RatingService) Upsert(ctx context.Context, userID, venueID string, rating int) (*domain.RatingSummary, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating %d must be between 1 and 5", ErrRatingValidation, rating)
	}

	if _, err := s.venues.FindByID(ctx, venueID); err != nil {
		if isNotFound(err) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}

	return s.ratings.Upsert(ctx, userID, venueID, rating)
}

// Delete removes the caller's rating and returns the recomputed summary.
// The count may drop to zero, in which case the average is null.
func (s *RatingService) Delete(ctx context.Context, userID, venueID string) (*domain.RatingSummary, error) {
	if _, err := s.venues.FindByID(ctx, venueID); err != nil {
		if isNotFound(err) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}

	summary, err := s.ratings.Delete(ctx, userID, venueID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return summary, nil
}
