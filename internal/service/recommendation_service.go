package service

import (
	"context"

	"github.com/snapspot/snapspot-api/internal/domain"
	"github.com/snapspot/snapspot-api/internal/repository/ports"
	"github.com/snapspot/snapspot-api/internal/scorer"
)

const (
	defaultRecommendLimit = 20
	fallbackRadiusM       = 5000
	profileVisitLimit     = 10
)

// RecommendationService orchestrates the external scorer with a
// deterministic fallback. The scorer is strictly an enhancement: any
// failure, timeout, or empty response degrades to a plain search and the
// caller never observes the difference as an error.
type RecommendationService struct {
	scorer          scorer.Client
	venues          ports.VenueRepository
	favorites       ports.FavoriteRepository
	visits          ports.VisitRepository
	personalization *PersonalizationReader
	search          *SearchService
}

func NewRecommendationService(
	scorerClient scorer.Client,
	venueRepo ports.VenueRepository,
	favoriteRepo ports.FavoriteRepository,
	visitRepo ports.VisitRepository,
	personalization *PersonalizationReader,
	searchService *SearchService,
) *RecommendationService {
	return &RecommendationService{
		scorer:          scorerClient,
		venues:          venueRepo,
		favorites:       favoriteRepo,
		visits:          visitRepo,
		personalization: personalization,
		search:          searchService,
	}
}

// Recommend returns up to limit venues in the scorer's ranking order, or
// the fallback search ordering when the scorer is unusable. Scored ids
// that no longer resolve to a venue are dropped without shifting the
// surviving ranks.
func (s *RecommendationService) Recommend(ctx context.Context, userID string, lat, lng *float64, limit int) ([]domain.VenueView, error) {
	if limit <= 0 {
		limit = defaultRecommendLimit
	}

	profile := s.buildProfile(ctx, userID, lat, lng)

	res, err := s.scorer.Recommend(ctx, profile)
	if err != nil || res == nil || len(res.Recommendations) == 0 {
		return s.fallback(ctx, userID, lat, lng, limit)
	}

	views, err := s.renderScored(ctx, userID, res.Recommendations, lat, lng, limit)
	if err != nil {
		return s.fallback(ctx, userID, lat, lng, limit)
	}
	return views, nil
}

// buildProfile assembles the scoring snapshot. Each signal degrades to
// empty on failure; profile building never fails as a whole.
func (s *RecommendationService) buildProfile(ctx context.Context, userID string, lat, lng *float64) scorer.Profile {
	profile := scorer.Profile{
		UserID:              userID,
		PreferredKeywords:   s.personalization.PreferredKeywords(ctx, userID),
		RecentVisits:        []string{},
		FavoritePhotoBooths: []string{},
	}
	if lat != nil && lng != nil {
		profile.Location = &scorer.Location{Latitude: *lat, Longitude: *lng}
	}

	if visits, err := s.visits.Recent(ctx, userID, profileVisitLimit); err == nil {
		for _, v := range visits {
			profile.RecentVisits = append(profile.RecentVisits, v.VenueID)
		}
	}
	if favorites, err := s.favorites.ListByUser(ctx, userID); err == nil {
		for _, f := range favorites {
			profile.FavoritePhotoBooths = append(profile.FavoritePhotoBooths, f.VenueID)
		}
	}
	return profile
}

func (s *RecommendationService) renderScored(ctx context.Context, userID string, scored []scorer.ScoredVenue, lat, lng *float64, limit int) ([]domain.VenueView, error) {
	if len(scored) > limit {
		scored = scored[:limit]
	}
	ids := make([]string, len(scored))
	for i, sv := range scored {
		ids[i] = sv.PhotoBoothID
	}

	venuesByID, err := s.venues.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	o := s.search.readOverlay(ctx, userID, ids)

	views := make([]domain.VenueView, 0, len(scored))
	for _, sv := range scored {
		venue, ok := venuesByID[sv.PhotoBoothID]
		if !ok {
			continue
		}
		view := s.search.buildView(venue, o, lat, lng)
		// Inclusion in the external ranking is itself the recommendation
		// signal.
		view.IsRecommended = true
		views = append(views, view)
	}
	return views, nil
}

func (s *RecommendationService) fallback(ctx context.Context, userID string, lat, lng *float64, limit int) ([]domain.VenueView, error) {
	input := SearchInput{UserID: userID}
	if lat != nil && lng != nil {
		input.Latitude = lat
		input.Longitude = lng
		input.RadiusMeters = fallbackRadiusM
	}

	views, err := s.search.Search(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(views) > limit {
		views = views[:limit]
	}
	return views, nil
}
