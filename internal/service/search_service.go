package service

import (
	"context"
	"math"
	"sync"

	"github.com/snapspot/snapspot-api/internal/domain"
	"github.com/snapspot/snapspot-api/internal/geo"
	"github.com/snapspot/snapspot-api/internal/repository/ports"
)

const defaultSearchRadiusM = 1000

type SearchService struct {
	venues          ports.VenueRepository
	favorites       ports.FavoriteRepository
	ratings         ports.RatingRepository
	personalization *PersonalizationReader
}

// SearchInput carries the caller identity and the optional filter set. A
// non-positive radius falls back to the default when a center is present;
// without a center the radius is ignored entirely.
type SearchInput struct {
	UserID       string
	Latitude     *float64
	Longitude    *float64
	RadiusMeters int
	Region       *string
	Brand        *string
	Text         *string
}

func NewSearchService(
	venueRepo ports.VenueRepository,
	favoriteRepo ports.FavoriteRepository,
	ratingRepo ports.RatingRepository,
	personalization *PersonalizationReader,
) *SearchService {
	return &SearchService{
		venues:          venueRepo,
		favorites:       favoriteRepo,
		ratings:         ratingRepo,
		personalization: personalization,
	}
}

// Search returns venues matching the filters with the caller's
// personalization overlay applied, preserving the repository's ordering
// (distance-ascending with a center, popularity-descending without).
func (s *SearchService) Search(ctx context.Context, input SearchInput) ([]domain.VenueView, error) {
	filter := domain.VenueSearchFilter{
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		RadiusMeters: input.RadiusMeters,
		Region:       input.Region,
		Brand:        input.Brand,
		Text:         input.Text,
	}
	if filter.HasLocation() && filter.RadiusMeters <= 0 {
		filter.RadiusMeters = defaultSearchRadiusM
	}

	venues, err := s.venues.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(venues) == 0 {
		return []domain.VenueView{}, nil
	}

	ids := make([]string, len(venues))
	for i, v := range venues {
		ids[i] = v.ID
	}

	overlay := s.readOverlay(ctx, input.UserID, ids)

	views := make([]domain.VenueView, 0, len(venues))
	for _, venue := range venues {
		view := s.buildView(venue, overlay, input.Latitude, input.Longitude)
		views = append(views, view)
	}
	return views, nil
}

// Detail returns a single venue with the caller's personalization overlay
// plus the caller's own rating value.
func (s *SearchService) Detail(ctx context.Context, userID, venueID string) (*domain.VenueView, error) {
	venue, err := s.venues.FindByID(ctx, venueID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}

	overlay := s.readOverlay(ctx, userID, []string{venueID})
	view := s.buildView(*venue, overlay, nil, nil)

	// Detail exposes the full image list, not just the cover.
	view.ImageURLs = parseStringList(venue.ImageURLs)

	if value, err := s.ratings.FindValue(ctx, userID, venueID); err == nil {
		view.UserRating = value
	}
	return &view, nil
}

// ToggleFavorite flips the caller's favorite state for the venue and
// returns the new state. Concurrent toggles on the same pair race; the
// unique constraint keeps the row set consistent and the last write wins.
func (s *SearchService) ToggleFavorite(ctx context.Context, userID, venueID string) (bool, error) {
	if _, err := s.venues.FindByID(ctx, venueID); err != nil {
		if isNotFound(err) {
			return false, ErrVenueNotFound
		}
		return false, err
	}

	exists, err := s.favorites.Exists(ctx, userID, venueID)
	if err != nil {
		return false, err
	}

	if exists {
		if err := s.favorites.Remove(ctx, userID, venueID); err != nil && !isNotFound(err) {
			return false, err
		}
		return false, nil
	}

	if _, err := s.favorites.Add(ctx, userID, venueID); err != nil && !isUniqueViolation(err) {
		return false, err
	}
	return true, nil
}

// overlay is the joined result of the three batched personalization reads.
type overlay struct {
	preferred   []string
	favoriteIDs map[string]bool
	summaries   map[string]domain.RatingSummary
}

// readOverlay issues exactly three reads regardless of candidate-set size:
// preferred keywords, favorite membership, rating summaries. The reads are
// independent and run concurrently; all join before the overlay is used.
func (s *SearchService) readOverlay(ctx context.Context, userID string, candidateIDs []string) overlay {
	var o overlay
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		o.preferred = s.personalization.PreferredKeywords(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		o.favoriteIDs = s.personalization.FavoriteIDs(ctx, userID, candidateIDs)
	}()
	go func() {
		defer wg.Done()
		o.summaries = s.personalization.RatingSummaries(ctx, candidateIDs)
	}()
	wg.Wait()
	return o
}

func (s *SearchService) buildView(venue domain.Venue, o overlay, lat, lng *float64) domain.VenueView {
	derived := s.personalization.DerivedKeywords(venue, o.preferred)

	recommended := false
	for _, k := range derived {
		if k.IsPreferred {
			recommended = true
			break
		}
	}

	distance := 0
	if lat != nil && lng != nil {
		distance = int(math.Round(geo.Distance(*lat, *lng, venue.Latitude, venue.Longitude)))
	}

	view := domain.VenueView{
		ID:            venue.ID,
		Name:          venue.Name,
		Brand:         venue.Brand,
		Region:        venue.Region,
		Address:       venue.Address,
		ReviewCount:   venue.ReviewCount,
		Distance:      distance,
		ImageURL:      firstOrNil(parseStringList(venue.ImageURLs)),
		Keywords:      derived,
		IsRecommended: recommended,
		IsFavorite:    o.favoriteIDs[venue.ID],
	}
	if summary, ok := o.summaries[venue.ID]; ok {
		view.AverageRating = summary.AverageRating
		view.TotalRatings = summary.TotalRatings
	}
	return view
}
