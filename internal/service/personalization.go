package service

import (
	"context"

	"github.com/snapspot/snapspot-api/internal/domain"
	"github.com/snapspot/snapspot-api/internal/keywords"
	"github.com/snapspot/snapspot-api/internal/repository/ports"
)

// PersonalizationReader supplies the per-caller overlay data for venue
// views. Every read here is best-effort: a failed lookup degrades to an
// empty or default value and never aborts the primary operation.
type PersonalizationReader struct {
	users     ports.UserRepository
	favorites ports.FavoriteRepository
	ratings   ports.RatingRepository
	catalog   *keywords.Catalog
}

func NewPersonalizationReader(
	userRepo ports.UserRepository,
	favoriteRepo ports.FavoriteRepository,
	ratingRepo ports.RatingRepository,
	catalog *keywords.Catalog,
) *PersonalizationReader {
	if catalog == nil {
		catalog = keywords.Default()
	}
	return &PersonalizationReader{
		users:     userRepo,
		favorites: favoriteRepo,
		ratings:   ratingRepo,
		catalog:   catalog,
	}
}

// PreferredKeywords returns the caller's stored keyword list, empty on any
// lookup or decode failure.
func (p *PersonalizationReader) PreferredKeywords(ctx context.Context, userID string) []string {
	user, err := p.users.FindByID(ctx, userID)
	if err != nil {
		return []string{}
	}
	return parseStringList(user.PreferredKeywords)
}

// FavoriteIDs returns which of the candidate venues the caller has
// favorited, as a membership set. Empty on failure.
func (p *PersonalizationReader) FavoriteIDs(ctx context.Context, userID string, candidateIDs []string) map[string]bool {
	ids, err := p.favorites.FindVenueIDs(ctx, userID, candidateIDs)
	if err != nil {
		return map[string]bool{}
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// RatingSummaries batch-computes rating aggregates for exactly the
// candidate set. Empty on failure; venues absent from the map have no
// ratings.
func (p *PersonalizationReader) RatingSummaries(ctx context.Context, candidateIDs []string) map[string]domain.RatingSummary {
	summaries, err := p.ratings.Summaries(ctx, candidateIDs)
	if err != nil {
		return map[string]domain.RatingSummary{}
	}
	return summaries
}

// DerivedKeywords maps a venue's analysis blob to typed keywords, flagging
// those that intersect the caller's preferred set.
func (p *PersonalizationReader) DerivedKeywords(venue domain.Venue, preferred []string) []domain.Keyword {
	return p.catalog.Extract(venue.AnalysisData, preferred)
}
