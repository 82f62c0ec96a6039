package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/snapspot/snapspot-api/internal/domain"
	"github.com/snapspot/snapspot-api/internal/geo"
	"github.com/snapspot/snapspot-api/internal/repository/ports"
	"github.com/snapspot/snapspot-api/internal/scorer"
)

// In-memory fakes backing the service tests. Call counters let tests
// assert the batching behavior, and the fail* hooks simulate storage
// outages for the degradation paths.

type memoryVenueRepo struct {
	mu            sync.Mutex
	venues        map[string]domain.Venue
	order         []string
	searchCalls   int
	findByIDCalls int
	batchCalls    int
}

func newMemoryVenueRepo(venues ...domain.Venue) *memoryVenueRepo {
	repo := &memoryVenueRepo{venues: make(map[string]domain.Venue)}
	for _, v := range venues {
		repo.venues[v.ID] = v
		repo.order = append(repo.order, v.ID)
	}
	return repo
}

func (r *memoryVenueRepo) Search(_ context.Context, filter domain.VenueSearchFilter) ([]domain.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.searchCalls++

	matched := make([]domain.Venue, 0, len(r.order))
	for _, id := range r.order {
		v := r.venues[id]
		if filter.HasLocation() {
			d := geo.Distance(*filter.Latitude, *filter.Longitude, v.Latitude, v.Longitude)
			if d > float64(filter.RadiusMeters) {
				continue
			}
		}
		if filter.Region != nil && v.Region != *filter.Region {
			continue
		}
		if filter.Brand != nil && v.Brand != *filter.Brand {
			continue
		}
		if filter.Text != nil {
			needle := strings.ToLower(*filter.Text)
			if !strings.Contains(strings.ToLower(v.Name), needle) &&
				!strings.Contains(strings.ToLower(v.Brand), needle) &&
				!strings.Contains(strings.ToLower(v.Region), needle) {
				continue
			}
		}
		matched = append(matched, v)
	}

	if filter.HasLocation() {
		sort.SliceStable(matched, func(i, j int) bool {
			di := geo.Distance(*filter.Latitude, *filter.Longitude, matched[i].Latitude, matched[i].Longitude)
			dj := geo.Distance(*filter.Latitude, *filter.Longitude, matched[j].Latitude, matched[j].Longitude)
			return di < dj
		})
	} else {
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].ReviewCount > matched[j].ReviewCount
		})
	}
	return matched, nil
}

func (r *memoryVenueRepo) FindByID(_ context.Context, id string) (*domain.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findByIDCalls++
	v, ok := r.venues[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &v, nil
}

func (r *memoryVenueRepo) FindByIDs(_ context.Context, ids []string) (map[string]domain.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batchCalls++
	result := make(map[string]domain.Venue, len(ids))
	for _, id := range ids {
		if v, ok := r.venues[id]; ok {
			result[id] = v
		}
	}
	return result, nil
}

type favoriteKey struct{ userID, venueID string }

type memoryFavoriteRepo struct {
	mu         sync.Mutex
	rows       map[favoriteKey]domain.Favorite
	order      []favoriteKey
	batchCalls int
	failReads  bool
}

func newMemoryFavoriteRepo() *memoryFavoriteRepo {
	return &memoryFavoriteRepo{rows: make(map[favoriteKey]domain.Favorite)}
}

func (r *memoryFavoriteRepo) Add(_ context.Context, userID, venueID string) (*domain.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := favoriteKey{userID, venueID}
	if _, ok := r.rows[key]; ok {
		return nil, &pgconn.PgError{Code: "23505"}
	}
	favorite := domain.Favorite{ID: uuid.New(), UserID: userID, VenueID: venueID, CreatedAt: time.Now()}
	r.rows[key] = favorite
	r.order = append(r.order, key)
	return &favorite, nil
}

func (r *memoryFavoriteRepo) Remove(_ context.Context, userID, venueID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := favoriteKey{userID, venueID}
	if _, ok := r.rows[key]; !ok {
		return sql.ErrNoRows
	}
	delete(r.rows, key)
	return nil
}

func (r *memoryFavoriteRepo) Exists(_ context.Context, userID, venueID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[favoriteKey{userID, venueID}]
	return ok, nil
}

func (r *memoryFavoriteRepo) FindVenueIDs(_ context.Context, userID string, candidateIDs []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batchCalls++
	if r.failReads {
		return nil, sql.ErrConnDone
	}
	ids := make([]string, 0)
	for _, id := range candidateIDs {
		if _, ok := r.rows[favoriteKey{userID, id}]; ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *memoryFavoriteRepo) ListByUser(_ context.Context, userID string) ([]domain.FavoriteListItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failReads {
		return nil, sql.ErrConnDone
	}
	items := make([]domain.FavoriteListItem, 0)
	for i := len(r.order) - 1; i >= 0; i-- {
		key := r.order[i]
		favorite, ok := r.rows[key]
		if !ok || key.userID != userID {
			continue
		}
		items = append(items, domain.FavoriteListItem{Favorite: favorite})
	}
	return items, nil
}

func (r *memoryFavoriteRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for key := range r.rows {
		if key.userID == userID {
			count++
		}
	}
	return count, nil
}

type ratingKey struct{ userID, venueID string }

type memoryRatingRepo struct {
	mu         sync.Mutex
	rows       map[ratingKey]int
	batchCalls int
	failReads  bool
}

func newMemoryRatingRepo() *memoryRatingRepo {
	return &memoryRatingRepo{rows: make(map[ratingKey]int)}
}

func (r *memoryRatingRepo) summaryLocked(venueID string) *domain.RatingSummary {
	var sum, count int
	for key, value := range r.rows {
		if key.venueID == venueID {
			sum += value
			count++
		}
	}
	summary := &domain.RatingSummary{VenueID: venueID, TotalRatings: count}
	if count > 0 {
		avg := float64(sum) / float64(count)
		summary.AverageRating = &avg
	}
	return summary
}

func (r *memoryRatingRepo) Upsert(_ context.Context, userID, venueID string, rating int) (*domain.RatingSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[ratingKey{userID, venueID}] = rating
	return r.summaryLocked(venueID), nil
}

func (r *memoryRatingRepo) Delete(_ context.Context, userID, venueID string) (*domain.RatingSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := ratingKey{userID, venueID}
	if _, ok := r.rows[key]; !ok {
		return nil, sql.ErrNoRows
	}
	delete(r.rows, key)
	return r.summaryLocked(venueID), nil
}

func (r *memoryRatingRepo) FindValue(_ context.Context, userID, venueID string) (*int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.rows[ratingKey{userID, venueID}]
	if !ok {
		return nil, nil
	}
	return &value, nil
}

func (r *memoryRatingRepo) Summary(_ context.Context, venueID string) (*domain.RatingSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summaryLocked(venueID), nil
}

func (r *memoryRatingRepo) Summaries(_ context.Context, venueIDs []string) (map[string]domain.RatingSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batchCalls++
	if r.failReads {
		return nil, sql.ErrConnDone
	}
	result := make(map[string]domain.RatingSummary, len(venueIDs))
	for _, id := range venueIDs {
		summary := r.summaryLocked(id)
		if summary.TotalRatings > 0 {
			result[id] = *summary
		}
	}
	return result, nil
}

type memoryUserRepo struct {
	mu        sync.Mutex
	users     map[string]domain.User
	findCalls int
	failReads bool
}

func newMemoryUserRepo(users ...domain.User) *memoryUserRepo {
	repo := &memoryUserRepo{users: make(map[string]domain.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *memoryUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	if r.failReads {
		return nil, sql.ErrConnDone
	}
	u, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &u, nil
}

func (r *memoryUserRepo) UpdatePreferredKeywords(_ context.Context, id string, keywordsJSON string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	u.PreferredKeywords = &keywordsJSON
	r.users[id] = u
	return &u, nil
}

type memoryVisitRepo struct {
	mu        sync.Mutex
	rows      []domain.Visit
	failReads bool
}

func newMemoryVisitRepo() *memoryVisitRepo {
	return &memoryVisitRepo{}
}

func (r *memoryVisitRepo) Record(_ context.Context, userID, venueID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, row := range r.rows {
		if row.UserID == userID && row.VenueID == venueID {
			r.rows[i].VisitedAt = time.Now()
			return nil
		}
	}
	r.rows = append(r.rows, domain.Visit{ID: uuid.New(), UserID: userID, VenueID: venueID, VisitedAt: time.Now()})
	return nil
}

func (r *memoryVisitRepo) Recent(_ context.Context, userID string, limit int) ([]domain.VisitListItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failReads {
		return nil, sql.ErrConnDone
	}
	visits := make([]domain.Visit, 0)
	for _, row := range r.rows {
		if row.UserID == userID {
			visits = append(visits, row)
		}
	}
	sort.SliceStable(visits, func(i, j int) bool {
		return visits[i].VisitedAt.After(visits[j].VisitedAt)
	})
	if len(visits) > limit {
		visits = visits[:limit]
	}
	items := make([]domain.VisitListItem, 0, len(visits))
	for _, v := range visits {
		items = append(items, domain.VisitListItem{Visit: v})
	}
	return items, nil
}

func (r *memoryVisitRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, row := range r.rows {
		if row.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *memoryVisitRepo) DeleteOldest(_ context.Context, userID string, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	mine := make([]domain.Visit, 0)
	others := make([]domain.Visit, 0)
	for _, row := range r.rows {
		if row.UserID == userID {
			mine = append(mine, row)
		} else {
			others = append(others, row)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool {
		return mine[i].VisitedAt.Before(mine[j].VisitedAt)
	})
	if count > len(mine) {
		count = len(mine)
	}
	r.rows = append(others, mine[count:]...)
	return nil
}

type fakeScorer struct {
	mu          sync.Mutex
	response    *scorer.Response
	err         error
	lastProfile scorer.Profile
	calls       int
}

func (f *fakeScorer) Recommend(_ context.Context, profile scorer.Profile) (*scorer.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastProfile = profile
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

var (
	_ ports.VenueRepository    = (*memoryVenueRepo)(nil)
	_ ports.FavoriteRepository = (*memoryFavoriteRepo)(nil)
	_ ports.RatingRepository   = (*memoryRatingRepo)(nil)
	_ ports.UserRepository     = (*memoryUserRepo)(nil)
	_ ports.VisitRepository    = (*memoryVisitRepo)(nil)
	_ scorer.Client            = (*fakeScorer)(nil)
)
