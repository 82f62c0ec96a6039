package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/snapspot/snapspot-api/internal/domain"
	"github.com/snapspot/snapspot-api/internal/service"
	"github.com/snapspot/snapspot-api/internal/util"
)

// Minimal stub repositories for handler-level tests. Behavior beyond what
// the routes exercise lives in the service package tests.

type stubVenueRepo struct {
	venues map[string]domain.Venue
}

func (r *stubVenueRepo) Search(_ context.Context, _ domain.VenueSearchFilter) ([]domain.Venue, error) {
	out := make([]domain.Venue, 0, len(r.venues))
	for _, v := range r.venues {
		out = append(out, v)
	}
	return out, nil
}

func (r *stubVenueRepo) FindByID(_ context.Context, id string) (*domain.Venue, error) {
	v, ok := r.venues[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &v, nil
}

func (r *stubVenueRepo) FindByIDs(_ context.Context, ids []string) (map[string]domain.Venue, error) {
	out := make(map[string]domain.Venue)
	for _, id := range ids {
		if v, ok := r.venues[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

type stubFavoriteRepo struct {
	rows map[string]bool // userID + "/" + venueID
}

func favKey(userID, venueID string) string { return userID + "/" + venueID }

func (r *stubFavoriteRepo) Add(_ context.Context, userID, venueID string) (*domain.Favorite, error) {
	r.rows[favKey(userID, venueID)] = true
	return &domain.Favorite{ID: uuid.New(), UserID: userID, VenueID: venueID, CreatedAt: time.Now()}, nil
}

func (r *stubFavoriteRepo) Remove(_ context.Context, userID, venueID string) error {
	if !r.rows[favKey(userID, venueID)] {
		return sql.ErrNoRows
	}
	delete(r.rows, favKey(userID, venueID))
	return nil
}

func (r *stubFavoriteRepo) Exists(_ context.Context, userID, venueID string) (bool, error) {
	return r.rows[favKey(userID, venueID)], nil
}

func (r *stubFavoriteRepo) FindVenueIDs(_ context.Context, userID string, candidateIDs []string) ([]string, error) {
	ids := make([]string, 0)
	for _, id := range candidateIDs {
		if r.rows[favKey(userID, id)] {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *stubFavoriteRepo) ListByUser(_ context.Context, _ string) ([]domain.FavoriteListItem, error) {
	return []domain.FavoriteListItem{}, nil
}

func (r *stubFavoriteRepo) CountByUser(_ context.Context, _ string) (int64, error) {
	return 0, nil
}

type stubRatingRepo struct {
	rows map[string]int // userID + "/" + venueID
}

func (r *stubRatingRepo) summary(venueID string) *domain.RatingSummary {
	var sum, count int
	for key, value := range r.rows {
		if strings.HasSuffix(key, "/"+venueID) {
			sum += value
			count++
		}
	}
	s := &domain.RatingSummary{VenueID: venueID, TotalRatings: count}
	if count > 0 {
		avg := float64(sum) / float64(count)
		s.AverageRating = &avg
	}
	return s
}

func (r *stubRatingRepo) Upsert(_ context.Context, userID, venueID string, rating int) (*domain.RatingSummary, error) {
	r.rows[favKey(userID, venueID)] = rating
	return r.summary(venueID), nil
}

func (r *stubRatingRepo) Delete(_ context.Context, userID, venueID string) (*domain.RatingSummary, error) {
	if _, ok := r.rows[favKey(userID, venueID)]; !ok {
		return nil, sql.ErrNoRows
	}
	delete(r.rows, favKey(userID, venueID))
	return r.summary(venueID), nil
}

func (r *stubRatingRepo) FindValue(_ context.Context, userID, venueID string) (*int, error) {
	value, ok := r.rows[favKey(userID, venueID)]
	if !ok {
		return nil, nil
	}
	return &value, nil
}

func (r *stubRatingRepo) Summary(_ context.Context, venueID string) (*domain.RatingSummary, error) {
	return r.summary(venueID), nil
}

func (r *stubRatingRepo) Summaries(_ context.Context, venueIDs []string) (map[string]domain.RatingSummary, error) {
	out := make(map[string]domain.RatingSummary)
	for _, id := range venueIDs {
		out[id] = *r.summary(id)
	}
	return out, nil
}

type stubUserRepo struct{}

func (r *stubUserRepo) FindByID(_ context.Context, _ string) (*domain.User, error) {
	return nil, sql.ErrNoRows
}

func (r *stubUserRepo) UpdatePreferredKeywords(_ context.Context, _ string, _ string) (*domain.User, error) {
	return nil, sql.ErrNoRows
}

type stubVisitRepo struct{}

func (r *stubVisitRepo) Record(_ context.Context, _, _ string) error { return nil }
func (r *stubVisitRepo) Recent(_ context.Context, _ string, _ int) ([]domain.VisitListItem, error) {
	return []domain.VisitListItem{}, nil
}
func (r *stubVisitRepo) CountByUser(_ context.Context, _ string) (int64, error) { return 0, nil }
func (r *stubVisitRepo) DeleteOldest(_ context.Context, _ string, _ int) error  { return nil }

type venueHandlerFixture struct {
	e     *echo.Echo
	token string
}

func newVenueHandlerFixture(t *testing.T, venues ...domain.Venue) *venueHandlerFixture {
	t.Helper()

	venueRepo := &stubVenueRepo{venues: make(map[string]domain.Venue)}
	for _, v := range venues {
		venueRepo.venues[v.ID] = v
	}
	favoriteRepo := &stubFavoriteRepo{rows: make(map[string]bool)}
	ratingRepo := &stubRatingRepo{rows: make(map[string]int)}

	personalization := service.NewPersonalizationReader(&stubUserRepo{}, favoriteRepo, ratingRepo, nil)
	searchService := service.NewSearchService(venueRepo, favoriteRepo, ratingRepo, personalization)
	ratingService := service.NewRatingService(ratingRepo, venueRepo)
	visitService := service.NewVisitService(&stubVisitRepo{})

	jwtManager := util.NewJWTManager("test-secret", time.Hour)
	token, _, err := jwtManager.Generate("user-1", "tester")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	e := NewRouter([]string{"*"})
	RegisterVenues(e, jwtManager, searchService, ratingService, nil, visitService)
	return &venueHandlerFixture{e: e, token: token}
}

func (f *venueHandlerFixture) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Authorization", "Bearer "+f.token)
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func TestVenueHandler_RatingLifecycle(t *testing.T) {
	f := newVenueHandlerFixture(t, domain.Venue{ID: "v1", Name: "booth"})

	rec := f.do(http.MethodPut, "/api/v1/venues/v1/rating", `{"rating": 7}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range rating, got %d", rec.Code)
	}

	rec = f.do(http.MethodPut, "/api/v1/venues/missing/rating", `{"rating": 4}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing venue, got %d", rec.Code)
	}

	rec = f.do(http.MethodPut, "/api/v1/venues/v1/rating", `{"rating": 4}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	var upsertBody struct {
		Summary domain.RatingSummary `json:"summary"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &upsertBody); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if upsertBody.Summary.TotalRatings != 1 || upsertBody.Summary.AverageRating == nil || *upsertBody.Summary.AverageRating != 4.0 {
		t.Fatalf("unexpected summary: %+v", upsertBody.Summary)
	}

	rec = f.do(http.MethodDelete, "/api/v1/venues/v1/rating", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", rec.Code)
	}

	rec = f.do(http.MethodDelete, "/api/v1/venues/v1/rating", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 deleting absent rating, got %d", rec.Code)
	}
}

func TestVenueHandler_FavoriteToggle(t *testing.T) {
	f := newVenueHandlerFixture(t, domain.Venue{ID: "v1", Name: "booth"})

	rec := f.do(http.MethodPost, "/api/v1/venues/v1/favorite", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"is_favorite":true`) {
		t.Fatalf("expected is_favorite true, got %s", rec.Body.String())
	}

	rec = f.do(http.MethodPost, "/api/v1/venues/v1/favorite", "")
	if !strings.Contains(rec.Body.String(), `"is_favorite":false`) {
		t.Fatalf("expected is_favorite false after second toggle, got %s", rec.Body.String())
	}

	rec = f.do(http.MethodPost, "/api/v1/venues/missing/favorite", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing venue, got %d", rec.Code)
	}
}

func TestVenueHandler_SearchValidation(t *testing.T) {
	f := newVenueHandlerFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/venues?lat=37.5", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for lat without lng, got %d", rec.Code)
	}

	rec = f.do(http.MethodGet, "/api/v1/venues?lat=abc&lng=127.0", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed lat, got %d", rec.Code)
	}

	rec = f.do(http.MethodGet, "/api/v1/venues?radius=-5", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative radius, got %d", rec.Code)
	}

	rec = f.do(http.MethodGet, "/api/v1/venues", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for bare search, got %d", rec.Code)
	}
}

func TestVenueHandler_RequiresAuth(t *testing.T) {
	f := newVenueHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/venues", nil)
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}
