// Package scorer wraps the external recommendation scorer's HTTP API. The
// scorer is an optional collaborator: callers treat every error from this
// package as a signal to fall back, never as a request failure.
package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

const recommendationsPath = "/api/v1/recommendations"

// Location is the caller's current position, omitted when unknown.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Profile is the personalization snapshot sent to the scorer. Every field
// except UserID is best-effort; empty slices are sent as-is.
type Profile struct {
	UserID              string    `json:"userId"`
	PreferredKeywords   []string  `json:"preferredKeywords"`
	Location            *Location `json:"location"`
	RecentVisits        []string  `json:"recentVisits"`
	FavoritePhotoBooths []string  `json:"favoritePhotoBooths"`
}

// ScoredVenue is one ranked entry in the scorer's response.
type ScoredVenue struct {
	PhotoBoothID string  `json:"photoBoothId"`
	Score        float64 `json:"score"`
	Reason       *string `json:"reason"`
}

type Response struct {
	Recommendations  []ScoredVenue `json:"recommendations"`
	GeneratedAt      string        `json:"generatedAt"`
	AlgorithmVersion *string       `json:"algorithmVersion"`
}

// Client requests a personalized ranking for a user profile.
type Client interface {
	Recommend(ctx context.Context, profile Profile) (*Response, error)
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*Response]
}

// NewHTTPClient builds a scorer client with the given base URL and a
// per-request deadline. The circuit breaker opens after 60% failures over
// at least 5 requests so a flapping scorer short-circuits to fallback
// without burning the full timeout on every search.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	breaker := gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        "recommendation-scorer",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
	})
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		breaker: breaker,
	}
}

func (c *HTTPClient) Recommend(ctx context.Context, profile Profile) (*Response, error) {
	return c.breaker.Execute(func() (*Response, error) {
		return c.recommend(ctx, profile)
	})
}

func (c *HTTPClient) recommend(ctx context.Context, profile Profile) (*Response, error) {
	body, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("scorer: encode profile: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+recommendationsPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("scorer: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scorer: request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, res.Body)
		return nil, fmt.Errorf("scorer: unexpected status %d", res.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("scorer: decode response: %w", err)
	}
	return &out, nil
}

var _ Client = (*HTTPClient)(nil)
