package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/snapspot/snapspot-api/internal/service"
	"github.com/snapspot/snapspot-api/internal/util"
)

type VenueHandler struct {
	search          *service.SearchService
	ratings         *service.RatingService
	recommendations *service.RecommendationService
	visits          *service.VisitService
}

func RegisterVenues(
	e *echo.Echo,
	jwtManager *util.JWTManager,
	searchService *service.SearchService,
	ratingService *service.RatingService,
	recommendationService *service.RecommendationService,
	visitService *service.VisitService,
) {
	handler := &VenueHandler{
		search:          searchService,
		ratings:         ratingService,
		recommendations: recommendationService,
		visits:          visitService,
	}

	group := e.Group("/api/v1/venues", RequireAuth(jwtManager))
	group.GET("", handler.searchVenues)
	group.GET("/recommended", handler.recommendVenues)
	group.GET("/:venue_id", handler.venueDetail)
	group.POST("/:venue_id/favorite", handler.toggleFavorite)
	group.PUT("/:venue_id/rating", handler.upsertRating)
	group.DELETE("/:venue_id/rating", handler.deleteRating)
}

func (h *VenueHandler) searchVenues(c echo.Context) error {
	userID, ok := CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	input := service.SearchInput{UserID: userID}

	lat, latErr := parseFloatParam(c, "lat")
	lng, lngErr := parseFloatParam(c, "lng")
	if latErr != nil || lngErr != nil {
		return c.JSON(http.StatusBadRequest, util.Error("lat and lng must be valid coordinates"))
	}
	if (lat == nil) != (lng == nil) {
		return c.JSON(http.StatusBadRequest, util.Error("lat and lng must be provided together"))
	}
	input.Latitude = lat
	input.Longitude = lng

	if raw := c.QueryParam("radius"); raw != "" {
		radius, err := strconv.Atoi(raw)
		if err != nil || radius <= 0 {
			return c.JSON(http.StatusBadRequest, util.Error("radius must be a positive integer"))
		}
		input.RadiusMeters = radius
	}
	input.Region = optionalParam(c, "region")
	input.Brand = optionalParam(c, "brand")
	input.Text = optionalParam(c, "q")

	views, err := h.search.Search(c.Request().Context(), input)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to search venues"))
	}

	return c.JSON(http.StatusOK, util.Envelope{
		"venues": views,
		"count":  len(views),
	})
}

func (h *VenueHandler) recommendVenues(c echo.Context) error {
	userID, ok := CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	lat, latErr := parseFloatParam(c, "lat")
	lng, lngErr := parseFloatParam(c, "lng")
	if latErr != nil || lngErr != nil || (lat == nil) != (lng == nil) {
		return c.JSON(http.StatusBadRequest, util.Error("lat and lng must be valid coordinates provided together"))
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, util.Error("limit must be a positive integer"))
		}
		limit = parsed
	}

	views, err := h.recommendations.Recommend(c.Request().Context(), userID, lat, lng, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load recommendations"))
	}

	return c.JSON(http.StatusOK, util.Envelope{
		"venues": views,
		"count":  len(views),
	})
}

func (h *VenueHandler) venueDetail(c echo.Context) error {
	userID, ok := CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	venueID := strings.TrimSpace(c.Param("venue_id"))
	if venueID == "" {
		return c.JSON(http.StatusBadRequest, util.Error("venue_id is required"))
	}

	view, err := h.search.Detail(c.Request().Context(), userID, venueID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVenueNotFound):
			return c.JSON(http.StatusNotFound, util.Error("venue not found"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to load venue"))
		}
	}

	// Viewing a detail page counts as a visit; recording never blocks or
	// fails the response.
	h.visits.RecordAsync(userID, venueID)

	return c.JSON(http.StatusOK, util.Data("venue", view))
}

func (h *VenueHandler) toggleFavorite(c echo.Context) error {
	userID, ok := CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	venueID := strings.TrimSpace(c.Param("venue_id"))

	isFavorite, err := h.search.ToggleFavorite(c.Request().Context(), userID, venueID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVenueNotFound):
			return c.JSON(http.StatusNotFound, util.Error("venue not found"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("could not update favorites"))
		}
	}

	message := "venue removed from favorites"
	if isFavorite {
		message = "venue saved to favorites"
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"venue_id":    venueID,
		"is_favorite": isFavorite,
		"message":     message,
	})
}

func (h *VenueHandler) upsertRating(c echo.Context) error {
	userID, ok := CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	venueID := strings.TrimSpace(c.Param("venue_id"))

	var req struct {
		Rating int `json:"rating"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	summary, err := h.ratings.Upsert(c.Request().Context(), userID, venueID, req.Rating)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRatingValidation):
			return c.JSON(http.StatusBadRequest, util.Error("rating must be between 1 and 5"))
		case errors.Is(err, service.ErrVenueNotFound):
			return c.JSON(http.StatusNotFound, util.Error("venue not found"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("could not save rating"))
		}
	}

	return c.JSON(http.StatusOK, util.Data("summary", summary))
}

func (h *VenueHandler) deleteRating(c echo.Context) error {
	userID, ok := CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	venueID := strings.TrimSpace(c.Param("venue_id"))

	summary, err := h.ratings.Delete(c.Request().Context(), userID, venueID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVenueNotFound):
			return c.JSON(http.StatusNotFound, util.Error("venue not found"))
		case errors.Is(err, service.ErrRatingNotFound):
			return c.JSON(http.StatusNotFound, util.Error("rating not found"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("could not delete rating"))
		}
	}

	return c.JSON(http.StatusOK, util.Data("summary", summary))
}

func parseFloatParam(c echo.Context, name string) (*float64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func optionalParam(c echo.Context, name string) *string {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil
	}
	return &raw
}
