package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/snapspot/snapspot-api/internal/domain"
	"github.com/snapspot/snapspot-api/internal/service"
	"github.com/snapspot/snapspot-api/internal/util"
)

type UserHandler struct {
	users  *service.UserService
	visits *service.VisitService
}

type favoriteItemResponse struct {
	VenueID     string  `json:"venue_id"`
	VenueName   string  `json:"venue_name"`
	Brand       string  `json:"brand"`
	Region      string  `json:"region"`
	Address     string  `json:"address"`
	ImageURL    *string `json:"image_url,omitempty"`
	FavoritedAt string  `json:"favorited_at"`
}

type visitItemResponse struct {
	VenueID   string  `json:"venue_id"`
	VenueName string  `json:"venue_name"`
	Brand     string  `json:"brand"`
	Region    string  `json:"region"`
	Address   string  `json:"address"`
	ImageURL  *string `json:"image_url,omitempty"`
	VisitedAt string  `json:"visited_at"`
}

func RegisterUsers(e *echo.Echo, jwtManager *util.JWTManager, userService *service.UserService, visitService *service.VisitService) {
	handler := &UserHandler{
		users:  userService,
		visits: visitService,
	}

	group := e.Group("/api/v1/users/me", RequireAuth(jwtManager))
	group.GET("", handler.profile)
	group.GET("/keywords", handler.preferredKeywords)
	group.PUT("/keywords", handler.updatePreferredKeywords)
	group.GET("/favorites", handler.listFavorites)
	group.GET("/visits", handler.listVisits)
}

func (h *UserHandler) profile(c echo.Context) error {
	userID, ok := CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	profile, err := h.users.Profile(c.Request().Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, util.Error("user not found"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to load profile"))
		}
	}
	return c.JSON(http.StatusOK, util.Data("user", profile))
}

func (h *UserHandler) preferredKeywords(c echo.Context) error {
	userID, ok := CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	keywords, err := h.users.PreferredKeywords(c.Request().Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, util.Error("user not found"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to load keywords"))
		}
	}
	return c.JSON(http.StatusOK, util.Data("keywords", keywords))
}

func (h *UserHandler) updatePreferredKeywords(c echo.Context) error {
	userID, ok := CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	var req struct {
		Keywords []string `json:"keywords"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	keywords, err := h.users.UpdatePreferredKeywords(c.Request().Context(), userID, req.Keywords)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, util.Error("user not found"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to update keywords"))
		}
	}
	return c.JSON(http.StatusOK, util.Data("keywords", keywords))
}

func (h *UserHandler) listFavorites(c echo.Context) error {
	userID, ok := CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	items, err := h.users.Favorites(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load favorites"))
	}

	responses := make([]favoriteItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toFavoriteItemResponse(item))
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"favorites": responses,
		"count":     len(responses),
	})
}

func (h *UserHandler) listVisits(c echo.Context) error {
	userID, ok := CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	items, err := h.visits.Recent(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load visit history"))
	}

	responses := make([]visitItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toVisitItemResponse(item))
	}
	return c.JSON(http.StatusOK, util.Envelope{
		"visits": responses,
		"count":  len(responses),
	})
}

func toFavoriteItemResponse(item domain.FavoriteListItem) favoriteItemResponse {
	return favoriteItemResponse{
		VenueID:     item.VenueID,
		VenueName:   item.VenueName,
		Brand:       item.Brand,
		Region:      item.Region,
		Address:     item.Address,
		ImageURL:    firstImageURL(item.VenueImages),
		FavoritedAt: item.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// firstImageURL pulls the cover image out of the serialized image list.
// Blob columns are presentation data; decode failures yield no image.
func firstImageURL(raw *string) *string {
	if raw == nil {
		return nil
	}
	var list []string
	if err := json.Unmarshal([]byte(*raw), &list); err != nil || len(list) == 0 {
		return nil
	}
	return &list[0]
}

func toVisitItemResponse(item domain.VisitListItem) visitItemResponse {
	return visitItemResponse{
		VenueID:   item.VenueID,
		VenueName: item.VenueName,
		Brand:     item.Brand,
		Region:    item.Region,
		Address:   item.Address,
		ImageURL:  firstImageURL(item.VenueImages),
		VisitedAt: item.VisitedAt.UTC().Format(time.RFC3339),
	}
}
