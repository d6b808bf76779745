package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/SimpnicServerTeam/catalog-auth-server/internal/middleware"
	"github.com/SimpnicServerTeam/catalog-auth-server/internal/models"
	"github.com/SimpnicServerTeam/catalog-auth-server/internal/repository"
	"github.com/SimpnicServerTeam/catalog-auth-server/internal/service"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type UserHandler struct {
	UserService service.UserGenerator
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserGenerator) *UserHandler {
	return &UserHandler{UserService: userService}
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.UserService.ListUsers(c.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list users")
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}

	user, err := h.UserService.GetUser(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		log.Error().Err(err).Int64("userId", id).Msg("Failed to get user")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to get user")
	}
	return c.JSON(http.StatusOK, user)
}

// Me describes the caller's own token
func (h *UserHandler) Me(c echo.Context) error {
	claims, err := getClaimsFromContext(c)
	if err != nil {
		return err
	}

	id, err := claims.UserID()
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token: cannot get user id")
	}

	info := models.TokenInfo{ID: id, Username: claims.UniqueName}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return c.JSON(http.StatusOK, info)
}

// Get claims from the verified token, return http error if not able to parse
func getClaimsFromContext(c echo.Context) (*service.Claims, error) {
	userContext := c.Get(middleware.UserContextKey)
	if userContext == nil {
		log.Error().Msg("'user' not found in context. This indicates a middleware issue or misconfiguration.")
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated: context missing user information")
	}

	token, ok := userContext.(*jwt.Token)
	if !ok {
		log.Error().Interface("actualType", userContext).Msg("'user' in context is not of type *jwt.Token")
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Internal server error: user context type mismatch")
	}

	claims, ok := token.Claims.(*service.Claims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid token: unexpected claims")
	}
	return claims, nil
}
