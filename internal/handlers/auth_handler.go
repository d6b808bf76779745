package handlers

import (
	"errors"
	"net/http"

	"github.com/SimpnicServerTeam/catalog-auth-server/internal/models"
	"github.com/SimpnicServerTeam/catalog-auth-server/internal/repository"
	"github.com/SimpnicServerTeam/catalog-auth-server/internal/service"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration and login requests
type AuthHandler struct {
	AuthService service.AuthGenerator
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthGenerator) *AuthHandler {
	return &AuthHandler{AuthService: authService}
}

// Register handles user registration requests
func (h *AuthHandler) Register(c echo.Context) error {
	req := new(models.RegisterRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.AuthService.Register(c.Request().Context(), *req)
	if err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Validation failed", "errors": verrs})
		}
		if errors.Is(err, repository.ErrUserExists) {
			return echo.NewHTTPError(http.StatusConflict, "Username already exists")
		}
		log.Error().Err(err).Str("username", req.Username).Msg("Registration failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "Registration failed")
	}

	return c.JSON(http.StatusCreated, resp)
}

// Login checks the credentials and returns a bearer token
func (h *AuthHandler) Login(c echo.Context) error {
	req := new(models.LoginRequest)
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.AuthService.Login(c.Request().Context(), *req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		log.Error().Err(err).Str("username", req.Username).Msg("Login failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "Login failed")
	}

	return c.JSON(http.StatusOK, resp)
}
