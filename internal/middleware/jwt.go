package middleware

import (
	"net/http"

	"github.com/SimpnicServerTeam/catalog-auth-server/internal/service"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// UserContextKey is where the verified *jwt.Token is stored on the echo context.
const UserContextKey = "user"

// TokenParser verifies a raw bearer token.
type TokenParser interface {
	ParseToken(tokenString string) (*jwt.Token, *service.Claims, error)
}

// AuthMiddleware rejects requests without a valid bearer token issued by parser.
// On success the parsed token, carrying *service.Claims, is stored under UserContextKey.
func AuthMiddleware(parser TokenParser) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: UserContextKey,
		ParseTokenFunc: func(c echo.Context, auth string) (any, error) {
			token, _, err := parser.ParseToken(auth)
			if err != nil {
				return nil, err
			}
			return token, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			log.Debug().Err(err).Str("path", c.Path()).Msg("Bearer token rejected")
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
		},
	})
}
