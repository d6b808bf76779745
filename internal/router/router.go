package router

import (
	"github.com/SimpnicServerTeam/catalog-auth-server/internal/handlers"
	"github.com/labstack/echo/v4"
)

func SetupAuthRoutes(app *echo.Echo, authHandler *handlers.AuthHandler) {
	api := app.Group("/api/users")

	api.POST("/register", authHandler.Register) // Create an account
	api.POST("/login", authHandler.Login)       // Exchange credentials for a bearer token
}

// SetupUserRoutes registers the user endpoints behind auth, which must verify
// the bearer token.
func SetupUserRoutes(app *echo.Echo, userHandler *handlers.UserHandler, auth echo.MiddlewareFunc) {
	api := app.Group("/api/users", auth)

	api.GET("", userHandler.ListUsers)
	api.GET("/me", userHandler.Me)
	api.GET("/:id", userHandler.GetUser)
}
