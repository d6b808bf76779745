package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SimpnicServerTeam/catalog-auth-server/internal/config"
	"github.com/SimpnicServerTeam/catalog-auth-server/internal/handlers"
	"github.com/SimpnicServerTeam/catalog-auth-server/internal/logger"
	"github.com/SimpnicServerTeam/catalog-auth-server/internal/middleware"
	"github.com/SimpnicServerTeam/catalog-auth-server/internal/repository"
	ent_repo "github.com/SimpnicServerTeam/catalog-auth-server/internal/repository/ent"
	"github.com/SimpnicServerTeam/catalog-auth-server/internal/repository/memory"
	redis_repo "github.com/SimpnicServerTeam/catalog-auth-server/internal/repository/redis"
	"github.com/SimpnicServerTeam/catalog-auth-server/internal/router"
	"github.com/SimpnicServerTeam/catalog-auth-server/internal/server"
	"github.com/SimpnicServerTeam/catalog-auth-server/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, cfg.AppEnv)
	if cfg.ConfigFile == "" {
		log.Info().Msg("Config file not found, using defaults and environment variables")
	} else {
		log.Info().Str("file", cfg.ConfigFile).Msg("Config file loaded")
	}

	tokenService, err := service.NewTokenService(cfg.JWTSecret, cfg.SessionConfig.AccessTokenDuration)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token service")
	}

	userRepo, closer, err := openUserRepository(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("Failed to open user store")
	}
	defer closer.Close()

	authService, err := service.NewAuthService(
		userRepo,
		service.NewHMACPasswordHasher(),
		tokenService,
		service.PasswordPolicy{MinLength: cfg.Password.MinLength, MaxLength: cfg.Password.MaxLength},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth service")
	}
	userService := service.NewUserService(userRepo)

	app := server.New()

	router.SetupAuthRoutes(app, handlers.NewAuthHandler(authService))
	router.SetupUserRoutes(app, handlers.NewUserHandler(userService), middleware.AuthMiddleware(tokenService))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.DatabaseDriver).Msg("Server starting")
		if err := app.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped gracefully.")
}

// openUserRepository builds the credential store selected by DATABASE_DRIVER.
// The returned closer releases the underlying connection.
func openUserRepository(ctx context.Context, cfg *config.Config) (repository.UserRepository, io.Closer, error) {
	switch cfg.DatabaseDriver {
	case config.DriverSQLite, config.DriverPostgres:
		drv, err := ent_repo.Open(cfg.DatabaseDriver, cfg.DatabaseSettings)
		if err != nil {
			return nil, nil, err
		}
		// Run the auto migration tool.
		if err := ent_repo.Migrate(ctx, drv); err != nil {
			drv.Close()
			return nil, nil, err
		}
		return ent_repo.NewEntUserRepository(drv), drv, nil
	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisSettings.Address,
			Password: cfg.RedisSettings.Password,
			DB:       cfg.RedisSettings.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, nil, err
		}
		return redis_repo.NewRedisUserRepository(client), client, nil
	default:
		return memory.NewMemoryUserRepository(), io.NopCloser(nil), nil
	}
}
