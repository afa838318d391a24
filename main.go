package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"DuoChat/middleware"
	"DuoChat/pkg/config"
	"DuoChat/pkg/database"
	"DuoChat/pkg/services"
	tokenstore "DuoChat/pkg/token"
	"DuoChat/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	if err := config.Load(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	logger := newLogger()
	slog.SetDefault(logger)

	db, err := database.Open(config.DBDriver, config.DSN())
	if err != nil {
		slog.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer database.Close(db)

	store, err := services.NewDiskStorage(config.UploadDir)
	if err != nil {
		slog.Error("failed to prepare upload dir", "err", err)
		os.Exit(1)
	}

	revoked, closeRevoked := revocationStore()
	defer closeRevoked()

	core := services.NewCore(db, services.Options{
		Tokens:    services.NewTokenIssuer(config.JWTSecret, time.Duration(config.TokenTTLHours)*time.Hour),
		Revoked:   revoked,
		Artifacts: store,
		Logger:    logger,
	})

	if config.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	// Multipart parts above this spill to temp files.
	r.MaxMultipartMemory = 8 << 20

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	limiter := middleware.NewRateLimiter(config.RateLimitPerSecond, config.RateLimitBurst)
	defer limiter.Close()

	routes.RegisterRoutes(r, core, limiter)
	slog.Info("listening", "port", config.Port)
	if err := r.Run(":" + config.Port); err != nil {
		slog.Error("server stopped", "err", err)
	}
}

func newLogger() *slog.Logger {
	if config.IsProduction {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// revocationStore prefers Redis so logouts survive restarts and are
// shared between instances.
func revocationStore() (tokenstore.Store, func()) {
	if config.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rs, err := tokenstore.NewRedisStore(ctx, config.RedisURL)
		if err == nil {
			slog.Info("token revocation backed by redis")
			return rs, func() { _ = rs.Close() }
		}
		slog.Warn("redis unavailable, falling back to in-memory revocation", "err", err)
	}
	ms := tokenstore.NewMemoryStore()
	return ms, ms.Close
}
