package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/vedran77/tasty/internal/config"
	"github.com/vedran77/tasty/internal/database"
	"github.com/vedran77/tasty/internal/logger"
	"github.com/vedran77/tasty/internal/repository"
	postgresrepo "github.com/vedran77/tasty/internal/repository/postgres"
	"github.com/vedran77/tasty/internal/service"
	transporthttp "github.com/vedran77/tasty/internal/transport/http"
	"github.com/vedran77/tasty/internal/transport/http/handlers"
	"github.com/vedran77/tasty/internal/transport/ws"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	cfg := config.Load()

	if err := logger.Init(cfg.Env); err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Database
	if err := database.Migrate(context.Background(), database.DSN(cfg)); err != nil {
		logger.L().Fatal("migrations failed", zap.Error(err))
	}

	pool, err := database.Connect(cfg)
	if err != nil {
		logger.L().Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()
	logger.L().Info("connected to database")

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	recipeRepo := postgresrepo.NewRecipeRepo(pool)
	tokenRepo := postgresrepo.NewTokenRepo(pool)

	// Feed socket
	hub := ws.NewHub()
	go hub.Run()

	// Services
	authService := service.NewAuthService(userRepo, tokenRepo, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.LoginField)
	userService := service.NewUserService(userRepo)
	recipeService := service.NewRecipeService(recipeRepo, userRepo, ws.NewHubNotifier(hub))

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	recipeHandler := handlers.NewRecipeHandler(recipeService)

	router := transporthttp.NewRouter(authHandler, userHandler, recipeHandler, ws.ServeFeed(hub), cfg.JWTSecret)

	// Blacklist janitor
	go evictExpiredTokens(tokenRepo)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	logger.L().Info("starting server", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

// evictExpiredTokens drops blacklist rows whose tokens have expired anyway.
func evictExpiredTokens(tokenRepo repository.TokenRepository) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		n, err := tokenRepo.DeleteExpired(context.Background(), time.Now())
		if err != nil {
			logger.L().Error("token eviction failed", zap.Error(err))
			continue
		}
		if n > 0 {
			logger.L().Info("evicted expired revoked tokens", zap.Int64("count", n))
		}
	}
}
