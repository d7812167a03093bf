package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/userhub/backend/internal/cache"
	"github.com/userhub/backend/internal/config"
	"github.com/userhub/backend/internal/db"
	"github.com/userhub/backend/internal/handler"
	"github.com/userhub/backend/internal/service"
	"github.com/userhub/backend/internal/session"
)

func main() {
	_ = godotenv.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(context.Background()); err != nil {
		slog.Error("startup failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.Load()

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := &db.Postgres{Pool: pool}
	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	// Secrets are validated here, once. A bad signing key or masking
	// secret stops the process instead of failing requests later.
	tokens, err := service.NewTokenService(cfg.Auth)
	if err != nil {
		return err
	}
	hasher, err := service.NewPasswordHasher(cfg.Auth)
	if err != nil {
		return err
	}

	var userCache service.UserCache
	if cfg.Redis.URL != "" {
		c, err := cache.New(ctx, cfg.Redis.URL, time.Duration(cfg.Redis.CacheTTLMinutes)*time.Minute)
		if err != nil {
			return err
		}
		defer c.Close()
		userCache = c
		slog.Info("user cache enabled")
	}

	authSvc := service.NewAuthService(store, tokens, hasher)
	userSvc := service.NewUserService(store, userCache, hasher)

	sessions := session.NewCookieStore(cfg.Session)
	identity := handler.NewIdentityExtractor(tokens, sessions)
	authHandler := handler.NewAuthHandler(authSvc, sessions, identity)
	userHandler := handler.NewUserHandler(userSvc, identity)

	r := handler.NewRouter(cfg, tokens, sessions, authHandler, userHandler)

	slog.Info("listening", "addr", cfg.Server.Addr)
	return r.Run(cfg.Server.Addr)
}
