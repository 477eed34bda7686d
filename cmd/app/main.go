package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"jucai-fund-backend/internal/common/cache"
	"jucai-fund-backend/internal/common/config"
	"jucai-fund-backend/internal/common/hasher"
	"jucai-fund-backend/internal/common/logger"
	"jucai-fund-backend/internal/common/middleware"
	notificationhttp "jucai-fund-backend/internal/features/notification/delivery/http"
	notificationservice "jucai-fund-backend/internal/features/notification/service"
	sessionrepo "jucai-fund-backend/internal/features/session/repository"
	sessionmemory "jucai-fund-backend/internal/features/session/repository/memory"
	sessionredis "jucai-fund-backend/internal/features/session/repository/redis"
	sessionservice "jucai-fund-backend/internal/features/session/service"
	userhttp "jucai-fund-backend/internal/features/user/delivery/http"
	userredis "jucai-fund-backend/internal/features/user/repository/redis"
	userservice "jucai-fund-backend/internal/features/user/service"
	withdrawalhttp "jucai-fund-backend/internal/features/withdrawal/delivery/http"
	withdrawalservice "jucai-fund-backend/internal/features/withdrawal/service"
	apphttp "jucai-fund-backend/internal/http"
	"jucai-fund-backend/internal/platform/redis"
)

const version = "1.0.0"

// @title           Jucai Fund API
// @version         1.0
// @description     User domain of the Jucai fund platform: accounts, profiles, notifications and withdrawal requests.

// @host      localhost:8000
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Access token from /users/login, prefixed with "Bearer "

// @tag.name users
// @tag.description Accounts and profiles

// @tag.name notifications
// @tag.description User notifications

// @tag.name withdrawals
// @tag.description Withdrawal requests

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.ServiceName, cfg.Debug)

	if err := run(cfg); err != nil {
		logger.Fatal().Err(err).Msg("Server stopped with error")
	}
	logger.Info().Msg("Server exited")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("version", version).
		Bool("debug", cfg.Debug).
		Str("storage", cfg.Storage.Driver).
		Msg("Starting Jucai Fund backend")

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	checks := map[string]apphttp.HealthChecker{}
	for name, c := range store.checks {
		checks[name] = c
	}

	var (
		sessions  sessionrepo.SessionRepository
		userCache userservice.UserCache
	)
	if cfg.Redis.Enabled {
		rc, err := redis.OpenFromConfig(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rc.Close()

		cacheService := cache.NewCacheService(rc, cfg.ServiceName)
		sessions = sessionredis.NewSessionRepository(cacheService, nil)
		userCache = userredis.NewUserCache(cacheService, cfg.Redis.UserCacheTTL)
		checks["redis"] = rc
	} else {
		logger.Warn().Msg("Redis disabled: sessions kept in memory, user cache off")
		sessions = sessionmemory.NewSessionRepository(nil)
	}

	tokens := sessionservice.NewTokenService(sessions, cfg.Auth.TokenSecret, cfg.Auth.TokenIssuer, cfg.Auth.TokenTTL)

	userSvc := userservice.NewUserService(store.users, store.profiles, hasher.New(cfg.Auth.BcryptCost), tokens, userCache)
	notificationSvc := notificationservice.NewNotificationService(store.notifications, store.users)
	withdrawalSvc := withdrawalservice.NewWithdrawalService(store.withdrawals, store.users, notificationSvc, store.tx)

	if cfg.Seed.DemoUsers {
		if err := userSvc.SeedDemoUsers(ctx); err != nil {
			return fmt.Errorf("seed demo users: %w", err)
		}
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := apphttp.NewRouter(apphttp.Deps{
		Version:        version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Users:          userhttp.NewUserHandler(userSvc),
		Notifications:  notificationhttp.NewNotificationHandler(notificationSvc),
		Withdrawals:    withdrawalhttp.NewWithdrawalHandler(withdrawalSvc),
		Metrics:        middleware.NewMetrics("jucai"),
		LoginLimiter:   middleware.NewRateLimiter("login", cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst),
		Checks:         checks,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
