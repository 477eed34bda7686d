package main

import (
	"context"
	"fmt"

	"jucai-fund-backend/internal/common/config"
	"jucai-fund-backend/internal/common/logger"
	notificationrepo "jucai-fund-backend/internal/features/notification/repository"
	notificationmemory "jucai-fund-backend/internal/features/notification/repository/memory"
	notificationpg "jucai-fund-backend/internal/features/notification/repository/postgres"
	userrepo "jucai-fund-backend/internal/features/user/repository"
	usermemory "jucai-fund-backend/internal/features/user/repository/memory"
	userpg "jucai-fund-backend/internal/features/user/repository/postgres"
	withdrawalrepo "jucai-fund-backend/internal/features/withdrawal/repository"
	withdrawalmemory "jucai-fund-backend/internal/features/withdrawal/repository/memory"
	withdrawalpg "jucai-fund-backend/internal/features/withdrawal/repository/postgres"
	withdrawalservice "jucai-fund-backend/internal/features/withdrawal/service"
	"jucai-fund-backend/internal/platform/memory"
	"jucai-fund-backend/internal/platform/postgres"
)

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

// storage is the set of repositories behind the configured driver.
type storage struct {
	users         userrepo.UserRepository
	profiles      userrepo.ProfileRepository
	notifications notificationrepo.NotificationRepository
	withdrawals   withdrawalrepo.WithdrawalRepository
	tx            withdrawalservice.Transactor

	checks  map[string]healthChecker
	closers []func() error
}

func (s *storage) Close() {
	for _, c := range s.closers {
		if err := c(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close storage")
		}
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		logger.Warn().Msg("Using in-memory storage, data is lost on restart")
		return openMemory(), nil
	case config.StorageDriverPostgres:
		return openPostgres(ctx, cfg.Postgres)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.PostgresConfig) (*storage, error) {
	client, err := postgres.NewClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	db := client.GetDB()
	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(ctx, db); err != nil {
			_ = client.Close()
			return nil, err
		}
	}

	return &storage{
		users:         userpg.NewPostgresRepository(db),
		profiles:      userpg.NewProfileRepository(db),
		notifications: notificationpg.NewNotificationRepository(db),
		withdrawals:   withdrawalpg.NewWithdrawalRepository(db),
		tx:            postgres.NewTransactor(db),
		checks:        map[string]healthChecker{"postgres": client},
		closers:       []func() error{client.Close},
	}, nil
}

func openMemory() *storage {
	clock := memory.NewClock(nil)
	return &storage{
		users:         usermemory.NewUserRepository(clock),
		profiles:      usermemory.NewProfileRepository(),
		notifications: notificationmemory.NewNotificationRepository(clock),
		withdrawals:   withdrawalmemory.NewWithdrawalRepository(clock),
		tx:            memory.NewTransactor(),
		checks:        map[string]healthChecker{},
	}
}
