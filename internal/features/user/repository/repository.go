package repository

import (
	"context"
	"errors"
	"time"

	"jucai-fund-backend/internal/features/user/models"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUsernameTaken   = errors.New("username already exists")
	ErrEmailTaken      = errors.New("email already exists")
	ErrProfileNotFound = errors.New("profile not found")
)

type UserRepository interface {
	// Create assigns ID and CreatedAt. Returns ErrUsernameTaken or ErrEmailTaken
	// when a unique constraint is hit.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Update persists email, phone and status.
	Update(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	Count(ctx context.Context) (int64, error)
}

type ProfileRepository interface {
	// GetOrCreate returns the user's profile, inserting a default one when
	// missing. created reports whether a row was inserted.
	GetOrCreate(ctx context.Context, userID int64) (profile *models.Profile, created bool, err error)
	Update(ctx context.Context, profile *models.Profile) error
}
