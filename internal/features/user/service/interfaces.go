package service

import (
	"context"
	"time"

	"jucai-fund-backend/internal/features/user/models"
)

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context, token string) error
	// GetUser reads through the user cache. Balance writes made outside this
	// service (back office, direct SQL) show up after the entry's TTL
	// (USER_CACHE_TTL) or the next login or account update of that user.
	GetUser(ctx context.Context, id int64) (*models.UserResponse, error)
	UpdateUser(ctx context.Context, id int64, req *models.UpdateUserRequest) (*models.UserResponse, error)
	// GetProfile may create: a default profile is inserted when the user has none.
	GetProfile(ctx context.Context, userID int64) (*models.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID int64, req *models.UpdateProfileRequest) (*models.ProfileResponse, error)
	SeedDemoUsers(ctx context.Context) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// SessionIssuer issues, checks and revokes access tokens.
type SessionIssuer interface {
	Issue(ctx context.Context, userID int64) (token string, expiresAt time.Time, err error)
	// Resolve returns sessionservice.ErrInvalidToken for bad, expired or revoked tokens.
	Resolve(ctx context.Context, token string) (int64, error)
	Revoke(ctx context.Context, token string) error
}

// UserCache is an optional read-through cache of user views. Entries expire
// after their TTL; the view includes the balance, so keep the TTL short.
type UserCache interface {
	Get(ctx context.Context, id int64) (*models.UserResponse, error)
	Set(ctx context.Context, u *models.UserResponse) error
	Invalidate(ctx context.Context, id int64) error
}
