package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	apperrors "jucai-fund-backend/internal/common/errors"
	"jucai-fund-backend/internal/common/hasher"
	"jucai-fund-backend/internal/common/logger"
	"jucai-fund-backend/internal/common/validation"
	sessionservice "jucai-fund-backend/internal/features/session/service"
	"jucai-fund-backend/internal/features/user/mapper"
	"jucai-fund-backend/internal/features/user/models"
	"jucai-fund-backend/internal/features/user/repository"
)

const invalidCredentials = "Invalid username or password"

type userService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	hasher   PasswordHasher
	sessions SessionIssuer
	cache    UserCache
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewUserService wires the account service. cache may be nil.
func NewUserService(
	users repository.UserRepository,
	profiles repository.ProfileRepository,
	h PasswordHasher,
	sessions SessionIssuer,
	cache UserCache,
) UserService {
	return &userService{
		users:    users,
		profiles: profiles,
		hasher:   h,
		sessions: sessions,
		cache:    cache,
		now:      time.Now,
	}
}

func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error) {
	if err := validation.ValidateUsername(req.Username); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(req.Email); err != nil {
		return nil, err
	}
	if req.Phone != nil {
		if err := validation.ValidatePhone(*req.Phone); err != nil {
			return nil, err
		}
	}

	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		return nil, usernameTaken()
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperrors.NewDatabaseError("get user by username", err)
	}
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, emailTaken()
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, apperrors.NewDatabaseError("get user by email", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("hash password", err)
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Email:        req.Email,
		Phone:        req.Phone,
		Status:       models.StatusActive,
		Balance:      decimal.Zero,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, mapWriteError("create user", err)
	}

	logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("User registered")
	return mapper.ToUserResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperrors.NewDatabaseError("get user by username", err)
		}
		// Same cost as a real check so timing does not reveal unknown names.
		_ = s.hasher.Compare(s.dummy(), req.Password)
		return nil, apperrors.NewUnauthorizedError(invalidCredentials)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		if !errors.Is(err, hasher.ErrMismatch) {
			logger.Warn().Err(err).Int64("user_id", user.ID).Msg("Password compare failed")
		}
		return nil, apperrors.NewUnauthorizedError(invalidCredentials)
	}

	at := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, at); err != nil {
		return nil, apperrors.NewDatabaseError("update last login", err)
	}
	user.LastLogin = &at
	s.invalidate(ctx, user.ID)

	token, expiresAt, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError("issue session", err)
	}

	logger.Info().Int64("user_id", user.ID).Msg("User logged in")
	return &models.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        mapper.ToUserResponse(user),
	}, nil
}

func (s *userService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return apperrors.NewUnauthorizedError("Missing access token")
	}
	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		if errors.Is(err, sessionservice.ErrInvalidToken) {
			return apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "Invalid access token")
		}
		return apperrors.NewInternalError("resolve session", err)
	}
	if err := s.sessions.Revoke(ctx, token); err != nil {
		return apperrors.NewInternalError("revoke session", err)
	}

	logger.Info().Int64("user_id", userID).Msg("User logged out")
	return nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*models.UserResponse, error) {
	if s.cache != nil {
		if view, err := s.cache.Get(ctx, id); err == nil {
			return view, nil
		}
	}

	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	view := mapper.ToUserResponse(user)
	if s.cache != nil {
		if err := s.cache.Set(ctx, view); err != nil {
			logger.Warn().Err(err).Int64("user_id", id).Msg("Failed to cache user")
		}
	}
	return view, nil
}

func (s *userService) UpdateUser(ctx context.Context, id int64, req *models.UpdateUserRequest) (*models.UserResponse, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		if err := validation.ValidateEmail(*req.Email); err != nil {
			return nil, err
		}
		existing, err := s.users.GetByEmail(ctx, *req.Email)
		switch {
		case err == nil && existing.ID != id:
			return nil, emailTaken()
		case err != nil && !errors.Is(err, repository.ErrUserNotFound):
			return nil, apperrors.NewDatabaseError("get user by email", err)
		}
		user.Email = *req.Email
	}
	if req.Phone != nil {
		if err := validation.ValidatePhone(*req.Phone); err != nil {
			return nil, err
		}
		user.Phone = req.Phone
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, mapWriteError("update user", err)
	}
	s.invalidate(ctx, id)

	return mapper.ToUserResponse(user), nil
}

func (s *userService) GetProfile(ctx context.Context, userID int64) (*models.ProfileResponse, error) {
	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapper.ToProfileResponse(profile), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, req *models.UpdateProfileRequest) (*models.ProfileResponse, error) {
	if err := validateProfilePatch(req); err != nil {
		return nil, err
	}

	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	mapper.ApplyProfilePatch(profile, req)
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, apperrors.NewDatabaseError("update profile", err)
	}
	return mapper.ToProfileResponse(profile), nil
}

type demoUser struct {
	username string
	password string
	email    string
	phone    string
	balance  int64
}

var demoUsers = []demoUser{
	{username: "admin", password: "admin123", email: "admin@jucai-fund.com", phone: "13800138000", balance: 100000},
	{username: "testuser", password: "test123", email: "test@jucai-fund.com", phone: "13900139000", balance: 10000},
}

// SeedDemoUsers creates the demo accounts when no user exists yet.
func (s *userService) SeedDemoUsers(ctx context.Context) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return apperrors.NewDatabaseError("count users", err)
	}
	if count > 0 {
		logger.Debug().Int64("users", count).Msg("Skipping demo seed")
		return nil
	}

	for _, d := range demoUsers {
		phone := d.phone
		hash, err := s.hasher.Hash(d.password)
		if err != nil {
			return apperrors.NewInternalError("hash password", err)
		}
		user := &models.User{
			Username:     d.username,
			PasswordHash: hash,
			Email:        d.email,
			Phone:        &phone,
			Status:       models.StatusActive,
			Balance:      decimal.NewFromInt(d.balance),
		}
		if err := s.users.Create(ctx, user); err != nil {
			return mapWriteError("seed user", err)
		}
		logger.Info().Str("username", d.username).Msg("Demo user created")
	}
	return nil
}

func (s *userService) getUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperrors.NewUserNotFoundError(id)
		}
		return nil, apperrors.NewDatabaseError("get user", err)
	}
	return user, nil
}

func (s *userService) loadProfile(ctx context.Context, userID int64) (*models.Profile, error) {
	if _, err := s.getUser(ctx, userID); err != nil {
		return nil, err
	}
	profile, created, err := s.profiles.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, apperrors.NewDatabaseError("get or create profile", err)
	}
	if created {
		logger.Debug().Int64("user_id", userID).Msg("Default profile created")
	}
	return profile, nil
}

func (s *userService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		logger.Warn().Err(err).Int64("user_id", id).Msg("Failed to invalidate user cache")
	}
}

func (s *userService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("jucai-dummy-password")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

func validateProfilePatch(req *models.UpdateProfileRequest) error {
	fields := []struct {
		name  string
		value *string
		max   int
	}{
		{"avatar", req.Avatar, validation.MaxAvatarLength},
		{"real_name", req.RealName, validation.MaxRealNameLength},
		{"id_card", req.IDCard, validation.MaxIDCardLength},
		{"bank_account", req.BankAccount, validation.MaxBankAccountLength},
		{"bank_name", req.BankName, validation.MaxBankNameLength},
		{"address", req.Address, validation.MaxAddressLength},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		if err := validation.ValidateMaxLength(f.name, *f.value, f.max); err != nil {
			return err
		}
	}
	if req.RiskLevel != nil {
		return validation.ValidateRiskLevel(*req.RiskLevel)
	}
	return nil
}

func usernameTaken() *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeUserTaken, "Username already exists").
		WithDetail("field", "username")
}

func emailTaken() *apperrors.AppError {
	return apperrors.New(apperrors.ErrCodeUserTaken, "Email already exists").
		WithDetail("field", "email")
}

func mapWriteError(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrUsernameTaken):
		return usernameTaken()
	case errors.Is(err, repository.ErrEmailTaken):
		return emailTaken()
	case errors.Is(err, repository.ErrUserNotFound):
		return apperrors.New(apperrors.ErrCodeUserNotFound, "User not found")
	default:
		return apperrors.NewDatabaseError(op, err)
	}
}
