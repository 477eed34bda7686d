package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jucai-fund-backend/internal/common/cache"
	"jucai-fund-backend/internal/common/cache/cachetest"
	apperrors "jucai-fund-backend/internal/common/errors"
	"jucai-fund-backend/internal/common/hasher"
	sessionservice "jucai-fund-backend/internal/features/session/service"
	"jucai-fund-backend/internal/features/user/models"
	"jucai-fund-backend/internal/features/user/repository/memory"
	usercache "jucai-fund-backend/internal/features/user/repository/redis"
	platformmemory "jucai-fund-backend/internal/platform/memory"
)

type stubSessions struct {
	issued  map[string]int64
	revoked []string
	seq     int
	err     error
}

func newStubSessions() *stubSessions {
	return &stubSessions{issued: make(map[string]int64)}
}

func (s *stubSessions) Issue(_ context.Context, userID int64) (string, time.Time, error) {
	if s.err != nil {
		return "", time.Time{}, s.err
	}
	s.seq++
	token := fmt.Sprintf("token-%d", s.seq)
	s.issued[token] = userID
	return token, time.Now().Add(time.Hour), nil
}

func (s *stubSessions) Resolve(_ context.Context, token string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	userID, ok := s.issued[token]
	if !ok {
		return 0, sessionservice.ErrInvalidToken
	}
	return userID, nil
}

func (s *stubSessions) Revoke(_ context.Context, token string) error {
	if _, ok := s.issued[token]; !ok {
		return sessionservice.ErrInvalidToken
	}
	delete(s.issued, token)
	s.revoked = append(s.revoked, token)
	return nil
}

type fixture struct {
	svc      UserService
	users    *memory.UserRepository
	sessions *stubSessions
	kv       *cachetest.FakeKV
}

func newFixture(t *testing.T, withCache bool) *fixture {
	t.Helper()
	f := &fixture{
		users:    memory.NewUserRepository(platformmemory.NewClock(nil)),
		sessions: newStubSessions(),
	}
	var c UserCache
	if withCache {
		f.kv = cachetest.NewFakeKV()
		c = usercache.NewUserCache(cache.NewCacheService(f.kv, "test"), time.Minute)
	}
	f.svc = NewUserService(f.users, memory.NewProfileRepository(), hasher.New(4), f.sessions, c)
	return f
}

func strPtr(s string) *string { return &s }

func register(t *testing.T, svc UserService, username, password, email string) *models.UserResponse {
	t.Helper()
	u, err := svc.Register(context.Background(), &models.RegisterRequest{
		Username: username, Password: password, Email: email,
	})
	require.NoError(t, err)
	return u
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

func TestRegister_ThenLogin(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	u := register(t, f.svc, "alice", "secret1", "alice@x.com")
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, 0.0, u.Balance)
	assert.Equal(t, models.StatusActive, u.Status)
	assert.Nil(t, u.LastLogin)

	resp, err := f.svc.Login(ctx, &models.LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, u.ID, resp.User.ID)
	require.NotNil(t, resp.User.LastLogin)
	assert.Equal(t, u.ID, f.sessions.issued[resp.AccessToken])

	stored, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLogin)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t, false)
	cases := []models.RegisterRequest{
		{Username: "al", Password: "secret1", Email: "a@x.com"},
		{Username: "al ice", Password: "secret1", Email: "a@x.com"},
		{Username: "alice", Password: "short", Email: "a@x.com"},
		{Username: "alice", Password: "secret1", Email: "not-an-email"},
		{Username: "alice", Password: "secret1", Email: "a@x.com", Phone: strPtr("123456789012345678901")},
	}
	for _, req := range cases {
		req := req
		_, err := f.svc.Register(context.Background(), &req)
		requireCode(t, err, apperrors.ErrCodeValidation)
	}
	n, _ := f.users.Count(context.Background())
	assert.Zero(t, n)
}

func TestRegister_DuplicateUsernameOrEmail(t *testing.T) {
	f := newFixture(t, false)
	register(t, f.svc, "alice", "secret1", "alice@x.com")

	_, err := f.svc.Register(context.Background(), &models.RegisterRequest{
		Username: "alice", Password: "other12", Email: "other@x.com",
	})
	requireCode(t, err, apperrors.ErrCodeUserTaken)

	_, err = f.svc.Register(context.Background(), &models.RegisterRequest{
		Username: "bob", Password: "other12", Email: "alice@x.com",
	})
	requireCode(t, err, apperrors.ErrCodeUserTaken)

	// Email comparison is case-sensitive.
	register(t, f.svc, "carol", "secret1", "Alice@x.com")
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t, false)
	register(t, f.svc, "alice", "secret1", "alice@x.com")

	_, errWrong := f.svc.Login(context.Background(), &models.LoginRequest{Username: "alice", Password: "wrong12"})
	_, errUnknown := f.svc.Login(context.Background(), &models.LoginRequest{Username: "nobody", Password: "secret1"})

	requireCode(t, errWrong, apperrors.ErrCodeUnauthorized)
	requireCode(t, errUnknown, apperrors.ErrCodeUnauthorized)
	assert.Equal(t, errWrong.Error(), errUnknown.Error())
	assert.Empty(t, f.sessions.issued)
}

func TestLogin_SessionFailureIsInternal(t *testing.T) {
	f := newFixture(t, false)
	register(t, f.svc, "alice", "secret1", "alice@x.com")
	f.sessions.err = errors.New("redis down")

	_, err := f.svc.Login(context.Background(), &models.LoginRequest{Username: "alice", Password: "secret1"})
	requireCode(t, err, apperrors.ErrCodeInternal)
}

func TestLogout(t *testing.T) {
	f := newFixture(t, false)
	register(t, f.svc, "alice", "secret1", "alice@x.com")
	resp, err := f.svc.Login(context.Background(), &models.LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), resp.AccessToken))
	assert.Equal(t, []string{resp.AccessToken}, f.sessions.revoked)

	// A revoked session cannot be logged out again.
	requireCode(t, f.svc.Logout(context.Background(), resp.AccessToken), apperrors.ErrCodeUnauthorized)
	assert.Len(t, f.sessions.revoked, 1)

	requireCode(t, f.svc.Logout(context.Background(), ""), apperrors.ErrCodeUnauthorized)
	requireCode(t, f.svc.Logout(context.Background(), "garbage"), apperrors.ErrCodeUnauthorized)
}

func TestLogout_SessionStoreFailureIsInternal(t *testing.T) {
	f := newFixture(t, false)
	register(t, f.svc, "alice", "secret1", "alice@x.com")
	resp, err := f.svc.Login(context.Background(), &models.LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	f.sessions.err = errors.New("redis down")
	requireCode(t, f.svc.Logout(context.Background(), resp.AccessToken), apperrors.ErrCodeInternal)
	assert.Empty(t, f.sessions.revoked)
}

func TestGetUser_NotFound(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.svc.GetUser(context.Background(), 42)
	requireCode(t, err, apperrors.ErrCodeUserNotFound)
}

func TestGetUser_ReadThroughCache(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	u := register(t, f.svc, "alice", "secret1", "alice@x.com")

	got, err := f.svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", got.Email)
	assert.Contains(t, f.kv.Keys(), fmt.Sprintf("test:user:id:%d", u.ID))

	// A direct balance change is invisible until the entry is invalidated.
	require.NoError(t, f.users.SetBalance(u.ID, decimal.NewFromInt(50)))
	got, err = f.svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Balance)

	_, err = f.svc.UpdateUser(ctx, u.ID, &models.UpdateUserRequest{Phone: strPtr("13800138000")})
	require.NoError(t, err)
	assert.Empty(t, f.kv.Keys())

	got, err = f.svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, got.Balance)
	assert.Equal(t, "13800138000", *got.Phone)
}

func TestGetUser_ExternalBalanceChangeVisibleAfterTTL(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	u := register(t, f.svc, "alice", "secret1", "alice@x.com")

	_, err := f.svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.NoError(t, f.users.SetBalance(u.ID, decimal.NewFromInt(50)))

	f.kv.Advance(30 * time.Second)
	got, err := f.svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Balance)

	f.kv.Advance(31 * time.Second)
	got, err = f.svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, got.Balance)
}

func TestGetUser_CacheErrorsFallBackToStore(t *testing.T) {
	f := newFixture(t, true)
	u := register(t, f.svc, "alice", "secret1", "alice@x.com")
	f.kv.Err = errors.New("connection refused")

	got, err := f.svc.GetUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestUpdateUser_PartialUpdate(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	u := register(t, f.svc, "alice", "secret1", "alice@x.com")

	got, err := f.svc.UpdateUser(ctx, u.ID, &models.UpdateUserRequest{Phone: strPtr("123")})
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", got.Email)
	assert.Equal(t, "123", *got.Phone)

	got, err = f.svc.UpdateUser(ctx, u.ID, &models.UpdateUserRequest{Email: strPtr("alice@new.com")})
	require.NoError(t, err)
	assert.Equal(t, "alice@new.com", got.Email)
	assert.Equal(t, "123", *got.Phone)

	// Keeping one's own email is not a conflict.
	_, err = f.svc.UpdateUser(ctx, u.ID, &models.UpdateUserRequest{Email: strPtr("alice@new.com")})
	require.NoError(t, err)
}

func TestUpdateUser_Errors(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	alice := register(t, f.svc, "alice", "secret1", "alice@x.com")
	register(t, f.svc, "bob", "secret1", "bob@x.com")

	_, err := f.svc.UpdateUser(ctx, 999, &models.UpdateUserRequest{Phone: strPtr("1")})
	requireCode(t, err, apperrors.ErrCodeUserNotFound)

	_, err = f.svc.UpdateUser(ctx, alice.ID, &models.UpdateUserRequest{Email: strPtr("bob@x.com")})
	requireCode(t, err, apperrors.ErrCodeUserTaken)

	_, err = f.svc.UpdateUser(ctx, alice.ID, &models.UpdateUserRequest{Email: strPtr("bad")})
	requireCode(t, err, apperrors.ErrCodeValidation)
}

func TestGetProfile_LazyCreate(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	u := register(t, f.svc, "alice", "secret1", "alice@x.com")

	p, err := f.svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.UserID)
	assert.Equal(t, 3, p.RiskLevel)
	assert.Nil(t, p.RealName)

	again, err := f.svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)

	_, err = f.svc.GetProfile(ctx, 999)
	requireCode(t, err, apperrors.ErrCodeUserNotFound)
}

func TestUpdateProfile_Patch(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	u := register(t, f.svc, "alice", "secret1", "alice@x.com")

	level := 5
	p, err := f.svc.UpdateProfile(ctx, u.ID, &models.UpdateProfileRequest{
		RealName:  strPtr("Alice Zhang"),
		BankName:  strPtr("ICBC"),
		RiskLevel: &level,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Zhang", *p.RealName)
	assert.Equal(t, 5, p.RiskLevel)

	// Empty string clears, absent leaves unchanged.
	p, err = f.svc.UpdateProfile(ctx, u.ID, &models.UpdateProfileRequest{BankName: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "", *p.BankName)
	assert.Equal(t, "Alice Zhang", *p.RealName)
	assert.Equal(t, 5, p.RiskLevel)

	got, err := f.svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestUpdateProfile_Errors(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	u := register(t, f.svc, "alice", "secret1", "alice@x.com")

	bad := 6
	_, err := f.svc.UpdateProfile(ctx, u.ID, &models.UpdateProfileRequest{RiskLevel: &bad})
	requireCode(t, err, apperrors.ErrCodeValidation)

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	_, err = f.svc.UpdateProfile(ctx, u.ID, &models.UpdateProfileRequest{RealName: strPtr(string(long))})
	requireCode(t, err, apperrors.ErrCodeValidation)

	_, err = f.svc.UpdateProfile(ctx, 999, &models.UpdateProfileRequest{})
	requireCode(t, err, apperrors.ErrCodeUserNotFound)
}

func TestSeedDemoUsers(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	require.NoError(t, f.svc.SeedDemoUsers(ctx))
	require.NoError(t, f.svc.SeedDemoUsers(ctx))

	n, err := f.users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	admin, err := f.users.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, admin.Balance.Equal(decimal.NewFromInt(100000)))
	assert.Equal(t, "admin@jucai-fund.com", admin.Email)
	require.NotNil(t, admin.Phone)
	assert.Equal(t, "13800138000", *admin.Phone)

	test, err := f.users.GetByUsername(ctx, "testuser")
	require.NoError(t, err)
	assert.True(t, test.Balance.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, "test@jucai-fund.com", test.Email)
	require.NotNil(t, test.Phone)
	assert.Equal(t, "13900139000", *test.Phone)

	_, err = f.svc.Login(ctx, &models.LoginRequest{Username: "testuser", Password: "test123"})
	require.NoError(t, err)
}
