package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "jucai-fund-backend/internal/common/errors"
	"jucai-fund-backend/internal/common/pagination"
	notificationmodels "jucai-fund-backend/internal/features/notification/models"
	notificationmemory "jucai-fund-backend/internal/features/notification/repository/memory"
	notificationservice "jucai-fund-backend/internal/features/notification/service"
	usermodels "jucai-fund-backend/internal/features/user/models"
	usermemory "jucai-fund-backend/internal/features/user/repository/memory"
	"jucai-fund-backend/internal/features/withdrawal/models"
	"jucai-fund-backend/internal/features/withdrawal/repository/memory"
	platformmemory "jucai-fund-backend/internal/platform/memory"
)

type fixture struct {
	svc           WithdrawalService
	repo          *memory.WithdrawalRepository
	users         *usermemory.UserRepository
	notifications *notificationmemory.NotificationRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := platformmemory.NewClock(nil)
	f := &fixture{
		repo:          memory.NewWithdrawalRepository(clock),
		users:         usermemory.NewUserRepository(clock),
		notifications: notificationmemory.NewNotificationRepository(clock),
	}
	notifier := notificationservice.NewNotificationService(f.notifications, f.users)
	f.svc = NewWithdrawalService(f.repo, f.users, notifier, platformmemory.NewTransactor())
	return f
}

func (f *fixture) user(t *testing.T, name string, balance int64) int64 {
	t.Helper()
	u := &usermodels.User{Username: name, Email: name + "@x.com", Status: usermodels.StatusActive, Balance: decimal.NewFromInt(balance)}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u.ID
}

func (f *fixture) notificationCount(t *testing.T, userID int64) int {
	t.Helper()
	list, err := f.notifications.List(context.Background(), notificationmodels.ListFilter{UserID: userID, Params: pagination.Params{Limit: 100}})
	require.NoError(t, err)
	return len(list)
}

func request(amount string) *models.CreateWithdrawalRequest {
	return &models.CreateWithdrawalRequest{
		Amount:      decimal.RequireFromString(amount),
		BankAccount: "6222020200001234567",
		BankName:    "ICBC",
	}
}

func requireCode(t *testing.T, err error, code apperrors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, code, appErr.Code)
}

func TestCreate_BalanceScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.user(t, "alice", 0)

	_, err := f.svc.Create(ctx, uid, request("10"))
	requireCode(t, err, apperrors.ErrCodeInsufficientBalance)
	assert.Zero(t, f.repo.Count())
	assert.Zero(t, f.notificationCount(t, uid))

	require.NoError(t, f.users.SetBalance(uid, decimal.NewFromInt(50)))

	w, err := f.svc.Create(ctx, uid, request("10"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, w.Status)
	assert.Equal(t, 10.0, w.Amount)
	assert.Nil(t, w.ProcessedAt)
	assert.Equal(t, 1, f.repo.Count())

	list, err := f.notifications.List(ctx, notificationmodels.ListFilter{UserID: uid, Params: pagination.Default()})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, notificationmodels.TypeTransaction, list[0].Type)
	assert.False(t, list[0].Read)
	assert.Contains(t, list[0].Content, "10.00")

	user, err := f.users.GetByID(ctx, uid)
	require.NoError(t, err)
	assert.True(t, user.Balance.Equal(decimal.NewFromInt(50)), "balance must not be debited")
}

func TestCreate_ExactBalanceAllowed(t *testing.T) {
	f := newFixture(t)
	uid := f.user(t, "alice", 50)

	_, err := f.svc.Create(context.Background(), uid, request("50"))
	require.NoError(t, err)

	_, err = f.svc.Create(context.Background(), uid, request("50.00000001"))
	requireCode(t, err, apperrors.ErrCodeInsufficientBalance)
}

func TestCreate_ErrorOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.user(t, "alice", 0)

	// Unknown user wins over invalid input.
	_, err := f.svc.Create(ctx, 999, request("-1"))
	requireCode(t, err, apperrors.ErrCodeUserNotFound)

	// Invalid amount wins over insufficient balance.
	_, err = f.svc.Create(ctx, uid, request("0"))
	requireCode(t, err, apperrors.ErrCodeValidation)
	_, err = f.svc.Create(ctx, uid, request("-5"))
	requireCode(t, err, apperrors.ErrCodeValidation)

	req := request("1")
	req.BankName = ""
	_, err = f.svc.Create(ctx, uid, req)
	requireCode(t, err, apperrors.ErrCodeValidation)

	assert.Zero(t, f.repo.Count())
}

func TestCreate_AmountBeyondColumnScale(t *testing.T) {
	f := newFixture(t)
	uid := f.user(t, "alice", 50)

	_, err := f.svc.Create(context.Background(), uid, request("0.000000001"))
	requireCode(t, err, apperrors.ErrCodeValidation)
	assert.Zero(t, f.repo.Count())
	assert.Zero(t, f.notificationCount(t, uid))

	resp, err := f.svc.Create(context.Background(), uid, request("0.00000001"))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, resp.Status)
}

func TestList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice", 100)
	bob := f.user(t, "bob", 100)

	var ids []int64
	for _, amount := range []string{"1", "2", "3"} {
		w, err := f.svc.Create(ctx, alice, request(amount))
		require.NoError(t, err)
		ids = append(ids, w.ID)
	}
	_, err := f.svc.Create(ctx, bob, request("4"))
	require.NoError(t, err)

	list, err := f.svc.List(ctx, models.ListFilter{UserID: alice, Params: pagination.Default()})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, ids[2], list[0].ID)
	assert.Equal(t, ids[0], list[2].ID)

	page, err := f.svc.List(ctx, models.ListFilter{UserID: alice, Params: pagination.Params{Limit: 2, Offset: 2}})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[0], page[0].ID)

	approved := models.StatusApproved
	list, err = f.svc.List(ctx, models.ListFilter{UserID: alice, Status: &approved, Params: pagination.Default()})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestList_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.user(t, "alice", 0)

	bogus := "done"
	_, err := f.svc.List(ctx, models.ListFilter{UserID: uid, Status: &bogus, Params: pagination.Default()})
	requireCode(t, err, apperrors.ErrCodeValidation)

	_, err = f.svc.List(ctx, models.ListFilter{UserID: uid, Params: pagination.Params{Limit: 0}})
	requireCode(t, err, apperrors.ErrCodeValidation)

	_, err = f.svc.List(ctx, models.ListFilter{UserID: 999, Params: pagination.Default()})
	requireCode(t, err, apperrors.ErrCodeUserNotFound)
}
