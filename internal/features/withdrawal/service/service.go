package service

import (
	"context"
	"errors"
	"fmt"

	apperrors "jucai-fund-backend/internal/common/errors"
	"jucai-fund-backend/internal/common/logger"
	"jucai-fund-backend/internal/common/validation"
	notificationmodels "jucai-fund-backend/internal/features/notification/models"
	usermodels "jucai-fund-backend/internal/features/user/models"
	userrepo "jucai-fund-backend/internal/features/user/repository"
	"jucai-fund-backend/internal/features/withdrawal/mapper"
	"jucai-fund-backend/internal/features/withdrawal/models"
	"jucai-fund-backend/internal/features/withdrawal/repository"
)

const (
	submittedTitle   = "Withdrawal request submitted"
	submittedContent = "Your withdrawal request of %s has been submitted and is awaiting review."
)

type WithdrawalService interface {
	// Create files a pending request. The balance is checked but not debited.
	Create(ctx context.Context, userID int64, req *models.CreateWithdrawalRequest) (*models.WithdrawalResponse, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.WithdrawalResponse, error)
}

type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserLocker interface {
	GetByID(ctx context.Context, id int64) (*usermodels.User, error)
	// GetByIDForUpdate holds the user row until the transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*usermodels.User, error)
}

type Notifier interface {
	Create(ctx context.Context, userID int64, notificationType, title, content string) (*notificationmodels.NotificationResponse, error)
}

type withdrawalService struct {
	repo     repository.WithdrawalRepository
	users    UserLocker
	notifier Notifier
	tx       Transactor
}

func NewWithdrawalService(repo repository.WithdrawalRepository, users UserLocker, notifier Notifier, tx Transactor) WithdrawalService {
	return &withdrawalService{
		repo:     repo,
		users:    users,
		notifier: notifier,
		tx:       tx,
	}
}

func (s *withdrawalService) Create(ctx context.Context, userID int64, req *models.CreateWithdrawalRequest) (*models.WithdrawalResponse, error) {
	var created *models.Withdrawal

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := s.users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return userError(userID, err)
		}

		if err := validation.ValidateAmount(req.Amount); err != nil {
			return err
		}
		if err := validation.ValidateRequired("bank_account", req.BankAccount, validation.MaxBankAccountLength); err != nil {
			return err
		}
		if err := validation.ValidateRequired("bank_name", req.BankName, validation.MaxBankNameLength); err != nil {
			return err
		}

		if req.Amount.GreaterThan(user.Balance) {
			return apperrors.NewInsufficientBalanceError(req.Amount.String(), user.Balance.String()).
				WithUserID(userID)
		}

		w := &models.Withdrawal{
			UserID:      userID,
			Amount:      req.Amount,
			Status:      models.StatusPending,
			BankAccount: req.BankAccount,
			BankName:    req.BankName,
		}
		if err := s.repo.Create(ctx, w); err != nil {
			return apperrors.NewDatabaseError("create withdrawal", err)
		}

		content := fmt.Sprintf(submittedContent, req.Amount.StringFixed(2))
		if _, err := s.notifier.Create(ctx, userID, notificationmodels.TypeTransaction, submittedTitle, content); err != nil {
			return err
		}

		created = w
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeTransactionFailed, "Withdrawal transaction failed")
	}

	logger.Info().
		Int64("user_id", userID).
		Int64("withdrawal_id", created.ID).
		Str("amount", created.Amount.String()).
		Msg("Withdrawal request created")

	return mapper.ToWithdrawalResponse(created), nil
}

func (s *withdrawalService) List(ctx context.Context, filter models.ListFilter) ([]*models.WithdrawalResponse, error) {
	if err := filter.Params.Validate(); err != nil {
		return nil, err
	}
	if filter.Status != nil && !models.IsValidStatus(*filter.Status) {
		return nil, apperrors.NewValidationError("status", "must be one of pending, approved, rejected")
	}
	if _, err := s.users.GetByID(ctx, filter.UserID); err != nil {
		return nil, userError(filter.UserID, err)
	}

	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list withdrawals", err)
	}
	return mapper.ToWithdrawalResponses(list), nil
}

func userError(userID int64, err error) error {
	if errors.Is(err, userrepo.ErrUserNotFound) {
		return apperrors.NewUserNotFoundError(userID)
	}
	return apperrors.NewDatabaseError("get user", err)
}
