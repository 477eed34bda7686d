package service

import (
	"context"
	"errors"

	apperrors "jucai-fund-backend/internal/common/errors"
	"jucai-fund-backend/internal/common/logger"
	"jucai-fund-backend/internal/common/validation"
	"jucai-fund-backend/internal/features/notification/mapper"
	"jucai-fund-backend/internal/features/notification/models"
	"jucai-fund-backend/internal/features/notification/repository"
	usermodels "jucai-fund-backend/internal/features/user/models"
	userrepo "jucai-fund-backend/internal/features/user/repository"
)

const markReadMessage = "Notifications marked as read"

type NotificationService interface {
	List(ctx context.Context, filter models.ListFilter) ([]*models.NotificationResponse, error)
	// GetDetail marks an unread notification as read before returning it.
	GetDetail(ctx context.Context, userID, id int64) (*models.NotificationResponse, error)
	MarkRead(ctx context.Context, userID int64, ids []int64) (*models.MarkReadResponse, error)
	// Create stores a notification for userID. The caller is responsible for
	// the user's existence.
	Create(ctx context.Context, userID int64, notificationType, title, content string) (*models.NotificationResponse, error)
}

// UserFinder is the part of the user store needed to check that a user exists.
type UserFinder interface {
	GetByID(ctx context.Context, id int64) (*usermodels.User, error)
}

type notificationService struct {
	repo  repository.NotificationRepository
	users UserFinder
}

func NewNotificationService(repo repository.NotificationRepository, users UserFinder) NotificationService {
	return &notificationService{
		repo:  repo,
		users: users,
	}
}

func (s *notificationService) List(ctx context.Context, filter models.ListFilter) ([]*models.NotificationResponse, error) {
	if err := filter.Params.Validate(); err != nil {
		return nil, err
	}
	if filter.Type != nil {
		if err := validation.ValidateMaxLength("type", *filter.Type, validation.MaxTypeLength); err != nil {
			return nil, err
		}
	}
	if err := s.ensureUser(ctx, filter.UserID); err != nil {
		return nil, err
	}

	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list notifications", err)
	}
	return mapper.ToNotificationResponses(list), nil
}

func (s *notificationService) GetDetail(ctx context.Context, userID, id int64) (*models.NotificationResponse, error) {
	n, err := s.repo.GetByIDForUser(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return nil, apperrors.NewNotificationNotFoundError(id)
		}
		return nil, apperrors.NewDatabaseError("get notification", err)
	}

	if !n.Read {
		if _, err := s.repo.MarkRead(ctx, userID, id); err != nil {
			return nil, apperrors.NewDatabaseError("mark notification read", err)
		}
		n.Read = true
	}

	return mapper.ToNotificationResponse(n), nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID int64, ids []int64) (*models.MarkReadResponse, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	updated, err := s.repo.MarkRead(ctx, userID, ids...)
	if err != nil {
		return nil, apperrors.NewDatabaseError("mark notifications read", err)
	}

	logger.Debug().
		Int64("user_id", userID).
		Int("requested", len(ids)).
		Int64("updated", updated).
		Msg("Notifications marked as read")

	return &models.MarkReadResponse{Success: true, Message: markReadMessage, Updated: updated}, nil
}

func (s *notificationService) Create(ctx context.Context, userID int64, notificationType, title, content string) (*models.NotificationResponse, error) {
	if err := validation.ValidateRequired("title", title, validation.MaxTitleLength); err != nil {
		return nil, err
	}
	if err := validation.ValidateRequired("type", notificationType, validation.MaxTypeLength); err != nil {
		return nil, err
	}

	n := &models.Notification{
		UserID:  userID,
		Title:   title,
		Content: content,
		Type:    notificationType,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, apperrors.NewDatabaseError("create notification", err)
	}
	return mapper.ToNotificationResponse(n), nil
}

func (s *notificationService) ensureUser(ctx context.Context, userID int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return apperrors.NewUserNotFoundError(userID)
		}
		return apperrors.NewDatabaseError("get user", err)
	}
	return nil
}
