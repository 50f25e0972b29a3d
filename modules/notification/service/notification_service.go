package service

import (
	"context"
	"time"

	"smart-schedule/core/errors"
	"smart-schedule/core/logger"
	"smart-schedule/modules/notification/dto"
	"smart-schedule/modules/notification/entity"
	"smart-schedule/modules/notification/repository"

	"github.com/google/uuid"
)

type NotificationServiceInterface interface {
	Create(ctx context.Context, req *dto.CreateNotificationRequest) (*entity.Notification, *errors.AppError)
	GetMyNotifications(ctx context.Context, userID string, req dto.ListNotificationsRequest) (*entity.PaginatedNotificationEntity, *errors.AppError)
	MarkAsRead(ctx context.Context, userID string, ids []string) *errors.AppError
	MarkAllAsRead(ctx context.Context, userID string) *errors.AppError
	CountUnread(ctx context.Context, userID string) (int, *errors.AppError)
}

type NotificationService struct {
	repo repository.NotificationRepositoryInterface
	now  func() time.Time
}

func NewNotificationService(repo repository.NotificationRepositoryInterface) *NotificationService {
	return &NotificationService{repo: repo, now: time.Now}
}

func (s *NotificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) (*entity.Notification, *errors.AppError) {
	now := s.now().UTC()
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	notif := &entity.Notification{
		ID:        id,
		UserID:    req.UserID,
		Title:     req.Title,
		Message:   req.Message,
		Type:      req.Type,
		Data:      entity.JSONB(req.Data),
		IsRead:    false,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, notif); err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "Failed to create notification", err)
	}
	logger.Info("NotificationService:Create:Success", "id", notif.ID, "user_id", notif.UserID, "type", notif.Type)
	return notif, nil
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID string, req dto.ListNotificationsRequest) (*entity.PaginatedNotificationEntity, *errors.AppError) {
	req.Normalize()
	page, err := s.repo.GetByUserID(ctx, userID, req.Page, req.Limit)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "Failed to get notifications", err)
	}
	return page, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID string, ids []string) *errors.AppError {
	if err := s.repo.MarkAsRead(ctx, userID, ids); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to mark as read", err)
	}
	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) *errors.AppError {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to mark all as read", err)
	}
	return nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID string) (int, *errors.AppError) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, errors.NewAppError(errors.ErrGetFailed, "Failed to count unread", err)
	}
	return count, nil
}
