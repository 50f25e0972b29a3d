package repository

import (
	"context"

	"smart-schedule/core/database"
	"smart-schedule/core/logger"
	"smart-schedule/modules/notification/entity"

	"github.com/jmoiron/sqlx"
)

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByUserID(ctx context.Context, userID string, page, size int) (*entity.PaginatedNotificationEntity, error)
	MarkAsRead(ctx context.Context, userID string, ids []string) error
	MarkAllAsRead(ctx context.Context, userID string) error
	CountUnread(ctx context.Context, userID string) (int, error)
}

type NotificationRepository struct {
	db database.IDatabase
}

func NewNotificationRepository(db database.IDatabase) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	query := `
		INSERT INTO notifications (id, title, message, type, data, user_id, is_read, created_at, updated_at)
		VALUES (:id, :title, :message, :type, :data, :user_id, :is_read, :created_at, :updated_at)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := r.db.NamedExecContext(ctx, query, notification); err != nil {
		logger.Error("NotificationRepository:Create:Error", "user_id", notification.UserID, "error", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) GetByUserID(ctx context.Context, userID string, page, size int) (*entity.PaginatedNotificationEntity, error) {
	offset := (page - 1) * size

	baseQuery := `FROM notifications WHERE user_id = ?`

	var totalItems int
	if err := r.db.GetContext(ctx, &totalItems, r.db.Rebind("SELECT COUNT(*) "+baseQuery), userID); err != nil {
		logger.Error("NotificationRepository:GetByUserID:Count:Error", "error", err)
		return nil, err
	}

	query := r.db.Rebind(`
		SELECT id, user_id, title, message, type, data, is_read, created_at, updated_at ` + baseQuery + `
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`)

	notifications := []entity.Notification{}
	if err := r.db.SelectContext(ctx, &notifications, query, userID, size, offset); err != nil {
		logger.Error("NotificationRepository:GetByUserID:Select:Error", "error", err)
		return nil, err
	}

	return &entity.PaginatedNotificationEntity{
		Items:      notifications,
		TotalItems: totalItems,
		PageNumber: page,
		PageSize:   size,
	}, nil
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`UPDATE notifications SET is_read = ? WHERE user_id = ? AND id IN (?)`, true, userID, ids)
	if err != nil {
		return err
	}

	if err := r.db.ExecContext(ctx, r.db.Rebind(query), args...); err != nil {
		logger.Error("NotificationRepository:MarkAsRead:Error", "error", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID string) error {
	query := r.db.Rebind(`UPDATE notifications SET is_read = ? WHERE user_id = ?`)
	if err := r.db.ExecContext(ctx, query, true, userID); err != nil {
		logger.Error("NotificationRepository:MarkAllAsRead:Error", "error", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = ?`)
	if err := r.db.GetContext(ctx, &count, query, userID, false); err != nil {
		logger.Error("NotificationRepository:CountUnread:Error", "error", err)
		return 0, err
	}
	return count, nil
}
