package repository

import (
	"context"
	"time"

	"github.com/questparty/backend/internal/entity"
	"github.com/questparty/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, data *entity.Notification) error
	GetList(ctx context.Context, userID string, unreadOnly bool, offset, limit int) ([]entity.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationRepository struct{}

func NewNotificationRepository() *notificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) Create(ctx context.Context, data *entity.Notification) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *notificationRepository) GetList(
	ctx context.Context, userID string, unreadOnly bool, offset, limit int,
) ([]entity.Notification, error) {
	tx := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC")

	if unreadOnly {
		tx = tx.Where("is_read=?", false)
	}

	if limit > 0 {
		tx = tx.Offset(offset).Limit(limit)
	}

	var result []entity.Notification
	if err := tx.Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.Notification{}).
		Where("user_id=? AND is_read=?", userID, false).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Notification{}).
		Where("id=? AND user_id=?", id, userID).
		Updates(map[string]any{
			"is_read": true,
			"read_at": time.Now(),
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	return xcontext.DB(ctx).
		Model(&entity.Notification{}).
		Where("user_id=? AND is_read=?", userID, false).
		Updates(map[string]any{
			"is_read": true,
			"read_at": time.Now(),
		}).Error
}
