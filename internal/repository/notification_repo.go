package repository

import (
	"context"

	"gorm.io/gorm"

	"amazon_hub_v1_202608/internal/model"
)

// NotificationRepository 通知仓储接口
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, userID int64, ids []int64) error
}

type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知仓储
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, n *model.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	var list []model.Notification
	err := query.Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, userID int64, ids []int64) error {
	query := r.db.WithContext(ctx).Model(&model.Notification{}).Where("user_id = ?", userID)
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}
	return query.Update("is_read", true).Error
}
