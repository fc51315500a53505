package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"amazon_hub_v1_202608/internal/model"
)

// ==================== 过滤条件 ====================

// OrderFilter 订单查询条件
type OrderFilter struct {
	UserID    int64
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	PageSize  int
}

// ==================== 接口定义 ====================

// OrderRepository 订单仓储接口
type OrderRepository interface {
	Upsert(ctx context.Context, order *model.Order) error
	UpsertItems(ctx context.Context, items []model.OrderItem) error
	GetByAmazonOrderID(ctx context.Context, userID int64, amazonOrderID string) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error)
	CountByStatus(ctx context.Context, userID int64, statuses ...string) (int64, error)
}

type orderRepo struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepo{db: db}
}

// Upsert 按 (user_id, amazon_order_id) 冲突更新
// 同步是幂等的，两次并发写同一行是 last-write-wins，可接受
func (r *orderRepo) Upsert(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "amazon_order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "fulfillment_channel", "sales_channel",
				"total_amount", "currency_code", "items_shipped", "items_unshipped",
				"purchase_date", "synced_at", "raw_data", "updated_at",
			}),
		}).
		Create(order).Error
}

// UpsertItems 按 order_item_id 冲突更新行项目
func (r *orderRepo) UpsertItems(ctx context.Context, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "order_item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"quantity_ordered", "quantity_shipped", "price_amount", "updated_at",
			}),
		}).
		Create(&items).Error
}

func (r *orderRepo) GetByAmazonOrderID(ctx context.Context, userID int64, amazonOrderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ? AND amazon_order_id = ?", userID, amazonOrderID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) List(ctx context.Context, filter OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Order{}).Where("user_id = ?", filter.UserID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StartDate != nil {
		query = query.Where("purchase_date >= ?", filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("purchase_date <= ?", filter.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	offset := (filter.Page - 1) * filter.PageSize
	if err := query.Order("purchase_date DESC").Limit(filter.PageSize).Offset(offset).Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *orderRepo) CountByStatus(ctx context.Context, userID int64, statuses ...string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("user_id = ? AND status IN ?", userID, statuses).
		Count(&count).Error
	return count, err
}
