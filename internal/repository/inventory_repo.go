package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"amazon_hub_v1_202608/internal/model"
)

// InventoryRepository 库存仓储接口
type InventoryRepository interface {
	Upsert(ctx context.Context, item *model.InventoryItem) error
	ListByUser(ctx context.Context, userID int64, channel string) ([]model.InventoryItem, error)
	GetBySKU(ctx context.Context, userID int64, sku, channel string) (*model.InventoryItem, error)
}

type inventoryRepo struct {
	db *gorm.DB
}

// NewInventoryRepository 创建库存仓储
func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepo{db: db}
}

// Upsert 按 (user_id, sku, channel) 冲突更新
func (r *inventoryRepo) Upsert(ctx context.Context, item *model.InventoryItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "sku"}, {Name: "channel"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"asin", "fn_sku", "product_name", "condition",
				"total_quantity", "fulfillable_quantity", "inbound_quantity",
				"synced_at", "updated_at",
			}),
		}).
		Create(item).Error
}

func (r *inventoryRepo) ListByUser(ctx context.Context, userID int64, channel string) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if channel != "" {
		query = query.Where("channel = ?", channel)
	}
	err := query.Order("sku ASC").Find(&items).Error
	return items, err
}

func (r *inventoryRepo) GetBySKU(ctx context.Context, userID int64, sku, channel string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND sku = ? AND channel = ?", userID, sku, channel).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}
