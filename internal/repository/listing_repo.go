package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"amazon_hub_v1_202608/internal/model"
)

// ListingRepository listing 仓储接口
type ListingRepository interface {
	Upsert(ctx context.Context, listing *model.Listing) error
	GetBySKU(ctx context.Context, userID int64, sku, channel string) (*model.Listing, error)
	ListByUser(ctx context.Context, userID int64, channel string) ([]model.Listing, error)
	Delete(ctx context.Context, userID int64, sku, channel string) error
}

type listingRepo struct {
	db *gorm.DB
}

// NewListingRepository 创建 listing 仓储
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepo{db: db}
}

// Upsert 按 (user_id, sku, channel) 冲突更新
func (r *listingRepo) Upsert(ctx context.Context, listing *model.Listing) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "sku"}, {Name: "channel"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"asin", "title", "product_type", "status",
				"price_amount", "currency_code", "attributes", "issues",
				"submission_id", "synced_at", "updated_at",
			}),
		}).
		Create(listing).Error
}

func (r *listingRepo) GetBySKU(ctx context.Context, userID int64, sku, channel string) (*model.Listing, error) {
	var listing model.Listing
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND sku = ? AND channel = ?", userID, sku, channel).
		First(&listing).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepo) ListByUser(ctx context.Context, userID int64, channel string) ([]model.Listing, error) {
	var listings []model.Listing
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if channel != "" {
		query = query.Where("channel = ?", channel)
	}
	err := query.Order("updated_at DESC").Find(&listings).Error
	return listings, err
}

func (r *listingRepo) Delete(ctx context.Context, userID int64, sku, channel string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND sku = ? AND channel = ?", userID, sku, channel).
		Delete(&model.Listing{}).Error
}
