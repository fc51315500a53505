package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"amazon_hub_v1_202608/internal/model"
)

// FinanceRepository 结算事件仓储接口
type FinanceRepository interface {
	Upsert(ctx context.Context, event *model.FinancialEvent) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]model.FinancialEvent, error)
}

type financeRepo struct {
	db *gorm.DB
}

// NewFinanceRepository 创建结算事件仓储
func NewFinanceRepository(db *gorm.DB) FinanceRepository {
	return &financeRepo{db: db}
}

// Upsert 按 (user_id, event_group_id) 冲突更新
func (r *financeRepo) Upsert(ctx context.Context, event *model.FinancialEvent) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "event_group_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"processing_status", "fund_transfer_status",
				"original_amount", "converted_amount", "currency_code",
				"period_start", "period_end", "synced_at", "updated_at",
			}),
		}).
		Create(event).Error
}

func (r *financeRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]model.FinancialEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []model.FinancialEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("period_start DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
