package model

import "time"

// FinancialEvent 结算事件组镜像
// 自然键 (user_id, event_group_id)
type FinancialEvent struct {
	BaseModel

	UserID       int64  `gorm:"index;uniqueIndex:idx_user_finevent;not null"`
	EventGroupID string `gorm:"size:64;uniqueIndex:idx_user_finevent;not null"`

	ProcessingStatus   string `gorm:"size:20"`
	FundTransferStatus string `gorm:"size:20"`

	OriginalAmount  int64  `gorm:"default:0;comment:结算总额(分)"`
	ConvertedAmount int64  `gorm:"default:0"`
	CurrencyCode    string `gorm:"size:8"`

	PeriodStart *time.Time
	PeriodEnd   *time.Time
	SyncedAt    *time.Time
}

func (FinancialEvent) TableName() string {
	return "financial_events"
}
