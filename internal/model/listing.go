package model

import (
	"time"

	"gorm.io/datatypes"
)

// Listing 本地 listing 镜像
// 自然键 (user_id, sku, channel)
type Listing struct {
	BaseModel

	UserID  int64  `gorm:"index;uniqueIndex:idx_user_listing;not null"`
	SKU     string `gorm:"size:64;uniqueIndex:idx_user_listing;not null"`
	Channel string `gorm:"size:20;uniqueIndex:idx_user_listing;default:'Amazon'"`

	ASIN        string `gorm:"size:16;index"`
	Title       string `gorm:"size:512"`
	ProductType string `gorm:"size:64"`
	Status      string `gorm:"size:32;index"`

	PriceAmount  int64  `gorm:"default:0;comment:售价(分)"`
	CurrencyCode string `gorm:"size:8"`

	// 商品属性及最近一次提交返回的 issues，原样保留
	Attributes datatypes.JSON `gorm:"type:jsonb"`
	Issues     datatypes.JSON `gorm:"type:jsonb"`

	SubmissionID string `gorm:"size:64"`
	SyncedAt     *time.Time
}

func (Listing) TableName() string {
	return "listings"
}
