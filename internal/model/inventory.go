package model

import "time"

// InventoryItem 本地库存镜像
// 自然键 (user_id, sku, channel)
type InventoryItem struct {
	BaseModel

	UserID  int64  `gorm:"index;uniqueIndex:idx_user_sku_channel;not null"`
	SKU     string `gorm:"size:64;uniqueIndex:idx_user_sku_channel;not null"`
	Channel string `gorm:"size:20;uniqueIndex:idx_user_sku_channel;default:'Amazon'"`

	ASIN        string `gorm:"size:16;index"`
	FnSKU       string `gorm:"size:32"`
	ProductName string `gorm:"size:512"`
	Condition   string `gorm:"size:32"`

	TotalQuantity       int `gorm:"default:0"`
	FulfillableQuantity int `gorm:"default:0"`
	InboundQuantity     int `gorm:"default:0"`

	SyncedAt *time.Time `gorm:"comment:最后同步时间"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}
