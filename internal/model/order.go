package model

import (
	"time"

	"gorm.io/datatypes"
)

// 订单状态（亚马逊原始状态直接落库）
const (
	OrderStatusPending          = "Pending"
	OrderStatusUnshipped        = "Unshipped"
	OrderStatusPartiallyShipped = "PartiallyShipped"
	OrderStatusShipped          = "Shipped"
	OrderStatusCanceled         = "Canceled"
)

// Order 本地订单镜像
// 以 (user_id, amazon_order_id) 为自然键 upsert
// 平台 API 是唯一事实来源，本地行只是尽力而为的缓存，不保证完整和实时
type Order struct {
	BaseModel

	UserID        int64  `gorm:"index;uniqueIndex:idx_user_amzorder;not null"`
	AmazonOrderID string `gorm:"size:32;uniqueIndex:idx_user_amzorder;not null"`
	Channel       string `gorm:"size:20;default:'Amazon'"`
	MarketplaceID string `gorm:"size:32"`

	Status             string `gorm:"size:32;index"`
	FulfillmentChannel string `gorm:"size:16"`
	SalesChannel       string `gorm:"size:64"`

	// 金额按字符串解析后以分存储，解析失败则置 0 保留原文
	TotalAmount  int64  `gorm:"default:0;comment:订单总额(分)"`
	CurrencyCode string `gorm:"size:8"`

	ItemsShipped   int `gorm:"default:0"`
	ItemsUnshipped int `gorm:"default:0"`

	PurchaseDate *time.Time
	SyncedAt     *time.Time `gorm:"comment:最后同步时间"`

	// 平台原始返回，排查问题用
	RawData datatypes.JSON `gorm:"type:jsonb"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

// OrderItem 订单行项目镜像
type OrderItem struct {
	BaseModel

	OrderID     int64  `gorm:"index;not null"`
	OrderItemID string `gorm:"size:32;uniqueIndex"`

	ASIN      string `gorm:"size:16;index"`
	SellerSKU string `gorm:"size:64;index"`
	Title     string `gorm:"size:512"`

	QuantityOrdered int   `gorm:"default:0"`
	QuantityShipped int   `gorm:"default:0"`
	PriceAmount     int64 `gorm:"default:0;comment:单项金额(分)"`
	CurrencyCode    string `gorm:"size:8"`
}

// IsPending 是否属于 dashboard 统计口径里的待发货
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusUnshipped || o.Status == OrderStatusPartiallyShipped
}

func (Order) TableName() string {
	return "orders"
}

func (OrderItem) TableName() string {
	return "order_items"
}
