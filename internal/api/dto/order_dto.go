package dto

import "time"

// ListOrdersRequest 本地订单列表查询
type ListOrdersRequest struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// OrderListItem 订单列表行
type OrderListItem struct {
	ID             int64      `json:"id"`
	AmazonOrderID  string     `json:"amazon_order_id"`
	Status         string     `json:"status"`
	TotalAmount    float64    `json:"total_amount"`
	Currency       string     `json:"currency"`
	ItemsShipped   int        `json:"items_shipped"`
	ItemsUnshipped int        `json:"items_unshipped"`
	PurchaseDate   *time.Time `json:"purchase_date,omitempty"`
	SyncedAt       *time.Time `json:"synced_at,omitempty"`
}

// ListOrdersResponse 订单列表响应
type ListOrdersResponse struct {
	Total int64           `json:"total"`
	List  []OrderListItem `json:"list"`
}

// SyncOrdersRequest 订单同步请求
type SyncOrdersRequest struct {
	Days int `json:"days"` // 同步最近 N 天，默认 30
}

// SyncOrdersResponse 订单同步结果
type SyncOrdersResponse struct {
	TotalFetched int      `json:"total_fetched"`
	Upserted     int      `json:"upserted"`
	Errors       []string `json:"errors,omitempty"`
}
