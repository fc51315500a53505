package dto

// DashboardResponse 聚合看板
// 每个区块独立成败：某个接口失败只会在 Errors 里留一条记录，
// 对应区块降级为空值，不影响其他区块
type DashboardResponse struct {
	Connected bool     `json:"connected"`
	Errors    []string `json:"errors,omitempty"`

	Seller    *DashboardSeller    `json:"seller,omitempty"`
	Orders    DashboardOrders     `json:"orders"`
	Inventory DashboardInventory  `json:"inventory"`
	Finance   DashboardFinance    `json:"finance"`
}

// DashboardSeller 卖家概要
type DashboardSeller struct {
	StoreName      string   `json:"store_name,omitempty"`
	MarketplaceIDs []string `json:"marketplace_ids,omitempty"`
}

// DashboardOrders 订单区块
type DashboardOrders struct {
	TotalOrders  int     `json:"total_orders"`
	TotalRevenue float64 `json:"total_revenue"`
	Currency     string  `json:"currency,omitempty"`
	ShippedCount int     `json:"shipped_count"`
	PendingCount int     `json:"pending_count"`
}

// DashboardInventory 库存区块
type DashboardInventory struct {
	TotalUnits   int `json:"total_units"`
	DistinctSKUs int `json:"distinct_skus"`
}

// DashboardFinance 结算区块
type DashboardFinance struct {
	EventGroupCount int     `json:"event_group_count"`
	LatestTotal     float64 `json:"latest_total"`
	Currency        string  `json:"currency,omitempty"`
}
