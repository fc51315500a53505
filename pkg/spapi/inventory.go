package spapi

import (
	"context"
	"strings"
)

// ==================== 数据结构 ====================

// InventorySummary FBA 库存摘要（FBA Inventory API v1）
type InventorySummary struct {
	ASIN             string            `json:"asin"`
	FnSKU            string            `json:"fnSku"`
	SellerSKU        string            `json:"sellerSku"`
	Condition        string            `json:"condition"`
	ProductName      string            `json:"productName,omitempty"`
	TotalQuantity    int               `json:"totalQuantity"`
	InventoryDetails *InventoryDetails `json:"inventoryDetails,omitempty"`
	LastUpdatedTime  string            `json:"lastUpdatedTime,omitempty"`
}

// InventoryDetails 库存明细
type InventoryDetails struct {
	FulfillableQuantity      int `json:"fulfillableQuantity"`
	InboundWorkingQuantity   int `json:"inboundWorkingQuantity"`
	InboundShippedQuantity   int `json:"inboundShippedQuantity"`
	InboundReceivingQuantity int `json:"inboundReceivingQuantity"`
}

// InventoryPage 单页库存结果
type InventoryPage struct {
	Summaries []InventorySummary
	NextToken string
}

type inventoryEnvelope struct {
	Payload struct {
		InventorySummaries []InventorySummary `json:"inventorySummaries"`
	} `json:"payload"`
	Pagination *struct {
		NextToken string `json:"nextToken"`
	} `json:"pagination,omitempty"`
}

// InventoryQuery 库存查询条件
type InventoryQuery struct {
	MarketplaceIDs []string
	SellerSKUs     []string
	Details        bool
	NextToken      string
}

// ==================== 接口封装 ====================

// GetInventorySummaries 拉取单页 FBA 库存摘要
func (c *Client) GetInventorySummaries(ctx context.Context, accessToken string, q *InventoryQuery) (*InventoryPage, error) {
	params := Params{
		"granularityType": "Marketplace",
		"marketplaceIds":  strings.Join(q.MarketplaceIDs, ","),
	}
	if len(q.MarketplaceIDs) > 0 {
		params["granularityId"] = q.MarketplaceIDs[0]
	}
	if q.Details {
		params["details"] = "true"
	}
	if len(q.SellerSKUs) > 0 {
		params["sellerSkus"] = strings.Join(q.SellerSKUs, ",")
	}
	if q.NextToken != "" {
		params["nextToken"] = q.NextToken
	}

	var env inventoryEnvelope
	if err := c.callInto(ctx, accessToken, "/fba/inventory/v1/summaries", &RequestOptions{Query: params}, &env); err != nil {
		return nil, err
	}

	page := &InventoryPage{Summaries: env.Payload.InventorySummaries}
	if env.Pagination != nil {
		page.NextToken = env.Pagination.NextToken
	}
	return page, nil
}

// GetAllFbaInventory 串行翻页聚合全部 FBA 库存
// 上限 MaxInventoryRows，兜底防跑飞，见 GetAllOrders 的说明
func (c *Client) GetAllFbaInventory(ctx context.Context, accessToken string, q *InventoryQuery) ([]InventorySummary, error) {
	var all []InventorySummary
	query := *q
	query.NextToken = ""

	for {
		page, err := c.GetInventorySummaries(ctx, accessToken, &query)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Summaries...)

		if page.NextToken == "" || len(all) >= c.cfg.MaxInventoryRows {
			break
		}
		query.NextToken = page.NextToken
	}

	if len(all) > c.cfg.MaxInventoryRows {
		all = all[:c.cfg.MaxInventoryRows]
	}
	return all, nil
}
