package spapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ==================== 数据结构 ====================

// ListingsItem 在线 listing（Listings Items API 2021-08-01）
type ListingsItem struct {
	SKU       string            `json:"sku"`
	Summaries []ListingsSummary `json:"summaries,omitempty"`
	Issues    []Issue           `json:"issues,omitempty"`
	// attributes 结构因商品类型差异巨大，原样保留
	Attributes json.RawMessage `json:"attributes,omitempty"`
}

// ListingsSummary listing 概要
type ListingsSummary struct {
	MarketplaceID string   `json:"marketplaceId"`
	ASIN          string   `json:"asin,omitempty"`
	ProductType   string   `json:"productType,omitempty"`
	ItemName      string   `json:"itemName,omitempty"`
	Status        []string `json:"status,omitempty"`
	CreatedDate   string   `json:"createdDate,omitempty"`
}

// ListingsSubmission PUT/PATCH/DELETE 的返回
// issues 原样透传，调用方必须检查是否含 ERROR 级条目
// status=ACCEPTED 仅表示已受理，不代表无警告
type ListingsSubmission struct {
	SKU          string  `json:"sku"`
	Status       string  `json:"status"`
	SubmissionID string  `json:"submissionId"`
	Issues       []Issue `json:"issues,omitempty"`
}

// ListingsPutBody 创建/全量更新请求体
type ListingsPutBody struct {
	ProductType  string                 `json:"productType"`
	Requirements string                 `json:"requirements,omitempty"`
	Attributes   map[string]interface{} `json:"attributes"`
}

// ListingsPatchOp 局部更新操作
type ListingsPatchOp struct {
	Op    string        `json:"op"` // add / replace / delete
	Path  string        `json:"path"`
	Value []interface{} `json:"value,omitempty"`
}

// ==================== 接口封装 ====================

func listingsPath(sellerID, sku string) string {
	return fmt.Sprintf("/listings/2021-08-01/items/%s/%s", sellerID, sku)
}

// GetListingsItem 获取 listing 详情
func (c *Client) GetListingsItem(ctx context.Context, accessToken, sellerID, sku string, marketplaceIDs []string) (*ListingsItem, error) {
	params := Params{
		"marketplaceIds": strings.Join(marketplaceIDs, ","),
		"includedData":   "summaries,issues,attributes",
	}
	var item ListingsItem
	if err := c.callInto(ctx, accessToken, listingsPath(sellerID, sku), &RequestOptions{Query: params}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// PutListingsItem 创建或整体替换 listing
func (c *Client) PutListingsItem(ctx context.Context, accessToken, sellerID, sku string, marketplaceIDs []string, body *ListingsPutBody) (*ListingsSubmission, error) {
	params := Params{"marketplaceIds": strings.Join(marketplaceIDs, ",")}
	var sub ListingsSubmission
	opts := &RequestOptions{Method: http.MethodPut, Query: params, Body: body}
	if err := c.callInto(ctx, accessToken, listingsPath(sellerID, sku), opts, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// PatchListingsItem 局部更新 listing（改价、改库存等）
func (c *Client) PatchListingsItem(ctx context.Context, accessToken, sellerID, sku string, marketplaceIDs []string, productType string, patches []ListingsPatchOp) (*ListingsSubmission, error) {
	params := Params{"marketplaceIds": strings.Join(marketplaceIDs, ",")}
	body := map[string]interface{}{
		"productType": productType,
		"patches":     patches,
	}
	var sub ListingsSubmission
	opts := &RequestOptions{Method: http.MethodPatch, Query: params, Body: body}
	if err := c.callInto(ctx, accessToken, listingsPath(sellerID, sku), opts, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// DeleteListingsItem 下架 listing
func (c *Client) DeleteListingsItem(ctx context.Context, accessToken, sellerID, sku string, marketplaceIDs []string) (*ListingsSubmission, error) {
	params := Params{"marketplaceIds": strings.Join(marketplaceIDs, ",")}
	var sub ListingsSubmission
	opts := &RequestOptions{Method: http.MethodDelete, Query: params}
	if err := c.callInto(ctx, accessToken, listingsPath(sellerID, sku), opts, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}
