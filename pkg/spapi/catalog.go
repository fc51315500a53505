package spapi

import (
	"context"
	"fmt"
	"strings"
)

// CatalogItem 商品目录条目（Catalog Items API 2022-04-01）
type CatalogItem struct {
	ASIN      string `json:"asin"`
	Summaries []struct {
		MarketplaceID string `json:"marketplaceId"`
		ItemName      string `json:"itemName,omitempty"`
		Brand         string `json:"brand,omitempty"`
		ProductType   string `json:"productType,omitempty"`
	} `json:"summaries,omitempty"`
	Images []struct {
		MarketplaceID string `json:"marketplaceId"`
		Images        []struct {
			Link   string `json:"link"`
			Height int    `json:"height"`
			Width  int    `json:"width"`
		} `json:"images"`
	} `json:"images,omitempty"`
}

// CatalogSearchResult 目录搜索结果
type CatalogSearchResult struct {
	NumberOfResults int           `json:"numberOfResults"`
	Items           []CatalogItem `json:"items"`
}

// SearchCatalogItems 按关键词搜索商品目录
// listing 向导用它做 ASIN 匹配
func (c *Client) SearchCatalogItems(ctx context.Context, accessToken, keywords string, marketplaceIDs []string) (*CatalogSearchResult, error) {
	params := Params{
		"keywords":       keywords,
		"marketplaceIds": strings.Join(marketplaceIDs, ","),
		"includedData":   "summaries,images",
	}
	var result CatalogSearchResult
	if err := c.callInto(ctx, accessToken, "/catalog/2022-04-01/items", &RequestOptions{Query: params}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetCatalogItem 按 ASIN 获取目录条目
func (c *Client) GetCatalogItem(ctx context.Context, accessToken, asin string, marketplaceIDs []string) (*CatalogItem, error) {
	params := Params{
		"marketplaceIds": strings.Join(marketplaceIDs, ","),
		"includedData":   "summaries,images",
	}
	var item CatalogItem
	path := fmt.Sprintf("/catalog/2022-04-01/items/%s", asin)
	if err := c.callInto(ctx, accessToken, path, &RequestOptions{Query: params}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}
