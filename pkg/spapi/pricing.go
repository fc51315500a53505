package spapi

import (
	"context"
	"fmt"
	"strings"
)

// CompetitivePrice 竞争定价条目（Product Pricing API v0）
type CompetitivePrice struct {
	ASIN    string `json:"ASIN"`
	Status  string `json:"status"`
	Product struct {
		CompetitivePricing struct {
			CompetitivePrices []struct {
				CompetitivePriceID string `json:"CompetitivePriceId"`
				Price              struct {
					ListingPrice Money `json:"ListingPrice"`
					Shipping     Money `json:"Shipping"`
				} `json:"Price"`
			} `json:"CompetitivePrices"`
		} `json:"CompetitivePricing"`
	} `json:"Product"`
}

type competitivePricingEnvelope struct {
	Payload []CompetitivePrice `json:"payload"`
}

// ItemOffers 商品报价汇总
type ItemOffers struct {
	ASIN   string `json:"ASIN"`
	Status string `json:"status"`
	Summary struct {
		TotalOfferCount int `json:"TotalOfferCount"`
		LowestPrices    []struct {
			Condition    string `json:"condition"`
			ListingPrice Money  `json:"ListingPrice"`
		} `json:"LowestPrices"`
		BuyBoxPrices []struct {
			Condition    string `json:"condition"`
			ListingPrice Money  `json:"ListingPrice"`
		} `json:"BuyBoxPrices,omitempty"`
	} `json:"Summary"`
}

type itemOffersEnvelope struct {
	Payload ItemOffers `json:"payload"`
}

// GetCompetitivePricing 批量获取 ASIN 竞争定价
// Asins 参数是逗号连接的列表，依赖网关的非转义序列化
func (c *Client) GetCompetitivePricing(ctx context.Context, accessToken, marketplaceID string, asins []string) ([]CompetitivePrice, error) {
	params := Params{
		"MarketplaceId": marketplaceID,
		"Asins":         strings.Join(asins, ","),
		"ItemType":      "Asin",
	}
	var env competitivePricingEnvelope
	if err := c.callInto(ctx, accessToken, "/products/pricing/v0/competitivePrice", &RequestOptions{Query: params}, &env); err != nil {
		return nil, err
	}
	return env.Payload, nil
}

// GetItemOffers 获取单个 ASIN 的报价汇总（含 BuyBox）
func (c *Client) GetItemOffers(ctx context.Context, accessToken, marketplaceID, asin, condition string) (*ItemOffers, error) {
	if condition == "" {
		condition = "New"
	}
	params := Params{
		"MarketplaceId": marketplaceID,
		"ItemCondition": condition,
	}
	var env itemOffersEnvelope
	path := fmt.Sprintf("/products/pricing/v0/items/%s/offers", asin)
	if err := c.callInto(ctx, accessToken, path, &RequestOptions{Query: params}, &env); err != nil {
		return nil, err
	}
	return &env.Payload, nil
}
