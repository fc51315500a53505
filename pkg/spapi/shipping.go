package spapi

import (
	"context"
	"fmt"
	"net/http"
)

// ==================== 自发货（Shipping API v2） ====================

// RateRequest 询价请求
type RateRequest struct {
	ShipFrom Address `json:"shipFrom"`
	ShipTo   Address `json:"shipTo"`
	Packages []struct {
		Dimensions struct {
			Length float64 `json:"length"`
			Width  float64 `json:"width"`
			Height float64 `json:"height"`
			Unit   string  `json:"unit"`
		} `json:"dimensions"`
		Weight struct {
			Value float64 `json:"value"`
			Unit  string  `json:"unit"`
		} `json:"weight"`
	} `json:"packages"`
}

// Rate 运费报价
type Rate struct {
	RateID        string `json:"rateId"`
	CarrierID     string `json:"carrierId"`
	CarrierName   string `json:"carrierName"`
	ServiceName   string `json:"serviceName"`
	TotalCharge   struct {
		Value float64 `json:"value"`
		Unit  string  `json:"unit"`
	} `json:"totalCharge"`
	PromisedDeliveryDate string `json:"promise,omitempty"`
}

// PurchasedShipment 购买面单结果
type PurchasedShipment struct {
	ShipmentID string `json:"shipmentId"`
	PackageDocumentDetails []struct {
		TrackingID        string `json:"trackingId"`
		PackageDocuments  []struct {
			Format   string `json:"format"`
			Contents string `json:"contents"` // base64
		} `json:"packageDocuments"`
	} `json:"packageDocumentDetails"`
}

// GetShippingRates 询价
func (c *Client) GetShippingRates(ctx context.Context, accessToken string, body *RateRequest) ([]Rate, string, error) {
	var resp struct {
		Payload struct {
			RequestToken string `json:"requestToken"`
			Rates        []Rate `json:"rates"`
		} `json:"payload"`
	}
	opts := &RequestOptions{Method: http.MethodPost, Body: body}
	if err := c.callInto(ctx, accessToken, "/shipping/v2/shipments/rates", opts, &resp); err != nil {
		return nil, "", err
	}
	return resp.Payload.Rates, resp.Payload.RequestToken, nil
}

// PurchaseShipment 按询价结果购买面单
func (c *Client) PurchaseShipment(ctx context.Context, accessToken, requestToken, rateID string) (*PurchasedShipment, error) {
	body := map[string]string{
		"requestToken": requestToken,
		"rateId":       rateID,
	}
	var resp struct {
		Payload PurchasedShipment `json:"payload"`
	}
	opts := &RequestOptions{Method: http.MethodPost, Body: body}
	if err := c.callInto(ctx, accessToken, "/shipping/v2/shipments", opts, &resp); err != nil {
		return nil, err
	}
	return &resp.Payload, nil
}

// GetTracking 查询包裹轨迹
func (c *Client) GetTracking(ctx context.Context, accessToken, trackingID, carrierID string) (map[string]interface{}, error) {
	params := Params{
		"trackingId": trackingID,
		"carrierId":  carrierID,
	}
	var resp struct {
		Payload map[string]interface{} `json:"payload"`
	}
	if err := c.callInto(ctx, accessToken, "/shipping/v2/tracking", &RequestOptions{Query: params}, &resp); err != nil {
		return nil, err
	}
	return resp.Payload, nil
}

// ==================== 费用预估（Product Fees v0） ====================

// FeesEstimate 费用预估结果
type FeesEstimate struct {
	Status        string `json:"Status"`
	TotalFeesEstimate *Money `json:"TotalFeesEstimate,omitempty"`
	FeeDetailList []struct {
		FeeType   string `json:"FeeType"`
		FeeAmount Money  `json:"FeeAmount"`
	} `json:"FeeDetailList,omitempty"`
}

// GetMyFeesEstimateForSKU 按 SKU 预估平台费用
func (c *Client) GetMyFeesEstimateForSKU(ctx context.Context, accessToken, sku, marketplaceID string, price Money) (*FeesEstimate, error) {
	body := map[string]interface{}{
		"FeesEstimateRequest": map[string]interface{}{
			"MarketplaceId": marketplaceID,
			"IsAmazonFulfilled": true,
			"Identifier":    sku,
			"PriceToEstimateFees": map[string]interface{}{
				"ListingPrice": price,
			},
		},
	}
	var resp struct {
		Payload struct {
			FeesEstimateResult FeesEstimate `json:"FeesEstimateResult"`
		} `json:"payload"`
	}
	path := fmt.Sprintf("/products/fees/v0/listings/%s/feesEstimate", sku)
	opts := &RequestOptions{Method: http.MethodPost, Body: body}
	if err := c.callInto(ctx, accessToken, path, opts, &resp); err != nil {
		return nil, err
	}
	return &resp.Payload.FeesEstimateResult, nil
}
