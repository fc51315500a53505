package spapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// ==================== 入库（FBA Inbound v0） ====================

// InboundShipmentHeader 入库货件头
type InboundShipmentHeader struct {
	ShipmentName          string `json:"ShipmentName"`
	ShipFromAddress       Address `json:"ShipFromAddress"`
	DestinationFulfillmentCenterID string `json:"DestinationFulfillmentCenterId"`
	ShipmentStatus        string `json:"ShipmentStatus"`
	LabelPrepPreference   string `json:"LabelPrepPreference,omitempty"`
}

// InboundShipmentItem 入库货件条目
type InboundShipmentItem struct {
	SellerSKU       string `json:"SellerSKU"`
	QuantityShipped int    `json:"QuantityShipped"`
}

// InboundShipmentRequest 创建/更新入库货件请求体
type InboundShipmentRequest struct {
	InboundShipmentHeader InboundShipmentHeader `json:"InboundShipmentHeader"`
	InboundShipmentItems  []InboundShipmentItem `json:"InboundShipmentItems"`
	MarketplaceID         string                `json:"MarketplaceId"`
}

// InboundShipmentInfo 货件信息
type InboundShipmentInfo struct {
	ShipmentID     string `json:"ShipmentId"`
	ShipmentName   string `json:"ShipmentName,omitempty"`
	ShipmentStatus string `json:"ShipmentStatus,omitempty"`
	DestinationFulfillmentCenterID string `json:"DestinationFulfillmentCenterId,omitempty"`
}

type inboundShipmentResultEnvelope struct {
	Payload struct {
		ShipmentID string `json:"ShipmentId"`
	} `json:"payload"`
}

type inboundShipmentsEnvelope struct {
	Payload struct {
		ShipmentData []InboundShipmentInfo `json:"ShipmentData"`
		NextToken    string                `json:"NextToken,omitempty"`
	} `json:"payload"`
}

// CreateInboundShipment 创建入库货件
func (c *Client) CreateInboundShipment(ctx context.Context, accessToken, shipmentID string, body *InboundShipmentRequest) (string, error) {
	var env inboundShipmentResultEnvelope
	path := fmt.Sprintf("/fba/inbound/v0/shipments/%s", shipmentID)
	opts := &RequestOptions{Method: http.MethodPost, Body: body}
	if err := c.callInto(ctx, accessToken, path, opts, &env); err != nil {
		return "", err
	}
	return env.Payload.ShipmentID, nil
}

// UpdateInboundShipment 更新入库货件
func (c *Client) UpdateInboundShipment(ctx context.Context, accessToken, shipmentID string, body *InboundShipmentRequest) (string, error) {
	var env inboundShipmentResultEnvelope
	path := fmt.Sprintf("/fba/inbound/v0/shipments/%s", shipmentID)
	opts := &RequestOptions{Method: http.MethodPut, Body: body}
	if err := c.callInto(ctx, accessToken, path, opts, &env); err != nil {
		return "", err
	}
	return env.Payload.ShipmentID, nil
}

// GetInboundShipments 按状态列出入库货件
func (c *Client) GetInboundShipments(ctx context.Context, accessToken, marketplaceID string, statuses []string) ([]InboundShipmentInfo, error) {
	params := Params{
		"QueryType":      "SHIPMENT",
		"MarketplaceId":  marketplaceID,
		"ShipmentStatusList": strings.Join(statuses, ","),
	}
	var env inboundShipmentsEnvelope
	if err := c.callInto(ctx, accessToken, "/fba/inbound/v0/shipments", &RequestOptions{Query: params}, &env); err != nil {
		return nil, err
	}
	return env.Payload.ShipmentData, nil
}

// GetInboundLabels 获取货件标签（返回可下载的 URL）
func (c *Client) GetInboundLabels(ctx context.Context, accessToken, shipmentID, pageType, labelType string) (string, error) {
	params := Params{
		"PageType":  pageType,
		"LabelType": labelType,
	}
	var env struct {
		Payload struct {
			DownloadURL string `json:"DownloadURL"`
		} `json:"payload"`
	}
	path := fmt.Sprintf("/fba/inbound/v0/shipments/%s/labels", shipmentID)
	if err := c.callInto(ctx, accessToken, path, &RequestOptions{Query: params}, &env); err != nil {
		return "", err
	}
	return env.Payload.DownloadURL, nil
}

// GetInboundTransport 获取货件运输详情
func (c *Client) GetInboundTransport(ctx context.Context, accessToken, shipmentID string) (map[string]interface{}, error) {
	var env struct {
		Payload map[string]interface{} `json:"payload"`
	}
	path := fmt.Sprintf("/fba/inbound/v0/shipments/%s/transport", shipmentID)
	if err := c.callInto(ctx, accessToken, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Payload, nil
}

// ==================== 出库（FBA Outbound 2020-07-01） ====================

// FulfillmentPreviewRequest 多渠道履约预览请求
type FulfillmentPreviewRequest struct {
	MarketplaceID string  `json:"marketplaceId"`
	Address       Address `json:"address"`
	Items         []struct {
		SellerSKU string `json:"sellerSku"`
		Quantity  int    `json:"quantity"`
		SellerFulfillmentOrderItemID string `json:"sellerFulfillmentOrderItemId"`
	} `json:"items"`
}

// FulfillmentPreview 履约预览结果
type FulfillmentPreview struct {
	ShippingSpeedCategory string `json:"shippingSpeedCategory"`
	IsFulfillable         bool   `json:"isFulfillable"`
	EstimatedFees         []struct {
		Name   string `json:"name"`
		Amount struct {
			CurrencyCode string `json:"currencyCode"`
			Value        string `json:"value"`
		} `json:"amount"`
	} `json:"estimatedFees,omitempty"`
}

// GetFulfillmentPreview 获取多渠道履约预览
func (c *Client) GetFulfillmentPreview(ctx context.Context, accessToken string, body *FulfillmentPreviewRequest) ([]FulfillmentPreview, error) {
	var env struct {
		Payload struct {
			FulfillmentPreviews []FulfillmentPreview `json:"fulfillmentPreviews"`
		} `json:"payload"`
	}
	opts := &RequestOptions{Method: http.MethodPost, Body: body}
	if err := c.callInto(ctx, accessToken, "/fba/outbound/2020-07-01/fulfillmentOrders/preview", opts, &env); err != nil {
		return nil, err
	}
	return env.Payload.FulfillmentPreviews, nil
}
