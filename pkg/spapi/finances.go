package spapi

import (
	"context"
	"time"
)

// FinancialEventGroup 结算事件组（Finances API v0）
type FinancialEventGroup struct {
	FinancialEventGroupID    string `json:"FinancialEventGroupId"`
	ProcessingStatus         string `json:"ProcessingStatus"`
	FundTransferStatus       string `json:"FundTransferStatus,omitempty"`
	OriginalTotal            *Money `json:"OriginalTotal,omitempty"`
	ConvertedTotal           *Money `json:"ConvertedTotal,omitempty"`
	FinancialEventGroupStart string `json:"FinancialEventGroupStart,omitempty"`
	FinancialEventGroupEnd   string `json:"FinancialEventGroupEnd,omitempty"`
}

type eventGroupsEnvelope struct {
	Payload struct {
		FinancialEventGroupList []FinancialEventGroup `json:"FinancialEventGroupList"`
		NextToken               string                `json:"NextToken,omitempty"`
	} `json:"payload"`
}

// ShipmentEvent 发货结算事件（只取 dashboard 需要的字段）
type ShipmentEvent struct {
	AmazonOrderID string `json:"AmazonOrderId"`
	PostedDate    string `json:"PostedDate,omitempty"`
	ShipmentItemList []struct {
		SellerSKU       string `json:"SellerSKU,omitempty"`
		QuantityShipped int    `json:"QuantityShipped"`
	} `json:"ShipmentItemList,omitempty"`
}

type eventsEnvelope struct {
	Payload struct {
		FinancialEvents struct {
			ShipmentEventList []ShipmentEvent `json:"ShipmentEventList"`
		} `json:"FinancialEvents"`
		NextToken string `json:"NextToken,omitempty"`
	} `json:"payload"`
}

// ListFinancialEventGroups 列出结算事件组
func (c *Client) ListFinancialEventGroups(ctx context.Context, accessToken string, startedAfter time.Time) ([]FinancialEventGroup, error) {
	params := Params{}
	if !startedAfter.IsZero() {
		params["FinancialEventGroupStartedAfter"] = startedAfter.UTC().Format(time.RFC3339)
	}
	var env eventGroupsEnvelope
	if err := c.callInto(ctx, accessToken, "/finances/v0/financialEventGroups", &RequestOptions{Query: params}, &env); err != nil {
		return nil, err
	}
	return env.Payload.FinancialEventGroupList, nil
}

// ListFinancialEvents 列出时间窗内的结算事件
func (c *Client) ListFinancialEvents(ctx context.Context, accessToken string, postedAfter time.Time) ([]ShipmentEvent, error) {
	params := Params{}
	if !postedAfter.IsZero() {
		params["PostedAfter"] = postedAfter.UTC().Format(time.RFC3339)
	}
	var env eventsEnvelope
	if err := c.callInto(ctx, accessToken, "/finances/v0/financialEvents", &RequestOptions{Query: params}, &env); err != nil {
		return nil, err
	}
	return env.Payload.FinancialEvents.ShipmentEventList, nil
}
