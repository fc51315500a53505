package spapi

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ==================== 数据结构 ====================

// Order 订单（Orders API v0）
type Order struct {
	AmazonOrderID          string   `json:"AmazonOrderId"`
	PurchaseDate           string   `json:"PurchaseDate"`
	LastUpdateDate         string   `json:"LastUpdateDate"`
	OrderStatus            string   `json:"OrderStatus"`
	FulfillmentChannel     string   `json:"FulfillmentChannel,omitempty"`
	SalesChannel           string   `json:"SalesChannel,omitempty"`
	OrderTotal             *Money   `json:"OrderTotal,omitempty"`
	NumberOfItemsShipped   int      `json:"NumberOfItemsShipped"`
	NumberOfItemsUnshipped int      `json:"NumberOfItemsUnshipped"`
	MarketplaceID          string   `json:"MarketplaceId,omitempty"`
	BuyerInfo              *Buyer   `json:"BuyerInfo,omitempty"`
	ShippingAddress        *Address `json:"ShippingAddress,omitempty"`
	IsPrime                bool     `json:"IsPrime,omitempty"`
	IsBusinessOrder        bool     `json:"IsBusinessOrder,omitempty"`
}

// Buyer 买家信息（受限数据，多数场景只有邮箱别名）
type Buyer struct {
	BuyerEmail string `json:"BuyerEmail,omitempty"`
	BuyerName  string `json:"BuyerName,omitempty"`
}

// OrderItem 订单行项目
type OrderItem struct {
	ASIN            string `json:"ASIN"`
	SellerSKU       string `json:"SellerSKU,omitempty"`
	OrderItemID     string `json:"OrderItemId"`
	Title           string `json:"Title,omitempty"`
	QuantityOrdered int    `json:"QuantityOrdered"`
	QuantityShipped int    `json:"QuantityShipped"`
	ItemPrice       *Money `json:"ItemPrice,omitempty"`
	ItemTax         *Money `json:"ItemTax,omitempty"`
}

// OrdersPage 单页订单结果
type OrdersPage struct {
	Orders    []Order `json:"Orders"`
	NextToken string  `json:"NextToken,omitempty"`
}

// OrderItemsPage 订单行项目结果
type OrderItemsPage struct {
	AmazonOrderID string      `json:"AmazonOrderId"`
	OrderItems    []OrderItem `json:"OrderItems"`
	NextToken     string      `json:"NextToken,omitempty"`
}

type ordersEnvelope struct {
	Payload OrdersPage `json:"payload"`
}

type orderEnvelope struct {
	Payload Order `json:"payload"`
}

type orderItemsEnvelope struct {
	Payload OrderItemsPage `json:"payload"`
}

// OrdersQuery 订单查询条件
type OrdersQuery struct {
	MarketplaceIDs []string
	CreatedAfter   time.Time
	OrderStatuses  []string
	NextToken      string
	MaxPerPage     int // 0 取亚马逊默认值
}

// ==================== 接口封装 ====================

// GetOrders 拉取单页订单
// NextToken 存在时亚马逊要求只带 NextToken + MarketplaceIds
func (c *Client) GetOrders(ctx context.Context, accessToken string, q *OrdersQuery) (*OrdersPage, error) {
	params := Params{
		"MarketplaceIds": strings.Join(q.MarketplaceIDs, ","),
	}
	if q.NextToken != "" {
		params["NextToken"] = q.NextToken
	} else {
		if !q.CreatedAfter.IsZero() {
			params["CreatedAfter"] = q.CreatedAfter.UTC().Format(time.RFC3339)
		}
		if len(q.OrderStatuses) > 0 {
			params["OrderStatuses"] = strings.Join(q.OrderStatuses, ",")
		}
		if q.MaxPerPage > 0 {
			params["MaxResultsPerPage"] = fmt.Sprintf("%d", q.MaxPerPage)
		}
	}

	var env ordersEnvelope
	if err := c.callInto(ctx, accessToken, "/orders/v0/orders", &RequestOptions{Query: params}, &env); err != nil {
		return nil, err
	}
	return &env.Payload, nil
}

// GetAllOrders 沿 NextToken 顺序翻页，聚合所有订单
// 翻页必须串行：每一页依赖上一页返回的游标
// 累计条数达到 MaxOrders 上限后停止，防止游标异常导致无限循环
func (c *Client) GetAllOrders(ctx context.Context, accessToken string, q *OrdersQuery) ([]Order, error) {
	var all []Order
	query := *q
	query.NextToken = ""

	for {
		page, err := c.GetOrders(ctx, accessToken, &query)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Orders...)

		if page.NextToken == "" || len(all) >= c.cfg.MaxOrders {
			break
		}
		query.NextToken = page.NextToken
	}

	if len(all) > c.cfg.MaxOrders {
		all = all[:c.cfg.MaxOrders]
	}
	return all, nil
}

// GetOrder 获取单个订单
func (c *Client) GetOrder(ctx context.Context, accessToken, amazonOrderID string) (*Order, error) {
	var env orderEnvelope
	path := fmt.Sprintf("/orders/v0/orders/%s", amazonOrderID)
	if err := c.callInto(ctx, accessToken, path, nil, &env); err != nil {
		return nil, err
	}
	return &env.Payload, nil
}

// GetOrderItems 获取订单行项目
func (c *Client) GetOrderItems(ctx context.Context, accessToken, amazonOrderID string) (*OrderItemsPage, error) {
	var env orderItemsEnvelope
	path := fmt.Sprintf("/orders/v0/orders/%s/orderItems", amazonOrderID)
	if err := c.callInto(ctx, accessToken, path, nil, &env); err != nil {
		return nil, err
	}
	return &env.Payload, nil
}
