package spapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// MessagingAction 可对订单执行的消息动作（Messaging API v1）
type MessagingAction struct {
	Name string `json:"name"`
}

// GetMessagingActions 查询某订单允许的消息类型
func (c *Client) GetMessagingActions(ctx context.Context, accessToken, amazonOrderID string, marketplaceIDs []string) ([]MessagingAction, error) {
	params := Params{"marketplaceIds": strings.Join(marketplaceIDs, ",")}
	var resp struct {
		Links struct {
			Actions []struct {
				Name string `json:"name"`
			} `json:"actions"`
		} `json:"_links"`
	}
	path := fmt.Sprintf("/messaging/v1/orders/%s", amazonOrderID)
	if err := c.callInto(ctx, accessToken, path, &RequestOptions{Query: params}, &resp); err != nil {
		return nil, err
	}

	actions := make([]MessagingAction, 0, len(resp.Links.Actions))
	for _, a := range resp.Links.Actions {
		actions = append(actions, MessagingAction{Name: a.Name})
	}
	return actions, nil
}

// SendOrderMessage 向买家发送指定类型的订单消息
// messageType 必须来自 GetMessagingActions 返回的动作名
func (c *Client) SendOrderMessage(ctx context.Context, accessToken, amazonOrderID, messageType string, marketplaceIDs []string, body map[string]interface{}) error {
	params := Params{"marketplaceIds": strings.Join(marketplaceIDs, ",")}
	path := fmt.Sprintf("/messaging/v1/orders/%s/messages/%s", amazonOrderID, messageType)
	opts := &RequestOptions{Method: http.MethodPost, Query: params, Body: body}
	_, err := c.Call(ctx, accessToken, path, opts)
	return err
}
