package dto

import "time"

// ChannelStatus 单个渠道连接状态
type ChannelStatus struct {
	Channel       string     `json:"channel"`
	Connected     bool       `json:"connected"`
	Status        string     `json:"status"`
	StoreName     string     `json:"store_name,omitempty"`
	SellerID      string     `json:"seller_id,omitempty"`
	MarketplaceID string     `json:"marketplace_id,omitempty"`
	ConnectedAt   *time.Time `json:"connected_at,omitempty"`
}

// DirectConnectRequest 直连请求（手工粘贴 refresh token）
type DirectConnectRequest struct {
	RefreshToken  string `json:"refresh_token" binding:"required"`
	SellerID      string `json:"seller_id"`
	MarketplaceID string `json:"marketplace_id"`
	StoreName     string `json:"store_name"`
}

// StubConnectRequest eBay/Shopify 渠道占位连接请求
type StubConnectRequest struct {
	StoreName string `json:"store_name"`
}
