package model

import (
	"time"

	"gorm.io/datatypes"
)

// 渠道名称常量
const (
	ChannelAmazon  = "Amazon"
	ChannelEbay    = "eBay"
	ChannelShopify = "Shopify"
)

// 连接状态常量
// 注意：没有独立的 "expired" 状态，token 过期由 TokenService 透明处理，
// 永远不会以状态值的形式暴露出去
const (
	ConnStatusConnected    = "connected"
	ConnStatusDisconnected = "disconnected"
)

// ChannelConnection 渠道连接记录
// 每个 (user_id, channel) 最多一行，靠联合唯一索引 + upsert 保证
// 断开连接只清空 token 并置状态，不做物理删除
type ChannelConnection struct {
	BaseModel

	// 联合唯一索引
	UserID  int64  `gorm:"index;uniqueIndex:idx_user_channel;not null"`
	Channel string `gorm:"size:20;uniqueIndex:idx_user_channel;not null"`

	// 连接状态（connected 布尔 + 冗余状态串，保持与前端约定一致）
	Connected bool   `gorm:"default:false"`
	Status    string `gorm:"size:20;default:'disconnected'"`

	// 店铺身份
	StoreName     string `gorm:"size:100"`
	SellerID      string `gorm:"size:64;index"`
	MarketplaceID string `gorm:"size:32"`

	// LWA 凭证（敏感字段）
	// 刷新令牌可能在每次刷新时轮换，必须整体持久化
	AccessToken    string    `gorm:"size:2048"`
	RefreshToken   string    `gorm:"size:2048"`
	TokenExpiresAt time.Time // Token 具体的过期时间点

	// 原始凭证数据（如 marketplace participations 原文）
	Credentials datatypes.JSON `gorm:"type:jsonb"`
}

func (ChannelConnection) TableName() string {
	return "channel_connections"
}
