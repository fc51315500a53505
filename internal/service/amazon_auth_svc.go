package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"amazon_hub_v1_202608/internal/model"
	"amazon_hub_v1_202608/internal/repository"
	"amazon_hub_v1_202608/pkg/spapi"
	"amazon_hub_v1_202608/pkg/utils"
)

// AmazonAuthService 亚马逊授权流程
// 只保留一条回调链路：/api/v1/channels/amazon/callback
type AmazonAuthService struct {
	connRepo   repository.ConnectionRepository
	notifyRepo repository.NotificationRepository
	lwa        *LWAService
	spapi      *spapi.Client
}

// NewAmazonAuthService 创建授权服务
func NewAmazonAuthService(
	connRepo repository.ConnectionRepository,
	notifyRepo repository.NotificationRepository,
	lwa *LWAService,
	client *spapi.Client,
) *AmazonAuthService {
	return &AmazonAuthService{
		connRepo:   connRepo,
		notifyRepo: notifyRepo,
		lwa:        lwa,
		spapi:      client,
	}
}

// ==================== 授权链接 ====================

// GenerateConsentURL 生成卖家授权链接
// state 携带用户身份 + 随机 nonce，nonce 入缓存供回调校验
func (s *AmazonAuthService) GenerateConsentURL(ctx context.Context, userID int64) (string, error) {
	cfg := s.lwa.Config()
	if cfg.AppID == "" {
		return "", fmt.Errorf("LWA 配置缺失: 请设置 SPAPI_APP_ID")
	}

	nonce, err := utils.GenerateRandomString(16)
	if err != nil {
		return "", err
	}
	state := fmt.Sprintf("%d.%s", userID, nonce)
	utils.SetCache(state, strconv.FormatInt(userID, 10))

	// version=beta 是草稿态应用必需的模式标记
	consentURL := fmt.Sprintf(
		"%s?application_id=%s&state=%s&redirect_uri=%s&version=beta",
		cfg.ConsentURL, cfg.AppID, state, cfg.RedirectURI,
	)
	return consentURL, nil
}

// ==================== 回调 ====================

// HandleCallback 处理授权回调
// authedUserID 为 0 表示回调请求未携带登录态，此时信任 state 中的用户标识；
// 登录态存在但与 state 不一致则拒绝（fail closed）
func (s *AmazonAuthService) HandleCallback(ctx context.Context, code, state, sellingPartnerID string, authedUserID int64) (*model.ChannelConnection, error) {
	// 1. state 必须还在缓存里（10 分钟窗口）
	cachedUser, exists := utils.GetCache(state)
	if !exists {
		return nil, fmt.Errorf("授权超时或 state 无效，请重新发起")
	}
	utils.DeleteCache(state)

	stateUserID, err := strconv.ParseInt(cachedUser, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("state 数据损坏: %v", err)
	}

	// 2. 有登录态时必须与 state 归属一致
	if authedUserID != 0 && authedUserID != stateUserID {
		return nil, fmt.Errorf("state 与当前登录用户不匹配")
	}

	// 3. 换 token
	tokenResult, err := s.lwa.ExchangeAuthorizationCode(ctx, code)
	if err != nil {
		return nil, err
	}

	conn := &model.ChannelConnection{
		UserID:         stateUserID,
		Channel:        model.ChannelAmazon,
		Connected:      true,
		Status:         model.ConnStatusConnected,
		SellerID:       sellingPartnerID,
		AccessToken:    tokenResult.AccessToken,
		RefreshToken:   tokenResult.RefreshToken,
		TokenExpiresAt: time.Now().Add(time.Duration(tokenResult.ExpiresIn) * time.Second),
	}

	// 4. 尽力拉卖家参与信息，补店铺名/站点；失败不阻断授权
	s.fillParticipations(ctx, conn, tokenResult.AccessToken)

	// 5. upsert 连接记录
	if err := s.connRepo.Upsert(ctx, conn); err != nil {
		return nil, fmt.Errorf("连接记录入库失败: %w", err)
	}

	s.notify(ctx, stateUserID, model.NotifyLevelInfo, "亚马逊授权成功",
		fmt.Sprintf("店铺 %s 已连接", conn.StoreName))

	return conn, nil
}

// fillParticipations 拉取 marketplace participations 填充连接记录
func (s *AmazonAuthService) fillParticipations(ctx context.Context, conn *model.ChannelConnection, accessToken string) {
	parts, err := s.spapi.GetMarketplaceParticipations(ctx, accessToken)
	if err != nil {
		log.Printf("[Auth] 拉取站点参与信息失败（不阻断授权）: %v", err)
		return
	}

	var ids []string
	for _, p := range parts {
		if p.Participation.IsParticipating {
			ids = append(ids, p.Marketplace.ID)
		}
	}
	if len(ids) > 0 {
		conn.MarketplaceID = ids[0]
	}
	if len(parts) > 0 && conn.StoreName == "" {
		conn.StoreName = parts[0].Marketplace.Name
	}

	if raw, err := json.Marshal(parts); err == nil {
		conn.Credentials = datatypes.JSON(raw)
	}
}

// ==================== 直连 ====================

// DirectConnect 手工粘贴 refresh token 直连（跳过 OAuth 跳转）
func (s *AmazonAuthService) DirectConnect(ctx context.Context, userID int64, refreshToken, sellerID, marketplaceID, storeName string) (*model.ChannelConnection, error) {
	// 先验证 refresh token 真的能换出 access token
	tokenResult, err := s.lwa.RefreshAccessToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("refresh token 无效: %w", err)
	}

	newRefresh := tokenResult.RefreshToken
	if newRefresh == "" {
		newRefresh = refreshToken
	}

	conn := &model.ChannelConnection{
		UserID:         userID,
		Channel:        model.ChannelAmazon,
		Connected:      true,
		Status:         model.ConnStatusConnected,
		StoreName:      storeName,
		SellerID:       sellerID,
		MarketplaceID:  marketplaceID,
		AccessToken:    tokenResult.AccessToken,
		RefreshToken:   newRefresh,
		TokenExpiresAt: time.Now().Add(time.Duration(tokenResult.ExpiresIn) * time.Second),
	}

	s.fillParticipations(ctx, conn, tokenResult.AccessToken)

	if err := s.connRepo.Upsert(ctx, conn); err != nil {
		return nil, fmt.Errorf("连接记录入库失败: %w", err)
	}

	s.notify(ctx, userID, model.NotifyLevelInfo, "亚马逊直连成功", "")
	return conn, nil
}

// ==================== 断开 ====================

// Disconnect 断开渠道：清空凭证，状态置 disconnected，行保留
func (s *AmazonAuthService) Disconnect(ctx context.Context, userID int64, channel string) error {
	if err := s.connRepo.ClearTokens(ctx, userID, channel); err != nil {
		return fmt.Errorf("断开失败: %w", err)
	}
	s.notify(ctx, userID, model.NotifyLevelWarning, channel+" 已断开连接", "")
	return nil
}

// ==================== 渠道状态 ====================

// ListChannelStatus 列出三个渠道的连接状态
func (s *AmazonAuthService) ListChannelStatus(ctx context.Context, userID int64) ([]model.ChannelConnection, error) {
	conns, err := s.connRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 没有记录的渠道补一条 disconnected 占位（不入库）
	known := map[string]bool{}
	for _, c := range conns {
		known[c.Channel] = true
	}
	for _, ch := range []string{model.ChannelAmazon, model.ChannelEbay, model.ChannelShopify} {
		if !known[ch] {
			conns = append(conns, model.ChannelConnection{
				Channel: ch,
				Status:  model.ConnStatusDisconnected,
			})
		}
	}
	return conns, nil
}

// ConnectStub eBay/Shopify 占位连接：只建记录，不走真实 OAuth
func (s *AmazonAuthService) ConnectStub(ctx context.Context, userID int64, channel, storeName string) (*model.ChannelConnection, error) {
	if channel != model.ChannelEbay && channel != model.ChannelShopify {
		return nil, fmt.Errorf("渠道 %s 不支持占位连接", channel)
	}
	conn := &model.ChannelConnection{
		UserID:    userID,
		Channel:   channel,
		Connected: false,
		Status:    model.ConnStatusDisconnected,
		StoreName: storeName,
	}
	if err := s.connRepo.Upsert(ctx, conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// notify 写通知，失败只记日志
func (s *AmazonAuthService) notify(ctx context.Context, userID int64, level, title, content string) {
	err := s.notifyRepo.Create(ctx, &model.Notification{
		UserID:  userID,
		Level:   level,
		Title:   title,
		Content: content,
	})
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[Auth] 写通知失败: %v", err)
	}
}
