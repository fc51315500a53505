package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"amazon_hub_v1_202608/internal/model"
	"amazon_hub_v1_202608/internal/repository"
)

// ErrNotConnected 渠道未连接（或凭证已失效需要重新授权）
// 刷新失败也归到这里：上层一律引导用户重新授权，不区分细类
var ErrNotConnected = errors.New("渠道未连接")

// 过期安全余量
// 避免拿到一个"还有几秒就过期"的 token，后续平台调用在途中失效
const tokenExpiryMargin = 5 * time.Minute

// TokenService token 生命周期管理
// 所有需要调 SP-API 的组件都从这里拿 token，是全系统的热路径
//
// 并发说明：同一用户并发进入刷新分支时不加锁，多刷一次只是把更新的
// 有效 token 覆盖上去（last-write-wins），浪费一次调用但无正确性问题
type TokenService struct {
	connRepo repository.ConnectionRepository
	lwa      *LWAService
}

// NewTokenService 创建 token 管理服务
func NewTokenService(connRepo repository.ConnectionRepository, lwa *LWAService) *TokenService {
	return &TokenService{
		connRepo: connRepo,
		lwa:      lwa,
	}
}

// GetValidAccessToken 返回当前可用的 access token
// 1. 没有连接记录/没有 refresh token -> ErrNotConnected
// 2. 缓存 token 距过期超过 5 分钟 -> 直接返回，零网络调用
// 3. 否则刷新一次并整体落库（refresh token 可能已轮换）再返回
// 4. 刷新失败 -> ErrNotConnected，绝不向上抛刷新细节
func (s *TokenService) GetValidAccessToken(ctx context.Context, userID int64) (string, error) {
	conn, err := s.connRepo.GetByUserAndChannel(ctx, userID, model.ChannelAmazon)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotConnected
		}
		// 存储故障和"未连接"是两回事，原样上抛
		return "", err
	}

	if conn.RefreshToken == "" {
		return "", ErrNotConnected
	}

	// 缓存命中：还有足够余量，不发网络请求
	if conn.AccessToken != "" && time.Until(conn.TokenExpiresAt) > tokenExpiryMargin {
		return conn.AccessToken, nil
	}

	return s.refreshAndPersist(ctx, conn)
}

// refreshAndPersist 刷新并持久化，失败时降级为未连接
func (s *TokenService) refreshAndPersist(ctx context.Context, conn *model.ChannelConnection) (string, error) {
	result, err := s.lwa.RefreshAccessToken(ctx, conn.RefreshToken)
	if err != nil {
		log.Printf("[Token] 用户 %d 刷新失败: %v", conn.UserID, err)
		return "", ErrNotConnected
	}

	expiresAt := time.Now().Add(time.Duration(result.ExpiresIn) * time.Second)

	// refresh token 轮换时必须存新值
	newRefresh := result.RefreshToken
	if newRefresh == "" {
		newRefresh = conn.RefreshToken
	}

	if err := s.connRepo.UpdateToken(ctx, conn.UserID, conn.Channel, result.AccessToken, newRefresh, expiresAt); err != nil {
		// 落库失败不影响本次调用：token 本身是有效的
		log.Printf("[Token] 用户 %d token 落库失败: %v", conn.UserID, err)
	}

	return result.AccessToken, nil
}
