package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ==================== 配置 ====================

// LWAConfig LWA（Login with Amazon）配置
// 全部由 cmd/main.go 注入，缺失时在请求入口报配置错误，不做隐式兜底
type LWAConfig struct {
	ClientID     string // LWA client id
	ClientSecret string // LWA client secret
	AppID        string // SP-API 应用 ID（拼授权链接用）
	RedirectURI  string // 必须与卖家后台登记的完全一致
	TokenURL     string // OAuth2 token 端点
	ConsentURL   string // 卖家授权页
}

// DefaultLWAEndpoints 生产端点
const (
	DefaultTokenURL   = "https://api.amazon.com/auth/o2/token"
	DefaultConsentURL = "https://sellercentral.amazon.com/apps/authorize/consent"
)

// Validate 校验必填项
func (c *LWAConfig) Validate() error {
	if c.ClientID == "" || c.ClientSecret == "" {
		return fmt.Errorf("LWA 配置缺失: 请设置 LWA_CLIENT_ID / LWA_CLIENT_SECRET")
	}
	return nil
}

// ==================== 错误类型 ====================

// AuthExchangeError 授权码换 token 失败，保留平台原始响应体
type AuthExchangeError struct {
	StatusCode int
	Body       string
}

func (e *AuthExchangeError) Error() string {
	return fmt.Sprintf("LWA 授权码交换被拒 [%d]: %s", e.StatusCode, e.Body)
}

// TokenRefreshError 刷新 token 失败
type TokenRefreshError struct {
	StatusCode int
	Body       string
}

func (e *TokenRefreshError) Error() string {
	return fmt.Sprintf("LWA 刷新被拒 [%d]: %s", e.StatusCode, e.Body)
}

// ==================== LWA 客户端 ====================

// TokenResult token 端点响应
// 注意：refresh_token 可能在每次刷新时轮换，调用方必须持久化返回值里的，
// 不能假设旧的还有效
type TokenResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// LWAService LWA token 客户端
// 本层不做重试，重试策略（如果有）由调用方决定
type LWAService struct {
	cfg  *LWAConfig
	http *resty.Client
}

// NewLWAService 创建 LWA 客户端
func NewLWAService(cfg *LWAConfig) *LWAService {
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.ConsentURL == "" {
		cfg.ConsentURL = DefaultConsentURL
	}
	return &LWAService{
		cfg: cfg,
		http: resty.New().
			SetTimeout(15 * time.Second),
	}
}

// Config 暴露配置给授权流程拼链接
func (s *LWAService) Config() *LWAConfig {
	return s.cfg
}

// ExchangeAuthorizationCode 用一次性授权码换 token
func (s *LWAService) ExchangeAuthorizationCode(ctx context.Context, code string) (*TokenResult, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	var result TokenResult
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormData(map[string]string{
			"grant_type":    "authorization_code",
			"code":          code,
			"client_id":     s.cfg.ClientID,
			"client_secret": s.cfg.ClientSecret,
			"redirect_uri":  s.cfg.RedirectURI,
		}).
		SetResult(&result).
		Post(s.cfg.TokenURL)

	if err != nil {
		return nil, fmt.Errorf("LWA 请求失败: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, &AuthExchangeError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	return &result, nil
}

// RefreshAccessToken 用长效 refresh token 换新 access token
func (s *LWAService) RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenResult, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	var result TokenResult
	resp, err := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetFormData(map[string]string{
			"grant_type":    "refresh_token",
			"refresh_token": refreshToken,
			"client_id":     s.cfg.ClientID,
			"client_secret": s.cfg.ClientSecret,
		}).
		SetResult(&result).
		Post(s.cfg.TokenURL)

	if err != nil {
		return nil, fmt.Errorf("LWA 请求失败: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, &TokenRefreshError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	return &result, nil
}
