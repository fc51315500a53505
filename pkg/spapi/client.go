package spapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ==================== 配置 ====================

// Config SP-API 客户端配置
// 由 cmd/main.go 注入，业务代码不直接读环境变量
type Config struct {
	Endpoint  string // 区域端点，如北美站 https://sellingpartnerapi-na.amazon.com
	UserAgent string // 亚马逊开发者规范要求的固定 UA

	// 分页安全上限，防止 NextToken 异常导致无限翻页
	// 不是业务限制，只是兜底
	MaxOrders        int
	MaxInventoryRows int

	Timeout time.Duration
	Debug   bool
}

// DefaultConfig 默认北美站配置
func DefaultConfig() *Config {
	return &Config{
		Endpoint:         "https://sellingpartnerapi-na.amazon.com",
		UserAgent:        "AmazonHub/1.0 (Language=Go; Platform=Linux)",
		MaxOrders:        2000,
		MaxInventoryRows: 500,
		Timeout:          20 * time.Second,
	}
}

// ==================== 客户端 ====================

// Client SP-API 统一网关
// 所有 endpoint wrapper 都走 Call，统一处理鉴权头、UA、查询串和错误包装
type Client struct {
	cfg  *Config
	http *resty.Client
}

// NewClient 创建 SP-API 客户端
func NewClient(cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetDebug(cfg.Debug).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json")

	return &Client{
		cfg:  cfg,
		http: client,
	}
}

// Config 暴露配置（分页上限等）
func (c *Client) Config() *Config {
	return c.cfg
}

// ==================== 错误类型 ====================

// APIError SP-API 非 2xx 响应
// 保留原始响应体，由上层决定是直接上报还是汇入 errors 列表
type APIError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("SP-API 错误 [%d] %s: %s", e.StatusCode, e.Path, e.Body)
}

// ==================== 请求参数 ====================

// Params 查询参数集合
type Params map[string]string

// RequestOptions 单次调用选项
type RequestOptions struct {
	Method string // 默认 GET
	Query  Params
	Body   interface{} // 非 nil 时序列化为 JSON
}

// EncodeQuery 手工序列化查询参数
// 关键约束：逗号（MarketplaceIds 列表分隔）和冒号（ISO-8601 时间戳）
// 必须保持字面量，标准 url.Values.Encode 会转成 %2C / %3A，亚马逊会拒绝
func EncodeQuery(q Params) string {
	if len(q) == 0 {
		return ""
	}

	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(escapeParam(k))
		sb.WriteByte('=')
		sb.WriteString(escapeParam(q[k]))
	}
	return sb.String()
}

// escapeParam 按 RFC 3986 转义，但放过 ',' 和 ':'
func escapeParam(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if shouldEscape(ch) {
			sb.WriteByte('%')
			sb.WriteByte(upperHex[ch>>4])
			sb.WriteByte(upperHex[ch&0x0F])
		} else {
			sb.WriteByte(ch)
		}
	}
	return sb.String()
}

const upperHex = "0123456789ABCDEF"

func shouldEscape(ch byte) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		return false
	}
	switch ch {
	case '-', '_', '.', '~':
		return false
	case ',', ':':
		// 协议要求的非标准豁免
		return false
	}
	return true
}

// ==================== 核心调用 ====================

// Call 发起一次 SP-API 调用
// accessToken 通过 x-amz-access-token 头携带
// 单次请求，不重试不熔断；非 2xx 返回 *APIError
func (c *Client) Call(ctx context.Context, accessToken, path string, opts *RequestOptions) (json.RawMessage, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	fullURL := c.cfg.Endpoint + path
	if len(opts.Query) > 0 {
		fullURL += "?" + EncodeQuery(opts.Query)
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeader("x-amz-access-token", accessToken)

	if opts.Body != nil {
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(opts.Body)
	}

	resp, err := req.Execute(method, fullURL)
	if err != nil {
		return nil, fmt.Errorf("SP-API 请求失败 %s: %w", path, err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, &APIError{
			Path:       path,
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
		}
	}

	return json.RawMessage(resp.Body()), nil
}

// callInto 调用并解码到目标结构
func (c *Client) callInto(ctx context.Context, accessToken, path string, opts *RequestOptions, out interface{}) error {
	raw, err := c.Call(ctx, accessToken, path, opts)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("SP-API 响应解析失败 %s: %w", path, err)
	}
	return nil
}
