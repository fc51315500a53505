package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"amazon_hub_v1_202608/internal/model"
	"amazon_hub_v1_202608/internal/repository"
)

func setupTokenTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.ChannelConnection{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return db
}

// newLWATestServer 模拟 LWA token 端点，记录调用次数
func newLWATestServer(t *testing.T, calls *int, result TokenResult) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		if err := r.ParseForm(); err != nil {
			t.Errorf("解析表单失败: %v", err)
		}
		if r.Form.Get("grant_type") != "refresh_token" {
			t.Errorf("grant_type = %q, want refresh_token", r.Form.Get("grant_type"))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}))
}

func seedConnection(t *testing.T, db *gorm.DB, conn *model.ChannelConnection) {
	if err := db.Create(conn).Error; err != nil {
		t.Fatalf("写入测试连接失败: %v", err)
	}
}

func TestGetValidAccessToken_CacheHitNoNetwork(t *testing.T) {
	db := setupTokenTestDB(t)
	calls := 0
	server := newLWATestServer(t, &calls, TokenResult{AccessToken: "should-not-be-used"})
	defer server.Close()

	connRepo := repository.NewConnectionRepository(db)
	seedConnection(t, db, &model.ChannelConnection{
		UserID:         1,
		Channel:        model.ChannelAmazon,
		Connected:      true,
		AccessToken:    "cached-token",
		RefreshToken:   "rt-1",
		TokenExpiresAt: time.Now().Add(30 * time.Minute), // 远超 5 分钟余量
	})

	lwa := NewLWAService(&LWAConfig{ClientID: "cid", ClientSecret: "cs", TokenURL: server.URL})
	svc := NewTokenService(connRepo, lwa)

	token, err := svc.GetValidAccessToken(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetValidAccessToken() 失败: %v", err)
	}
	if token != "cached-token" {
		t.Errorf("token = %q, want cached-token", token)
	}
	if calls != 0 {
		t.Errorf("缓存命中不应发起网络调用, calls = %d", calls)
	}
}

func TestGetValidAccessToken_RefreshWithinMargin(t *testing.T) {
	db := setupTokenTestDB(t)
	calls := 0
	server := newLWATestServer(t, &calls, TokenResult{
		AccessToken:  "at-1",
		RefreshToken: "rt-123", // 轮换后的新 refresh token
		TokenType:    "bearer",
		ExpiresIn:    3600,
	})
	defer server.Close()

	connRepo := repository.NewConnectionRepository(db)
	seedConnection(t, db, &model.ChannelConnection{
		UserID:         1,
		Channel:        model.ChannelAmazon,
		Connected:      true,
		AccessToken:    "stale-token",
		RefreshToken:   "rt-old",
		TokenExpiresAt: time.Now().Add(2 * time.Minute), // 余量不足 5 分钟
	})

	lwa := NewLWAService(&LWAConfig{ClientID: "cid", ClientSecret: "cs", TokenURL: server.URL})
	svc := NewTokenService(connRepo, lwa)

	token, err := svc.GetValidAccessToken(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetValidAccessToken() 失败: %v", err)
	}
	if token != "at-1" {
		t.Errorf("token = %q, want at-1", token)
	}
	if calls != 1 {
		t.Errorf("应恰好刷新一次, calls = %d", calls)
	}

	// 轮换后的 refresh token 必须落库
	conn, err := connRepo.GetByUserAndChannel(context.Background(), 1, model.ChannelAmazon)
	if err != nil {
		t.Fatalf("查询连接失败: %v", err)
	}
	if conn.RefreshToken != "rt-123" {
		t.Errorf("落库 RefreshToken = %q, want rt-123（轮换值）", conn.RefreshToken)
	}
	if conn.AccessToken != "at-1" {
		t.Errorf("落库 AccessToken = %q, want at-1", conn.AccessToken)
	}
	remaining := time.Until(conn.TokenExpiresAt)
	if remaining < 55*time.Minute || remaining > 61*time.Minute {
		t.Errorf("过期时间落库不正确, 剩余 %v", remaining)
	}
}

func TestGetValidAccessToken_RotationKeepsOldWhenEmpty(t *testing.T) {
	db := setupTokenTestDB(t)
	calls := 0
	// 亚马逊不轮换时响应不含 refresh_token
	server := newLWATestServer(t, &calls, TokenResult{AccessToken: "at-2", ExpiresIn: 3600})
	defer server.Close()

	connRepo := repository.NewConnectionRepository(db)
	seedConnection(t, db, &model.ChannelConnection{
		UserID:         1,
		Channel:        model.ChannelAmazon,
		Connected:      true,
		RefreshToken:   "rt-keep",
		TokenExpiresAt: time.Now().Add(-time.Hour),
	})

	lwa := NewLWAService(&LWAConfig{ClientID: "cid", ClientSecret: "cs", TokenURL: server.URL})
	svc := NewTokenService(connRepo, lwa)

	if _, err := svc.GetValidAccessToken(context.Background(), 1); err != nil {
		t.Fatalf("GetValidAccessToken() 失败: %v", err)
	}

	conn, _ := connRepo.GetByUserAndChannel(context.Background(), 1, model.ChannelAmazon)
	if conn.RefreshToken != "rt-keep" {
		t.Errorf("未轮换时应保留旧 refresh token, got %q", conn.RefreshToken)
	}
}

func TestGetValidAccessToken_NotConnected(t *testing.T) {
	db := setupTokenTestDB(t)
	connRepo := repository.NewConnectionRepository(db)
	lwa := NewLWAService(&LWAConfig{ClientID: "cid", ClientSecret: "cs"})
	svc := NewTokenService(connRepo, lwa)

	// 没有任何连接记录
	if _, err := svc.GetValidAccessToken(context.Background(), 42); !errors.Is(err, ErrNotConnected) {
		t.Errorf("无连接记录应返回 ErrNotConnected, got %v", err)
	}

	// 有记录但 refresh token 为空（已断开）
	seedConnection(t, db, &model.ChannelConnection{
		UserID:  43,
		Channel: model.ChannelAmazon,
	})
	if _, err := svc.GetValidAccessToken(context.Background(), 43); !errors.Is(err, ErrNotConnected) {
		t.Errorf("无 refresh token 应返回 ErrNotConnected, got %v", err)
	}
}

func TestGetValidAccessToken_RefreshRejected(t *testing.T) {
	db := setupTokenTestDB(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer server.Close()

	connRepo := repository.NewConnectionRepository(db)
	seedConnection(t, db, &model.ChannelConnection{
		UserID:         1,
		Channel:        model.ChannelAmazon,
		Connected:      true,
		RefreshToken:   "rt-revoked",
		TokenExpiresAt: time.Now().Add(-time.Hour),
	})

	lwa := NewLWAService(&LWAConfig{ClientID: "cid", ClientSecret: "cs", TokenURL: server.URL})
	svc := NewTokenService(connRepo, lwa)

	// 刷新被拒时降级为未连接，不向上抛刷新细节
	if _, err := svc.GetValidAccessToken(context.Background(), 1); !errors.Is(err, ErrNotConnected) {
		t.Errorf("刷新被拒应返回 ErrNotConnected, got %v", err)
	}
}
