package controller

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"amazon_hub_v1_202608/internal/model"
	"amazon_hub_v1_202608/internal/repository"
	"amazon_hub_v1_202608/internal/service"
	"amazon_hub_v1_202608/pkg/spapi"
	"amazon_hub_v1_202608/pkg/utils"
)

// newAuthTestServer 同时模拟 LWA token 端点和卖家参与信息端点
func newAuthTestServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/auth/o2/token":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"at-1","refresh_token":"rt-1","token_type":"bearer","expires_in":3600}`))
		case strings.HasPrefix(r.URL.Path, "/sellers/"):
			w.Write([]byte(`{"payload":[
				{"marketplace":{"id":"ATVPDKIKX0DER","name":"Amazon.com"},"participation":{"isParticipating":true}}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func setupCallbackRouter(t *testing.T, endpoint string) (*gin.Engine, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.ChannelConnection{}, &model.Notification{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}

	lwa := service.NewLWAService(&service.LWAConfig{
		ClientID:     "cid",
		ClientSecret: "cs",
		TokenURL:     endpoint + "/auth/o2/token",
	})
	cfg := spapi.DefaultConfig()
	cfg.Endpoint = endpoint
	authSvc := service.NewAmazonAuthService(
		repository.NewConnectionRepository(db),
		repository.NewNotificationRepository(db),
		lwa,
		spapi.NewClient(cfg),
	)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	ctl := NewChannelController(authSvc)
	router.GET("/api/v1/channels/amazon/callback", ctl.Callback)
	return router, db
}

func callbackRequest(router *gin.Engine, query url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/channels/amazon/callback?"+query.Encode(), nil)
	router.ServeHTTP(w, req)
	return w
}

func TestCallback_SuccessRedirectsToSettings(t *testing.T) {
	server := newAuthTestServer()
	defer server.Close()
	router, db := setupCallbackRouter(t, server.URL)

	state := "1.nonce-ok"
	utils.SetCache(state, "1")

	w := callbackRequest(router, url.Values{
		"spapi_oauth_code":   {"code-123"},
		"state":              {state},
		"selling_partner_id": {"A1SELLER"},
	})

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	loc := w.Header().Get("Location")
	if !strings.HasPrefix(loc, "/settings/channels?") {
		t.Errorf("Location = %s, 应跳回设置页", loc)
	}
	if !strings.Contains(loc, "connected=Amazon") {
		t.Errorf("Location = %s, 应携带 connected 参数", loc)
	}
	if strings.Contains(loc, "error=") {
		t.Errorf("成功跳转不应携带 error 参数: %s", loc)
	}

	// 连接记录已入库
	var conn model.ChannelConnection
	if err := db.Where("user_id = ? AND channel = ?", 1, model.ChannelAmazon).First(&conn).Error; err != nil {
		t.Fatalf("连接记录缺失: %v", err)
	}
	if conn.SellerID != "A1SELLER" || conn.RefreshToken != "rt-1" {
		t.Errorf("连接记录 = %+v", conn)
	}
}

func TestCallback_InvalidStateRedirectsWithError(t *testing.T) {
	server := newAuthTestServer()
	defer server.Close()
	router, db := setupCallbackRouter(t, server.URL)

	w := callbackRequest(router, url.Values{
		"spapi_oauth_code": {"code-123"},
		"state":            {"1.never-cached"},
	})

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	loc := w.Header().Get("Location")
	if !strings.HasPrefix(loc, "/settings/channels?error=") {
		t.Errorf("失败应带 error 参数跳回设置页: %s", loc)
	}

	// 失败时不应写入连接记录
	var count int64
	db.Model(&model.ChannelConnection{}).Count(&count)
	if count != 0 {
		t.Errorf("连接记录数 = %d, want 0", count)
	}
}

func TestCallback_MissingParamsRedirectsWithError(t *testing.T) {
	server := newAuthTestServer()
	defer server.Close()
	router, _ := setupCallbackRouter(t, server.URL)

	w := callbackRequest(router, url.Values{"state": {"1.nonce"}})

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if !strings.Contains(w.Header().Get("Location"), "error=") {
		t.Errorf("缺参应带 error 参数: %s", w.Header().Get("Location"))
	}
}
