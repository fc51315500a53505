package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"amazon_hub_v1_202608/internal/api/dto"
	"amazon_hub_v1_202608/internal/model"
	"amazon_hub_v1_202608/internal/repository"
	"amazon_hub_v1_202608/pkg/spapi"
)

func setupListingTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.ChannelConnection{}, &model.Listing{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return db
}

// newListingsTestServer 模拟 Listings Items 端点
// SKU 含 "BAD" 时返回 ERROR 级 issue，其余返回 WARNING 级
func newListingsTestServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/listings/2021-08-01/items/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		parts := strings.Split(r.URL.Path, "/")
		sku := parts[len(parts)-1]

		if strings.Contains(sku, "BAD") {
			w.Write([]byte(`{"sku":"` + sku + `","status":"INVALID","submissionId":"sub-bad",
				"issues":[{"code":"90220","message":"缺少必填属性","severity":"ERROR","attributeNames":["item_name"]}]}`))
			return
		}
		w.Write([]byte(`{"sku":"` + sku + `","status":"ACCEPTED","submissionId":"sub-ok",
			"issues":[{"code":"99010","message":"图片分辨率偏低","severity":"WARNING"}]}`))
	}))
}

func newListingService(t *testing.T, db *gorm.DB, endpoint string) *ListingService {
	connRepo := repository.NewConnectionRepository(db)
	listingRepo := repository.NewListingRepository(db)

	seedConnection(t, db, &model.ChannelConnection{
		UserID:         1,
		Channel:        model.ChannelAmazon,
		Connected:      true,
		SellerID:       "A1SELLER",
		MarketplaceID:  "ATVPDKIKX0DER",
		AccessToken:    "valid-token",
		RefreshToken:   "rt-1",
		TokenExpiresAt: time.Now().Add(time.Hour),
	})

	cfg := spapi.DefaultConfig()
	cfg.Endpoint = endpoint
	client := spapi.NewClient(cfg)

	lwa := NewLWAService(&LWAConfig{ClientID: "cid", ClientSecret: "cs"})
	tokens := NewTokenService(connRepo, lwa)

	return NewListingService(tokens, client, connRepo, listingRepo)
}

func TestCreateListing_WarningStillAccepted(t *testing.T) {
	db := setupListingTestDB(t)
	server := newListingsTestServer()
	defer server.Close()

	svc := newListingService(t, db, server.URL)

	result, err := svc.CreateListing(context.Background(), 1, &dto.CreateListingRequest{
		SKU:         "SKU-OK",
		ProductType: "LUGGAGE",
		Title:       "旅行箱",
		Price:       99.99,
		Currency:    "USD",
	})
	if err != nil {
		t.Fatalf("CreateListing() 失败: %v", err)
	}

	if !result.Accepted {
		t.Error("WARNING 级 issue 不应导致拒绝")
	}
	if result.SubmissionID != "sub-ok" {
		t.Errorf("SubmissionID = %s, want sub-ok", result.SubmissionID)
	}

	// 本地镜像应已写入
	var row model.Listing
	if err := db.Where("user_id = ? AND sku = ?", 1, "SKU-OK").First(&row).Error; err != nil {
		t.Fatalf("镜像行缺失: %v", err)
	}
	if row.Status != "ACCEPTED" || row.SubmissionID != "sub-ok" {
		t.Errorf("镜像行 = %+v", row)
	}
	if row.PriceAmount != 9999 {
		t.Errorf("PriceAmount = %d, want 9999", row.PriceAmount)
	}
	if !strings.Contains(string(row.Issues), "WARNING") {
		t.Errorf("issues 应原样落库: %s", row.Issues)
	}
}

func TestCreateListing_ErrorIssueRejected(t *testing.T) {
	db := setupListingTestDB(t)
	server := newListingsTestServer()
	defer server.Close()

	svc := newListingService(t, db, server.URL)

	result, err := svc.CreateListing(context.Background(), 1, &dto.CreateListingRequest{
		SKU:         "SKU-BAD",
		ProductType: "LUGGAGE",
	})
	if err != nil {
		t.Fatalf("提交被拒不是传输错误，不应返回 err: %v", err)
	}

	if result.Accepted {
		t.Error("ERROR 级 issue 应导致 Accepted=false")
	}
	if result.Status != "INVALID" {
		t.Errorf("Status = %s, want INVALID", result.Status)
	}
	// issues 原样透传
	issues, ok := result.Issues.([]spapi.Issue)
	if !ok || len(issues) != 1 || issues[0].Severity != "ERROR" {
		t.Errorf("Issues 透传异常: %+v", result.Issues)
	}
}

func TestDeleteListing_MirrorRemovedOnlyOnSuccess(t *testing.T) {
	db := setupListingTestDB(t)
	server := newListingsTestServer()
	defer server.Close()

	svc := newListingService(t, db, server.URL)
	ctx := context.Background()

	for _, sku := range []string{"SKU-OK", "SKU-BAD"} {
		if err := db.Create(&model.Listing{UserID: 1, SKU: sku, Channel: model.ChannelAmazon}).Error; err != nil {
			t.Fatalf("写入镜像失败: %v", err)
		}
	}

	// 成功下架：镜像删除
	if _, err := svc.DeleteListing(ctx, 1, "SKU-OK"); err != nil {
		t.Fatalf("DeleteListing() 失败: %v", err)
	}
	var count int64
	db.Model(&model.Listing{}).Where("user_id = ? AND sku = ?", 1, "SKU-OK").Count(&count)
	if count != 0 {
		t.Error("成功下架后镜像应删除")
	}

	// 平台拒绝：镜像保留
	result, err := svc.DeleteListing(ctx, 1, "SKU-BAD")
	if err != nil {
		t.Fatalf("DeleteListing() 失败: %v", err)
	}
	if result.Accepted {
		t.Error("ERROR 级 issue 应导致 Accepted=false")
	}
	db.Model(&model.Listing{}).Where("user_id = ? AND sku = ?", 1, "SKU-BAD").Count(&count)
	if count != 1 {
		t.Error("下架被拒时镜像应保留")
	}
}

func TestCreateListing_NotConnected(t *testing.T) {
	db := setupListingTestDB(t)
	connRepo := repository.NewConnectionRepository(db)
	listingRepo := repository.NewListingRepository(db)
	lwa := NewLWAService(&LWAConfig{ClientID: "cid", ClientSecret: "cs"})
	svc := NewListingService(NewTokenService(connRepo, lwa), spapi.NewClient(nil), connRepo, listingRepo)

	_, err := svc.CreateListing(context.Background(), 99, &dto.CreateListingRequest{
		SKU:         "SKU-X",
		ProductType: "LUGGAGE",
	})
	if err != ErrNotConnected {
		t.Errorf("err = %v, want ErrNotConnected", err)
	}
}
