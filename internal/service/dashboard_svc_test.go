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

	"amazon_hub_v1_202608/internal/model"
	"amazon_hub_v1_202608/internal/repository"
	"amazon_hub_v1_202608/pkg/spapi"
)

func setupDashboardTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.ChannelConnection{}, &model.Order{}, &model.OrderItem{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return db
}

// newSPAPITestServer 模拟四个 dashboard 分支用到的端点
// financeFails 为 true 时结算分支返回 500
func newSPAPITestServer(financeFails bool) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/sellers/"):
			w.Write([]byte(`{"payload":[
				{"marketplace":{"id":"ATVPDKIKX0DER","name":"Amazon.com"},"participation":{"isParticipating":true}}
			]}`))

		case strings.HasPrefix(r.URL.Path, "/orders/"):
			w.Write([]byte(`{"payload":{"Orders":[
				{"AmazonOrderId":"111-001","OrderStatus":"Shipped","PurchaseDate":"2026-08-01T10:00:00Z",
				 "OrderTotal":{"CurrencyCode":"USD","Amount":"25.50"}},
				{"AmazonOrderId":"111-002","OrderStatus":"Unshipped","PurchaseDate":"2026-08-02T10:00:00Z",
				 "OrderTotal":{"CurrencyCode":"USD","Amount":"10.00"}},
				{"AmazonOrderId":"111-003","OrderStatus":"Canceled","PurchaseDate":"2026-08-03T10:00:00Z"}
			]}}`))

		case strings.HasPrefix(r.URL.Path, "/fba/inventory/"):
			w.Write([]byte(`{"payload":{"inventorySummaries":[
				{"sellerSku":"SKU-A","totalQuantity":10},
				{"sellerSku":"SKU-B","totalQuantity":5},
				{"sellerSku":"SKU-A","totalQuantity":3}
			]}}`))

		case strings.HasPrefix(r.URL.Path, "/finances/"):
			if financeFails {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"errors":[{"code":"InternalFailure"}]}`))
				return
			}
			w.Write([]byte(`{"payload":{"FinancialEventGroupList":[
				{"FinancialEventGroupId":"g1","ProcessingStatus":"Open",
				 "OriginalTotal":{"CurrencyCode":"USD","Amount":"100.00"}}
			]}}`))

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newDashboardService(t *testing.T, db *gorm.DB, endpoint string) *DashboardService {
	connRepo := repository.NewConnectionRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	seedConnection(t, db, &model.ChannelConnection{
		UserID:         1,
		Channel:        model.ChannelAmazon,
		Connected:      true,
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

	return NewDashboardService(tokens, client, connRepo, orderRepo)
}

func TestBuildDashboard_AllBranchesOK(t *testing.T) {
	db := setupDashboardTestDB(t)
	server := newSPAPITestServer(false)
	defer server.Close()

	svc := newDashboardService(t, db, server.URL)

	resp, err := svc.BuildDashboard(context.Background(), 1)
	if err != nil {
		t.Fatalf("BuildDashboard() 失败: %v", err)
	}

	if !resp.Connected {
		t.Error("Connected 应为 true")
	}
	if len(resp.Errors) != 0 {
		t.Errorf("Errors = %v, 应为空", resp.Errors)
	}

	if resp.Orders.TotalOrders != 3 {
		t.Errorf("TotalOrders = %d, want 3", resp.Orders.TotalOrders)
	}
	if resp.Orders.ShippedCount != 1 || resp.Orders.PendingCount != 1 {
		t.Errorf("Shipped/Pending = %d/%d, want 1/1", resp.Orders.ShippedCount, resp.Orders.PendingCount)
	}
	if resp.Orders.TotalRevenue != 35.50 {
		t.Errorf("TotalRevenue = %.2f, want 35.50", resp.Orders.TotalRevenue)
	}

	if resp.Inventory.TotalUnits != 18 {
		t.Errorf("TotalUnits = %d, want 18", resp.Inventory.TotalUnits)
	}
	if resp.Inventory.DistinctSKUs != 2 {
		t.Errorf("DistinctSKUs = %d, want 2", resp.Inventory.DistinctSKUs)
	}

	if resp.Finance.EventGroupCount != 1 || resp.Finance.LatestTotal != 100.00 {
		t.Errorf("Finance = %+v", resp.Finance)
	}
	if resp.Seller == nil || len(resp.Seller.MarketplaceIDs) != 1 {
		t.Errorf("Seller = %+v", resp.Seller)
	}

	// 订单应被缓存进本地镜像
	var count int64
	db.Model(&model.Order{}).Where("user_id = ?", 1).Count(&count)
	if count != 3 {
		t.Errorf("缓存订单数 = %d, want 3", count)
	}
}

func TestBuildDashboard_PartialFailure(t *testing.T) {
	db := setupDashboardTestDB(t)
	server := newSPAPITestServer(true) // 结算分支 500
	defer server.Close()

	svc := newDashboardService(t, db, server.URL)

	resp, err := svc.BuildDashboard(context.Background(), 1)
	if err != nil {
		t.Fatalf("单分支失败不应使整体报错: %v", err)
	}

	if !resp.Connected {
		t.Error("Connected 应为 true")
	}
	if len(resp.Errors) != 1 {
		t.Fatalf("Errors 条数 = %d, want 1: %v", len(resp.Errors), resp.Errors)
	}
	if !strings.HasPrefix(resp.Errors[0], "finance:") {
		t.Errorf("错误应标记来源分支: %s", resp.Errors[0])
	}

	// 其余分支数据照常返回
	if resp.Orders.TotalOrders != 3 {
		t.Errorf("TotalOrders = %d, want 3", resp.Orders.TotalOrders)
	}
	if resp.Inventory.TotalUnits != 18 {
		t.Errorf("TotalUnits = %d, want 18", resp.Inventory.TotalUnits)
	}
	// 失败分支保持零值
	if resp.Finance.EventGroupCount != 0 {
		t.Errorf("失败分支应为零值: %+v", resp.Finance)
	}
}

func TestOrderToModel_CentsRounding(t *testing.T) {
	cases := []struct {
		amount string
		want   int64
	}{
		{"19.99", 1999}, // 19.99*100 的浮点积是 1998.99…，截断会少一分
		{"4.35", 435},
		{"10.00", 1000},
		{"0.07", 7},
	}

	for _, tc := range cases {
		row := orderToModel(1, &spapi.Order{
			AmazonOrderID: "111-001",
			OrderTotal:    &spapi.Money{CurrencyCode: "USD", Amount: tc.amount},
		})
		if row.TotalAmount != tc.want {
			t.Errorf("TotalAmount(%s) = %d, want %d", tc.amount, row.TotalAmount, tc.want)
		}
	}
}

func TestBuildFinanceSection_PicksLatestGroup(t *testing.T) {
	// 乱序给入，应按结算期开始时间取最新一组
	groups := []spapi.FinancialEventGroup{
		{
			FinancialEventGroupID:    "g-jun",
			FinancialEventGroupStart: "2026-06-01T00:00:00Z",
			OriginalTotal:            &spapi.Money{CurrencyCode: "USD", Amount: "50.00"},
		},
		{
			FinancialEventGroupID:    "g-aug",
			FinancialEventGroupStart: "2026-08-01T00:00:00Z",
			OriginalTotal:            &spapi.Money{CurrencyCode: "USD", Amount: "200.00"},
		},
		{
			FinancialEventGroupID:    "g-jul",
			FinancialEventGroupStart: "2026-07-01T00:00:00Z",
			OriginalTotal:            &spapi.Money{CurrencyCode: "USD", Amount: "75.00"},
		},
	}

	section := buildFinanceSection(groups)
	if section.EventGroupCount != 3 {
		t.Errorf("EventGroupCount = %d, want 3", section.EventGroupCount)
	}
	if section.LatestTotal != 200.00 {
		t.Errorf("LatestTotal = %.2f, want 200.00 (最新结算组)", section.LatestTotal)
	}
}

func TestBuildDashboard_NotConnected(t *testing.T) {
	db := setupDashboardTestDB(t)
	connRepo := repository.NewConnectionRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	lwa := NewLWAService(&LWAConfig{ClientID: "cid", ClientSecret: "cs"})
	tokens := NewTokenService(connRepo, lwa)
	svc := NewDashboardService(tokens, spapi.NewClient(nil), connRepo, orderRepo)

	resp, err := svc.BuildDashboard(context.Background(), 99)
	if err != nil {
		t.Fatalf("未连接应正常返回: %v", err)
	}
	if resp.Connected {
		t.Error("Connected 应为 false")
	}
	if len(resp.Errors) != 0 {
		t.Errorf("未连接不应有 Errors: %v", resp.Errors)
	}
}
