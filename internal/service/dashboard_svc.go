package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"sync"
	"time"

	"gorm.io/datatypes"

	"amazon_hub_v1_202608/internal/api/dto"
	"amazon_hub_v1_202608/internal/model"
	"amazon_hub_v1_202608/internal/repository"
	"amazon_hub_v1_202608/pkg/spapi"
)

// 落库缓存的订单条数上限
const dashboardOrderCacheSize = 50

// DashboardService 看板聚合
// 并发扇出 4 路平台调用，全部 settle 后再组装结果：
// 任何一路失败只记入 errors，其余分支的数据照常返回（绝不 fail fast）
type DashboardService struct {
	tokens    *TokenService
	spapi     *spapi.Client
	connRepo  repository.ConnectionRepository
	orderRepo repository.OrderRepository
}

// NewDashboardService 创建看板服务
func NewDashboardService(
	tokens *TokenService,
	client *spapi.Client,
	connRepo repository.ConnectionRepository,
	orderRepo repository.OrderRepository,
) *DashboardService {
	return &DashboardService{
		tokens:    tokens,
		spapi:     client,
		connRepo:  connRepo,
		orderRepo: orderRepo,
	}
}

// branchResult 单路调用结果
type branchResult struct {
	name string
	err  error
}

// BuildDashboard 组装聚合看板
func (s *DashboardService) BuildDashboard(ctx context.Context, userID int64) (*dto.DashboardResponse, error) {
	accessToken, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotConnected) {
			return &dto.DashboardResponse{Connected: false}, nil
		}
		return nil, err
	}

	marketplaceIDs := s.resolveMarketplaces(ctx, userID)

	// 各分支的结果槽位，分支内只写自己的槽，不需要锁
	var (
		sellerParts []spapi.MarketplaceParticipation
		orders      []spapi.Order
		inventory   []spapi.InventorySummary
		finGroups   []spapi.FinancialEventGroup
	)

	results := make([]branchResult, 4)
	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		var err error
		sellerParts, err = s.spapi.GetMarketplaceParticipations(ctx, accessToken)
		results[0] = branchResult{name: "seller", err: err}
	}()

	go func() {
		defer wg.Done()
		var err error
		orders, err = s.spapi.GetAllOrders(ctx, accessToken, &spapi.OrdersQuery{
			MarketplaceIDs: marketplaceIDs,
			CreatedAfter:   time.Now().AddDate(0, 0, -30),
		})
		results[1] = branchResult{name: "orders", err: err}
	}()

	go func() {
		defer wg.Done()
		var err error
		inventory, err = s.spapi.GetAllFbaInventory(ctx, accessToken, &spapi.InventoryQuery{
			MarketplaceIDs: marketplaceIDs,
			Details:        true,
		})
		results[2] = branchResult{name: "inventory", err: err}
	}()

	go func() {
		defer wg.Done()
		var err error
		finGroups, err = s.spapi.ListFinancialEventGroups(ctx, accessToken, time.Now().AddDate(0, 0, -30))
		results[3] = branchResult{name: "finance", err: err}
	}()

	// settle-all：等所有分支结束，不因第一个失败提前返回
	wg.Wait()

	resp := &dto.DashboardResponse{Connected: true}
	for _, r := range results {
		if r.err != nil {
			resp.Errors = append(resp.Errors, fmt.Sprintf("%s: %v", r.name, r.err))
		}
	}

	// 各区块独立降级：失败的分支保持零值
	if results[0].err == nil {
		resp.Seller = buildSellerSection(sellerParts)
	}
	if results[1].err == nil {
		resp.Orders = buildOrdersSection(orders)
		// 缓存前 50 单，纯尽力而为，失败不影响返回
		s.cacheOrders(ctx, userID, orders)
	}
	if results[2].err == nil {
		resp.Inventory = buildInventorySection(inventory)
	}
	if results[3].err == nil {
		resp.Finance = buildFinanceSection(finGroups)
	}

	return resp, nil
}

// resolveMarketplaces 从连接记录取站点 ID，缺省用北美站
func (s *DashboardService) resolveMarketplaces(ctx context.Context, userID int64) []string {
	conn, err := s.connRepo.GetByUserAndChannel(ctx, userID, model.ChannelAmazon)
	if err == nil && conn.MarketplaceID != "" {
		return []string{conn.MarketplaceID}
	}
	return []string{"ATVPDKIKX0DER"}
}

// ==================== 区块组装 ====================

func buildSellerSection(parts []spapi.MarketplaceParticipation) *dto.DashboardSeller {
	seller := &dto.DashboardSeller{}
	for _, p := range parts {
		if p.Participation.IsParticipating {
			seller.MarketplaceIDs = append(seller.MarketplaceIDs, p.Marketplace.ID)
		}
	}
	if len(parts) > 0 {
		seller.StoreName = parts[0].Marketplace.Name
	}
	return seller
}

func buildOrdersSection(orders []spapi.Order) dto.DashboardOrders {
	section := dto.DashboardOrders{TotalOrders: len(orders)}

	for _, o := range orders {
		switch o.OrderStatus {
		case model.OrderStatusShipped:
			section.ShippedCount++
		case model.OrderStatusUnshipped, model.OrderStatusPartiallyShipped:
			section.PendingCount++
		}

		if o.OrderTotal == nil {
			continue
		}
		// 解析失败的金额直接跳过，不让一条脏数据毁掉整个营收统计
		amount, err := strconv.ParseFloat(o.OrderTotal.Amount, 64)
		if err != nil {
			continue
		}
		section.TotalRevenue += amount
		if section.Currency == "" {
			section.Currency = o.OrderTotal.CurrencyCode
		}
	}
	return section
}

func buildInventorySection(summaries []spapi.InventorySummary) dto.DashboardInventory {
	section := dto.DashboardInventory{}
	skus := make(map[string]struct{})
	for _, inv := range summaries {
		section.TotalUnits += inv.TotalQuantity
		if inv.SellerSKU != "" {
			skus[inv.SellerSKU] = struct{}{}
		}
	}
	section.DistinctSKUs = len(skus)
	return section
}

func buildFinanceSection(groups []spapi.FinancialEventGroup) dto.DashboardFinance {
	section := dto.DashboardFinance{EventGroupCount: len(groups)}
	if len(groups) == 0 {
		return section
	}

	// 平台不承诺返回顺序，按结算期开始时间取最新一组
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].FinancialEventGroupStart > groups[j].FinancialEventGroupStart
	})
	if groups[0].OriginalTotal != nil {
		if amount, err := strconv.ParseFloat(groups[0].OriginalTotal.Amount, 64); err == nil {
			section.LatestTotal = amount
			section.Currency = groups[0].OriginalTotal.CurrencyCode
		}
	}
	return section
}

// ==================== 订单缓存 ====================

// cacheOrders 把前 N 单 upsert 进本地镜像
// 这是缓存刷新不是事务要求：单条失败记日志继续，整体失败不上抛
func (s *DashboardService) cacheOrders(ctx context.Context, userID int64, orders []spapi.Order) {
	limit := len(orders)
	if limit > dashboardOrderCacheSize {
		limit = dashboardOrderCacheSize
	}

	for i := 0; i < limit; i++ {
		row := orderToModel(userID, &orders[i])
		if err := s.orderRepo.Upsert(ctx, row); err != nil {
			log.Printf("[Dashboard] 订单 %s 缓存失败: %v", orders[i].AmazonOrderID, err)
		}
	}
}

// orderToModel 平台订单转本地镜像行
func orderToModel(userID int64, o *spapi.Order) *model.Order {
	row := &model.Order{
		UserID:             userID,
		AmazonOrderID:      o.AmazonOrderID,
		Channel:            model.ChannelAmazon,
		MarketplaceID:      o.MarketplaceID,
		Status:             o.OrderStatus,
		FulfillmentChannel: o.FulfillmentChannel,
		SalesChannel:       o.SalesChannel,
		ItemsShipped:       o.NumberOfItemsShipped,
		ItemsUnshipped:     o.NumberOfItemsUnshipped,
	}

	if o.OrderTotal != nil {
		row.CurrencyCode = o.OrderTotal.CurrencyCode
		if amount, err := strconv.ParseFloat(o.OrderTotal.Amount, 64); err == nil {
			row.TotalAmount = toCents(amount)
		}
	}

	if t, err := time.Parse(time.RFC3339, o.PurchaseDate); err == nil {
		row.PurchaseDate = &t
	}

	now := time.Now()
	row.SyncedAt = &now

	if raw, err := json.Marshal(o); err == nil {
		row.RawData = datatypes.JSON(raw)
	}
	return row
}
