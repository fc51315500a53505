package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"amazon_hub_v1_202608/internal/api/dto"
	"amazon_hub_v1_202608/internal/model"
	"amazon_hub_v1_202608/internal/repository"
	"amazon_hub_v1_202608/pkg/spapi"
)

// OrderService 订单同步与查询
// 平台是唯一事实来源，本地表只是镜像：同步 = 拉平台 + upsert
type OrderService struct {
	tokens     *TokenService
	spapi      *spapi.Client
	connRepo   repository.ConnectionRepository
	orderRepo  repository.OrderRepository
	notifyRepo repository.NotificationRepository
}

// NewOrderService 创建订单服务
func NewOrderService(
	tokens *TokenService,
	client *spapi.Client,
	connRepo repository.ConnectionRepository,
	orderRepo repository.OrderRepository,
	notifyRepo repository.NotificationRepository,
) *OrderService {
	return &OrderService{
		tokens:     tokens,
		spapi:      client,
		connRepo:   connRepo,
		orderRepo:  orderRepo,
		notifyRepo: notifyRepo,
	}
}

// SyncOrders 拉取最近 N 天订单并落库
// 单条 upsert 失败只计入 errors 继续，整批失败才报错
func (s *OrderService) SyncOrders(ctx context.Context, userID int64, days int) (*dto.SyncOrdersResponse, error) {
	if days <= 0 {
		days = 30
	}

	accessToken, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	orders, err := s.spapi.GetAllOrders(ctx, accessToken, &spapi.OrdersQuery{
		MarketplaceIDs: s.marketplaces(ctx, userID),
		CreatedAfter:   time.Now().AddDate(0, 0, -days),
	})
	if err != nil {
		return nil, fmt.Errorf("拉取订单失败: %w", err)
	}

	result := &dto.SyncOrdersResponse{TotalFetched: len(orders)}
	for i := range orders {
		row := orderToModel(userID, &orders[i])
		if err := s.orderRepo.Upsert(ctx, row); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", orders[i].AmazonOrderID, err))
			continue
		}
		result.Upserted++
	}

	s.notifySyncResult(ctx, userID, result)
	return result, nil
}

// GetOrderDetail 获取单个订单详情
// 先查平台拿最新状态，顺带把行项目也同步进镜像；平台失败时回落本地行
func (s *OrderService) GetOrderDetail(ctx context.Context, userID int64, amazonOrderID string) (*model.Order, error) {
	accessToken, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return s.orderRepo.GetByAmazonOrderID(ctx, userID, amazonOrderID)
	}

	remote, err := s.spapi.GetOrder(ctx, accessToken, amazonOrderID)
	if err != nil {
		return s.orderRepo.GetByAmazonOrderID(ctx, userID, amazonOrderID)
	}

	row := orderToModel(userID, remote)
	if err := s.orderRepo.Upsert(ctx, row); err != nil {
		return nil, err
	}

	// 行项目同步是附带动作，失败不影响详情返回
	if stored, err := s.orderRepo.GetByAmazonOrderID(ctx, userID, amazonOrderID); err == nil {
		s.syncOrderItems(ctx, accessToken, stored)
		return stored, nil
	}
	return row, nil
}

// ListLocalOrders 本地镜像分页查询
func (s *OrderService) ListLocalOrders(ctx context.Context, userID int64, req *dto.ListOrdersRequest) (*dto.ListOrdersResponse, error) {
	orders, total, err := s.orderRepo.List(ctx, repository.OrderFilter{
		UserID:   userID,
		Status:   req.Status,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.ListOrdersResponse{Total: total, List: make([]dto.OrderListItem, 0, len(orders))}
	for _, o := range orders {
		resp.List = append(resp.List, dto.OrderListItem{
			ID:             o.ID,
			AmazonOrderID:  o.AmazonOrderID,
			Status:         o.Status,
			TotalAmount:    float64(o.TotalAmount) / 100,
			Currency:       o.CurrencyCode,
			ItemsShipped:   o.ItemsShipped,
			ItemsUnshipped: o.ItemsUnshipped,
			PurchaseDate:   o.PurchaseDate,
			SyncedAt:       o.SyncedAt,
		})
	}
	return resp, nil
}

// syncOrderItems 同步单个订单的行项目
func (s *OrderService) syncOrderItems(ctx context.Context, accessToken string, order *model.Order) {
	page, err := s.spapi.GetOrderItems(ctx, accessToken, order.AmazonOrderID)
	if err != nil {
		return
	}

	items := make([]model.OrderItem, 0, len(page.OrderItems))
	for _, it := range page.OrderItems {
		row := model.OrderItem{
			OrderID:         order.ID,
			OrderItemID:     it.OrderItemID,
			ASIN:            it.ASIN,
			SellerSKU:       it.SellerSKU,
			Title:           it.Title,
			QuantityOrdered: it.QuantityOrdered,
			QuantityShipped: it.QuantityShipped,
		}
		if it.ItemPrice != nil {
			row.CurrencyCode = it.ItemPrice.CurrencyCode
			if amount, err := strconv.ParseFloat(it.ItemPrice.Amount, 64); err == nil {
				row.PriceAmount = toCents(amount)
			}
		}
		items = append(items, row)
	}

	if err := s.orderRepo.UpsertItems(ctx, items); err != nil {
		return
	}
	order.Items = items
}

// ==================== 买家消息 ====================

// GetMessagingActions 查询订单允许发送的消息类型
func (s *OrderService) GetMessagingActions(ctx context.Context, userID int64, amazonOrderID string) ([]spapi.MessagingAction, error) {
	accessToken, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.spapi.GetMessagingActions(ctx, accessToken, amazonOrderID, s.marketplaces(ctx, userID))
}

// SendOrderMessage 向买家发送订单消息
func (s *OrderService) SendOrderMessage(ctx context.Context, userID int64, amazonOrderID, messageType string, body map[string]interface{}) error {
	accessToken, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return err
	}
	return s.spapi.SendOrderMessage(ctx, accessToken, amazonOrderID, messageType, s.marketplaces(ctx, userID), body)
}

func (s *OrderService) marketplaces(ctx context.Context, userID int64) []string {
	conn, err := s.connRepo.GetByUserAndChannel(ctx, userID, model.ChannelAmazon)
	if err == nil && conn.MarketplaceID != "" {
		return []string{conn.MarketplaceID}
	}
	return []string{"ATVPDKIKX0DER"}
}

func (s *OrderService) notifySyncResult(ctx context.Context, userID int64, result *dto.SyncOrdersResponse) {
	level := model.NotifyLevelInfo
	if len(result.Errors) > 0 {
		level = model.NotifyLevelWarning
	}
	_ = s.notifyRepo.Create(ctx, &model.Notification{
		UserID: userID,
		Level:  level,
		Title:  "订单同步完成",
		Content: fmt.Sprintf("拉取 %d 条，入库 %d 条，失败 %d 条",
			result.TotalFetched, result.Upserted, len(result.Errors)),
	})
}
