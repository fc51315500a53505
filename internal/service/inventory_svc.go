package service

import (
	"context"
	"fmt"
	"time"

	"amazon_hub_v1_202608/internal/model"
	"amazon_hub_v1_202608/internal/repository"
	"amazon_hub_v1_202608/pkg/spapi"
)

// InventoryService FBA 库存同步与查询
type InventoryService struct {
	tokens   *TokenService
	spapi    *spapi.Client
	connRepo repository.ConnectionRepository
	invRepo  repository.InventoryRepository
}

// NewInventoryService 创建库存服务
func NewInventoryService(
	tokens *TokenService,
	client *spapi.Client,
	connRepo repository.ConnectionRepository,
	invRepo repository.InventoryRepository,
) *InventoryService {
	return &InventoryService{
		tokens:   tokens,
		spapi:    client,
		connRepo: connRepo,
		invRepo:  invRepo,
	}
}

// SyncInventory 全量拉取 FBA 库存并落库，返回 (入库条数, 失败条数)
func (s *InventoryService) SyncInventory(ctx context.Context, userID int64) (int, int, error) {
	accessToken, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	summaries, err := s.spapi.GetAllFbaInventory(ctx, accessToken, &spapi.InventoryQuery{
		MarketplaceIDs: s.marketplaces(ctx, userID),
		Details:        true,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("拉取库存失败: %w", err)
	}

	now := time.Now()
	upserted, failed := 0, 0
	for _, sum := range summaries {
		if sum.SellerSKU == "" {
			continue
		}
		item := &model.InventoryItem{
			UserID:        userID,
			SKU:           sum.SellerSKU,
			Channel:       model.ChannelAmazon,
			ASIN:          sum.ASIN,
			FnSKU:         sum.FnSKU,
			ProductName:   sum.ProductName,
			Condition:     sum.Condition,
			TotalQuantity: sum.TotalQuantity,
			SyncedAt:      &now,
		}
		if sum.InventoryDetails != nil {
			item.FulfillableQuantity = sum.InventoryDetails.FulfillableQuantity
			item.InboundQuantity = sum.InventoryDetails.InboundWorkingQuantity +
				sum.InventoryDetails.InboundShippedQuantity +
				sum.InventoryDetails.InboundReceivingQuantity
		}
		if err := s.invRepo.Upsert(ctx, item); err != nil {
			failed++
			continue
		}
		upserted++
	}
	return upserted, failed, nil
}

// ListInventory 本地库存镜像列表
func (s *InventoryService) ListInventory(ctx context.Context, userID int64, channel string) ([]model.InventoryItem, error) {
	return s.invRepo.ListByUser(ctx, userID, channel)
}

// ==================== FBA 入库 ====================

// ListInboundShipments 按状态列出入库货件
func (s *InventoryService) ListInboundShipments(ctx context.Context, userID int64, statuses []string) ([]spapi.InboundShipmentInfo, error) {
	accessToken, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		statuses = []string{"WORKING", "SHIPPED", "RECEIVING", "CLOSED"}
	}
	return s.spapi.GetInboundShipments(ctx, accessToken, s.marketplaces(ctx, userID)[0], statuses)
}

// CreateInboundShipment 创建入库货件
func (s *InventoryService) CreateInboundShipment(ctx context.Context, userID int64, shipmentID string, req *spapi.InboundShipmentRequest) (string, error) {
	accessToken, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return "", err
	}
	if req.MarketplaceID == "" {
		req.MarketplaceID = s.marketplaces(ctx, userID)[0]
	}
	return s.spapi.CreateInboundShipment(ctx, accessToken, shipmentID, req)
}

// UpdateInboundShipment 更新入库货件
func (s *InventoryService) UpdateInboundShipment(ctx context.Context, userID int64, shipmentID string, req *spapi.InboundShipmentRequest) (string, error) {
	accessToken, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.spapi.UpdateInboundShipment(ctx, accessToken, shipmentID, req)
}

// GetInboundLabelURL 获取货件标签下载地址
func (s *InventoryService) GetInboundLabelURL(ctx context.Context, userID int64, shipmentID, pageType, labelType string) (string, error) {
	accessToken, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return "", err
	}
	if pageType == "" {
		pageType = "PackageLabel_Letter_2"
	}
	if labelType == "" {
		labelType = "BARCODE_2D"
	}
	return s.spapi.GetInboundLabels(ctx, accessToken, shipmentID, pageType, labelType)
}

// GetInboundTransport 货件运输详情
func (s *InventoryService) GetInboundTransport(ctx context.Context, userID int64, shipmentID string) (map[string]interface{}, error) {
	accessToken, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.spapi.GetInboundTransport(ctx, accessToken, shipmentID)
}

// GetFulfillmentPreview 多渠道履约预览
func (s *InventoryService) GetFulfillmentPreview(ctx context.Context, userID int64, req *spapi.FulfillmentPreviewRequest) ([]spapi.FulfillmentPreview, error) {
	accessToken, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.MarketplaceID == "" {
		req.MarketplaceID = s.marketplaces(ctx, userID)[0]
	}
	return s.spapi.GetFulfillmentPreview(ctx, accessToken, req)
}

func (s *InventoryService) marketplaces(ctx context.Context, userID int64) []string {
	conn, err := s.connRepo.GetByUserAndChannel(ctx, userID, model.ChannelAmazon)
	if err == nil && conn.MarketplaceID != "" {
		return []string{conn.MarketplaceID}
	}
	return []string{"ATVPDKIKX0DER"}
}
