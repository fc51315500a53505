package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"amazon_hub_v1_202608/internal/api/dto"
	"amazon_hub_v1_202608/internal/model"
	"amazon_hub_v1_202608/internal/repository"
	"amazon_hub_v1_202608/pkg/spapi"
)

// ListingService listing 发布向导
// 提交结果里的 issues 原样透传给前端，含 ERROR 级条目时 Accepted=false
type ListingService struct {
	tokens      *TokenService
	spapi       *spapi.Client
	connRepo    repository.ConnectionRepository
	listingRepo repository.ListingRepository
}

// NewListingService 创建 listing 服务
func NewListingService(
	tokens *TokenService,
	client *spapi.Client,
	connRepo repository.ConnectionRepository,
	listingRepo repository.ListingRepository,
) *ListingService {
	return &ListingService{
		tokens:      tokens,
		spapi:       client,
		connRepo:    connRepo,
		listingRepo: listingRepo,
	}
}

// sellerContext 取发布所需的卖家身份，未连接或缺 sellerId 时报错
func (s *ListingService) sellerContext(ctx context.Context, userID int64) (accessToken, sellerID string, marketplaceIDs []string, err error) {
	accessToken, err = s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return "", "", nil, err
	}

	conn, err := s.connRepo.GetByUserAndChannel(ctx, userID, model.ChannelAmazon)
	if err != nil {
		return "", "", nil, ErrNotConnected
	}
	if conn.SellerID == "" {
		return "", "", nil, fmt.Errorf("连接记录缺少 sellerId，请重新授权")
	}

	marketplaceIDs = []string{"ATVPDKIKX0DER"}
	if conn.MarketplaceID != "" {
		marketplaceIDs = []string{conn.MarketplaceID}
	}
	return accessToken, conn.SellerID, marketplaceIDs, nil
}

// SearchCatalog 发布向导第一步：按关键词搜目录做 ASIN 匹配
func (s *ListingService) SearchCatalog(ctx context.Context, userID int64, keywords string) (*spapi.CatalogSearchResult, error) {
	accessToken, _, marketplaceIDs, err := s.sellerContext(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.spapi.SearchCatalogItems(ctx, accessToken, keywords, marketplaceIDs)
}

// CreateListing 创建 listing（PUT 全量提交）
func (s *ListingService) CreateListing(ctx context.Context, userID int64, req *dto.CreateListingRequest) (*dto.ListingSubmissionResult, error) {
	accessToken, sellerID, marketplaceIDs, err := s.sellerContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	attributes := req.Attributes
	if attributes == nil {
		attributes = map[string]interface{}{}
	}
	// 标题和价格是向导表单字段，没在 attributes 里显式给出时补进去
	if req.Title != "" {
		if _, ok := attributes["item_name"]; !ok {
			attributes["item_name"] = []map[string]interface{}{
				{"value": req.Title, "marketplace_id": marketplaceIDs[0]},
			}
		}
	}
	if req.Price > 0 {
		if _, ok := attributes["purchasable_offer"]; !ok {
			attributes["purchasable_offer"] = []map[string]interface{}{
				{
					"marketplace_id": marketplaceIDs[0],
					"currency":       req.Currency,
					"our_price": []map[string]interface{}{
						{"schedule": []map[string]interface{}{{"value_with_tax": req.Price}}},
					},
				},
			}
		}
	}

	sub, err := s.spapi.PutListingsItem(ctx, accessToken, sellerID, req.SKU, marketplaceIDs, &spapi.ListingsPutBody{
		ProductType: req.ProductType,
		Attributes:  attributes,
	})
	if err != nil {
		return nil, err
	}

	s.mirrorSubmission(ctx, userID, req, sub)
	return submissionResult(sub), nil
}

// PatchListing 局部更新（改价、改描述等）
func (s *ListingService) PatchListing(ctx context.Context, userID int64, sku string, req *dto.PatchListingRequest) (*dto.ListingSubmissionResult, error) {
	accessToken, sellerID, marketplaceIDs, err := s.sellerContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	patches := make([]spapi.ListingsPatchOp, 0, len(req.Patches))
	for _, p := range req.Patches {
		patches = append(patches, spapi.ListingsPatchOp{Op: p.Op, Path: p.Path, Value: p.Value})
	}

	sub, err := s.spapi.PatchListingsItem(ctx, accessToken, sellerID, sku, marketplaceIDs, req.ProductType, patches)
	if err != nil {
		return nil, err
	}

	s.touchMirror(ctx, userID, sku, sub)
	return submissionResult(sub), nil
}

// DeleteListing 下架并删除本地镜像
func (s *ListingService) DeleteListing(ctx context.Context, userID int64, sku string) (*dto.ListingSubmissionResult, error) {
	accessToken, sellerID, marketplaceIDs, err := s.sellerContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	sub, err := s.spapi.DeleteListingsItem(ctx, accessToken, sellerID, sku, marketplaceIDs)
	if err != nil {
		return nil, err
	}

	if !spapi.HasErrorIssue(sub.Issues) {
		_ = s.listingRepo.Delete(ctx, userID, sku, model.ChannelAmazon)
	}
	return submissionResult(sub), nil
}

// GetListing 平台实时详情，顺带刷新本地镜像
func (s *ListingService) GetListing(ctx context.Context, userID int64, sku string) (*spapi.ListingsItem, error) {
	accessToken, sellerID, marketplaceIDs, err := s.sellerContext(ctx, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.spapi.GetListingsItem(ctx, accessToken, sellerID, sku, marketplaceIDs)
	if err != nil {
		return nil, err
	}

	s.mirrorItem(ctx, userID, item)
	return item, nil
}

// ListLocal 本地镜像列表
func (s *ListingService) ListLocal(ctx context.Context, userID int64) ([]model.Listing, error) {
	return s.listingRepo.ListByUser(ctx, userID, model.ChannelAmazon)
}

// EstimateFees 发布前的平台费用预估
func (s *ListingService) EstimateFees(ctx context.Context, userID int64, sku string, price float64, currency string) (*spapi.FeesEstimate, error) {
	accessToken, _, marketplaceIDs, err := s.sellerContext(ctx, userID)
	if err != nil {
		return nil, err
	}
	money := spapi.Money{
		CurrencyCode: currency,
		Amount:       fmt.Sprintf("%.2f", price),
	}
	return s.spapi.GetMyFeesEstimateForSKU(ctx, accessToken, sku, marketplaceIDs[0], money)
}

// ==================== 定价参考 ====================

// GetCompetitivePricing 批量查询 ASIN 竞争定价（定价参考页用）
func (s *ListingService) GetCompetitivePricing(ctx context.Context, userID int64, asins []string) ([]spapi.CompetitivePrice, error) {
	accessToken, _, marketplaceIDs, err := s.sellerContext(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.spapi.GetCompetitivePricing(ctx, accessToken, marketplaceIDs[0], asins)
}

// GetItemOffers 查询单个 ASIN 的报价汇总（含 BuyBox）
func (s *ListingService) GetItemOffers(ctx context.Context, userID int64, asin, condition string) (*spapi.ItemOffers, error) {
	accessToken, _, marketplaceIDs, err := s.sellerContext(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.spapi.GetItemOffers(ctx, accessToken, marketplaceIDs[0], asin, condition)
}

// GetCatalogItem 按 ASIN 查目录详情（向导第二步确认商品用）
func (s *ListingService) GetCatalogItem(ctx context.Context, userID int64, asin string) (*spapi.CatalogItem, error) {
	accessToken, _, marketplaceIDs, err := s.sellerContext(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.spapi.GetCatalogItem(ctx, accessToken, asin, marketplaceIDs)
}

// ==================== 镜像维护 ====================

func (s *ListingService) mirrorSubmission(ctx context.Context, userID int64, req *dto.CreateListingRequest, sub *spapi.ListingsSubmission) {
	now := time.Now()
	row := &model.Listing{
		UserID:       userID,
		SKU:          req.SKU,
		Channel:      model.ChannelAmazon,
		Title:        req.Title,
		ProductType:  req.ProductType,
		Status:       sub.Status,
		PriceAmount:  toCents(req.Price),
		CurrencyCode: req.Currency,
		SubmissionID: sub.SubmissionID,
		SyncedAt:     &now,
	}
	if raw, err := json.Marshal(req.Attributes); err == nil {
		row.Attributes = datatypes.JSON(raw)
	}
	if raw, err := json.Marshal(sub.Issues); err == nil {
		row.Issues = datatypes.JSON(raw)
	}
	_ = s.listingRepo.Upsert(ctx, row)
}

func (s *ListingService) touchMirror(ctx context.Context, userID int64, sku string, sub *spapi.ListingsSubmission) {
	existing, err := s.listingRepo.GetBySKU(ctx, userID, sku, model.ChannelAmazon)
	if err != nil {
		return
	}
	now := time.Now()
	existing.Status = sub.Status
	existing.SubmissionID = sub.SubmissionID
	existing.SyncedAt = &now
	if raw, err := json.Marshal(sub.Issues); err == nil {
		existing.Issues = datatypes.JSON(raw)
	}
	_ = s.listingRepo.Upsert(ctx, existing)
}

func (s *ListingService) mirrorItem(ctx context.Context, userID int64, item *spapi.ListingsItem) {
	now := time.Now()
	row := &model.Listing{
		UserID:   userID,
		SKU:      item.SKU,
		Channel:  model.ChannelAmazon,
		SyncedAt: &now,
	}
	if len(item.Summaries) > 0 {
		sum := item.Summaries[0]
		row.ASIN = sum.ASIN
		row.Title = sum.ItemName
		row.ProductType = sum.ProductType
		if len(sum.Status) > 0 {
			row.Status = sum.Status[0]
		}
	}
	if len(item.Attributes) > 0 {
		row.Attributes = datatypes.JSON(item.Attributes)
	}
	if raw, err := json.Marshal(item.Issues); err == nil {
		row.Issues = datatypes.JSON(raw)
	}
	_ = s.listingRepo.Upsert(ctx, row)
}

func submissionResult(sub *spapi.ListingsSubmission) *dto.ListingSubmissionResult {
	return &dto.ListingSubmissionResult{
		SKU:          sub.SKU,
		Status:       sub.Status,
		SubmissionID: sub.SubmissionID,
		Accepted:     !spapi.HasErrorIssue(sub.Issues),
		Issues:       sub.Issues,
	}
}
