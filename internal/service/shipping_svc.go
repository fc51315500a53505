package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"amazon_hub_v1_202608/pkg/spapi"
)

// ShippingService 自发货面单
// 询价和购买两步走：先拿 rates + requestToken，再按选中的 rateId 购买
type ShippingService struct {
	tokens  *TokenService
	spapi   *spapi.Client
	storage StorageProvider
}

// NewShippingService 创建物流服务
func NewShippingService(tokens *TokenService, client *spapi.Client, storage StorageProvider) *ShippingService {
	return &ShippingService{
		tokens:  tokens,
		spapi:   client,
		storage: storage,
	}
}

// GetRates 运费询价
func (s *ShippingService) GetRates(ctx context.Context, userID int64, req *spapi.RateRequest) ([]spapi.Rate, string, error) {
	accessToken, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	return s.spapi.GetShippingRates(ctx, accessToken, req)
}

// LabelResult 购买面单结果
type LabelResult struct {
	ShipmentID string   `json:"shipment_id"`
	TrackingID string   `json:"tracking_id"`
	LabelURLs  []string `json:"label_urls"`
}

// PurchaseLabel 购买面单并把文件归档到存储
// 面单文件归档失败不阻断购买结果，购买本身已在平台侧生效
func (s *ShippingService) PurchaseLabel(ctx context.Context, userID int64, requestToken, rateID string) (*LabelResult, error) {
	accessToken, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	shipment, err := s.spapi.PurchaseShipment(ctx, accessToken, requestToken, rateID)
	if err != nil {
		return nil, fmt.Errorf("购买面单失败: %w", err)
	}

	result := &LabelResult{ShipmentID: shipment.ShipmentID}
	for _, detail := range shipment.PackageDocumentDetails {
		if result.TrackingID == "" {
			result.TrackingID = detail.TrackingID
		}
		for _, doc := range detail.PackageDocuments {
			url, err := s.archiveLabel(ctx, shipment.ShipmentID, doc.Format, doc.Contents)
			if err != nil {
				continue
			}
			result.LabelURLs = append(result.LabelURLs, url)
		}
	}
	return result, nil
}

// GetTracking 查询包裹轨迹
func (s *ShippingService) GetTracking(ctx context.Context, userID int64, trackingID, carrierID string) (map[string]interface{}, error) {
	accessToken, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.spapi.GetTracking(ctx, accessToken, trackingID, carrierID)
}

// archiveLabel 面单内容是 base64，解码后按格式存档
func (s *ShippingService) archiveLabel(ctx context.Context, shipmentID, format, contents string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(contents)
	if err != nil {
		return "", fmt.Errorf("面单内容解码失败: %w", err)
	}

	ext, contentType := ".pdf", "application/pdf"
	switch strings.ToUpper(format) {
	case "PNG":
		ext, contentType = ".png", "image/png"
	case "ZPL":
		ext, contentType = ".zpl", "text/plain"
	}

	filename := fmt.Sprintf("label_%s%s", shipmentID, ext)
	return s.storage.Upload(ctx, data, filename, contentType)
}
