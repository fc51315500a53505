package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"amazon_hub_v1_202608/internal/model"
	"amazon_hub_v1_202608/internal/repository"
	"amazon_hub_v1_202608/pkg/spapi"
)

// FinanceService 结算事件同步与查询
type FinanceService struct {
	tokens      *TokenService
	spapi       *spapi.Client
	financeRepo repository.FinanceRepository
}

// NewFinanceService 创建结算服务
func NewFinanceService(tokens *TokenService, client *spapi.Client, financeRepo repository.FinanceRepository) *FinanceService {
	return &FinanceService{
		tokens:      tokens,
		spapi:       client,
		financeRepo: financeRepo,
	}
}

// SyncEventGroups 同步最近 N 天的结算事件组
func (s *FinanceService) SyncEventGroups(ctx context.Context, userID int64, days int) (int, error) {
	if days <= 0 {
		days = 90
	}

	accessToken, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return 0, err
	}

	groups, err := s.spapi.ListFinancialEventGroups(ctx, accessToken, time.Now().AddDate(0, 0, -days))
	if err != nil {
		return 0, fmt.Errorf("拉取结算事件组失败: %w", err)
	}

	now := time.Now()
	upserted := 0
	for _, g := range groups {
		row := &model.FinancialEvent{
			UserID:             userID,
			EventGroupID:       g.FinancialEventGroupID,
			ProcessingStatus:   g.ProcessingStatus,
			FundTransferStatus: g.FundTransferStatus,
			SyncedAt:           &now,
		}
		if g.OriginalTotal != nil {
			row.CurrencyCode = g.OriginalTotal.CurrencyCode
			if amount, err := strconv.ParseFloat(g.OriginalTotal.Amount, 64); err == nil {
				row.OriginalAmount = toCents(amount)
			}
		}
		if g.ConvertedTotal != nil {
			if amount, err := strconv.ParseFloat(g.ConvertedTotal.Amount, 64); err == nil {
				row.ConvertedAmount = toCents(amount)
			}
		}
		if t, err := time.Parse(time.RFC3339, g.FinancialEventGroupStart); err == nil {
			row.PeriodStart = &t
		}
		if t, err := time.Parse(time.RFC3339, g.FinancialEventGroupEnd); err == nil {
			row.PeriodEnd = &t
		}

		if err := s.financeRepo.Upsert(ctx, row); err != nil {
			continue
		}
		upserted++
	}
	return upserted, nil
}

// ListEventGroups 本地结算事件组列表
func (s *FinanceService) ListEventGroups(ctx context.Context, userID int64, limit int) ([]model.FinancialEvent, error) {
	return s.financeRepo.ListByUser(ctx, userID, limit)
}

// ListShipmentEvents 实时拉取发货结算明细（不落库）
func (s *FinanceService) ListShipmentEvents(ctx context.Context, userID int64, days int) ([]spapi.ShipmentEvent, error) {
	if days <= 0 {
		days = 30
	}
	accessToken, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.spapi.ListFinancialEvents(ctx, accessToken, time.Now().AddDate(0, 0, -days))
}
