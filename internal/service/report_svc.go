package service

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"amazon_hub_v1_202608/internal/model"
	"amazon_hub_v1_202608/internal/repository"
	"amazon_hub_v1_202608/pkg/spapi"
)

// 报告轮询参数
const (
	reportPollInterval = 10 * time.Second
	reportPollMax      = 30 // 最多等 5 分钟
)

// ReportService 报告生成与归档
// 流程：发起生成 -> 轮询状态 -> 下载文档 -> 归档到存储
type ReportService struct {
	tokens   *TokenService
	spapi    *spapi.Client
	connRepo repository.ConnectionRepository
	storage  StorageProvider
	http     *resty.Client
}

// NewReportService 创建报告服务
func NewReportService(
	tokens *TokenService,
	client *spapi.Client,
	connRepo repository.ConnectionRepository,
	storage StorageProvider,
) *ReportService {
	return &ReportService{
		tokens:   tokens,
		spapi:    client,
		connRepo: connRepo,
		storage:  storage,
		http:     resty.New().SetTimeout(60 * time.Second),
	}
}

// RequestReport 发起报告生成，返回 reportId 供后续查询
func (s *ReportService) RequestReport(ctx context.Context, userID int64, reportType string, days int) (string, error) {
	if days <= 0 {
		days = 30
	}

	accessToken, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return "", err
	}

	return s.spapi.CreateReport(ctx, accessToken, reportType,
		s.marketplaces(ctx, userID), time.Now().AddDate(0, 0, -days))
}

// GetReportStatus 查询报告状态
func (s *ReportService) GetReportStatus(ctx context.Context, userID int64, reportID string) (*spapi.Report, error) {
	accessToken, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.spapi.GetReport(ctx, accessToken, reportID)
}

// ArchiveReport 等报告生成完毕，下载文档并归档到存储，返回归档 URL
// 报告生成是异步的，这个调用可能阻塞数分钟，调用方应放在后台执行
func (s *ReportService) ArchiveReport(ctx context.Context, userID int64, reportID string) (string, error) {
	accessToken, err := s.tokens.GetValidAccessToken(ctx, userID)
	if err != nil {
		return "", err
	}

	report, err := s.waitForReport(ctx, accessToken, reportID)
	if err != nil {
		return "", err
	}

	doc, err := s.spapi.GetReportDocument(ctx, accessToken, report.ReportDocumentID)
	if err != nil {
		return "", err
	}

	data, err := s.downloadDocument(ctx, doc)
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("report_%s_%s.txt", strings.ToLower(report.ReportType), reportID)
	return s.storage.Upload(ctx, data, filename, "text/tab-separated-values")
}

// waitForReport 轮询直到 DONE，失败态直接报错
func (s *ReportService) waitForReport(ctx context.Context, accessToken, reportID string) (*spapi.Report, error) {
	for i := 0; i < reportPollMax; i++ {
		report, err := s.spapi.GetReport(ctx, accessToken, reportID)
		if err != nil {
			return nil, err
		}

		switch report.ProcessingStatus {
		case "DONE":
			return report, nil
		case "CANCELLED", "FATAL":
			return nil, fmt.Errorf("报告 %s 生成失败: %s", reportID, report.ProcessingStatus)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(reportPollInterval):
		}
	}
	return nil, fmt.Errorf("报告 %s 等待超时", reportID)
}

// downloadDocument 下载报告文档，按需解压
// 下载地址是亚马逊预签名 URL，不带 x-amz-access-token
func (s *ReportService) downloadDocument(ctx context.Context, doc *spapi.ReportDocument) ([]byte, error) {
	resp, err := s.http.R().SetContext(ctx).Get(doc.URL)
	if err != nil {
		return nil, fmt.Errorf("下载报告文档失败: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("下载报告文档失败: HTTP %d", resp.StatusCode())
	}

	data := resp.Body()
	if doc.CompressionAlgorithm == "GZIP" {
		gz, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("解压报告失败: %w", err)
		}
		defer gz.Close()
		if data, err = io.ReadAll(gz); err != nil {
			return nil, fmt.Errorf("解压报告失败: %w", err)
		}
	}
	return data, nil
}

func (s *ReportService) marketplaces(ctx context.Context, userID int64) []string {
	conn, err := s.connRepo.GetByUserAndChannel(ctx, userID, model.ChannelAmazon)
	if err == nil && conn.MarketplaceID != "" {
		return []string{conn.MarketplaceID}
	}
	return []string{"ATVPDKIKX0DER"}
}
