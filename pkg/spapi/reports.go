package spapi

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Report 报告元数据（Reports API 2021-06-30）
type Report struct {
	ReportID         string `json:"reportId"`
	ReportType       string `json:"reportType"`
	ProcessingStatus string `json:"processingStatus"` // IN_QUEUE / IN_PROGRESS / DONE / CANCELLED / FATAL
	ReportDocumentID string `json:"reportDocumentId,omitempty"`
	CreatedTime      string `json:"createdTime,omitempty"`
}

// ReportDocument 报告文档下载信息
type ReportDocument struct {
	ReportDocumentID     string `json:"reportDocumentId"`
	URL                  string `json:"url"`
	CompressionAlgorithm string `json:"compressionAlgorithm,omitempty"`
}

// CreateReport 发起报告生成，返回 reportId
func (c *Client) CreateReport(ctx context.Context, accessToken, reportType string, marketplaceIDs []string, dataStartTime time.Time) (string, error) {
	body := map[string]interface{}{
		"reportType":     reportType,
		"marketplaceIds": marketplaceIDs,
	}
	if !dataStartTime.IsZero() {
		body["dataStartTime"] = dataStartTime.UTC().Format(time.RFC3339)
	}

	var resp struct {
		ReportID string `json:"reportId"`
	}
	opts := &RequestOptions{Method: http.MethodPost, Body: body}
	if err := c.callInto(ctx, accessToken, "/reports/2021-06-30/reports", opts, &resp); err != nil {
		return "", err
	}
	return resp.ReportID, nil
}

// GetReport 轮询报告状态
func (c *Client) GetReport(ctx context.Context, accessToken, reportID string) (*Report, error) {
	var report Report
	path := fmt.Sprintf("/reports/2021-06-30/reports/%s", reportID)
	if err := c.callInto(ctx, accessToken, path, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetReportDocument 获取报告文档的下载地址
func (c *Client) GetReportDocument(ctx context.Context, accessToken, documentID string) (*ReportDocument, error) {
	var doc ReportDocument
	path := fmt.Sprintf("/reports/2021-06-30/documents/%s", documentID)
	if err := c.callInto(ctx, accessToken, path, nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
