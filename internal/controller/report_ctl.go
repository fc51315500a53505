package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"amazon_hub_v1_202608/internal/middleware"
	"amazon_hub_v1_202608/internal/service"
)

type ReportController struct {
	reportSvc *service.ReportService
}

func NewReportController(reportSvc *service.ReportService) *ReportController {
	return &ReportController{reportSvc: reportSvc}
}

// CreateReport 发起报告生成
// @Summary 发起报告生成
// @Description 报告生成是异步的，返回 report_id 供轮询和归档
// @Tags Report (报告)
// @Produce json
// @Security BearerAuth
// @Param report_type query string true "报告类型，如 GET_FLAT_FILE_OPEN_LISTINGS_DATA"
// @Param days query int false "数据起始偏移天数" default(30)
// @Success 200 {object} map[string]string "{"report_id": "..."}"
// @Router /api/v1/reports [post]
func (c *ReportController) CreateReport(ctx *gin.Context) {
	reportType := ctx.Query("report_type")
	if reportType == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "缺少 report_type 参数"})
		return
	}
	days, _ := strconv.Atoi(ctx.Query("days"))

	reportID, err := c.reportSvc.RequestReport(ctx.Request.Context(), middleware.GetUserID(ctx), reportType, days)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"report_id": reportID})
}

// GetReportStatus 查询报告状态
// @Summary 查询报告状态
// @Tags Report (报告)
// @Produce json
// @Security BearerAuth
// @Param report_id path string true "报告ID"
// @Success 200 {object} spapi.Report
// @Router /api/v1/reports/{report_id} [get]
func (c *ReportController) GetReportStatus(ctx *gin.Context) {
	report, err := c.reportSvc.GetReportStatus(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("report_id"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, report)
}

// ArchiveReport 归档报告
// @Summary 归档报告
// @Description 等报告生成完毕后下载并归档到对象存储，可能阻塞数分钟
// @Tags Report (报告)
// @Produce json
// @Security BearerAuth
// @Param report_id path string true "报告ID"
// @Success 200 {object} map[string]string "{"archive_url": "..."}"
// @Router /api/v1/reports/{report_id}/archive [post]
func (c *ReportController) ArchiveReport(ctx *gin.Context) {
	url, err := c.reportSvc.ArchiveReport(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("report_id"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"archive_url": url})
}
