package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"amazon_hub_v1_202608/internal/middleware"
	"amazon_hub_v1_202608/internal/service"
)

type FinanceController struct {
	financeSvc *service.FinanceService
}

func NewFinanceController(financeSvc *service.FinanceService) *FinanceController {
	return &FinanceController{financeSvc: financeSvc}
}

// SyncEventGroups 同步结算事件组
// @Summary 同步结算事件组
// @Tags Finance (结算)
// @Produce json
// @Security BearerAuth
// @Param days query int false "同步最近 N 天" default(90)
// @Success 200 {object} map[string]int "{"upserted": N}"
// @Router /api/v1/finance/sync [post]
func (c *FinanceController) SyncEventGroups(ctx *gin.Context) {
	days, _ := strconv.Atoi(ctx.Query("days"))

	upserted, err := c.financeSvc.SyncEventGroups(ctx.Request.Context(), middleware.GetUserID(ctx), days)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"upserted": upserted})
}

// ListEventGroups 本地结算事件组列表
// @Summary 结算事件组列表
// @Tags Finance (结算)
// @Produce json
// @Security BearerAuth
// @Param limit query int false "条数上限" default(50)
// @Success 200 {array} model.FinancialEvent
// @Router /api/v1/finance/event-groups [get]
func (c *FinanceController) ListEventGroups(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	events, err := c.financeSvc.ListEventGroups(ctx.Request.Context(), middleware.GetUserID(ctx), limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, events)
}

// ListShipmentEvents 发货结算明细
// @Summary 发货结算明细
// @Description 实时拉取，不落库
// @Tags Finance (结算)
// @Produce json
// @Security BearerAuth
// @Param days query int false "最近 N 天" default(30)
// @Success 200 {array} spapi.ShipmentEvent
// @Router /api/v1/finance/shipment-events [get]
func (c *FinanceController) ListShipmentEvents(ctx *gin.Context) {
	days, _ := strconv.Atoi(ctx.Query("days"))

	events, err := c.financeSvc.ListShipmentEvents(ctx.Request.Context(), middleware.GetUserID(ctx), days)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, events)
}
