package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"amazon_hub_v1_202608/internal/middleware"
	"amazon_hub_v1_202608/internal/service"
	"amazon_hub_v1_202608/pkg/spapi"
)

type ShippingController struct {
	shippingSvc *service.ShippingService
}

func NewShippingController(shippingSvc *service.ShippingService) *ShippingController {
	return &ShippingController{shippingSvc: shippingSvc}
}

// GetRates 运费询价
// @Summary 运费询价
// @Description 返回 rates 和 request_token，购买面单时回传
// @Tags Shipping (物流)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body spapi.RateRequest true "询价参数"
// @Success 200 {object} map[string]interface{} "{"rates": [...], "request_token": "..."}"
// @Router /api/v1/shipping/rates [post]
func (c *ShippingController) GetRates(ctx *gin.Context) {
	var req spapi.RateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	rates, requestToken, err := c.shippingSvc.GetRates(ctx.Request.Context(), middleware.GetUserID(ctx), &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"rates": rates, "request_token": requestToken})
}

// PurchaseLabel 购买面单
// @Summary 购买面单
// @Description 按询价结果购买，面单文件自动归档到存储并返回 URL
// @Tags Shipping (物流)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "{"request_token": "...", "rate_id": "..."}"
// @Success 200 {object} service.LabelResult
// @Router /api/v1/shipping/labels [post]
func (c *ShippingController) PurchaseLabel(ctx *gin.Context) {
	var req struct {
		RequestToken string `json:"request_token" binding:"required"`
		RateID       string `json:"rate_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	result, err := c.shippingSvc.PurchaseLabel(ctx.Request.Context(), middleware.GetUserID(ctx), req.RequestToken, req.RateID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetTracking 包裹轨迹
// @Summary 包裹轨迹
// @Tags Shipping (物流)
// @Produce json
// @Security BearerAuth
// @Param tracking_id query string true "运单号"
// @Param carrier_id query string true "承运商ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/shipping/tracking [get]
func (c *ShippingController) GetTracking(ctx *gin.Context) {
	trackingID := ctx.Query("tracking_id")
	carrierID := ctx.Query("carrier_id")
	if trackingID == "" || carrierID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "缺少 tracking_id 或 carrier_id"})
		return
	}

	tracking, err := c.shippingSvc.GetTracking(ctx.Request.Context(), middleware.GetUserID(ctx), trackingID, carrierID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, tracking)
}
