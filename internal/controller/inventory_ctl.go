package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"amazon_hub_v1_202608/internal/middleware"
	"amazon_hub_v1_202608/internal/service"
	"amazon_hub_v1_202608/pkg/spapi"
)

type InventoryController struct {
	invSvc *service.InventoryService
}

func NewInventoryController(invSvc *service.InventoryService) *InventoryController {
	return &InventoryController{invSvc: invSvc}
}

// SyncInventory 同步 FBA 库存
// @Summary 同步 FBA 库存
// @Tags Inventory (库存)
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int "{"upserted": N, "failed": N}"
// @Failure 409 {object} map[string]string "渠道未连接"
// @Router /api/v1/inventory/sync [post]
func (c *InventoryController) SyncInventory(ctx *gin.Context) {
	upserted, failed, err := c.invSvc.SyncInventory(ctx.Request.Context(), middleware.GetUserID(ctx))
	if err != nil {
		if errors.Is(err, service.ErrNotConnected) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "亚马逊渠道未连接，请先授权"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"upserted": upserted, "failed": failed})
}

// ListInventory 本地库存列表
// @Summary 本地库存列表
// @Tags Inventory (库存)
// @Produce json
// @Security BearerAuth
// @Param channel query string false "渠道筛选"
// @Success 200 {array} model.InventoryItem
// @Router /api/v1/inventory [get]
func (c *InventoryController) ListInventory(ctx *gin.Context) {
	items, err := c.invSvc.ListInventory(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Query("channel"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, items)
}

// ListInboundShipments 入库货件列表
// @Summary 入库货件列表
// @Tags Inventory (库存)
// @Produce json
// @Security BearerAuth
// @Param statuses query string false "状态列表，逗号分隔"
// @Success 200 {array} spapi.InboundShipmentInfo
// @Router /api/v1/inventory/inbound [get]
func (c *InventoryController) ListInboundShipments(ctx *gin.Context) {
	var statuses []string
	if raw := ctx.Query("statuses"); raw != "" {
		statuses = strings.Split(raw, ",")
	}

	shipments, err := c.invSvc.ListInboundShipments(ctx.Request.Context(), middleware.GetUserID(ctx), statuses)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, shipments)
}

// CreateInboundShipment 创建入库货件
// @Summary 创建入库货件
// @Tags Inventory (库存)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param shipment_id path string true "货件ID"
// @Param request body spapi.InboundShipmentRequest true "货件内容"
// @Success 200 {object} map[string]string "{"shipment_id": "..."}"
// @Router /api/v1/inventory/inbound/{shipment_id} [post]
func (c *InventoryController) CreateInboundShipment(ctx *gin.Context) {
	var req spapi.InboundShipmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	id, err := c.invSvc.CreateInboundShipment(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("shipment_id"), &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"shipment_id": id})
}

// UpdateInboundShipment 更新入库货件
// @Summary 更新入库货件
// @Tags Inventory (库存)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param shipment_id path string true "货件ID"
// @Param request body spapi.InboundShipmentRequest true "货件内容"
// @Success 200 {object} map[string]string "{"shipment_id": "..."}"
// @Router /api/v1/inventory/inbound/{shipment_id} [put]
func (c *InventoryController) UpdateInboundShipment(ctx *gin.Context) {
	var req spapi.InboundShipmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	id, err := c.invSvc.UpdateInboundShipment(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("shipment_id"), &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"shipment_id": id})
}

// GetInboundLabels 货件标签下载地址
// @Summary 货件标签下载地址
// @Tags Inventory (库存)
// @Produce json
// @Security BearerAuth
// @Param shipment_id path string true "货件ID"
// @Param page_type query string false "标签页类型"
// @Param label_type query string false "标签类型"
// @Success 200 {object} map[string]string "{"download_url": "..."}"
// @Router /api/v1/inventory/inbound/{shipment_id}/labels [get]
func (c *InventoryController) GetInboundLabels(ctx *gin.Context) {
	url, err := c.invSvc.GetInboundLabelURL(ctx.Request.Context(), middleware.GetUserID(ctx),
		ctx.Param("shipment_id"), ctx.Query("page_type"), ctx.Query("label_type"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"download_url": url})
}

// GetInboundTransport 货件运输详情
// @Summary 货件运输详情
// @Tags Inventory (库存)
// @Produce json
// @Security BearerAuth
// @Param shipment_id path string true "货件ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/inventory/inbound/{shipment_id}/transport [get]
func (c *InventoryController) GetInboundTransport(ctx *gin.Context) {
	detail, err := c.invSvc.GetInboundTransport(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("shipment_id"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// GetFulfillmentPreview 多渠道履约预览
// @Summary 多渠道履约预览
// @Tags Inventory (库存)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body spapi.FulfillmentPreviewRequest true "预览参数"
// @Success 200 {array} spapi.FulfillmentPreview
// @Router /api/v1/inventory/fulfillment/preview [post]
func (c *InventoryController) GetFulfillmentPreview(ctx *gin.Context) {
	var req spapi.FulfillmentPreviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	previews, err := c.invSvc.GetFulfillmentPreview(ctx.Request.Context(), middleware.GetUserID(ctx), &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, previews)
}
