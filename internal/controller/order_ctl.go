package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"amazon_hub_v1_202608/internal/api/dto"
	"amazon_hub_v1_202608/internal/middleware"
	"amazon_hub_v1_202608/internal/service"
)

type OrderController struct {
	orderSvc *service.OrderService
}

func NewOrderController(orderSvc *service.OrderService) *OrderController {
	return &OrderController{orderSvc: orderSvc}
}

// SyncOrders 同步订单
// @Summary 同步订单
// @Description 拉取最近 N 天平台订单并落库，默认 30 天
// @Tags Order (订单)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SyncOrdersRequest false "同步参数"
// @Success 200 {object} dto.SyncOrdersResponse
// @Failure 409 {object} map[string]string "渠道未连接"
// @Router /api/v1/orders/sync [post]
func (c *OrderController) SyncOrders(ctx *gin.Context) {
	var req dto.SyncOrdersRequest
	_ = ctx.ShouldBindJSON(&req) // body 可空

	resp, err := c.orderSvc.SyncOrders(ctx.Request.Context(), middleware.GetUserID(ctx), req.Days)
	if err != nil {
		if errors.Is(err, service.ErrNotConnected) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "亚马逊渠道未连接，请先授权"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListOrders 本地订单列表
// @Summary 本地订单列表
// @Tags Order (订单)
// @Produce json
// @Security BearerAuth
// @Param status query string false "状态筛选"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} dto.ListOrdersResponse
// @Router /api/v1/orders [get]
func (c *OrderController) ListOrders(ctx *gin.Context) {
	var req dto.ListOrdersRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	resp, err := c.orderSvc.ListLocalOrders(ctx.Request.Context(), middleware.GetUserID(ctx), &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetOrderDetail 订单详情
// @Summary 订单详情
// @Description 优先查平台实时数据并刷新镜像，平台不可用时回落本地行
// @Tags Order (订单)
// @Produce json
// @Security BearerAuth
// @Param order_id path string true "亚马逊订单号"
// @Success 200 {object} model.Order
// @Failure 404 {object} map[string]string "订单不存在"
// @Router /api/v1/orders/{order_id} [get]
func (c *OrderController) GetOrderDetail(ctx *gin.Context) {
	order, err := c.orderSvc.GetOrderDetail(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("order_id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "订单不存在或拉取失败"})
		return
	}
	ctx.JSON(http.StatusOK, order)
}

// GetMessagingActions 可用消息类型
// @Summary 订单可用消息类型
// @Tags Order (订单)
// @Produce json
// @Security BearerAuth
// @Param order_id path string true "亚马逊订单号"
// @Success 200 {array} spapi.MessagingAction
// @Router /api/v1/orders/{order_id}/messaging-actions [get]
func (c *OrderController) GetMessagingActions(ctx *gin.Context) {
	actions, err := c.orderSvc.GetMessagingActions(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("order_id"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, actions)
}

// SendMessage 向买家发送消息
// @Summary 发送订单消息
// @Tags Order (订单)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param order_id path string true "亚马逊订单号"
// @Param message_type path string true "消息类型，取自 messaging-actions 返回"
// @Param request body map[string]interface{} true "消息内容"
// @Success 200 {object} map[string]string "{"message": "发送成功"}"
// @Router /api/v1/orders/{order_id}/messages/{message_type} [post]
func (c *OrderController) SendMessage(ctx *gin.Context) {
	var body map[string]interface{}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	err := c.orderSvc.SendOrderMessage(ctx.Request.Context(), middleware.GetUserID(ctx),
		ctx.Param("order_id"), ctx.Param("message_type"), body)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "发送成功"})
}
