package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"amazon_hub_v1_202608/internal/middleware"
	"amazon_hub_v1_202608/internal/repository"
)

type NotificationController struct {
	notifyRepo repository.NotificationRepository
}

func NewNotificationController(notifyRepo repository.NotificationRepository) *NotificationController {
	return &NotificationController{notifyRepo: notifyRepo}
}

// List 通知列表
// @Summary 通知列表
// @Tags Notification (通知)
// @Produce json
// @Security BearerAuth
// @Param unread_only query bool false "只看未读"
// @Param limit query int false "条数上限" default(50)
// @Success 200 {array} model.Notification
// @Router /api/v1/notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	unreadOnly := ctx.Query("unread_only") == "true"
	limit, _ := strconv.Atoi(ctx.Query("limit"))

	list, err := c.notifyRepo.ListByUser(ctx.Request.Context(), middleware.GetUserID(ctx), unreadOnly, limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, list)
}

// MarkRead 标记已读
// @Summary 标记已读
// @Description ids 为空时全部标记已读
// @Tags Notification (通知)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object false "{"ids": [1,2,3]}"
// @Success 200 {object} map[string]string "{"message": "已标记"}"
// @Router /api/v1/notifications/read [put]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	var req struct {
		IDs []int64 `json:"ids"`
	}
	_ = ctx.ShouldBindJSON(&req)

	if err := c.notifyRepo.MarkRead(ctx.Request.Context(), middleware.GetUserID(ctx), req.IDs); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "已标记"})
}
