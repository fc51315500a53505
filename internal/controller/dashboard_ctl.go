package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"amazon_hub_v1_202608/internal/middleware"
	"amazon_hub_v1_202608/internal/service"
)

type DashboardController struct {
	dashSvc *service.DashboardService
}

func NewDashboardController(dashSvc *service.DashboardService) *DashboardController {
	return &DashboardController{dashSvc: dashSvc}
}

// GetDashboard 聚合看板
// @Summary 聚合看板
// @Description 并发拉取卖家信息/订单/库存/结算四路数据汇总成一屏；
// @Description 未连接时返回 connected=false，单路失败只在 errors 里留记录
// @Tags Dashboard (看板)
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.DashboardResponse
// @Failure 500 {object} map[string]string "存储故障"
// @Router /api/v1/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	resp, err := c.dashSvc.BuildDashboard(ctx.Request.Context(), middleware.GetUserID(ctx))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
