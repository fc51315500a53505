package controller

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"amazon_hub_v1_202608/internal/api/dto"
	"amazon_hub_v1_202608/internal/middleware"
	"amazon_hub_v1_202608/internal/service"
)

// 授权回调完成后跳回前端渠道设置页
const settingsRedirectPath = "/settings/channels"

type ChannelController struct {
	authSvc *service.AmazonAuthService
}

func NewChannelController(authSvc *service.AmazonAuthService) *ChannelController {
	return &ChannelController{authSvc: authSvc}
}

// GetConsentURL 生成亚马逊授权链接
// @Summary 生成授权链接
// @Description 生成带 state 的卖家授权页链接，前端跳转后由卖家完成授权
// @Tags Channel (渠道)
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "{"consent_url": "..."}"
// @Failure 500 {object} map[string]string "配置缺失"
// @Router /api/v1/channels/amazon/consent-url [get]
func (c *ChannelController) GetConsentURL(ctx *gin.Context) {
	url, err := c.authSvc.GenerateConsentURL(ctx.Request.Context(), middleware.GetUserID(ctx))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"consent_url": url})
}

// Callback 授权回调（唯一入口）
// 浏览器是从亚马逊跳转过来的，成功失败都 303 回设置页，失败时带 error 参数
// @Summary 授权回调
// @Description 亚马逊授权完成后的跳转地址，携带 spapi_oauth_code/state/selling_partner_id
// @Tags Channel (渠道)
// @Param spapi_oauth_code query string true "一次性授权码"
// @Param state query string true "授权发起时生成的 state"
// @Param selling_partner_id query string false "卖家 ID"
// @Success 303 {string} string "跳转到渠道设置页"
// @Router /api/v1/channels/amazon/callback [get]
func (c *ChannelController) Callback(ctx *gin.Context) {
	code := ctx.Query("spapi_oauth_code")
	state := ctx.Query("state")
	sellingPartnerID := ctx.Query("selling_partner_id")

	if code == "" || state == "" {
		c.redirectWithError(ctx, "缺少 spapi_oauth_code 或 state")
		return
	}

	conn, err := c.authSvc.HandleCallback(ctx.Request.Context(), code, state, sellingPartnerID, middleware.GetUserID(ctx))
	if err != nil {
		c.redirectWithError(ctx, err.Error())
		return
	}

	ctx.Redirect(http.StatusSeeOther, fmt.Sprintf("%s?connected=%s&store=%s",
		settingsRedirectPath, conn.Channel, url.QueryEscape(conn.StoreName)))
}

func (c *ChannelController) redirectWithError(ctx *gin.Context, msg string) {
	ctx.Redirect(http.StatusSeeOther, settingsRedirectPath+"?error="+url.QueryEscape(msg))
}

// DirectConnect 手工 refresh token 直连
// @Summary 直连亚马逊
// @Description 跳过 OAuth 跳转，直接用已有 refresh token 建立连接，token 会先做一次真实校验
// @Tags Channel (渠道)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.DirectConnectRequest true "直连参数"
// @Success 200 {object} map[string]interface{} "连接结果"
// @Failure 400 {object} map[string]string "refresh token 无效"
// @Router /api/v1/channels/amazon/direct-connect [post]
func (c *ChannelController) DirectConnect(ctx *gin.Context) {
	var req dto.DirectConnectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	conn, err := c.authSvc.DirectConnect(ctx.Request.Context(), middleware.GetUserID(ctx),
		req.RefreshToken, req.SellerID, req.MarketplaceID, req.StoreName)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":    "连接成功",
		"channel":    conn.Channel,
		"store_name": conn.StoreName,
	})
}

// Disconnect 断开渠道
// @Summary 断开渠道
// @Description 清空凭证并置为 disconnected，连接记录保留
// @Tags Channel (渠道)
// @Produce json
// @Security BearerAuth
// @Param channel path string true "渠道名 Amazon/eBay/Shopify"
// @Success 200 {object} map[string]string "{"message": "已断开"}"
// @Router /api/v1/channels/{channel} [delete]
func (c *ChannelController) Disconnect(ctx *gin.Context) {
	channel := ctx.Param("channel")
	if err := c.authSvc.Disconnect(ctx.Request.Context(), middleware.GetUserID(ctx), channel); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "已断开"})
}

// ListStatus 渠道连接状态
// @Summary 渠道连接状态
// @Description 返回三个渠道的连接状态，没有记录的渠道补 disconnected 占位
// @Tags Channel (渠道)
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ChannelStatus
// @Router /api/v1/channels [get]
func (c *ChannelController) ListStatus(ctx *gin.Context) {
	conns, err := c.authSvc.ListChannelStatus(ctx.Request.Context(), middleware.GetUserID(ctx))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	list := make([]dto.ChannelStatus, 0, len(conns))
	for _, conn := range conns {
		status := dto.ChannelStatus{
			Channel:       conn.Channel,
			Connected:     conn.Connected,
			Status:        conn.Status,
			StoreName:     conn.StoreName,
			SellerID:      conn.SellerID,
			MarketplaceID: conn.MarketplaceID,
		}
		if conn.Connected {
			t := conn.UpdatedAt
			status.ConnectedAt = &t
		}
		list = append(list, status)
	}
	ctx.JSON(http.StatusOK, list)
}

// ConnectStub eBay/Shopify 占位连接
// @Summary 占位连接
// @Description eBay/Shopify 尚未接入真实 OAuth，只登记店铺名
// @Tags Channel (渠道)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param channel path string true "渠道名 eBay/Shopify"
// @Param request body dto.StubConnectRequest true "占位参数"
// @Success 200 {object} map[string]string "{"message": "已登记"}"
// @Router /api/v1/channels/{channel}/stub [post]
func (c *ChannelController) ConnectStub(ctx *gin.Context) {
	var req dto.StubConnectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	_, err := c.authSvc.ConnectStub(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("channel"), req.StoreName)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "已登记"})
}
