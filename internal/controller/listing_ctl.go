package controller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"amazon_hub_v1_202608/internal/api/dto"
	"amazon_hub_v1_202608/internal/middleware"
	"amazon_hub_v1_202608/internal/service"
)

type ListingController struct {
	listingSvc *service.ListingService
}

func NewListingController(listingSvc *service.ListingService) *ListingController {
	return &ListingController{listingSvc: listingSvc}
}

// SearchCatalog 目录搜索
// @Summary 目录搜索
// @Description 发布向导第一步：按关键词搜亚马逊商品目录做 ASIN 匹配
// @Tags Listing (商品)
// @Produce json
// @Security BearerAuth
// @Param keywords query string true "搜索关键词"
// @Success 200 {object} spapi.CatalogSearchResult
// @Router /api/v1/listings/catalog/search [get]
func (c *ListingController) SearchCatalog(ctx *gin.Context) {
	keywords := ctx.Query("keywords")
	if keywords == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "缺少 keywords 参数"})
		return
	}

	result, err := c.listingSvc.SearchCatalog(ctx.Request.Context(), middleware.GetUserID(ctx), keywords)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetCatalogItem 目录详情
// @Summary 目录详情
// @Tags Listing (商品)
// @Produce json
// @Security BearerAuth
// @Param asin path string true "ASIN"
// @Success 200 {object} spapi.CatalogItem
// @Router /api/v1/listings/catalog/{asin} [get]
func (c *ListingController) GetCatalogItem(ctx *gin.Context) {
	item, err := c.listingSvc.GetCatalogItem(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("asin"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, item)
}

// CreateListing 创建 listing
// @Summary 创建 listing
// @Description 提交被受理不代表无问题，响应里 accepted=false 表示含 ERROR 级 issue
// @Tags Listing (商品)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateListingRequest true "创建参数"
// @Success 200 {object} dto.ListingSubmissionResult
// @Router /api/v1/listings [post]
func (c *ListingController) CreateListing(ctx *gin.Context) {
	var req dto.CreateListingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	result, err := c.listingSvc.CreateListing(ctx.Request.Context(), middleware.GetUserID(ctx), &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// PatchListing 局部更新
// @Summary 局部更新 listing
// @Tags Listing (商品)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sku path string true "SKU"
// @Param request body dto.PatchListingRequest true "patch 操作列表"
// @Success 200 {object} dto.ListingSubmissionResult
// @Router /api/v1/listings/{sku} [patch]
func (c *ListingController) PatchListing(ctx *gin.Context) {
	var req dto.PatchListingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	result, err := c.listingSvc.PatchListing(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("sku"), &req)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// DeleteListing 下架
// @Summary 下架 listing
// @Tags Listing (商品)
// @Produce json
// @Security BearerAuth
// @Param sku path string true "SKU"
// @Success 200 {object} dto.ListingSubmissionResult
// @Router /api/v1/listings/{sku} [delete]
func (c *ListingController) DeleteListing(ctx *gin.Context) {
	result, err := c.listingSvc.DeleteListing(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("sku"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetListing 平台实时详情
// @Summary listing 详情
// @Tags Listing (商品)
// @Produce json
// @Security BearerAuth
// @Param sku path string true "SKU"
// @Success 200 {object} spapi.ListingsItem
// @Router /api/v1/listings/{sku} [get]
func (c *ListingController) GetListing(ctx *gin.Context) {
	item, err := c.listingSvc.GetListing(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("sku"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, item)
}

// ListLocal 本地镜像列表
// @Summary 本地 listing 列表
// @Tags Listing (商品)
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Listing
// @Router /api/v1/listings [get]
func (c *ListingController) ListLocal(ctx *gin.Context) {
	listings, err := c.listingSvc.ListLocal(ctx.Request.Context(), middleware.GetUserID(ctx))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, listings)
}

// EstimateFees 费用预估
// @Summary 平台费用预估
// @Tags Listing (商品)
// @Produce json
// @Security BearerAuth
// @Param sku path string true "SKU"
// @Param price query number true "预估售价"
// @Param currency query string false "币种" default(USD)
// @Success 200 {object} spapi.FeesEstimate
// @Router /api/v1/listings/{sku}/fees [get]
func (c *ListingController) EstimateFees(ctx *gin.Context) {
	price, err := strconv.ParseFloat(ctx.Query("price"), 64)
	if err != nil || price <= 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "price 参数无效"})
		return
	}
	currency := ctx.DefaultQuery("currency", "USD")

	estimate, err := c.listingSvc.EstimateFees(ctx.Request.Context(), middleware.GetUserID(ctx), ctx.Param("sku"), price, currency)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, estimate)
}

// GetCompetitivePricing 竞争定价
// @Summary 竞争定价
// @Description asins 为逗号分隔列表
// @Tags Listing (商品)
// @Produce json
// @Security BearerAuth
// @Param asins query string true "ASIN 列表，逗号分隔"
// @Success 200 {array} spapi.CompetitivePrice
// @Router /api/v1/listings/pricing/competitive [get]
func (c *ListingController) GetCompetitivePricing(ctx *gin.Context) {
	raw := ctx.Query("asins")
	if raw == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "缺少 asins 参数"})
		return
	}

	prices, err := c.listingSvc.GetCompetitivePricing(ctx.Request.Context(), middleware.GetUserID(ctx), strings.Split(raw, ","))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, prices)
}

// GetItemOffers 报价汇总
// @Summary 报价汇总（含 BuyBox）
// @Tags Listing (商品)
// @Produce json
// @Security BearerAuth
// @Param asin path string true "ASIN"
// @Param condition query string false "商品状况" default(New)
// @Success 200 {object} spapi.ItemOffers
// @Router /api/v1/listings/pricing/offers/{asin} [get]
func (c *ListingController) GetItemOffers(ctx *gin.Context) {
	offers, err := c.listingSvc.GetItemOffers(ctx.Request.Context(), middleware.GetUserID(ctx),
		ctx.Param("asin"), ctx.Query("condition"))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, offers)
}
