package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"amazon_hub_v1_202608/internal/api/dto"
	"amazon_hub_v1_202608/internal/middleware"
	"amazon_hub_v1_202608/internal/service"
)

type UserController struct {
	userSvc *service.UserService
}

func NewUserController(userSvc *service.UserService) *UserController {
	return &UserController{userSvc: userSvc}
}

// Register 注册
// @Summary 注册用户
// @Tags User (用户)
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "注册参数"
// @Success 200 {object} dto.UserInfo
// @Failure 400 {object} map[string]string "参数错误"
// @Router /api/v1/auth/register [post]
func (c *UserController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	info, err := c.userSvc.Register(ctx.Request.Context(), &req)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, info)
}

// Login 登录
// @Summary 登录
// @Tags User (用户)
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "登录参数"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} map[string]string "认证失败"
// @Router /api/v1/auth/login [post]
func (c *UserController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	resp, err := c.userSvc.Login(ctx.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// RefreshToken 刷新 token
// @Summary 刷新 Token
// @Tags User (用户)
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "刷新参数"
// @Success 200 {object} dto.RefreshTokenResponse
// @Failure 401 {object} map[string]string "refresh token 无效"
// @Router /api/v1/auth/refresh [post]
func (c *UserController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	resp, err := c.userSvc.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetProfile 当前用户信息
// @Summary 当前用户信息
// @Tags User (用户)
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserInfo
// @Router /api/v1/user/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	info, err := c.userSvc.GetProfile(ctx.Request.Context(), middleware.GetUserID(ctx))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, info)
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Tags User (用户)
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "修改密码参数"
// @Success 200 {object} map[string]string "{"message": "修改成功"}"
// @Router /api/v1/user/password [put]
func (c *UserController) ChangePassword(ctx *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "参数错误: " + err.Error()})
		return
	}

	if err := c.userSvc.ChangePassword(ctx.Request.Context(), middleware.GetUserID(ctx), &req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "修改成功"})
}
