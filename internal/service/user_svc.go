package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"amazon_hub_v1_202608/internal/api/dto"
	"amazon_hub_v1_202608/internal/middleware"
	"amazon_hub_v1_202608/internal/model"
	"amazon_hub_v1_202608/internal/repository"
)

// 对外统一的认证失败信息，不区分"用户不存在"和"密码错误"
var ErrInvalidCredentials = errors.New("用户名或密码错误")

// UserService 用户服务
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService 创建用户服务
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register 注册用户
func (s *UserService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserInfo, error) {
	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("用户名 %s 已存在", req.Username)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	user := &model.SysUser{
		Username: req.Username,
		Password: string(hashed),
		Email:    req.Email,
		Nickname: req.Nickname,
		Role:     "operator",
		Status:   1,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// Login 登录，返回 token 对
func (s *UserService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.Status != 1 {
		return nil, errors.New("账号已停用")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, refreshToken, err := middleware.GenerateTokenPair(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("生成 token 失败: %w", err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *toUserInfo(user),
	}, nil
}

// RefreshToken 用 refresh token 换新 token 对
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*dto.RefreshTokenResponse, error) {
	claims, err := middleware.ParseToken(refreshToken)
	if err != nil || claims.Subject != "refresh" {
		return nil, errors.New("refresh token 无效或已过期")
	}

	// 确认用户还在且未停用
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil || user.Status != 1 {
		return nil, errors.New("账号不可用")
	}

	newAccess, newRefresh, err := middleware.GenerateTokenPair(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshTokenResponse{
		AccessToken:  newAccess,
		RefreshToken: newRefresh,
	}, nil
}

// GetProfile 获取当前用户信息
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toUserInfo(user), nil
}

// ChangePassword 修改密码
func (s *UserService) ChangePassword(ctx context.Context, userID int64, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)) != nil {
		return errors.New("原密码错误")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("密码加密失败: %w", err)
	}

	return s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{
		"password": string(hashed),
	})
}

func toUserInfo(user *model.SysUser) *dto.UserInfo {
	return &dto.UserInfo{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Nickname: user.Nickname,
		Role:     user.Role,
	}
}
