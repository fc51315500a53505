package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"amazon_hub_v1_202608/internal/api/dto"
	"amazon_hub_v1_202608/internal/model"
	"amazon_hub_v1_202608/internal/repository"
)

func setupUserTestService(t *testing.T) *UserService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "连接测试数据库失败")
	require.NoError(t, db.AutoMigrate(&model.SysUser{}), "建表失败")
	return NewUserService(repository.NewUserRepository(db))
}

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc := setupUserTestService(t)
	ctx := context.Background()

	info, err := svc.Register(ctx, &dto.RegisterRequest{
		Username: "seller01",
		Password: "secret123",
		Email:    "seller01@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "seller01", info.Username)
	assert.Equal(t, "operator", info.Role)

	// 重名注册被拒
	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "seller01", Password: "another"})
	assert.Error(t, err)

	// 正确密码登录
	resp, err := svc.Login(ctx, &dto.LoginRequest{Username: "seller01", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, info.ID, resp.User.ID)

	// 错误密码和不存在的用户返回同一个错误，不泄露用户是否存在
	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "seller01", Password: "wrong"})
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "nobody", Password: "secret123"})
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestUserService_RefreshToken(t *testing.T) {
	svc := setupUserTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "seller02", Password: "secret123"})
	require.NoError(t, err)
	login, err := svc.Login(ctx, &dto.LoginRequest{Username: "seller02", Password: "secret123"})
	require.NoError(t, err)

	resp, err := svc.RefreshToken(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	// access token 不能当 refresh token 用
	_, err = svc.RefreshToken(ctx, login.AccessToken)
	assert.Error(t, err, "access token 换新应被拒")

	_, err = svc.RefreshToken(ctx, "not-a-jwt")
	assert.Error(t, err)
}

func TestUserService_ChangePassword(t *testing.T) {
	svc := setupUserTestService(t)
	ctx := context.Background()

	info, err := svc.Register(ctx, &dto.RegisterRequest{Username: "seller03", Password: "oldpass123"})
	require.NoError(t, err)

	// 原密码错误被拒
	err = svc.ChangePassword(ctx, info.ID, &dto.ChangePasswordRequest{
		OldPassword: "wrongpass",
		NewPassword: "newpass123",
	})
	assert.Error(t, err)

	require.NoError(t, svc.ChangePassword(ctx, info.ID, &dto.ChangePasswordRequest{
		OldPassword: "oldpass123",
		NewPassword: "newpass123",
	}))

	// 旧密码失效，新密码可登录
	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "seller03", Password: "oldpass123"})
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	_, err = svc.Login(ctx, &dto.LoginRequest{Username: "seller03", Password: "newpass123"})
	assert.NoError(t, err)
}
