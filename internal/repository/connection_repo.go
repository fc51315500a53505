package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"amazon_hub_v1_202608/internal/model"
)

// ==================== 接口定义 ====================

// ConnectionRepository 渠道连接仓储接口
// 纯透传，不含业务逻辑；"未连接"（ErrRecordNotFound）和存储故障是两种不同的结果，
// 调用方必须区分处理
type ConnectionRepository interface {
	GetByUserAndChannel(ctx context.Context, userID int64, channel string) (*model.ChannelConnection, error)
	Upsert(ctx context.Context, conn *model.ChannelConnection) error
	UpdateToken(ctx context.Context, userID int64, channel, accessToken, refreshToken string, expiresAt time.Time) error
	ClearTokens(ctx context.Context, userID int64, channel string) error
	ListByUser(ctx context.Context, userID int64) ([]model.ChannelConnection, error)
	ListConnected(ctx context.Context, channel string) ([]model.ChannelConnection, error)
	FindExpiring(ctx context.Context, within time.Duration) ([]model.ChannelConnection, error)
}

// ==================== 仓储实现 ====================

type connectionRepo struct {
	db *gorm.DB
}

// NewConnectionRepository 创建渠道连接仓储
func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &connectionRepo{db: db}
}

func (r *connectionRepo) GetByUserAndChannel(ctx context.Context, userID int64, channel string) (*model.ChannelConnection, error) {
	var conn model.ChannelConnection
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND channel = ?", userID, channel).
		First(&conn).Error
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// Upsert 按 (user_id, channel) 冲突更新
// 保证同一用户同一渠道永远只有一行
func (r *connectionRepo) Upsert(ctx context.Context, conn *model.ChannelConnection) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "channel"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"connected", "status", "store_name", "seller_id", "marketplace_id",
				"access_token", "refresh_token", "token_expires_at", "credentials",
				"updated_at",
			}),
		}).
		Create(conn).Error
}

// UpdateToken 刷新成功后整体落库（刷新令牌可能已轮换）
func (r *connectionRepo) UpdateToken(ctx context.Context, userID int64, channel, accessToken, refreshToken string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.ChannelConnection{}).
		Where("user_id = ? AND channel = ?", userID, channel).
		Updates(map[string]interface{}{
			"access_token":     accessToken,
			"refresh_token":    refreshToken,
			"token_expires_at": expiresAt,
		}).Error
}

// ClearTokens 断开连接：清空凭证并置为 disconnected，不删行
func (r *connectionRepo) ClearTokens(ctx context.Context, userID int64, channel string) error {
	return r.db.WithContext(ctx).
		Model(&model.ChannelConnection{}).
		Where("user_id = ? AND channel = ?", userID, channel).
		Updates(map[string]interface{}{
			"connected":     false,
			"status":        model.ConnStatusDisconnected,
			"access_token":  "",
			"refresh_token": "",
		}).Error
}

func (r *connectionRepo) ListByUser(ctx context.Context, userID int64) ([]model.ChannelConnection, error) {
	var conns []model.ChannelConnection
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&conns).Error
	return conns, err
}

// ListConnected 列出某渠道的所有已连接记录，供定时同步任务遍历
func (r *connectionRepo) ListConnected(ctx context.Context, channel string) ([]model.ChannelConnection, error) {
	var conns []model.ChannelConnection
	err := r.db.WithContext(ctx).
		Where("connected = ? AND channel = ?", true, channel).
		Find(&conns).Error
	return conns, err
}

// FindExpiring 查找 within 时间内过期、且仍有刷新令牌的连接
// 供 token 保活任务使用
func (r *connectionRepo) FindExpiring(ctx context.Context, within time.Duration) ([]model.ChannelConnection, error) {
	var conns []model.ChannelConnection
	deadline := time.Now().Add(within)
	err := r.db.WithContext(ctx).
		Where("connected = ? AND refresh_token <> '' AND token_expires_at < ?", true, deadline).
		Find(&conns).Error
	return conns, err
}
