package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"amazon_hub_v1_202608/internal/model"
)

func setupConnTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&model.ChannelConnection{}); err != nil {
		t.Fatalf("建表失败: %v", err)
	}
	return db
}

func TestConnectionRepo_UpsertNoDuplicateRows(t *testing.T) {
	db := setupConnTestDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	first := &model.ChannelConnection{
		UserID:       1,
		Channel:      model.ChannelAmazon,
		Connected:    true,
		Status:       model.ConnStatusConnected,
		SellerID:     "SELLER-1",
		RefreshToken: "rt-1",
	}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("首次 Upsert 失败: %v", err)
	}

	// 同一 (user_id, channel) 再次 Upsert 应更新而不是新增
	second := &model.ChannelConnection{
		UserID:       1,
		Channel:      model.ChannelAmazon,
		Connected:    true,
		Status:       model.ConnStatusConnected,
		SellerID:     "SELLER-2",
		RefreshToken: "rt-2",
	}
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("二次 Upsert 失败: %v", err)
	}

	var count int64
	db.Model(&model.ChannelConnection{}).Count(&count)
	if count != 1 {
		t.Errorf("行数 = %d, want 1（冲突更新不新增）", count)
	}

	conn, err := repo.GetByUserAndChannel(ctx, 1, model.ChannelAmazon)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if conn.SellerID != "SELLER-2" || conn.RefreshToken != "rt-2" {
		t.Errorf("字段未更新: %+v", conn)
	}

	// 不同渠道是另一行
	if err := repo.Upsert(ctx, &model.ChannelConnection{
		UserID:  1,
		Channel: model.ChannelEbay,
	}); err != nil {
		t.Fatalf("跨渠道 Upsert 失败: %v", err)
	}
	db.Model(&model.ChannelConnection{}).Count(&count)
	if count != 2 {
		t.Errorf("行数 = %d, want 2", count)
	}
}

func TestConnectionRepo_GetNotFound(t *testing.T) {
	db := setupConnTestDB(t)
	repo := NewConnectionRepository(db)

	_, err := repo.GetByUserAndChannel(context.Background(), 99, model.ChannelAmazon)
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("未连接应返回 ErrRecordNotFound, got %v", err)
	}
}

func TestConnectionRepo_UpdateAndClearTokens(t *testing.T) {
	db := setupConnTestDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	if err := repo.Upsert(ctx, &model.ChannelConnection{
		UserID:       1,
		Channel:      model.ChannelAmazon,
		Connected:    true,
		Status:       model.ConnStatusConnected,
		AccessToken:  "at-old",
		RefreshToken: "rt-old",
	}); err != nil {
		t.Fatalf("Upsert 失败: %v", err)
	}

	expiresAt := time.Now().Add(time.Hour)
	if err := repo.UpdateToken(ctx, 1, model.ChannelAmazon, "at-new", "rt-new", expiresAt); err != nil {
		t.Fatalf("UpdateToken 失败: %v", err)
	}

	conn, _ := repo.GetByUserAndChannel(ctx, 1, model.ChannelAmazon)
	if conn.AccessToken != "at-new" || conn.RefreshToken != "rt-new" {
		t.Errorf("令牌未更新: %+v", conn)
	}

	// 断开：清凭证、置状态，但保留行
	if err := repo.ClearTokens(ctx, 1, model.ChannelAmazon); err != nil {
		t.Fatalf("ClearTokens 失败: %v", err)
	}
	conn, err := repo.GetByUserAndChannel(ctx, 1, model.ChannelAmazon)
	if err != nil {
		t.Fatalf("断开后行应保留: %v", err)
	}
	if conn.Connected || conn.AccessToken != "" || conn.RefreshToken != "" {
		t.Errorf("凭证未清空: %+v", conn)
	}
	if conn.Status != model.ConnStatusDisconnected {
		t.Errorf("Status = %q", conn.Status)
	}
}

func TestConnectionRepo_FindExpiring(t *testing.T) {
	db := setupConnTestDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	rows := []model.ChannelConnection{
		// 10 分钟后过期，在 15 分钟窗口内
		{UserID: 1, Channel: model.ChannelAmazon, Connected: true, RefreshToken: "rt-1",
			TokenExpiresAt: time.Now().Add(10 * time.Minute)},
		// 2 小时后过期，不在窗口内
		{UserID: 2, Channel: model.ChannelAmazon, Connected: true, RefreshToken: "rt-2",
			TokenExpiresAt: time.Now().Add(2 * time.Hour)},
		// 快过期但已断开
		{UserID: 3, Channel: model.ChannelAmazon, Connected: false, RefreshToken: "rt-3",
			TokenExpiresAt: time.Now().Add(5 * time.Minute)},
		// 快过期但没有刷新令牌
		{UserID: 4, Channel: model.ChannelAmazon, Connected: true,
			TokenExpiresAt: time.Now().Add(5 * time.Minute)},
	}
	for i := range rows {
		if err := repo.Upsert(ctx, &rows[i]); err != nil {
			t.Fatalf("写入第 %d 行失败: %v", i, err)
		}
	}

	expiring, err := repo.FindExpiring(ctx, 15*time.Minute)
	if err != nil {
		t.Fatalf("FindExpiring 失败: %v", err)
	}
	if len(expiring) != 1 || expiring[0].UserID != 1 {
		t.Errorf("FindExpiring 结果 = %+v, 应只命中用户 1", expiring)
	}
}

func TestConnectionRepo_ListConnected(t *testing.T) {
	db := setupConnTestDB(t)
	repo := NewConnectionRepository(db)
	ctx := context.Background()

	seed := []model.ChannelConnection{
		{UserID: 1, Channel: model.ChannelAmazon, Connected: true},
		{UserID: 2, Channel: model.ChannelAmazon, Connected: false},
		{UserID: 3, Channel: model.ChannelEbay, Connected: true},
		{UserID: 4, Channel: model.ChannelAmazon, Connected: true},
	}
	for i := range seed {
		if err := repo.Upsert(ctx, &seed[i]); err != nil {
			t.Fatalf("写入失败: %v", err)
		}
	}

	conns, err := repo.ListConnected(ctx, model.ChannelAmazon)
	if err != nil {
		t.Fatalf("ListConnected 失败: %v", err)
	}
	if len(conns) != 2 {
		t.Fatalf("命中数 = %d, want 2", len(conns))
	}
	for _, c := range conns {
		if c.Channel != model.ChannelAmazon || !c.Connected {
			t.Errorf("不应命中: %+v", c)
		}
	}
}
