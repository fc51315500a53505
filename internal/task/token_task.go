package task

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"amazon_hub_v1_202608/internal/repository"
	"amazon_hub_v1_202608/internal/service"
)

// TokenRefreshTask token 保活任务
// 定时扫描即将过期的连接，提前刷新，避免请求高峰期扎堆刷新
type TokenRefreshTask struct {
	connRepo repository.ConnectionRepository
	tokens   *service.TokenService
	cron     *cron.Cron

	// 并发控制
	concurrencyLimit int
}

// NewTokenRefreshTask 创建保活任务
func NewTokenRefreshTask(connRepo repository.ConnectionRepository, tokens *service.TokenService) *TokenRefreshTask {
	return &TokenRefreshTask{
		connRepo:         connRepo,
		tokens:           tokens,
		cron:             cron.New(cron.WithSeconds()),
		concurrencyLimit: 5, // LWA 端点不宜打太猛
	}
}

// Start 启动定时任务
func (t *TokenRefreshTask) Start() {
	// 每 10 分钟扫一轮
	_, err := t.cron.AddFunc("0 */10 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		t.execute(ctx)
	})

	if err != nil {
		log.Fatalf("[TokenRefreshTask] 无法启动定时任务: %v", err)
	}

	t.cron.Start()
	log.Println("[TokenRefreshTask] token 保活任务已启动 (每 10 分钟检查)")
}

// Stop 停止任务
func (t *TokenRefreshTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	log.Println("[TokenRefreshTask] 已停止")
}

// execute 执行一轮保活
func (t *TokenRefreshTask) execute(ctx context.Context) {
	// 15 分钟内要过期的都提前刷
	conns, err := t.connRepo.FindExpiring(ctx, 15*time.Minute)
	if err != nil {
		log.Printf("[TokenRefreshTask] 查询失败: %v", err)
		return
	}
	if len(conns) == 0 {
		return
	}

	log.Printf("[TokenRefreshTask] 发现 %d 个即将过期的连接", len(conns))

	// 信号量控制并发
	sem := make(chan struct{}, t.concurrencyLimit)
	var wg sync.WaitGroup

	for i := range conns {
		conn := conns[i]
		select {
		case <-ctx.Done():
			log.Println("[TokenRefreshTask] 任务超时停止")
			wg.Wait()
			return
		default:
		}

		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			// GetValidAccessToken 自带刷新和落库逻辑，直接复用
			if _, err := t.tokens.GetValidAccessToken(ctx, conn.UserID); err != nil {
				log.Printf("[TokenRefreshTask] 用户 %d 保活失败: %v", conn.UserID, err)
			}
		}()
	}

	wg.Wait()
}
