package task

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"amazon_hub_v1_202608/internal/model"
	"amazon_hub_v1_202608/internal/repository"
	"amazon_hub_v1_202608/internal/service"
)

// SyncTask 夜间全量同步任务
// 遍历所有已连接的亚马逊账号，依次同步订单和库存镜像
type SyncTask struct {
	connRepo repository.ConnectionRepository
	orderSvc *service.OrderService
	invSvc   *service.InventoryService
	cron     *cron.Cron

	concurrencyLimit int
}

// NewSyncTask 创建同步任务
func NewSyncTask(
	connRepo repository.ConnectionRepository,
	orderSvc *service.OrderService,
	invSvc *service.InventoryService,
) *SyncTask {
	return &SyncTask{
		connRepo:         connRepo,
		orderSvc:         orderSvc,
		invSvc:           invSvc,
		cron:             cron.New(cron.WithSeconds()),
		concurrencyLimit: 3, // 每个用户内部还要串行翻页，外层并发放低
	}
}

// Start 启动定时任务
func (t *SyncTask) Start() {
	// 每天凌晨 3 点
	_, err := t.cron.AddFunc("0 0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		t.execute(ctx)
	})

	if err != nil {
		log.Fatalf("[SyncTask] 无法启动定时任务: %v", err)
	}

	t.cron.Start()
	log.Println("[SyncTask] 夜间同步任务已启动 (每天 03:00)")
}

// Stop 停止任务
func (t *SyncTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	log.Println("[SyncTask] 已停止")
}

// execute 执行一轮同步
func (t *SyncTask) execute(ctx context.Context) {
	conns, err := t.connRepo.ListConnected(ctx, model.ChannelAmazon)
	if err != nil {
		log.Printf("[SyncTask] 查询连接失败: %v", err)
		return
	}
	if len(conns) == 0 {
		return
	}

	log.Printf("[SyncTask] 开始同步 %d 个账号", len(conns))

	sem := make(chan struct{}, t.concurrencyLimit)
	var wg sync.WaitGroup

	for i := range conns {
		conn := conns[i]
		select {
		case <-ctx.Done():
			log.Println("[SyncTask] 任务超时停止")
			wg.Wait()
			return
		default:
		}

		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			t.syncUser(ctx, conn.UserID)
		}()
	}

	wg.Wait()
	log.Println("[SyncTask] 本轮同步结束")
}

// syncUser 同步单个用户，订单和库存各自独立成败
func (t *SyncTask) syncUser(ctx context.Context, userID int64) {
	if result, err := t.orderSvc.SyncOrders(ctx, userID, 7); err != nil {
		log.Printf("[SyncTask] 用户 %d 订单同步失败: %v", userID, err)
	} else {
		log.Printf("[SyncTask] 用户 %d 订单同步: 拉取 %d 入库 %d", userID, result.TotalFetched, result.Upserted)
	}

	if upserted, failed, err := t.invSvc.SyncInventory(ctx, userID); err != nil {
		log.Printf("[SyncTask] 用户 %d 库存同步失败: %v", userID, err)
	} else {
		log.Printf("[SyncTask] 用户 %d 库存同步: 入库 %d 失败 %d", userID, upserted, failed)
	}
}
