package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"amazon_hub_v1_202608/internal/controller"
	"amazon_hub_v1_202608/internal/middleware"
	"amazon_hub_v1_202608/internal/model"
	"amazon_hub_v1_202608/internal/repository"
	"amazon_hub_v1_202608/internal/router"
	"amazon_hub_v1_202608/internal/service"
	"amazon_hub_v1_202608/internal/task"
	"amazon_hub_v1_202608/pkg/database"
	"amazon_hub_v1_202608/pkg/spapi"
)

// @title Amazon Hub API
// @version 1.0
// @description 多渠道卖家运营后台，当前支持亚马逊 SP-API
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. 初始化数据库
	db := initDatabase()

	// 2. 初始化依赖
	deps := initDependencies(db)

	// 3. 启动定时任务
	initTasks(deps)

	// 4. 初始化路由
	r := router.SetupRouter(deps.Controllers)

	// 5. 启动服务
	startServer(r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *router.Controllers
}

// Repositories 仓库集合
type Repositories struct {
	User         repository.UserRepository
	Connection   repository.ConnectionRepository
	Order        repository.OrderRepository
	Inventory    repository.InventoryRepository
	Listing      repository.ListingRepository
	Finance      repository.FinanceRepository
	Notification repository.NotificationRepository
}

// Services 服务集合
type Services struct {
	User       *service.UserService
	LWA        *service.LWAService
	Token      *service.TokenService
	AmazonAuth *service.AmazonAuthService
	Dashboard  *service.DashboardService
	Order      *service.OrderService
	Inventory  *service.InventoryService
	Listing    *service.ListingService
	Finance    *service.FinanceService
	Report     *service.ReportService
	Shipping   *service.ShippingService
	Storage    service.StorageProvider
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase() *gorm.DB {
	dsn := getEnv("DATABASE_DSN",
		"host=localhost user=postgres password=postgres dbname=amazon_hub port=5432 sslmode=disable")

	return database.InitDB(dsn,
		// Manager
		&model.SysUser{},
		// Channel
		&model.ChannelConnection{},
		// Mirror
		&model.Order{}, &model.OrderItem{},
		&model.InventoryItem{}, &model.Listing{}, &model.FinancialEvent{},
		// Misc
		&model.Notification{},
	)
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB) *Dependencies {
	// -------- JWT 配置 --------
	jwtCfg := middleware.DefaultJWTConfig()
	if secret := getEnv("JWT_SECRET", ""); secret != "" {
		jwtCfg.SecretKey = secret
	}
	middleware.SetJWTConfig(jwtCfg)

	// -------- Repo 层 --------
	repos := initRepositories(db)

	// -------- 平台客户端 --------
	lwaSvc := service.NewLWAService(&service.LWAConfig{
		ClientID:     getEnv("LWA_CLIENT_ID", ""),
		ClientSecret: getEnv("LWA_CLIENT_SECRET", ""),
		AppID:        getEnv("SPAPI_APP_ID", ""),
		RedirectURI:  getEnv("SPAPI_REDIRECT_URI", ""),
	})

	spapiCfg := spapi.DefaultConfig()
	if endpoint := getEnv("SPAPI_ENDPOINT", ""); endpoint != "" {
		spapiCfg.Endpoint = endpoint
	}
	spapiClient := spapi.NewClient(spapiCfg)

	// -------- 存储 --------
	storage := initStorage()

	// -------- 业务服务 --------
	tokenSvc := service.NewTokenService(repos.Connection, lwaSvc)

	services := &Services{
		LWA:     lwaSvc,
		Token:   tokenSvc,
		Storage: storage,
	}
	services.User = service.NewUserService(repos.User)
	services.AmazonAuth = service.NewAmazonAuthService(repos.Connection, repos.Notification, lwaSvc, spapiClient)
	services.Dashboard = service.NewDashboardService(tokenSvc, spapiClient, repos.Connection, repos.Order)
	services.Order = service.NewOrderService(tokenSvc, spapiClient, repos.Connection, repos.Order, repos.Notification)
	services.Inventory = service.NewInventoryService(tokenSvc, spapiClient, repos.Connection, repos.Inventory)
	services.Listing = service.NewListingService(tokenSvc, spapiClient, repos.Connection, repos.Listing)
	services.Finance = service.NewFinanceService(tokenSvc, spapiClient, repos.Finance)
	services.Report = service.NewReportService(tokenSvc, spapiClient, repos.Connection, storage)
	services.Shipping = service.NewShippingService(tokenSvc, spapiClient, storage)

	// -------- Controller 层 --------
	controllers := initControllers(services, repos)

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// initRepositories 初始化所有仓库
func initRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         repository.NewUserRepository(db),
		Connection:   repository.NewConnectionRepository(db),
		Order:        repository.NewOrderRepository(db),
		Inventory:    repository.NewInventoryRepository(db),
		Listing:      repository.NewListingRepository(db),
		Finance:      repository.NewFinanceRepository(db),
		Notification: repository.NewNotificationRepository(db),
	}
}

// initStorage 初始化存储
func initStorage() service.StorageProvider {
	storage, err := service.NewStorageProvider(&service.StorageConfig{
		Provider:  getEnv("STORAGE_PROVIDER", "local"),
		Bucket:    getEnv("AWS_BUCKET", ""),
		Region:    getEnv("AWS_REGION", ""),
		AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		Endpoint:  getEnv("STORAGE_ENDPOINT", ""),
		BasePath:  getEnv("STORAGE_BASE_PATH", "amazon-hub"),
	})
	if err != nil {
		log.Fatalf("存储初始化失败: %v", err)
	}
	return storage
}

// initControllers 初始化所有控制器
func initControllers(svc *Services, repos *Repositories) *router.Controllers {
	return &router.Controllers{
		User:         controller.NewUserController(svc.User),
		Channel:      controller.NewChannelController(svc.AmazonAuth),
		Dashboard:    controller.NewDashboardController(svc.Dashboard),
		Order:        controller.NewOrderController(svc.Order),
		Inventory:    controller.NewInventoryController(svc.Inventory),
		Listing:      controller.NewListingController(svc.Listing),
		Finance:      controller.NewFinanceController(svc.Finance),
		Report:       controller.NewReportController(svc.Report),
		Shipping:     controller.NewShippingController(svc.Shipping),
		Notification: controller.NewNotificationController(repos.Notification),
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) {
	// Token 保活
	tokenTask := task.NewTokenRefreshTask(deps.Repos.Connection, deps.Services.Token)
	tokenTask.Start()

	// 夜间镜像同步
	syncTask := task.NewSyncTask(deps.Repos.Connection, deps.Services.Order, deps.Services.Inventory)
	syncTask.Start()

	log.Println("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
