package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"amazon_hub_v1_202608/internal/controller"
	"amazon_hub_v1_202608/internal/middleware"

	_ "amazon_hub_v1_202608/docs"
)

// Controllers 路由需要的全部控制器
type Controllers struct {
	User         *controller.UserController
	Channel      *controller.ChannelController
	Dashboard    *controller.DashboardController
	Order        *controller.OrderController
	Inventory    *controller.InventoryController
	Listing      *controller.ListingController
	Finance      *controller.FinanceController
	Report       *controller.ReportController
	Shipping     *controller.ShippingController
	Notification *controller.NotificationController
}

// SetupRouter 创建引擎并注册路由
func SetupRouter(c *Controllers) *gin.Engine {
	r := gin.Default()
	InitRoutes(r, c)
	return r
}

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine, c *Controllers) {
	// Swagger 文档
	// 访问 http://localhost:8080/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		// 鉴权组，无需登录
		auth := api.Group("/auth")
		{
			auth.POST("/register", c.User.Register)
			auth.POST("/login", c.User.Login)
			auth.POST("/refresh", c.User.RefreshToken)
		}

		// 授权回调是亚马逊跳转过来的，浏览器可能不带登录态
		// OptionalAuth：有身份时校验 state 归属，无身份时信任 state
		api.GET("/channels/amazon/callback", middleware.OptionalAuth(), c.Channel.Callback)

		// 以下全部需要登录
		authed := api.Group("")
		authed.Use(middleware.JWTAuth())
		{
			user := authed.Group("/user")
			{
				user.GET("/profile", c.User.GetProfile)
				user.PUT("/password", c.User.ChangePassword)
			}

			channels := authed.Group("/channels")
			{
				channels.GET("", c.Channel.ListStatus)
				channels.GET("/amazon/consent-url", c.Channel.GetConsentURL)
				channels.POST("/amazon/direct-connect", c.Channel.DirectConnect)
				channels.DELETE("/:channel", c.Channel.Disconnect)
				channels.POST("/:channel/stub", c.Channel.ConnectStub)
			}

			authed.GET("/dashboard", c.Dashboard.GetDashboard)

			orders := authed.Group("/orders")
			{
				orders.GET("", c.Order.ListOrders)
				orders.POST("/sync", c.Order.SyncOrders)
				orders.GET("/:order_id", c.Order.GetOrderDetail)
				orders.GET("/:order_id/messaging-actions", c.Order.GetMessagingActions)
				orders.POST("/:order_id/messages/:message_type", c.Order.SendMessage)
			}

			inventory := authed.Group("/inventory")
			{
				inventory.GET("", c.Inventory.ListInventory)
				inventory.POST("/sync", c.Inventory.SyncInventory)
				inventory.GET("/inbound", c.Inventory.ListInboundShipments)
				inventory.POST("/inbound/:shipment_id", c.Inventory.CreateInboundShipment)
				inventory.PUT("/inbound/:shipment_id", c.Inventory.UpdateInboundShipment)
				inventory.GET("/inbound/:shipment_id/labels", c.Inventory.GetInboundLabels)
				inventory.GET("/inbound/:shipment_id/transport", c.Inventory.GetInboundTransport)
				inventory.POST("/fulfillment/preview", c.Inventory.GetFulfillmentPreview)
			}

			listings := authed.Group("/listings")
			{
				listings.GET("", c.Listing.ListLocal)
				listings.POST("", c.Listing.CreateListing)
				listings.GET("/catalog/search", c.Listing.SearchCatalog)
				listings.GET("/catalog/:asin", c.Listing.GetCatalogItem)
				listings.GET("/pricing/competitive", c.Listing.GetCompetitivePricing)
				listings.GET("/pricing/offers/:asin", c.Listing.GetItemOffers)
				listings.GET("/:sku", c.Listing.GetListing)
				listings.PATCH("/:sku", c.Listing.PatchListing)
				listings.DELETE("/:sku", c.Listing.DeleteListing)
				listings.GET("/:sku/fees", c.Listing.EstimateFees)
			}

			finance := authed.Group("/finance")
			{
				finance.POST("/sync", c.Finance.SyncEventGroups)
				finance.GET("/event-groups", c.Finance.ListEventGroups)
				finance.GET("/shipment-events", c.Finance.ListShipmentEvents)
			}

			reports := authed.Group("/reports")
			{
				reports.POST("", c.Report.CreateReport)
				reports.GET("/:report_id", c.Report.GetReportStatus)
				reports.POST("/:report_id/archive", c.Report.ArchiveReport)
			}

			shipping := authed.Group("/shipping")
			{
				shipping.POST("/rates", c.Shipping.GetRates)
				shipping.POST("/labels", c.Shipping.PurchaseLabel)
				shipping.GET("/tracking", c.Shipping.GetTracking)
			}

			notifications := authed.Group("/notifications")
			{
				notifications.GET("", c.Notification.List)
				notifications.PUT("/read", c.Notification.MarkRead)
			}
		}
	}
}
