package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hellopiggy/backend/internal/config"
	"github.com/hellopiggy/backend/internal/http/handlers"
	"github.com/hellopiggy/backend/internal/middleware"
	"github.com/hellopiggy/backend/internal/rbac"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Review   *handlers.ReviewHandler
	Account  *handlers.AccountHandler
	Upload   *handlers.UploadHandler
	Product  *handlers.ProductHandler
	Campaign *handlers.CampaignHandler
	Traffic  *handlers.TrafficHandler
	Seller   *handlers.SellerHandler
	Rank     *handlers.RankHandler
	Template *handlers.TemplateHandler
	WS       *handlers.WSHub
}

func SetupRouter(app *fiber.App, cfg *config.Config, log *zap.Logger, rdb *redis.Client, h Handlers) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))
	app.Use(middleware.MetricsMiddleware())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	api.Get("/health", handlers.Health)

	// Signed object links carry their own token
	api.Get("/files/*", h.Upload.ServeFile)

	metaHandler := handlers.NewMetaHandler()
	api.Get("/meta/fees", metaHandler.GetFees)
	api.Get("/meta/statuses", metaHandler.GetStatuses)

	// Rate-limited public endpoints
	api.Use(middleware.RateLimitMiddleware(rdb, cfg.RateLimitPerMinute, time.Minute, log))

	api.Post("/auth/reviewer", h.Auth.ReviewerLogin)
	api.Post("/auth/seller/signup", h.Auth.SellerSignup)
	api.Post("/auth/seller/login", h.Auth.SellerLogin)
	api.Post("/auth/admin/login", h.Auth.AdminLogin)

	api.Post("/reviews", h.Review.CreateReview)
	api.Post("/upload", h.Upload.Upload)
	api.Get("/links/:id", h.Product.GetLink)

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))
	adminOnly := middleware.AdminMiddleware(cfg)

	protected.Get("/session", h.Auth.Me)

	// Admin endpoints kept at their historical paths
	protected.Get("/reviews", adminOnly, h.Review.ListReviews)
	protected.Get("/reviews/:id", adminOnly, h.Review.GetReview)
	protected.Post("/merge-accounts", adminOnly, h.Account.MergeAccounts)

	// Reviewer
	reviewer := middleware.RequirePermission(cfg, rbac.PermSubmitReview)
	subAccounts := middleware.RequirePermission(cfg, rbac.PermManageSubAccount)
	protected.Get("/me/reviews", reviewer, h.Review.MyReviews)
	protected.Post("/me/reviews/:id/confirm-images", reviewer, h.Review.ConfirmImages)
	protected.Post("/me/reviews/:id/resubmit", reviewer, h.Review.Resubmit)
	protected.Get("/me/sub-accounts", subAccounts, h.Account.SubAccounts)
	protected.Post("/me/sub-accounts", subAccounts, h.Account.AddSubAccount)
	protected.Delete("/me/sub-accounts/:id", subAccounts, h.Account.RemoveSubAccount)
	protected.Get("/me/addresses", subAccounts, h.Account.Addresses)
	protected.Post("/me/addresses", subAccounts, h.Account.AddAddress)

	// Calendar and reservation settings (sellers and admins)
	protected.Get("/capacities", h.Campaign.Calendar)
	protected.Get("/settings/reservation", h.Campaign.ReservationSettings)

	// Seller
	reserve := middleware.RequirePermission(cfg, rbac.PermReserveCampaign)
	traffic := middleware.RequirePermission(cfg, rbac.PermOrderTraffic)
	protected.Get("/seller/profile", reserve, h.Seller.Profile)
	protected.Post("/seller/campaigns/quote", reserve, h.Campaign.Quote)
	protected.Post("/seller/campaigns/payment-received", reserve, h.Campaign.PaymentReceived)
	protected.Post("/seller/campaigns", reserve, h.Campaign.Reserve)
	protected.Get("/seller/campaigns", reserve, h.Campaign.ListCampaigns)
	protected.Get("/seller/campaigns/:id", reserve, h.Campaign.GetCampaign)
	protected.Patch("/seller/campaigns/:id", reserve, h.Campaign.UpdateCampaign)
	protected.Delete("/seller/campaigns/:id", reserve, h.Campaign.DeleteCampaign)
	protected.Get("/seller/templates", reserve, h.Template.List)
	protected.Post("/seller/templates", reserve, h.Template.Save)
	protected.Put("/seller/templates/:id", reserve, h.Template.Update)
	protected.Delete("/seller/templates", reserve, h.Template.DeleteMany)
	protected.Delete("/seller/templates/:id", reserve, h.Template.Delete)
	protected.Get("/seller/traffic/catalog", traffic, h.Traffic.Catalog)
	protected.Post("/seller/traffic", traffic, h.Traffic.Order)
	protected.Get("/seller/traffic", traffic, h.Traffic.ListRequests)
	protected.Post("/seller/traffic/:id/payment-received", traffic, h.Traffic.PaymentReceived)
	protected.Post("/seller/rank", middleware.RequirePermission(cfg, rbac.PermSearchRank), h.Rank.Search)

	// Admin
	admin := protected.Group("/admin", adminOnly)
	admin.Get("/reviews", h.Review.ListReviews)
	admin.Get("/reviews/:id", h.Review.GetReview)
	admin.Post("/reviews/verify", h.Review.Verify)
	admin.Post("/reviews/settle", h.Review.Settle)
	admin.Post("/reviews/:id/reject", h.Review.Reject)
	admin.Get("/settlements", h.Review.Settlements)
	admin.Get("/members", h.Account.Members)

	admin.Get("/products", h.Product.ListProducts)
	admin.Post("/products", h.Product.CreateProduct)
	admin.Post("/products/bulk", h.Product.BulkUpdate)
	admin.Get("/products/:id", h.Product.GetProduct)
	admin.Put("/products/:id", h.Product.UpdateProduct)
	admin.Delete("/products/:id", h.Product.DeleteProduct)
	admin.Get("/links", h.Product.ListLinks)
	admin.Post("/links", h.Product.CreateLink)
	admin.Delete("/links/:id", h.Product.DeleteLink)

	admin.Get("/campaigns", h.Campaign.ListCampaigns)
	admin.Get("/campaigns/:id", h.Campaign.GetCampaign)
	admin.Patch("/campaigns/:id", h.Campaign.UpdateCampaign)
	admin.Post("/campaigns/payment-received", h.Campaign.PaymentReceived)
	admin.Get("/campaigns/:id/history", h.Campaign.History)
	admin.Post("/campaigns/:id/status", h.Campaign.ChangeStatus)
	admin.Post("/campaigns/:id/cancel-seller-fault", h.Campaign.CancelSellerFault)
	admin.Put("/campaigns/:id/payment-type", h.Campaign.SetPaymentType)
	admin.Put("/capacities/:date", h.Campaign.SetCapacity)
	admin.Put("/settings/reservation", h.Campaign.UpdateReservationSettings)

	admin.Get("/traffic/catalog", h.Traffic.Catalog)
	admin.Put("/traffic/catalog", h.Traffic.ReplaceCatalog)
	admin.Get("/traffic", h.Traffic.ListRequests)
	admin.Post("/traffic/:id/deposit", h.Traffic.SetDeposit)

	admin.Get("/sellers", h.Seller.ListSellers)
	admin.Post("/sellers/:id/deposit", h.Seller.AdjustDeposit)
	admin.Delete("/sellers/:id", h.Seller.DeleteSeller)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(h.WS.HandleWS))
}
