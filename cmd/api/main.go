package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/hellopiggy/backend/internal/config"
	"github.com/hellopiggy/backend/internal/db"
	"github.com/hellopiggy/backend/internal/events"
	apphttp "github.com/hellopiggy/backend/internal/http"
	"github.com/hellopiggy/backend/internal/http/handlers"
	"github.com/hellopiggy/backend/internal/rankparser"
	"github.com/hellopiggy/backend/internal/repositories"
	"github.com/hellopiggy/backend/internal/services"
	"github.com/hellopiggy/backend/internal/storage"
	"github.com/hellopiggy/backend/migrations"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, db.PoolOptions{
		MaxConns: int32(cfg.PGMaxConns),
		Timezone: cfg.Timezone,
	}, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Object storage
	store, err := storage.NewDiskStore(cfg.StorageRoot, cfg.StorageBucket)
	if err != nil {
		log.Fatal("failed to open object store", zap.Error(err))
	}
	signer := storage.NewSigner(cfg.JWTSecret, cfg.PublicBaseURL, cfg.SignedURLTTL)

	// Repositories
	accountRepo := repositories.NewAccountRepo(pool)
	reviewRepo := repositories.NewReviewRepo(pool)
	productRepo := repositories.NewProductRepo(pool)
	linkRepo := repositories.NewLinkRepo(pool)
	sellerRepo := repositories.NewSellerRepo(pool)
	adminRepo := repositories.NewAdminRepo(pool)
	campaignRepo := repositories.NewCampaignRepo(pool)
	capacityRepo := repositories.NewCapacityRepo(pool)
	trafficRepo := repositories.NewTrafficRepo(pool)
	settingsRepo := repositories.NewSettingsRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)
	templateRepo := repositories.NewTemplateRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Services
	businessClient := services.NewBusinessClient(cfg.BusinessVerifyURL, cfg.BusinessVerifyKey, log)
	authService := services.NewAuthService(accountRepo, sellerRepo, adminRepo, auditRepo, businessClient, cfg, log)
	reviewService := services.NewReviewService(reviewRepo, auditRepo, publisher, log)
	accountService := services.NewAccountService(accountRepo, auditRepo, log)
	productService, err := services.NewProductService(productRepo, linkRepo, auditRepo, cfg, log)
	if err != nil {
		log.Fatal("failed to create product service", zap.Error(err))
	}
	settingsService := services.NewSettingsService(settingsRepo, auditRepo, rdb, log)
	campaignService := services.NewCampaignService(campaignRepo, capacityRepo, sellerRepo, productRepo, auditRepo, settingsService, publisher, cfg, log)
	trafficService := services.NewTrafficService(trafficRepo, sellerRepo, auditRepo, publisher, cfg, log)
	sellerService := services.NewSellerService(sellerRepo, auditRepo, log)
	templateService := services.NewTemplateService(templateRepo, log)
	parser := rankparser.NewParser(cfg.RankSearchURL, cfg.RankFetchTimeoutMS, cfg.RankMaxPages, cfg.RankMaxRetries, log)

	if err := authService.EnsureBootstrapAdmin(ctx); err != nil {
		log.Error("failed to ensure bootstrap admin", zap.Error(err))
	}

	// Handlers
	h := apphttp.Handlers{
		Auth:     handlers.NewAuthHandler(authService, cfg, log),
		Review:   handlers.NewReviewHandler(reviewService, log),
		Account:  handlers.NewAccountHandler(accountService, log),
		Upload:   handlers.NewUploadHandler(store, signer, log),
		Product:  handlers.NewProductHandler(productService, log),
		Campaign: handlers.NewCampaignHandler(campaignService, settingsService, cfg, log),
		Traffic:  handlers.NewTrafficHandler(trafficService, cfg, log),
		Seller:   handlers.NewSellerHandler(sellerService, log),
		Rank:     handlers.NewRankHandler(parser, log),
		Template: handlers.NewTemplateHandler(templateService, log),
		WS:       handlers.NewWSHub(cfg, subscriber, log),
	}

	// Start WS hub
	if err := h.WS.Start(ctx); err != nil {
		log.Error("failed to start ws hub", zap.Error(err))
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: cfg.MaxUploadBytes,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
				return c.Status(code).JSON(fiber.Map{"error": "internal"})
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, h)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
