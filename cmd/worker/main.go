package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hellopiggy/backend/internal/config"
	"github.com/hellopiggy/backend/internal/db"
	"github.com/hellopiggy/backend/internal/repositories"
	"github.com/hellopiggy/backend/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, db.PoolOptions{MaxConns: 4, MinConns: 1, Timezone: cfg.Timezone}, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Repos
	productRepo := repositories.NewProductRepo(pool)
	linkRepo := repositories.NewLinkRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Services
	productService, err := services.NewProductService(productRepo, linkRepo, auditRepo, cfg, log)
	if err != nil {
		log.Fatal("failed to create product service", zap.Error(err))
	}

	// Metrics endpoint
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: fmt.Sprintf(":%s", cfg.WorkerPort), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server error", zap.Error(err))
		}
	}()

	log.Info("worker started", zap.Duration("product_tick", cfg.ProductTickInterval))

	productTicker := time.NewTicker(cfg.ProductTickInterval)
	defer productTicker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Первый прогон сразу, не дожидаясь тикера
	runProductStart(ctx, productService, log)

	for {
		select {
		case <-productTicker.C:
			runProductStart(ctx, productService, log)
		case <-sigCh:
			log.Info("shutting down worker")
			cancel()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			_ = srv.Shutdown(shutdownCtx)
			done()
			return
		case <-ctx.Done():
			return
		}
	}
}

func runProductStart(ctx context.Context, productService *services.ProductService, log *zap.Logger) {
	n, err := productService.StartDueProducts(ctx, time.Now())
	if err != nil {
		log.Error("failed to start due products", zap.Error(err))
		return
	}
	if n > 0 {
		log.Info("due products started", zap.Int("count", n))
	}
}
