package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hellopiggy/backend/internal/config"
	"github.com/hellopiggy/backend/internal/db"
	"github.com/hellopiggy/backend/internal/events"
	"github.com/hellopiggy/backend/internal/services"
	"go.uber.org/zap"
)

// Notify Bridge subscribes to Redis events and forwards them to the
// operators' webhook (NOTIFY_WEBHOOK_URL).

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.NotifyWebhookURL == "" {
		log.Warn("NOTIFY_WEBHOOK_URL is empty, events will only be logged")
	}

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	subscriber := events.NewRedisSubscriber(rdb, log)
	notifier := services.NewNotifyClient(cfg.NotifyWebhookURL, log)

	err = subscriber.Subscribe(ctx, func(event events.Event) {
		log.Info("forwarding event",
			zap.String("channel", event.Channel),
			zap.String("type", event.Type),
			zap.String("seller_id", event.SellerID()),
		)
		if err := notifier.Send(ctx, event.Channel, event); err != nil {
			log.Warn("failed to forward notification", zap.String("type", event.Type), zap.Error(err))
		}
	}, events.AllChannels...)
	if err != nil {
		log.Fatal("failed to subscribe", zap.Error(err))
	}

	log.Info("notify-bridge started", zap.Strings("channels", events.AllChannels))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down notify-bridge")
	cancel()
}
