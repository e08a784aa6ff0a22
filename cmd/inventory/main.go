package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/abcretail/retail-orders/internal/config"
	"github.com/abcretail/retail-orders/internal/inventory"
	"github.com/abcretail/retail-orders/internal/queue"
	"github.com/abcretail/retail-orders/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log = log.Named(cfg.ServiceName + "-inventory")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &inventory.Service{
		Cache: &redisx.Cache{R: rdb},
		Log:   log,
	}

	// One consumer per feed queue, same handler.
	for _, q := range []string{queue.StockUpdates, queue.StocksInventory} {
		cons := queue.NewConsumer(cfg.KafkaBrokers, cfg.InventoryGroup, q, cfg.InventoryWorkers, log)
		go func(name string) {
			log.Info("inventory consumer started",
				zap.String("group", cfg.InventoryGroup),
				zap.String("queue", name),
				zap.Int("workers", cfg.InventoryWorkers))
			if err := cons.Start(ctx, svc.Handle); err != nil {
				log.Error("consumer exit", zap.String("queue", name), zap.Error(err))
				cancel()
			}
		}(q)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info("shutting down consumers")
	cancel()
	time.Sleep(500 * time.Millisecond)
}
