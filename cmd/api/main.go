package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/abcretail/retail-orders/internal/blob"
	"github.com/abcretail/retail-orders/internal/catalog"
	"github.com/abcretail/retail-orders/internal/config"
	"github.com/abcretail/retail-orders/internal/customers"
	"github.com/abcretail/retail-orders/internal/httpx"
	"github.com/abcretail/retail-orders/internal/orders"
	"github.com/abcretail/retail-orders/internal/postgres"
	"github.com/abcretail/retail-orders/internal/queue"
	"github.com/abcretail/retail-orders/internal/redisx"
	"github.com/abcretail/retail-orders/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log = log.Named(cfg.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	entities := &store.Client{DB: db}
	if err := entities.EnsureSchema(ctx); err != nil {
		log.Fatal("db schema", zap.Error(err))
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Queue publisher
	pub := queue.NewPublisher(cfg.KafkaBrokers, 1024, log)
	pub.Start(ctx)

	// Blob store
	blobs, err := blob.NewFileStore(cfg.BlobDir)
	if err != nil {
		log.Fatal("blob store", zap.Error(err))
	}

	// Services
	directory := &customers.Directory{Store: entities}
	products := &catalog.Service{Store: entities, Queue: pub}
	engine := &orders.Engine{
		Orders:    &orders.Repo{Store: entities},
		Catalog:   products,
		Customers: directory,
		Queue:     pub,
		Log:       log,
	}

	// Router & handlers
	router := httpx.NewRouter()
	(&httpx.OrdersHandler{Service: engine, Redis: rdb, Log: log}).Register(router)
	(&httpx.ProductsHandler{Service: products, Blob: blobs, Log: log}).Register(router)
	(&httpx.CustomersHandler{Service: directory}).Register(router)
	(&httpx.UploadsHandler{Blob: blobs, Confirmer: engine, Queue: pub, Log: log}).Register(router)
	(&httpx.SummaryHandler{Customers: directory, Products: products, Orders: engine}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	pub.Close()      // close inbox -> flush & close writer
	cancel()         // stop publisher loop
	pub.WaitClosed() // drain
}
