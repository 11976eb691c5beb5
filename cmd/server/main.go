package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vitoko/coffee-pos/internal/adapter/handler"
	"github.com/vitoko/coffee-pos/internal/adapter/storage"
	"github.com/vitoko/coffee-pos/internal/config"
	"github.com/vitoko/coffee-pos/internal/core/service"
	"github.com/vitoko/coffee-pos/internal/port"
	"github.com/vitoko/coffee-pos/pkg/consul"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx := context.Background()

	// MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		logger.Fatal("failed to open mysql", zap.Error(err))
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("failed to ping mysql", zap.Error(err))
	}
	logger.Info("connected to mysql")

	// Redis is optional; without it order placement skips the idempotency guard.
	var cache port.CacheRepository
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		cache = storage.NewRedisAdapter(rdb)
		logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	}

	store := storage.NewMySQLAdapter(db)

	orders := service.NewOrderService(store, cache, logger)
	catalog := service.NewCatalogService(store, logger)
	customers := service.NewCustomerService(store, logger)

	h := handler.NewHTTPHandler(orders, catalog, customers, logger)
	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: h.Routes(),
	}

	var registry *consul.Client
	if cfg.ConsulAddr != "" {
		registry, err = consul.Register(cfg.ConsulAddr, config.ServiceName, cfg.ServicePort, logger)
		if err != nil {
			logger.Fatal("failed to register with consul", zap.Error(err))
		}
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("http server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	if registry != nil {
		registry.Deregister()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	logger.Info("http server stopped")

	if rdb != nil {
		rdb.Close()
	}
	db.Close()
	logger.Info("connections closed")
}
