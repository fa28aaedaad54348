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

	"github.com/LJTian/NewsLens/internal/api"
	"github.com/LJTian/NewsLens/internal/config"
	"github.com/LJTian/NewsLens/internal/logger"
	"github.com/LJTian/NewsLens/internal/metrics"
	"github.com/LJTian/NewsLens/internal/scheduler"
	"github.com/LJTian/NewsLens/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg := config.Load()

	lg, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	m := metrics.New(prometheus.DefaultRegisterer)

	store, err := storage.NewStore(storage.Options{
		PostgresDSN: cfg.PostgresDSN,
		RedisAddr:   cfg.RedisAddr,
		AutoMigrate: cfg.DBAutoMigrate,
		Logger:      lg,
		Metrics:     m,
	})
	if err != nil {
		lg.Error("init store failed", logger.Error(err))
		os.Exit(1)
	}

	// 定时刷新文章列表缓存
	s, err := scheduler.New(cfg.CronSpec, store, cfg.PerCategoryLimit, lg, m)
	if err != nil {
		lg.Error("init scheduler failed", logger.String("spec", cfg.CronSpec), logger.Error(err))
		os.Exit(1)
	}
	s.Start()
	defer s.Stop()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger(lg), m.Middleware())
	// 若配置了全局访问密码，则启用 Basic Auth 保护（/health 仍然免认证）
	if cfg.BasicAuthUser != "" && cfg.BasicAuthPass != "" {
		r.Use(api.BasicAuth(cfg.BasicAuthUser, cfg.BasicAuthPass))
	}

	apiServer := api.NewServer(store, api.Options{
		Categories:       cfg.Categories,
		PerCategoryLimit: cfg.PerCategoryLimit,
		Logger:           lg,
		Metrics:          m,
	})
	apiServer.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		lg.Info("starting api server", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("server exit", logger.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info("shutting down api server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Warn("graceful shutdown failed", logger.Error(err))
	}
}
