package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/d60-Lab/hint/config"
	_ "github.com/d60-Lab/hint/docs"
	"github.com/d60-Lab/hint/internal/api/handler"
	"github.com/d60-Lab/hint/internal/api/middleware"
	"github.com/d60-Lab/hint/internal/relay"
	"github.com/d60-Lab/hint/internal/repository"
	"github.com/d60-Lab/hint/internal/service"
	"github.com/d60-Lab/hint/pkg/cache"
	"github.com/d60-Lab/hint/pkg/database"
	"github.com/d60-Lab/hint/pkg/logger"
	"github.com/d60-Lab/hint/pkg/tracing"
)

const profileCacheTTL = time.Minute

// @title HINT API
// @version 1.0
// @description 社交 feed 服务：帖子/评论/点赞 + websocket 刷新通知
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("load config: %v", err))
	}
	if err := logger.Init(cfg.Server.Mode); err != nil {
		panic(fmt.Sprintf("init logger: %v", err))
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg)
	if err != nil {
		logger.Error("tracing init failed", zap.Error(err))
	} else {
		defer func() { _ = shutdownTracing(context.Background()) }()
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("database init failed", zap.Error(err))
		return
	}
	rdb, err := cache.InitRedis(cfg)
	if err != nil {
		logger.Error("redis init failed", zap.Error(err))
		return
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	followRepo := repository.NewFollowRepository(db)

	hub := relay.NewHub()
	go hub.Run()

	replicator := service.NewCounterReplicator(profileRepo, 0)
	stopReplicator := replicator.Start(4)
	defer func() { _ = stopReplicator(context.Background()) }()

	profileSvc := service.NewProfileService(userRepo, postRepo, profileRepo, rdb, profileCacheTTL)
	svc := handler.Services{
		Auth:    service.NewAuthService(userRepo, profileRepo, rdb, cfg.Auth.SessionTTL),
		Feed:    service.NewFeedService(userRepo, postRepo, commentRepo, likeRepo),
		Post:    service.NewPostService(postRepo, hub),
		Comment: service.NewCommentService(postRepo, commentRepo, hub),
		Like:    service.NewLikeService(postRepo, likeRepo),
		Profile: profileSvc,
		Follow:  service.NewFollowService(userRepo, followRepo, replicator, profileSvc),
		Search:  service.NewSearchService(userRepo, postRepo),
		Admin:   service.NewAdminService(cfg.Admin, userRepo, postRepo, commentRepo, likeRepo),
	}

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if cfg.Trace.Enabled {
		r.Use(otelgin.Middleware("hint"))
	}

	handler.New(cfg, svc, hub).RegisterRoutes(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}
	go func() {
		logger.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
