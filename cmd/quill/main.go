package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/quillhq/quill/config"
	"github.com/quillhq/quill/internal/api/handler"
	"github.com/quillhq/quill/internal/api/router"
	"github.com/quillhq/quill/internal/auth"
	"github.com/quillhq/quill/internal/cache"
	"github.com/quillhq/quill/internal/media"
	"github.com/quillhq/quill/internal/repository"
	"github.com/quillhq/quill/internal/service"
	"github.com/quillhq/quill/internal/telemetry"
	"github.com/quillhq/quill/pkg/database"
	"github.com/quillhq/quill/pkg/logger"
)

// @title Quill API
// @version 1.0
// @description JSON surface of the Quill blog service.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Server.Mode == "debug"); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Fatal("sentry init", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	if cfg.Otel.Enabled {
		shutdown, err := telemetry.InitTracing(ctx, cfg.Otel.Endpoint, "quill")
		if err != nil {
			logger.Fatal("tracing init", zap.Error(err))
		}
		defer func() { _ = shutdown(ctx) }()
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	mediaStore, err := media.Open(cfg.Media.Dir)
	if err != nil {
		logger.Fatal("open media store", zap.Error(err))
	}
	defer mediaStore.Close()

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)

	feeds := service.NewFeedService(postRepo, groupRepo, userRepo, cfg.Feed.PageSize)
	posts := service.NewPostService(postRepo, commentRepo, groupRepo, mediaStore)
	users := service.NewUserService(userRepo)
	rels := service.NewRelationshipService(followRepo, userRepo)

	sessions := auth.NewManager(cfg.Auth.Secret, cfg.Auth.SessionTTL)
	pages := cache.NewPageCache(rdb, cfg.Cache.IndexTTL)
	h := handler.New(feeds, posts, users, rels, groupRepo, mediaStore, sessions)

	engine := router.New(cfg, h, pages, sessions, "templates/*.html")
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: engine}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
