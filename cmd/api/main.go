package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/damoang/mediawall/internal/config"
	"github.com/damoang/mediawall/internal/handler"
	"github.com/damoang/mediawall/internal/middleware"
	"github.com/damoang/mediawall/internal/migration"
	"github.com/damoang/mediawall/internal/repository"
	"github.com/damoang/mediawall/internal/routes"
	"github.com/damoang/mediawall/internal/service"
	"github.com/damoang/mediawall/internal/ws"
	"github.com/damoang/mediawall/pkg/database"
	"github.com/damoang/mediawall/pkg/jwt"
	pkglogger "github.com/damoang/mediawall/pkg/logger"
	pkgredis "github.com/damoang/mediawall/pkg/redis"
	pkgstorage "github.com/damoang/mediawall/pkg/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("mediawall stopped")
	}
}

func run() error {
	dotenvFiles := config.LoadDotEnv(".")
	pkglogger.InitStructured(os.Getenv("APP_ENV"))

	configPath := config.ConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	pkglogger.InitStructured(cfg.App.Env)
	log := pkglogger.GetLogger()
	log.Info().
		Str("env", cfg.App.Env).
		Str("config", configPath).
		Strs("dotenv", dotenvFiles).
		Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Record store
	db, err := database.Open(cfg.DatabaseOptions())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	log.Info().Str("driver", cfg.Database.Driver).Msg("connected to database")

	if err := migration.Run(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// Redis is optional: without it realtime events stay in-process and
	// submissions are not rate limited.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(ctx,
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
		)
		if err != nil {
			log.Warn().Err(err).Msg("continuing without redis")
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Info().Msg("connected to redis")
		}
	}

	// Binary object store
	store, err := pkgstorage.NewS3Client(pkgstorage.S3Config{
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		Bucket:          cfg.Storage.Bucket,
		CDNURL:          cfg.Storage.CDNURL,
		ForcePathStyle:  cfg.Storage.ForcePathStyle,
	})
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	// WebSocket Hub
	hub := ws.NewHub(redisClient, cfg.Redis.Channel)
	go hub.Run()
	defer hub.Stop()

	// Repositories
	mediaRepo := repository.NewMediaRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)
	auditRepo := repository.NewModerationActionRepository(db)

	// Services
	sessionService := service.NewSessionService(adminRepo, jwt.NewManager(cfg.Session.Secret, cfg.Session.TTL), cfg.IsProduction())
	moderationService := service.NewModerationService(mediaRepo, commentRepo, auditRepo, store, hub)
	mediaService := service.NewMediaService(mediaRepo, store, hub, cfg.Upload.MaxFileSize)
	commentService := service.NewCommentService(commentRepo, mediaRepo, hub)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining"},
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	var submitLimit gin.HandlerFunc
	if redisClient != nil {
		submitLimit = middleware.RateLimit(redisClient, middleware.RateLimitConfig{
			Requests:  cfg.RateLimit.Requests,
			Window:    cfg.RateLimit.Window,
			KeyPrefix: "mediawall:ratelimit:submit:",
		})
	}

	routes.Setup(router, routes.Handlers{
		Auth:    handler.NewAuthHandler(sessionService),
		Admin:   handler.NewAdminHandler(moderationService),
		Media:   handler.NewMediaHandler(mediaService, cfg.Upload.MaxRequestSize),
		Comment: handler.NewCommentHandler(commentService),
		WS:      handler.NewWSHandler(hub, cfg.CORS.AllowOrigins),
	}, sessionService, submitLimit)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
