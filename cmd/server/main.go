// Package main runs the training scheduler HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bzt-portal/training-scheduler/config"
	"github.com/bzt-portal/training-scheduler/internal/catalog"
	"github.com/bzt-portal/training-scheduler/internal/middleware"
	"github.com/bzt-portal/training-scheduler/internal/registrations"
	"github.com/bzt-portal/training-scheduler/internal/sessions"
	"github.com/bzt-portal/training-scheduler/internal/tenant"
	"github.com/bzt-portal/training-scheduler/pkg/database"
	"github.com/bzt-portal/training-scheduler/pkg/queue"
	"github.com/bzt-portal/training-scheduler/pkg/redis"
	"github.com/bzt-portal/training-scheduler/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	tokens := tenant.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	catalogRepo := catalog.NewRepository(pool)
	catalogCache := catalog.NewCache(rdb.Client, logger)
	catalogHandler := catalog.NewHandler(catalogRepo, catalogCache)

	sessionRepo := sessions.NewRepository(pool)
	sessionHandler := sessions.NewHandler(sessionRepo)

	registrationRepo := registrations.NewRepository(pool, sessionRepo)
	registrationHandler := registrations.NewHandler(registrationRepo, jobQueue, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Tenant-scoped API (tenant token required)
	api := router.Group("/api/training")
	api.Use(tenant.Authenticate(tokens))
	admin := tenant.RequireRole("admin")
	{
		// Categories
		api.GET("/categories", catalogHandler.ListCategories)
		api.GET("/categories/:id", catalogHandler.GetCategory)
		api.POST("/categories", admin, catalogHandler.CreateCategory)
		api.PUT("/categories/:id", admin, catalogHandler.UpdateCategory)

		// Classes
		api.GET("/classes", catalogHandler.ListClasses)
		api.GET("/classes/:id", catalogHandler.GetClass)
		api.POST("/classes", admin, catalogHandler.CreateClass)
		api.PUT("/classes/:id", admin, catalogHandler.UpdateClass)

		// Sessions
		api.GET("/classes/:id/sessions", sessionHandler.ListForClass)
		api.GET("/sessions/:id", sessionHandler.Get)
		api.POST("/sessions", admin, sessionHandler.Create)
		api.PUT("/sessions/:id", admin, sessionHandler.Update)
		api.POST("/sessions/:id/release-seat", admin, sessionHandler.ReleaseSeat)
		api.DELETE("/sessions/:id", admin, sessionHandler.Delete)

		// Registrations
		api.GET("/registrations", admin, registrationHandler.List)
		api.POST("/registrations", registrationHandler.Create)
		api.PUT("/registrations/:id/status", admin, registrationHandler.UpdateStatus)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
