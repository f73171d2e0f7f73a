package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	costingapp "github.com/erp/costing/internal/application/costing"
	valuationapp "github.com/erp/costing/internal/application/valuation"
	"github.com/erp/costing/internal/infrastructure/config"
	"github.com/erp/costing/internal/infrastructure/lock"
	"github.com/erp/costing/internal/infrastructure/logger"
	"github.com/erp/costing/internal/infrastructure/persistence"
	"github.com/erp/costing/internal/interfaces/http/handler"
	"github.com/erp/costing/internal/interfaces/http/middleware"
	"github.com/erp/costing/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting costing engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("valuation_method", cfg.Valuation.Method),
	)

	// Database connection with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if cfg.Telemetry.DBTraceEnabled {
		if err := db.EnableTracing(); err != nil {
			log.Fatal("Failed to enable database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	// Item-lock backend: Redis for multi-instance deployments, in-process
	// mutexes otherwise
	var itemLocker valuationapp.ItemLocker
	switch cfg.Lock.Backend {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		itemLocker = lock.NewRedisItemLocker(redisClient, cfg.Lock, log)
		log.Info("Redis item-lock backend connected", zap.String("addr", cfg.Redis.Addr()))
	default:
		itemLocker = lock.NewMemoryItemLocker()
		log.Info("In-process item-lock backend active")
	}

	// Repositories
	stateRepo := persistence.NewGormItemValuationRepository(db.DB)
	ledgerRepo := persistence.NewGormCostLedgerRepository(db.DB)
	stageRepo := persistence.NewGormStageRepository(db.DB)
	journalPoster := persistence.NewGormJournalPoster(db.DB)

	// Application services
	movementService := valuationapp.NewMovementService(
		cfg.Valuation.ParsedMethod(), stateRepo, ledgerRepo, journalPoster, itemLocker, log)
	stageService := costingapp.NewStageService(stageRepo, journalPoster, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(logger.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewValuationHandler(movementService)).
		Register(handler.NewCostingHandler(stageService)).
		Register(handler.NewSystemHandler(db)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
