package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	auditapp "github.com/gudang/backend/internal/application/audit"
	identityapp "github.com/gudang/backend/internal/application/identity"
	ledgerapp "github.com/gudang/backend/internal/application/ledger"
	opnameapp "github.com/gudang/backend/internal/application/opname"
	reportapp "github.com/gudang/backend/internal/application/report"
	"github.com/gudang/backend/internal/domain/ledger"
	"github.com/gudang/backend/internal/domain/valuation"
	"github.com/gudang/backend/internal/infrastructure/auth"
	"github.com/gudang/backend/internal/infrastructure/cache"
	"github.com/gudang/backend/internal/infrastructure/config"
	"github.com/gudang/backend/internal/infrastructure/logger"
	"github.com/gudang/backend/internal/infrastructure/persistence"
	"github.com/gudang/backend/internal/interfaces/http/handler"
	"github.com/gudang/backend/internal/interfaces/http/middleware"
	"github.com/gudang/backend/internal/interfaces/http/router"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	reportCache, err := cache.NewRedisReportCache(cfg.Redis)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer func() {
		if err := reportCache.Close(); err != nil {
			log.Error("failed to close redis client", zap.Error(err))
		}
	}()

	// Repositories
	txRepo := persistence.NewGormTransactionRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	worksheetRepo := persistence.NewGormWorksheetRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Domain services
	validator := ledger.NewValidator()
	engine := valuation.NewEngine()
	confirmer := auth.NewPhraseConfirmer()
	jwtService := auth.NewJWTService(cfg.JWT)

	// Application services
	ledgerService := ledgerapp.NewService(txRepo, validator, confirmer, log)
	importService := ledgerapp.NewImportService(txRepo, validator, log)
	reportService := reportapp.NewService(txRepo, reportRepo, engine, reportCache, log)
	opnameService := opnameapp.NewService(txScope, worksheetRepo, txRepo, reportRepo, engine, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, cfg.Auth, log)
	userService := identityapp.NewUserService(userRepo, log)
	auditService := auditapp.NewService(txRepo, log)

	engineHTTP := gin.New()
	engineHTTP.Use(
		logger.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsConfig(cfg)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engineHTTP.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}

	engineHTTP.GET("/health", healthHandler(db))

	jwtMiddleware := middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
	})

	router.NewRouter(engineHTTP, router.WithAPIVersion("v1")).
		Use(jwtMiddleware).
		Register(
			handler.NewAuthHandler(authService),
			handler.NewUserHandler(userService),
			handler.NewTransactionHandler(ledgerService, importService),
			handler.NewReportHandler(reportService),
			handler.NewOpnameHandler(opnameService),
			handler.NewIntegrityHandler(auditService),
		).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engineHTTP,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	return corsCfg
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}
