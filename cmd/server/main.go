package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/creditstore/backend/docs"
	"github.com/creditstore/backend/internal/config"
	"github.com/creditstore/backend/internal/database"
	"github.com/creditstore/backend/internal/gateway"
	"github.com/creditstore/backend/internal/handlers"
	"github.com/creditstore/backend/internal/logger"
	"github.com/creditstore/backend/internal/services"
	"github.com/creditstore/backend/internal/storefront"
)

// @title Credit Store API
// @version 1.0
// @description Player lookup, credit package catalog and simulated credit purchases for game integrations
// @host localhost:8080
// @BasePath /api
// @schemes http https

func main() {
	// Initialize config
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	// Initialize Swagger docs
	if u, err := url.Parse(cfg.Storefront.PublicURL); err == nil && u.Host != "" {
		docs.SwaggerInfo.Host = u.Host
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize services
	db, err := database.Open(ctx, cfg.Database, appLog)
	if err != nil {
		appLog.Error("database unavailable", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient := database.OpenRedis(ctx, cfg.Redis, appLog)
	if redisClient != nil {
		defer redisClient.Close()
	}

	gw, err := gateway.NewSimulatedGateway(cfg.Payment.SuccessRate, cfg.Payment.Method)
	if err != nil {
		appLog.Error("invalid payment gateway settings", err)
		os.Exit(1)
	}

	renderer, err := storefront.NewRenderer()
	if err != nil {
		appLog.Error("parsing store templates failed", err)
		os.Exit(1)
	}

	playerService := services.NewPlayerService(db, appLog)
	catalogService := services.NewCatalogService(db, redisClient, cfg.Catalog.CacheTTL, appLog)
	paymentService := services.NewPaymentService(playerService, catalogService, services.NewCreditLedger(db), gw, appLog)

	a := &app{
		cfg:        cfg,
		log:        appLog,
		db:         db,
		players:    playerService,
		catalog:    catalogService,
		payments:   paymentService,
		storefront: handlers.NewStorefrontHandler(playerService, catalogService, paymentService, renderer, cfg.Storefront, appLog),
	}

	// Start server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      a.router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		appLog.Info("server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("server failed", err)
			stop()
		}
	}()

	<-ctx.Done()

	appLog.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Error("server forced to shutdown", err)
	}

	appLog.Info("server stopped")
}
