package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/creditstore/backend/internal/config"
	"github.com/creditstore/backend/internal/handlers"
	"github.com/creditstore/backend/internal/logger"
	mW "github.com/creditstore/backend/internal/middleware"
	"github.com/creditstore/backend/internal/services"
	"github.com/creditstore/backend/internal/storefront"
)

type app struct {
	cfg        *config.Config
	log        *logger.Logger
	db         *sql.DB
	players    *services.PlayerService
	catalog    *services.CatalogService
	payments   *services.PaymentService
	storefront *handlers.StorefrontHandler
}

func (a *app) router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  zap.NewStdLog(a.log.Zap()),
		NoColor: a.cfg.Log.Environment == "production",
	}))
	r.Use(middleware.Recoverer)
	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Timeout(a.cfg.Server.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         86400,
	}))

	// Health check
	r.Get("/health", a.health)
	r.Handle("/metrics", promhttp.Handler())

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(a.cfg.Storefront.PublicURL+"/swagger/doc.json"),
	))

	// JSON API consumed by the store page and by games
	r.Route("/api", func(r chi.Router) {
		r.MethodNotAllowed(methodNotAllowed)
		r.NotFound(apiNotFound)

		r.Get("/credit-packages", a.catalog.ListPackages)
		r.Get("/players/{playerId}", a.players.GetPlayer)
		r.Post("/create-player", a.players.CreatePlayer)
		r.Post("/process-payment", a.payments.ProcessPayment)
	})

	// Store page
	r.Group(func(r chi.Router) {
		r.Use(mW.StorePageCSP)

		r.Get("/", a.storefront.Index)
		r.Post("/checkout", a.storefront.Checkout)
		r.Get("/store/qr", a.storefront.QRCode)
	})
	r.Handle("/static/*", http.StripPrefix("/static/", mW.StaticFileServer(storefront.Static())))

	return r
}

func (a *app) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := "healthy", http.StatusOK
	if err := a.db.PingContext(ctx); err != nil {
		a.log.Warn("health check: database unreachable", zap.Error(err))
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	services.SendErrorResponse(w, http.StatusMethodNotAllowed, services.CodeMethodNotAllowed, "Method not allowed", nil)
}

func apiNotFound(w http.ResponseWriter, r *http.Request) {
	services.SendErrorResponse(w, http.StatusNotFound, services.CodeNotFound, "Not found", nil)
}
