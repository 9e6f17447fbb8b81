// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	adminrepository "gymaccess/internal/admin/repository"
	adminservice "gymaccess/internal/admin/service"
	adminhttp "gymaccess/internal/admin/transport/http"
	"gymaccess/internal/checkin"
	checkinrepository "gymaccess/internal/checkin/repository"
	checkinservice "gymaccess/internal/checkin/service"
	checkinhttp "gymaccess/internal/checkin/transport/http"
	"gymaccess/internal/config"
	dashboardrepository "gymaccess/internal/dashboard/repository"
	dashboardservice "gymaccess/internal/dashboard/service"
	dashboardhttp "gymaccess/internal/dashboard/transport/http"
	"gymaccess/internal/metrics"
	subscriptionrepository "gymaccess/internal/subscription/repository"
	subscriptionservice "gymaccess/internal/subscription/service"
	subscriptionhttp "gymaccess/internal/subscription/transport/http"
	"gymaccess/pkg/db"
	"gymaccess/pkg/logger"
	"gymaccess/pkg/middleware"
)

var server *http.Server

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log.Info().Str("addr", cfg.HTTPAddr).Msg("gymaccess API starting")

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid ledger timezone")
	}

	metrics.InitMetrics()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer database.Close()
	log.Info().Msg("connected to PostgreSQL")

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Migrate(migrateCtx, database); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("schema migration failed")
	}
	cancel()

	// --- layers ---
	adminRepo := adminrepository.NewPostgresAdminRepository(database)
	adminService := adminservice.NewAdminService(adminRepo, cfg.JWTSecret, cfg.JWTTTL)
	adminHandler := adminhttp.NewHandler(adminService)

	subRepo := subscriptionrepository.NewSubscriptionRepository(database)
	subService := subscriptionservice.NewService(subRepo)
	subHandler := subscriptionhttp.NewSubscriptionHandler(subService)

	ledger := checkinrepository.NewLedger(database)
	checkInService := checkinservice.NewService(ledger, checkin.NewQuotaEvaluator(loc))
	checkInHandler := checkinhttp.NewCheckInHandler(checkInService)

	dashboardRepo := dashboardrepository.NewPostgresDashboardRepository(sqlx.NewDb(database, "postgres"))
	dashboardService := dashboardservice.NewService(dashboardRepo, loc)
	dashboardHandler := dashboardhttp.NewDashboardHandler(dashboardService)

	// --- router ---
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestLogger)
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.ValidateRequest)

	// public
	r.Post("/auth/login", adminHandler.Login)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	if cfg.MetricsPassword != "" {
		r.With(middleware.BasicAuth(cfg.MetricsUser, cfg.MetricsPassword)).Handle("/metrics", promhttp.Handler())
	} else {
		log.Warn().Msg("METRICS_PASSWORD not set, /metrics disabled")
	}

	// protected
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.JWTAuth(adminService))
		pr.Get("/auth/me", adminHandler.Me)

		checkInHandler.Routes(pr)
		subHandler.Routes(pr)
		pr.Get("/api/dashboard", dashboardHandler.Overview)
	})

	server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		s := <-sig

		log.Info().Str("signal", s.String()).Msg("shutdown signal received")
		shutdownServer()
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("server running")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func shutdownServer() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("server stopped")
}
