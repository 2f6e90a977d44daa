// Command server runs the Campus Resource Hub HTTP API.
//
// @title           Campus Resource Hub API
// @version         1.0
// @description     Resource booking with approval workflow and context-bound messaging.
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/tbourn/campus-resource-hub/internal/config"
	httpapi "github.com/tbourn/campus-resource-hub/internal/http"
	"github.com/tbourn/campus-resource-hub/internal/observability"
	"github.com/tbourn/campus-resource-hub/internal/repo"
	"github.com/tbourn/campus-resource-hub/internal/services"
	"github.com/tbourn/campus-resource-hub/internal/sysutil"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = ""

const demoPassword = "Password123!"

func main() {
	migrate := pflag.Bool("migrate", false, "create or update tables before serving")
	seed := pflag.Bool("seed", false, "insert demo users and resources (password "+demoPassword+")")
	envFile := pflag.String("env-file", ".env", "dotenv file to load before reading the environment")
	pflag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("file", *envFile).Msg("dotenv not loaded")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	sysutil.SetLogLevel(cfg.LogLevel)
	sysutil.ConfigureLogger(os.Stdout, cfg.LogPretty, cfg.OTEL.ServiceName)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.OTEL, observability.ServiceInfo{
		Version:     sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version, "dev"),
		Environment: cfg.GinMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("tracing setup failed")
	}

	db, err := repo.Open(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("database open failed")
	}
	if *migrate || cfg.DB.AutoMigrate {
		if err := repo.AutoMigrate(db); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
	}
	if *seed {
		if err := repo.Seed(ctx, db, demoPassword, services.HashPassword); err != nil {
			log.Fatal().Err(err).Msg("seed failed")
		}
		log.Info().Msg("demo data seeded")
	}

	messaging := repo.MessagingReady(db)
	if !messaging {
		log.Warn().Msg("messaging tables missing; threads run in degraded mode")
	}

	audit := services.NewAsyncAuditLog(db, cfg.AuditBuffer)

	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{DB: db, Audit: audit, MessagingEnabled: messaging}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("base", cfg.APIBasePath).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if err := audit.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("audit flush")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracing shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
