package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"milkledger/auth"
	"milkledger/config"
	"milkledger/handlers"
	"milkledger/logging"
	"milkledger/repository"
	"milkledger/routes"
	"milkledger/utils"
)

func main() {
	// Load config from .env or environment
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	uploader, err := utils.NewR2Uploader(ctx, cfg.R2)
	if err != nil {
		slog.Error("failed to configure R2", "error", err)
		os.Exit(1)
	}

	store, err := repository.OpenStore(cfg)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	reportHandler := &handlers.ReportHandler{
		Repo:       store.Reports,
		VendorName: cfg.VendorName,
		SavePath:   cfg.PDFDir,
	}
	if uploader != nil {
		reportHandler.Uploader = uploader
		slog.Info("R2 upload enabled", "bucket", cfg.R2.Bucket)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	handler := routes.SetupRoutes(routes.Handlers{
		Auth:     &handlers.AuthMiddleware{JWT: jwtManager, Users: store.Users},
		User:     &handlers.UserHandler{Repo: store.Users, JWT: jwtManager},
		Admin:    &handlers.AdminHandler{Users: store.Users, Customers: store.Customers, Milk: store.Milk},
		Customer: &handlers.CustomerHandler{Repo: store.Customers},
		Milk:     &handlers.MilkHandler{Repo: store.Milk, Customers: store.Customers, Reports: store.Reports},
		Report:   reportHandler,
		Health:   &handlers.HealthHandler{DB: store.Conn},
	}, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("server running", "port", cfg.Port, "db_type", cfg.DBType)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
