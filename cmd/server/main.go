package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linea1-bknd/internal/config"
	"linea1-bknd/internal/database"
	"linea1-bknd/internal/logger"
	"linea1-bknd/internal/routes"
	"linea1-bknd/internal/services"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	logr := logger.New(cfg)
	db, err := database.New(cfg.DatabaseURL, cfg)
	if err != nil {
		logr.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.CreateSchema(ctx, db); err != nil {
		logr.Fatal("failed to create schema", zap.Error(err))
	}
	if cfg.SeedOnStart {
		if err := database.Seed(ctx, db); err != nil {
			logr.Fatal("failed to seed database", zap.Error(err))
		}
	}

	r := routes.NewRouter(db, cfg, logr)

	// Daily reserve-contact scan. Runs once at startup too, so a restart
	// never skips a day.
	notifSvc := services.NewNotificationService(db, logr.Logger)
	go notifSvc.CheckExpiringReserves(ctx, cfg.ReserveContactWindow)

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.ReserveCheckSpec, func() {
		notifSvc.CheckExpiringReserves(context.Background(), cfg.ReserveContactWindow)
	})
	if err != nil {
		logr.Fatal("invalid reserve check schedule", zap.Error(err), zap.String("spec", cfg.ReserveCheckSpec))
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logr.Info("server started", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Fatal("server forced to shutdown", zap.Error(err))
	}

	logr.Info("server exited gracefully")
}
