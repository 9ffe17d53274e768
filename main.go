package main

import (
	"context"
	"errors"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/larksois/catalog-api/config"
	"github.com/larksois/catalog-api/data"
	"github.com/larksois/catalog-api/handlers"
	"github.com/larksois/catalog-api/health"
	"github.com/larksois/catalog-api/logging"
	"github.com/larksois/catalog-api/mailer"
	"github.com/larksois/catalog-api/productparser"
	"github.com/larksois/catalog-api/scheduler"
	"github.com/larksois/catalog-api/server"
	"github.com/larksois/catalog-api/validation"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		logging.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Configuration error", "error", err)
		os.Exit(1)
	}

	logging.InitLogger("logs", cfg.LogRetentionWeeks, cfg.SlogLevel())

	container := data.NewProductContainer()
	container.SetServerStartTime(time.Now())

	validator := validation.NewDataValidator()
	parser := productparser.NewProductParser(cfg.ProductsFile, validator)

	catalogScheduler := scheduler.NewScheduler(container, parser)
	if err := catalogScheduler.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer catalogScheduler.Stop()

	if !cfg.MailRelayConfigured() {
		logging.Warn("EmailJS relay not configured, contact inquiries will fail")
	}

	httpHandlers := handlers.NewHTTPHandler(
		container,
		validator,
		mailer.NewEmailJSMailer(cfg),
		health.NewHealthChecker(container),
	)

	srv := server.NewServer(cfg, httpHandlers)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start the server in a goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	// Create a context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
		os.Exit(1)
	}
}
