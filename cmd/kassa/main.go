package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kassa/internal/cache"
	"kassa/internal/cli"
	"kassa/internal/config"
	"kassa/internal/events"
	apphttp "kassa/internal/http"
	"kassa/internal/log"
	"kassa/internal/report"
	"kassa/internal/services"
	"kassa/internal/session"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	st := cli.OpenBackend(logger, cfg)
	defer st.Close()

	// Change events are optional; without an AMQP URL mutations stay local.
	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		publisher = client
		logger.Info("Change event publishing enabled", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("Change event publishing disabled - no AMQP_URL provided")
	}

	ledger := services.NewLedgerService(st, publisher)
	defer ledger.Close()

	creds, err := config.ParseAuthUsers(cfg.AuthUsers)
	if err != nil {
		logger.Error("Failed to parse AUTH_USERS", log.FieldError, err)
		os.Exit(1)
	}
	sessions := session.NewManager(creds, cfg.SessionTTL)

	// Sweep expired session tokens in the background.
	caches := cache.NewManager()
	caches.Register(sessions.ExpirySweeper())
	caches.StartCleanup(10 * time.Minute)
	defer caches.Stop()

	formatter := report.New(cfg.Currency)

	srv := apphttp.NewServer(":"+cfg.Port, ledger, st, sessions, formatter)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting kassa server",
		"port", cfg.Port, log.FieldBackend, cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
