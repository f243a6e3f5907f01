package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"currency-exchange-go/internal/auth"
	"currency-exchange-go/internal/common"
	"currency-exchange-go/internal/config"
	"currency-exchange-go/internal/exchange"
	"currency-exchange-go/internal/rates"
	"currency-exchange-go/internal/server"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Connecting to database", zap.String("path", cfg.Database.Path))
	dbService, err := common.InitializeDatabase(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	currencies, err := common.LoadCurrencyRegistry(cfg.Exchange.CurrenciesFile)
	if err != nil {
		logger.Fatal("Failed to load currency registry",
			zap.String("file", cfg.Exchange.CurrenciesFile),
			zap.Error(err))
	}

	rateClient, err := rates.NewClient(cfg.Rates)
	if err != nil {
		logger.Fatal("Failed to create rate client", zap.Error(err))
	}

	engine := exchange.NewService(dbService, dbService, rateClient, currencies, cfg.Exchange.Spread)
	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	srv := server.New(server.Config{
		HTTP:          cfg.Server,
		Store:         dbService,
		Engine:        engine,
		Rates:         rateClient,
		Issuer:        issuer,
		ResetTokenTTL: cfg.Auth.ResetTokenTTL,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	case sig := <-stop:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed", zap.Error(err))
		}
	}

	logger.Info("Server stopped")
}
