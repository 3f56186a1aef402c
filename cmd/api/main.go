package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smallcase/internal/config"
	"smallcase/internal/database"
	"smallcase/internal/logger"
	"smallcase/internal/pricing"
	"smallcase/internal/server"
	"smallcase/internal/services"
	"smallcase/internal/validator"
)

// @title           Smallcase Basket API
// @version         1.0
// @description     Build weighted baskets of instruments, allocate an investment in whole shares and rebalance by weight, quantity or amount.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Pipeline API key.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Initialize services
	db := dbManager.DB()
	source := pricing.NewYahooSource(&http.Client{Timeout: appConfig.PriceRequestTimeout}, appConfig.YahooBaseURL)
	instrumentService := services.NewInstrumentService(db, source)
	basketService := services.NewBasketService(db, instrumentService, services.BasketConfig{
		DefaultCurrency: appConfig.DefaultCurrency,
		PriceStaleAfter: appConfig.PriceStaleAfter,
	})
	auditService := services.NewAuditService(db)

	router := server.NewRouter(server.Options{
		JWTSecret:      appConfig.JWTSecret,
		PipelineAPIKey: appConfig.PipelineAPIKey,
		Swagger:        true,
	}, server.Services{
		Baskets:     basketService,
		Instruments: instrumentService,
		Audit:       auditService,
	})

	// Periodic price refresh
	scheduler := pricing.NewScheduler(log, appConfig.PriceRefreshTimeout)
	if appConfig.PriceRefreshSchedule != "" {
		err := scheduler.AddJob(appConfig.PriceRefreshSchedule, pricing.JobFunc{
			JobName: "refresh-prices",
			Fn: func(ctx context.Context) error {
				_, err := instrumentService.RefreshPrices(ctx, nil)
				return err
			},
		})
		if err != nil {
			return fmt.Errorf("invalid PRICE_REFRESH_SCHEDULE: %w", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting smallcase basket server on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
