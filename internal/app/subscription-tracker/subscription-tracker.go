// Package subscriptiontracker собирает HTTP-приложение: хранилище,
// миграции, кеш, платёжного провайдера, сервисы и маршруты.
package subscriptiontracker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/subscription-tracker/internal/cache"
	"github.com/magabrotheeeer/subscription-tracker/internal/config"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/subscription-tracker/internal/migrations"
	"github.com/magabrotheeeer/subscription-tracker/internal/paymentprovider"
	authservice "github.com/magabrotheeeer/subscription-tracker/internal/services/auth"
	providerservice "github.com/magabrotheeeer/subscription-tracker/internal/services/provider"
	reclamationservice "github.com/magabrotheeeer/subscription-tracker/internal/services/reclamation"
	renewalservice "github.com/magabrotheeeer/subscription-tracker/internal/services/renewal"
	statsservice "github.com/magabrotheeeer/subscription-tracker/internal/services/stats"
	subservice "github.com/magabrotheeeer/subscription-tracker/internal/services/subscription"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New создает приложение: подключает зависимости и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	maker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	providerClient := paymentprovider.NewClient(cfg.PaymentSecretKey, cfg.PaymentAPIURL)

	authService := authservice.NewAuthService(db, maker, logger)
	subscriptionService := subservice.NewSubscriptionService(db, cacheRedis, logger)
	renewalService := renewalservice.NewRenewalService(db, providerClient, cacheRedis, cfg.PaymentCurrency, logger)
	providerService := providerservice.NewProviderService(db, logger)
	reclamationService := reclamationservice.NewReclamationService(db, logger)
	statsService := statsservice.NewStatsService(db, db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:          authService,
		Subscriptions: subscriptionService,
		Renewals:      renewalService,
		Providers:     providerService,
		Reclamations:  reclamationService,
		Stats:         statsService,
		Payments:      providerClient,
		Currency:      cfg.PaymentCurrency,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
