// Package subscriptiontracker предоставляет маршруты для основного приложения.
package subscriptiontracker

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	adminstats "github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/admin/stats"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/payment/paymentintent"
	providercreate "github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/provider/create"
	providerlist "github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/provider/list"
	providerremove "github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/provider/remove"
	providerupdate "github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/provider/update"
	reclamationcreate "github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/reclamation/create"
	reclamationlist "github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/reclamation/list"
	reclamationread "github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/reclamation/read"
	reclamationremove "github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/reclamation/remove"
	reclamationupdate "github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/reclamation/update"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/create"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/health"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/list"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/read"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/remove"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/renew"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/update"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/paymentprovider"
	authservice "github.com/magabrotheeeer/subscription-tracker/internal/services/auth"
	providerservice "github.com/magabrotheeeer/subscription-tracker/internal/services/provider"
	reclamationservice "github.com/magabrotheeeer/subscription-tracker/internal/services/reclamation"
	renewalservice "github.com/magabrotheeeer/subscription-tracker/internal/services/renewal"
	statsservice "github.com/magabrotheeeer/subscription-tracker/internal/services/stats"
	subservice "github.com/magabrotheeeer/subscription-tracker/internal/services/subscription"
)

// Services собирает сервисы, которые нужны маршрутам.
type Services struct {
	Auth          *authservice.AuthService
	Subscriptions *subservice.SubscriptionService
	Renewals      *renewalservice.RenewalService
	Providers     *providerservice.ProviderService
	Reclamations  *reclamationservice.ReclamationService
	Stats         *statsservice.StatsService
	Payments      *paymentprovider.Client
	Currency      string
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
		r.Get("/providers", providerlist.New(logger, s.Providers).ServeHTTP)
		r.Post("/reclamations", reclamationcreate.New(logger, s.Reclamations).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, rate.Limit(10), 20))
			r.Post("/subscriptions", create.New(logger, s.Subscriptions).ServeHTTP)
			r.Get("/subscriptions", list.New(logger, s.Subscriptions).ServeHTTP)
			r.Get("/subscriptions/{id}", read.New(logger, s.Subscriptions).ServeHTTP)
			r.Put("/subscriptions/{id}", update.New(logger, s.Subscriptions).ServeHTTP)
			r.Delete("/subscriptions/{id}", remove.New(logger, s.Subscriptions).ServeHTTP)
			r.Post("/subscriptions/{id}/renew", renew.New(logger, s.Renewals).ServeHTTP)
			r.Post("/payments/intent", paymentintent.New(logger, s.Payments, s.Currency).ServeHTTP)
		})

		// Административная группа
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))
			r.Use(middlewarectx.AdminOnlyMiddleware(logger))
			r.Get("/admin/subscriptions", list.New(logger, s.Subscriptions).ServeHTTP)
			r.Get("/admin/stats", adminstats.New(logger, s.Stats).ServeHTTP)
			r.Post("/admin/providers", providercreate.New(logger, s.Providers).ServeHTTP)
			r.Put("/admin/providers/{id}", providerupdate.New(logger, s.Providers).ServeHTTP)
			r.Delete("/admin/providers/{id}", providerremove.New(logger, s.Providers).ServeHTTP)
			r.Get("/admin/reclamations", reclamationlist.New(logger, s.Reclamations).ServeHTTP)
			r.Get("/admin/reclamations/{id}", reclamationread.New(logger, s.Reclamations).ServeHTTP)
			r.Patch("/admin/reclamations/{id}", reclamationupdate.New(logger, s.Reclamations).ServeHTTP)
			r.Delete("/admin/reclamations/{id}", reclamationremove.New(logger, s.Reclamations).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
