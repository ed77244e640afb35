package subscriptiontracker

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/analytics/total"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/analytics/upcoming"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/create"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/health"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/list"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/listall"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/read"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/remove"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/subscription/update"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/user/lookup"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/handlers/user/register"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	subservice "github.com/magabrotheeeer/subscription-tracker/internal/services/subscription"
	userservice "github.com/magabrotheeeer/subscription-tracker/internal/services/user"
)

// Deps зависимости, нужные маршрутам.
type Deps struct {
	Subscriptions *subservice.SubscriptionService
	Users         *userservice.UserService
	DB            health.Pinger
	Limiter       *rate.Limiter
	Metrics       *middlewarectx.Metrics
	// MetricsHandler отдает /metrics; nil означает promhttp.Handler().
	MetricsHandler http.Handler
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		deps.Metrics.Middleware,
	)

	r.Get("/health", health.New(logger, deps.DB).ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, deps.Limiter))

		r.Post("/users/register", register.New(logger, deps.Users).ServeHTTP)
		r.Get("/users", lookup.New(logger, deps.Users).ServeHTTP)
		r.Post("/users/{userId}/subscriptions", create.New(logger, deps.Subscriptions).ServeHTTP)
		r.Get("/users/{userId}/subscriptions", list.New(logger, deps.Subscriptions).ServeHTTP)

		r.Get("/subscriptions", listall.New(logger, deps.Subscriptions).ServeHTTP)
		r.Get("/subscriptions/{id}", read.New(logger, deps.Subscriptions).ServeHTTP)
		r.Put("/subscriptions/{id}", update.New(logger, deps.Subscriptions).ServeHTTP)
		r.Delete("/subscriptions/{id}", remove.New(logger, deps.Subscriptions).ServeHTTP)

		r.Get("/analytics/upcoming-renewals/{userId}", upcoming.New(logger, deps.Subscriptions).ServeHTTP)
		r.Get("/analytics/total-amount/{userId}", total.New(logger, deps.Subscriptions).ServeHTTP)
	})

	metricsHandler := deps.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Handle("/metrics", metricsHandler)
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
