// Package subscriptiontracker собирает HTTP-приложение трекера подписок:
// хранилище, миграции, кеш, сервисы и маршруты.
package subscriptiontracker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/subscription-tracker/internal/cache"
	"github.com/magabrotheeeer/subscription-tracker/internal/config"
	"github.com/magabrotheeeer/subscription-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/clock"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/migrations"
	subservice "github.com/magabrotheeeer/subscription-tracker/internal/services/subscription"
	userservice "github.com/magabrotheeeer/subscription-tracker/internal/services/user"
	"github.com/magabrotheeeer/subscription-tracker/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

type closer interface {
	Close() error
}

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  closer
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info("migrations applied", slog.String("path", cfg.MigrationsPath))

	subCache, err := newCache(ctx, cfg.RedisConnection, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	deps := Deps{
		Subscriptions: subservice.NewSubscriptionService(db, db, subCache, cfg.CacheTTL, clock.Real{}, logger),
		Users:         userservice.NewUserService(db, logger),
		DB:            db,
		Limiter:       middlewarectx.NewLimiter(cfg.RateLimit),
		Metrics:       middlewarectx.NewMetrics(prometheus.DefaultRegisterer),
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, deps)

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
		cache:  subCache,
	}, nil
}

type appCache interface {
	subservice.Cache
	closer
}

// newCache подключает Redis или возвращает пустой кеш, если он выключен.
func newCache(ctx context.Context, cfg config.RedisConnection, logger *slog.Logger) (appCache, error) {
	if !cfg.Enabled {
		logger.Info("redis cache disabled")
		return cache.Noop{}, nil
	}
	c, err := cache.InitServer(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("redis cache connected", slog.String("address", cfg.AddressRedis))
	return c, nil
}

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
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("failed to close cache", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close database", sl.Err(err))
	}
}
