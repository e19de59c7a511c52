// Package billing собирает HTTP-сервис биллинга: хранилище, миграции,
// кэш, сервисы и маршруты.
package billing

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/mercadolocal/billing-engine/internal/cache"
	"github.com/mercadolocal/billing-engine/internal/config"
	libjwt "github.com/mercadolocal/billing-engine/internal/lib/jwt"
	libsmtp "github.com/mercadolocal/billing-engine/internal/lib/smtp"
	"github.com/mercadolocal/billing-engine/internal/migrations"
	dispatchservice "github.com/mercadolocal/billing-engine/internal/services/dispatch"
	gateservice "github.com/mercadolocal/billing-engine/internal/services/gate"
	paymentservice "github.com/mercadolocal/billing-engine/internal/services/payment"
	reviewservice "github.com/mercadolocal/billing-engine/internal/services/review"
	senderservice "github.com/mercadolocal/billing-engine/internal/services/sender"
	"github.com/mercadolocal/billing-engine/internal/storage/repository"
)

// App — HTTP-приложение биллинга.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New создает приложение: подключает PostgreSQL и Redis, прогоняет
// миграции и регистрирует маршруты.
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

	jwtParser := libjwt.NewParser(cfg.JWTSecretKey)
	transport := libsmtp.NewTransport(cfg.SMTP, logger)
	emailSender := senderservice.NewSenderService(transport, logger)

	// Живой запуск через HTTP шлёт письма напрямую: итог отражает
	// фактическую доставку, а не постановку в очередь.
	dispatchSvc := dispatchservice.New(db, emailSender, logger)
	gateSvc := gateservice.New(db, cacheRedis, logger)
	reviewSvc := reviewservice.New(db, cacheRedis, logger)
	paymentSvc := paymentservice.New(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, RouteServices{
		Dispatch:   dispatchSvc,
		Gate:       gateSvc,
		Review:     reviewSvc,
		Payment:    paymentSvc,
		Config:     db,
		ConfigEdit: db,
		JWT:        jwtParser,
		Secret:     cfg.DispatchSecret,
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

// Run запускает сервер и корректно останавливает его по отмене
// контекста.
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
		_ = a.db.DB.Close()
		return err
	}
}
