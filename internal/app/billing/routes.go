// Package billing предоставляет маршруты HTTP-сервиса биллинга.
package billing

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	accesshandler "github.com/mercadolocal/billing-engine/internal/http/handlers/billing/access"
	"github.com/mercadolocal/billing-engine/internal/http/handlers/billing/configupdate"
	"github.com/mercadolocal/billing-engine/internal/http/handlers/billing/paymentinfo"
	statushandler "github.com/mercadolocal/billing-engine/internal/http/handlers/billing/status"
	"github.com/mercadolocal/billing-engine/internal/http/handlers/dispatch/preview"
	"github.com/mercadolocal/billing-engine/internal/http/handlers/dispatch/run"
	"github.com/mercadolocal/billing-engine/internal/http/handlers/health"
	"github.com/mercadolocal/billing-engine/internal/http/handlers/payment/approve"
	"github.com/mercadolocal/billing-engine/internal/http/handlers/payment/list"
	"github.com/mercadolocal/billing-engine/internal/http/handlers/payment/reject"
	"github.com/mercadolocal/billing-engine/internal/http/handlers/payment/report"
	"github.com/mercadolocal/billing-engine/internal/http/middlewarectx"
	"github.com/mercadolocal/billing-engine/internal/models"
	dispatchservice "github.com/mercadolocal/billing-engine/internal/services/dispatch"
	gateservice "github.com/mercadolocal/billing-engine/internal/services/gate"
	paymentservice "github.com/mercadolocal/billing-engine/internal/services/payment"
	reviewservice "github.com/mercadolocal/billing-engine/internal/services/review"
)

// RouteServices — зависимости маршрутов.
type RouteServices struct {
	Dispatch   *dispatchservice.Service
	Gate       *gateservice.Service
	Review     *reviewservice.Service
	Payment    *paymentservice.Service
	Config     paymentinfo.Service
	ConfigEdit configupdate.Service
	JWT        middlewarectx.TokenParser
	Secret     string
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svcs RouteServices) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Служебные эндпоинты рассылки: защищены общим секретом,
		// вызываются внешним планировщиком.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.DispatchSecretMiddleware(svcs.Secret, logger))
			r.Post("/billing/dispatch/run", run.New(logger, svcs.Dispatch).ServeHTTP)
			r.Get("/billing/dispatch/preview", preview.New(logger, svcs.Dispatch).ServeHTTP)
		})

		// Группа с JWT аутентификацией.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(svcs.JWT, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			// Биллинговые экраны владельца доступны и при
			// приостановке: иначе нечем оплатить и разблокироваться.
			r.Get("/billing/status", statushandler.New(logger, svcs.Gate).ServeHTTP)
			r.Get("/billing/access", accesshandler.New(logger, svcs.Gate).ServeHTTP)
			r.Get("/billing/config", paymentinfo.New(logger, svcs.Config).ServeHTTP)
			r.Post("/payments", report.New(logger, svcs.Payment).ServeHTTP)
			r.Get("/payments/list", list.New(logger, svcs.Payment).ServeHTTP)

			// Админские переходы проверки платежей и правка реквизитов.
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(models.RoleAdmin, logger))
				r.Put("/billing/config", configupdate.New(logger, svcs.ConfigEdit).ServeHTTP)
				r.Post("/payments/{uid}/approve", approve.New(logger, svcs.Review).ServeHTTP)
				r.Post("/payments/{uid}/reject", reject.New(logger, svcs.Review).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
