// Package paymentinfo реализует HTTP-обработчик реквизитов ручной
// оплаты: сумма, банк, контакты поддержки.
package paymentinfo

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mercadolocal/billing-engine/internal/http/response"
	"github.com/mercadolocal/billing-engine/internal/lib/sl"
	"github.com/mercadolocal/billing-engine/internal/models"
)

// Handler управляет HTTP-запросами реквизитов оплаты.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс чтения конфигурации оплаты.
type Service interface {
	GetOrCreateConfig(ctx context.Context) (*models.PaymentConfig, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Реквизиты оплаты подписки
// @Description Возвращает ежемесячную плату и банковские реквизиты для ручного перевода.
// @Tags Billing
// @Produce json
// @Success 200 {object} map[string]any "Реквизиты оплаты"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /billing/config [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.paymentinfo"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	cfg, err := h.service.GetOrCreateConfig(r.Context())
	if err != nil {
		log.Error("failed to load payment config", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load payment config"))
		return
	}

	render.JSON(w, r, response.OKWithData(cfg))
}
