// Package status реализует HTTP-обработчик экрана "моя подписка":
// владелец видит производный статус, счётчики дней и флаг доступа.
package status

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mercadolocal/billing-engine/internal/http/middlewarectx"
	"github.com/mercadolocal/billing-engine/internal/http/response"
	"github.com/mercadolocal/billing-engine/internal/lib/sl"
	"github.com/mercadolocal/billing-engine/internal/models"
)

// Handler управляет HTTP-запросами статуса подписки владельца.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс снимка биллингового состояния.
type Service interface {
	Snapshot(ctx context.Context, ownerUID string, now time.Time) (*models.BillingSnapshot, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статус подписки текущего владельца
// @Description Возвращает производный статус подписки, счётчики дней и флаг доступа к разделам владельца.
// @Tags Billing
// @Produce json
// @Success 200 {object} map[string]any "Снимок биллингового состояния"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /billing/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid, _, ok := middlewarectx.CallerFromContext(r.Context())
	if !ok {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	snapshot, err := h.service.Snapshot(r.Context(), uid, time.Now())
	if err != nil {
		log.Error("failed to build billing snapshot", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load billing status"))
		return
	}

	render.JSON(w, r, response.OKWithData(snapshot))
}
