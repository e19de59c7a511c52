// Package access реализует проверку доступа владельца для соседних
// сервисов площадки: витрина и панель владельца спрашивают сюда перед
// показом владельческих разделов.
package access

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
)

// Handler управляет HTTP-запросами проверки доступа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс гейта доступа.
type Service interface {
	CanAccess(ctx context.Context, ownerUID string, now time.Time) (bool, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проверка доступа владельца
// @Description Возвращает флаг can_access: открыт ли владельцу доступ к его разделам при текущем статусе подписки.
// @Tags Billing
// @Produce json
// @Success 200 {object} map[string]any "Флаг доступа"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /billing/access [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.access"
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

	allowed, err := h.service.CanAccess(r.Context(), uid, time.Now())
	if err != nil {
		log.Error("failed to evaluate owner access", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not evaluate access"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"can_access": allowed,
	}))
}
