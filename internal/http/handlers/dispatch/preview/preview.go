// Package preview реализует HTTP-обработчик предпросмотра рассылки:
// показывает, кому ушло бы напоминание при живом запуске прямо сейчас,
// не отправляя ничего.
package preview

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mercadolocal/billing-engine/internal/http/response"
	"github.com/mercadolocal/billing-engine/internal/lib/sl"
	"github.com/mercadolocal/billing-engine/internal/models"
)

// Handler управляет HTTP-запросами предпросмотра рассылки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс предпросмотра рассылки.
type Service interface {
	Analyze(ctx context.Context, now time.Time) (*models.DispatchAnalysis, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Предпросмотр ежедневной рассылки
// @Description Возвращает решение по каждому владельцу (notify или skip) без отправки писем.
// @Tags Dispatch
// @Produce json
// @Param X-Dispatch-Secret header string true "Общий секрет рассылки"
// @Success 200 {object} map[string]any "Анализ рассылки"
// @Failure 401 {object} response.ErrorResponse "Неверный секрет"
// @Failure 500 {object} response.ErrorResponse "Перечисление владельцев не удалось"
// @Router /billing/dispatch/preview [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dispatch.preview"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	analysis, err := h.service.Analyze(r.Context(), time.Now())
	if err != nil {
		log.Error("dispatch preview failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("dispatch preview failed"))
		return
	}

	render.JSON(w, r, response.OKWithData(analysis))
}
