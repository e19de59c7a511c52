// Package run реализует HTTP-обработчик живого запуска ежедневной
// рассылки напоминаний. Вызывается внешним планировщиком раз в сутки;
// повторный вызов в те же сутки отправит напоминания ещё раз.
package run

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

// Handler управляет HTTP-запросами живого запуска рассылки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс живого запуска рассылки.
type Service interface {
	RunDailyCheck(ctx context.Context, now time.Time) (*models.DispatchSummary, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Запустить ежедневную рассылку напоминаний
// @Description Проходит всех активных владельцев, отправляет положенные на сегодня напоминания и возвращает итог.
// @Tags Dispatch
// @Produce json
// @Param X-Dispatch-Secret header string true "Общий секрет рассылки"
// @Success 200 {object} map[string]any "Итог рассылки"
// @Failure 401 {object} response.ErrorResponse "Неверный секрет"
// @Failure 500 {object} response.ErrorResponse "Перечисление владельцев не удалось"
// @Router /billing/dispatch/run [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dispatch.run"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	summary, err := h.service.RunDailyCheck(r.Context(), time.Now())
	if err != nil {
		log.Error("daily dispatch failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("dispatch run failed"))
		return
	}

	log.Info("daily dispatch finished",
		slog.Int("sent", summary.NotificationsSent),
		slog.Int("failed", summary.NotificationsFailed))
	render.JSON(w, r, response.OKWithData(summary))
}
