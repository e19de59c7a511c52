// Package configupdate реализует HTTP-обработчик редактирования
// реквизитов ручной оплаты администратором.
package configupdate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/mercadolocal/billing-engine/internal/http/response"
	"github.com/mercadolocal/billing-engine/internal/lib/sl"
	"github.com/mercadolocal/billing-engine/internal/models"
)

// Handler управляет HTTP-запросами редактирования конфигурации оплаты.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс сохранения конфигурации оплаты.
type Service interface {
	UpdateConfig(ctx context.Context, cfg models.PaymentConfig) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить реквизиты оплаты подписки
// @Description Перезаписывает ежемесячную плату и банковские реквизиты. Доступно только администратору.
// @Tags Billing
// @Accept json
// @Produce json
// @Param request body models.DummyPaymentConfig true "Новые реквизиты"
// @Success 200 {object} response.OKResponse "Реквизиты сохранены"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /billing/config [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.configupdate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPaymentConfig
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	cfg := models.PaymentConfig{
		MonthlyFee:    req.MonthlyFee,
		BankName:      req.BankName,
		BankAccount:   req.BankAccount,
		AccountHolder: req.AccountHolder,
		SupportEmail:  req.SupportEmail,
		SupportPhone:  req.SupportPhone,
	}
	if err := h.service.UpdateConfig(r.Context(), cfg); err != nil {
		log.Error("failed to update payment config", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update payment config"))
		return
	}

	log.Info("payment config updated", slog.Int("monthly_fee", cfg.MonthlyFee))
	render.JSON(w, r, response.OKWithData(cfg))
}
