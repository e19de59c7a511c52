// Package approve реализует HTTP-обработчик подтверждения платежа
// администратором: переход PENDING -> APPROVED с продлением подписки.
package approve

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/mercadolocal/billing-engine/internal/http/middlewarectx"
	"github.com/mercadolocal/billing-engine/internal/http/response"
	"github.com/mercadolocal/billing-engine/internal/lib/sl"
	"github.com/mercadolocal/billing-engine/internal/models"
	"github.com/mercadolocal/billing-engine/internal/services/review"
)

// Handler управляет HTTP-запросами подтверждения платежей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс подтверждения платежа.
type Service interface {
	Approve(ctx context.Context, paymentUID, reviewerUID string, reviewerRole models.Role, adminNote string, now time.Time) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// request — необязательный комментарий администратора.
type request struct {
	AdminNote string `json:"admin_note"`
}

// ServeHTTP godoc
// @Summary Подтвердить платёж
// @Description Переводит платёж из PENDING в APPROVED и продлевает подписку владельца на месяц. Только для администратора.
// @Tags Payments
// @Accept json
// @Produce json
// @Param uid path string true "UID платежа"
// @Param request body request false "Комментарий администратора"
// @Success 200 {object} response.OKResponse "Платёж подтверждён"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} response.ErrorResponse "Платёж не найден"
// @Failure 409 {object} response.ErrorResponse "Платёж уже проверен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /payments/{uid}/approve [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.approve"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	paymentUID := chi.URLParam(r, "uid")
	if paymentUID == "" {
		log.Error("payment uid missing in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid payment uid"))
		return
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	uid, role, ok := middlewarectx.CallerFromContext(r.Context())
	if !ok {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	err := h.service.Approve(r.Context(), paymentUID, uid, role, req.AdminNote, time.Now())
	switch {
	case errors.Is(err, review.ErrNotAdmin):
		log.Error("caller is not admin", slog.String("uid", uid))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("forbidden"))
		return
	case errors.Is(err, review.ErrPaymentNotFound):
		log.Error("payment not found", slog.String("payment_uid", paymentUID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("payment not found"))
		return
	case errors.Is(err, review.ErrInvalidState):
		log.Error("payment already reviewed", slog.String("payment_uid", paymentUID))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("payment already reviewed"))
		return
	case err != nil:
		log.Error("failed to approve payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not approve payment"))
		return
	}

	log.Info("payment approved", slog.String("payment_uid", paymentUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"payment_uid": paymentUID,
		"status":      models.PaymentApproved,
	}))
}
