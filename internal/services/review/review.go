// Package review реализует ручную проверку платежей администратором:
// переходы PENDING -> APPROVED и PENDING -> REJECTED.
package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mercadolocal/billing-engine/internal/lib/sl"
	"github.com/mercadolocal/billing-engine/internal/models"
	"github.com/mercadolocal/billing-engine/internal/storage/repository"
)

var reviewsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "billing_payment_reviews_total",
	Help: "Manual payment reviews by outcome.",
}, []string{"outcome"})

// ErrNotAdmin возвращается, когда переход пытается выполнить не
// администратор.
var ErrNotAdmin = errors.New("caller is not an administrator")

// ErrEmptyAdminNote возвращается при отклонении без комментария:
// владелец должен узнать причину.
var ErrEmptyAdminNote = errors.New("admin note is required for rejection")

// ErrInvalidState возвращается при повторной проверке платежа.
var ErrInvalidState = repository.ErrPaymentAlreadyReviewed

// ErrPaymentNotFound возвращается для несуществующего платежа.
var ErrPaymentNotFound = repository.ErrPaymentNotFound

// PaymentRepository определяет операции проверки платежей в хранилище.
type PaymentRepository interface {
	ApprovePayment(ctx context.Context, paymentUID, reviewerUID, adminNote string, now time.Time) (string, error)
	RejectPayment(ctx context.Context, paymentUID, reviewerUID, adminNote string, now time.Time) error
}

// SnapshotCache инвалидирует кэшированный биллинговый снимок владельца.
type SnapshotCache interface {
	Invalidate(ctx context.Context, key string) error
}

// Service — сервис проверки платежей.
type Service struct {
	repo  PaymentRepository
	cache SnapshotCache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo PaymentRepository, cache SnapshotCache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// SnapshotKey — ключ кэша биллингового снимка владельца.
func SnapshotKey(ownerUID string) string {
	return "billing:owner:" + ownerUID
}

// Approve подтверждает платёж и продлевает подписку владельца на
// календарный месяц. Комментарий администратора необязателен.
// Повторное подтверждение возвращает ErrInvalidState без каких-либо
// изменений.
func (s *Service) Approve(ctx context.Context, paymentUID, reviewerUID string, reviewerRole models.Role, adminNote string, now time.Time) error {
	const op = "review.Approve"
	if reviewerRole != models.RoleAdmin {
		return fmt.Errorf("%s: %w", op, ErrNotAdmin)
	}

	ownerUID, err := s.repo.ApprovePayment(ctx, paymentUID, reviewerUID, adminNote, now)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	reviewsTotal.WithLabelValues("approved").Inc()

	// Гейт доступа не должен держать владельца заблокированным до
	// истечения TTL снимка.
	if err := s.cache.Invalidate(ctx, SnapshotKey(ownerUID)); err != nil {
		s.log.Warn("failed to invalidate billing snapshot", slog.String("owner_uid", ownerUID), sl.Err(err))
	}

	s.log.Info("payment approved",
		slog.String("payment_uid", paymentUID),
		slog.String("owner_uid", ownerUID),
		slog.String("reviewed_by", reviewerUID))
	return nil
}

// Reject отклоняет платёж, не трогая подписку. Комментарий
// администратора обязателен.
func (s *Service) Reject(ctx context.Context, paymentUID, reviewerUID string, reviewerRole models.Role, adminNote string, now time.Time) error {
	const op = "review.Reject"
	if reviewerRole != models.RoleAdmin {
		return fmt.Errorf("%s: %w", op, ErrNotAdmin)
	}
	if adminNote == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyAdminNote)
	}

	if err := s.repo.RejectPayment(ctx, paymentUID, reviewerUID, adminNote, now); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	reviewsTotal.WithLabelValues("rejected").Inc()

	s.log.Info("payment rejected",
		slog.String("payment_uid", paymentUID),
		slog.String("reviewed_by", reviewerUID))
	return nil
}
