// Package payment содержит бизнес-логику владельца: заявление платежа
// и просмотр своих платежей.
package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mercadolocal/billing-engine/internal/models"
)

// PaymentRepository определяет операции с платежами в хранилище.
type PaymentRepository interface {
	CreatePayment(ctx context.Context, ownerUID string, req models.DummyPayment) (string, error)
	GetPayment(ctx context.Context, paymentUID string) (*models.Payment, error)
	ListPayments(ctx context.Context, ownerUID string, status string) ([]*models.Payment, error)
}

// Service — сервис платежей владельца.
type Service struct {
	repo PaymentRepository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo PaymentRepository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Report сохраняет заявленный владельцем платёж в статусе PENDING и
// возвращает его UID.
func (s *Service) Report(ctx context.Context, ownerUID string, req models.DummyPayment) (string, error) {
	uid, err := s.repo.CreatePayment(ctx, ownerUID, req)
	if err != nil {
		return "", fmt.Errorf("failed to create payment: %w", err)
	}
	s.log.Info("payment reported",
		slog.String("payment_uid", uid),
		slog.String("owner_uid", ownerUID),
		slog.String("period_month", req.PeriodMonth))
	return uid, nil
}

// Get возвращает платёж по UID.
func (s *Service) Get(ctx context.Context, paymentUID string) (*models.Payment, error) {
	return s.repo.GetPayment(ctx, paymentUID)
}

// List возвращает платежи: администратору все (с фильтром по статусу),
// владельцу только свои.
func (s *Service) List(ctx context.Context, caller models.Role, callerUID string, status string) ([]*models.Payment, error) {
	if caller == models.RoleAdmin {
		return s.repo.ListPayments(ctx, "", status)
	}
	return s.repo.ListPayments(ctx, callerUID, status)
}
