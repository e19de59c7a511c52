// Package gate проецирует производный статус подписки в сквозную
// проверку доступа владельца. Снимок состояния кэшируется в Redis,
// чтобы гейт не ходил в PostgreSQL на каждый запрос.
package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mercadolocal/billing-engine/internal/billing"
	"github.com/mercadolocal/billing-engine/internal/lib/period"
	"github.com/mercadolocal/billing-engine/internal/lib/sl"
	"github.com/mercadolocal/billing-engine/internal/models"
	"github.com/mercadolocal/billing-engine/internal/services/review"
)

// snapshotTTL — время жизни кэшированного снимка. Статус меняется не
// чаще раза в сутки, так что снимок отстаёт максимум на десять минут;
// одобрение платежа инвалидирует ключ немедленно.
const snapshotTTL = 10 * time.Minute

// ErrNotOwner возвращается, когда у пользователя нет даты начала
// пробного периода, то есть он не владелец.
var ErrNotOwner = errors.New("user is not a business owner")

// UserRepository определяет чтение пользователя и обновление проекции
// статуса.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	RefreshSubscriptionStatus(ctx context.Context, userUID string, status models.SubscriptionStatus) error
}

// SnapshotCache описывает кэш снимков.
type SnapshotCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Service — сервис гейта доступа.
type Service struct {
	repo  UserRepository
	cache SnapshotCache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo UserRepository, cache SnapshotCache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Snapshot возвращает биллинговый снимок владельца на момент now,
// из кэша или пересчитанный из временных меток. При пересчёте
// оппортунистически обновляет кэшированную проекцию статуса в БД.
func (s *Service) Snapshot(ctx context.Context, ownerUID string, now time.Time) (*models.BillingSnapshot, error) {
	const op = "gate.Snapshot"

	key := review.SnapshotKey(ownerUID)
	var cached models.BillingSnapshot
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("billing snapshot cache read failed", sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	user, err := s.repo.GetUser(ctx, ownerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if user.BecameOwnerAt == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNotOwner)
	}

	info := billing.DeriveStatus(*user.BecameOwnerAt, user.SubscriptionPaidUntil, now)
	snapshot := &models.BillingSnapshot{
		Status:            info.Status,
		CanAccess:         billing.CanAccessOwnerFeatures(info.Status),
		DaysRemaining:     info.DaysRemaining,
		DaysOverdue:       info.DaysOverdue,
		DaysSinceTrialEnd: info.DaysSinceTrialEnd,
		TrialEndsAt:       period.AddMonth(*user.BecameOwnerAt),
		PaidUntil:         user.SubscriptionPaidUntil,
	}

	if err := s.cache.Set(ctx, key, snapshot, snapshotTTL); err != nil {
		s.log.Warn("billing snapshot cache write failed", sl.Err(err))
	}
	if user.SubscriptionStatus != string(info.Status) {
		if err := s.repo.RefreshSubscriptionStatus(ctx, ownerUID, info.Status); err != nil {
			s.log.Warn("failed to refresh status projection", sl.Err(err))
		}
	}
	return snapshot, nil
}

// CanAccess сообщает, открыт ли владельцу доступ к его разделам.
func (s *Service) CanAccess(ctx context.Context, ownerUID string, now time.Time) (bool, error) {
	snapshot, err := s.Snapshot(ctx, ownerUID, now)
	if err != nil {
		return false, err
	}
	return snapshot.CanAccess, nil
}
