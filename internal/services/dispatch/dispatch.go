// Package dispatch реализует ежедневную проверку подписок: живую
// рассылку напоминаний и её предпросмотр. Оба режима проходят один и
// тот же путь вычислений через чистое ядро billing, различие только в
// вызове отправителя.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mercadolocal/billing-engine/internal/billing"
	"github.com/mercadolocal/billing-engine/internal/lib/sl"
	"github.com/mercadolocal/billing-engine/internal/models"
)

var (
	notificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billing_notifications_sent_total",
		Help: "Notifications handed to the delivery capability successfully.",
	})
	notificationsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billing_notifications_failed_total",
		Help: "Notifications the delivery capability rejected.",
	})
)

// OwnerRepository определяет чтение владельцев и конфигурации оплаты.
type OwnerRepository interface {
	FindOwners(ctx context.Context, activeOnly bool) ([]*models.User, error)
	GetOrCreateConfig(ctx context.Context) (*models.PaymentConfig, error)
}

// Notifier — внешняя способность доставки. Доставка как минимум
// однократная, повторов внутри запуска нет.
type Notifier interface {
	Send(ctx context.Context, n models.Notification) error
}

// Service — сервис ежедневной проверки подписок.
type Service struct {
	repo     OwnerRepository
	notifier Notifier
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo OwnerRepository, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		log:      log,
	}
}

// evaluation — результат вычислений по одному владельцу, общий для
// живого запуска и предпросмотра.
type evaluation struct {
	owner    *models.User
	info     billing.StatusInfo
	decision billing.Decision
}

// evaluateOwners загружает активных владельцев и прогоняет каждого
// через ядро. Владельцы без became_owner_at или без почты
// пропускаются с записью в лог: это не ошибка рассылки, а неполные
// данные учётной записи.
func (s *Service) evaluateOwners(ctx context.Context, now time.Time) ([]evaluation, int, error) {
	owners, err := s.repo.FindOwners(ctx, true)
	if err != nil {
		return nil, 0, err
	}

	evals := make([]evaluation, 0, len(owners))
	for _, owner := range owners {
		if owner.BecameOwnerAt == nil {
			s.log.Warn("owner without trial start skipped", slog.String("uid", owner.UID))
			continue
		}
		if owner.Email == "" {
			s.log.Warn("owner without email skipped", slog.String("uid", owner.UID))
			continue
		}
		info := billing.DeriveStatus(*owner.BecameOwnerAt, owner.SubscriptionPaidUntil, now)
		evals = append(evals, evaluation{
			owner:    owner,
			info:     info,
			decision: billing.Decide(info),
		})
	}
	return evals, len(owners), nil
}

func buildNotification(e evaluation, fee int) models.Notification {
	var fullName string
	if e.owner.FullName != nil {
		fullName = *e.owner.FullName
	}
	return models.Notification{
		Kind:              e.decision.Kind,
		Email:             e.owner.Email,
		FullName:          fullName,
		Status:            e.info.Status,
		DaysRemaining:     e.info.DaysRemaining,
		DaysOverdue:       e.info.DaysOverdue,
		DaysSinceTrialEnd: e.info.DaysSinceTrialEnd,
		MonthlyFee:        fee,
	}
}

// RunDailyCheck выполняет живую рассылку на момент now. Неудача
// доставки одному владельцу фиксируется в итоге и не прерывает
// остальных; ошибка перечисления владельцев прерывает запуск целиком.
//
// Состояние "уже уведомлён" нигде не хранится: повторный запуск в те же
// сутки отправит письма ещё раз. Это осознанный размен простоты на
// точность, оператору о нём нужно помнить.
func (s *Service) RunDailyCheck(ctx context.Context, now time.Time) (*models.DispatchSummary, error) {
	s.log.Info("starting daily subscription check", slog.Time("now", now))

	evals, total, err := s.evaluateOwners(ctx, now)
	if err != nil {
		s.log.Error("failed to list owners", sl.Err(err))
		return nil, err
	}

	cfg, err := s.repo.GetOrCreateConfig(ctx)
	if err != nil {
		s.log.Error("failed to load payment config", sl.Err(err))
		return nil, err
	}

	summary := &models.DispatchSummary{TotalOwners: total}
	for _, e := range evals {
		if !e.decision.Fire {
			continue
		}
		detail := models.DispatchDetail{
			Email:  e.owner.Email,
			Status: e.info.Status,
			Kind:   e.decision.Kind,
		}
		if err := s.notifier.Send(ctx, buildNotification(e, cfg.MonthlyFee)); err != nil {
			s.log.Error("failed to send notification",
				slog.String("email", e.owner.Email), sl.Kind(string(e.decision.Kind)), sl.Err(err))
			notificationsFailed.Inc()
			summary.NotificationsFailed++
			detail.Result = "failed"
			detail.Error = err.Error()
		} else {
			notificationsSent.Inc()
			summary.NotificationsSent++
			detail.Result = "sent"
		}
		summary.Details = append(summary.Details, detail)
	}

	s.log.Info("daily subscription check finished",
		slog.Int("total_owners", summary.TotalOwners),
		slog.Int("sent", summary.NotificationsSent),
		slog.Int("failed", summary.NotificationsFailed))
	return summary, nil
}

// Analyze выполняет предпросмотр рассылки: те же владельцы, те же
// вычисления, без единой отправки. Набор владельцев с action=notify
// всегда совпадает с тем, кому RunDailyCheck отправил бы письмо.
func (s *Service) Analyze(ctx context.Context, now time.Time) (*models.DispatchAnalysis, error) {
	evals, total, err := s.evaluateOwners(ctx, now)
	if err != nil {
		s.log.Error("failed to list owners", sl.Err(err))
		return nil, err
	}

	analysis := &models.DispatchAnalysis{TotalOwners: total}
	for _, e := range evals {
		entry := models.OwnerAnalysis{
			Email:             e.owner.Email,
			Status:            e.info.Status,
			DaysRemaining:     e.info.DaysRemaining,
			DaysOverdue:       e.info.DaysOverdue,
			DaysSinceTrialEnd: e.info.DaysSinceTrialEnd,
			Action:            "skip",
		}
		if e.decision.Fire {
			entry.Action = "notify"
			entry.Kind = e.decision.Kind
			analysis.WouldNotify++
		}
		analysis.Analysis = append(analysis.Analysis, entry)
	}
	return analysis, nil
}
