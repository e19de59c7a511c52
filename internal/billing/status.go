// Package billing содержит чистое ядро биллинга: вычисление статуса
// подписки из пары временных меток, политику напоминаний и проверку
// доступа к функциям владельца. Пакет не делает ввода-вывода, обе
// рассылки (живая и предпросмотр) обязаны ходить только через него.
package billing

import (
	"time"

	"github.com/mercadolocal/billing-engine/internal/lib/period"
	"github.com/mercadolocal/billing-engine/internal/models"
)

// StatusInfo — производные временные факты по одному владельцу.
// Заполнен только счётчик, относящийся к статусу, остальные нулевые.
type StatusInfo struct {
	Status            models.SubscriptionStatus
	DaysRemaining     int // Для TRIAL: дней до конца пробного периода
	DaysOverdue       int // Для OVERDUE и SUSPENDED: дней просрочки
	DaysSinceTrialEnd int // Для SUSPENDED_NO_PAYMENT: дней после конца пробного периода
}

// suspendAfterDays — просрочка, после которой доступ приостанавливается.
const suspendAfterDays = 7

// dueSoonDiff — значение diffDays, означающее "оплата через три дня".
const dueSoonDiff = -3

// DeriveStatus вычисляет статус подписки владельца на момент now.
// Функция тотальна: для любого becameOwnerAt <= now возвращает ровно
// один статус и не паникует. Владельцев без becameOwnerAt отсекает
// вызывающая сторона.
func DeriveStatus(becameOwnerAt time.Time, paidUntil *time.Time, now time.Time) StatusInfo {
	trialEnd := period.AddMonth(becameOwnerAt)

	if now.Before(trialEnd) {
		return StatusInfo{
			Status:        models.StatusTrial,
			DaysRemaining: period.CeilDays(trialEnd.Sub(now)),
		}
	}

	if paidUntil == nil {
		// FloorDays: сразу после конца пробного периода счётчик равен
		// нулю, первое напоминание уходит на следующие сутки.
		return StatusInfo{
			Status:            models.StatusSuspendedNoPayment,
			DaysSinceTrialEnd: period.FloorDays(now.Sub(trialEnd)),
		}
	}

	diffDays := period.CeilDays(now.Sub(*paidUntil))
	switch {
	case diffDays == dueSoonDiff:
		return StatusInfo{Status: models.StatusPaymentDueSoon}
	case diffDays > suspendAfterDays:
		return StatusInfo{Status: models.StatusSuspended, DaysOverdue: diffDays}
	case diffDays > 0:
		return StatusInfo{Status: models.StatusOverdue, DaysOverdue: diffDays}
	default:
		return StatusInfo{Status: models.StatusActive}
	}
}
