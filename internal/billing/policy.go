package billing

import "github.com/mercadolocal/billing-engine/internal/models"

// Decision — решение политики напоминаний для одного владельца на
// текущие сутки.
type Decision struct {
	Fire bool
	Kind models.NotificationKind
}

// Decide решает, должно ли сегодня уйти напоминание и какое.
// Совпадение по точному дню (или остатку от деления для SUSPENDED)
// структурно гарантирует не больше одного письма в сутки на владельца
// без таблицы дедупликации: счётчик дней растёт на единицу в сутки,
// значит каждое правило срабатывает не чаще раза в сутки.
func Decide(info StatusInfo) Decision {
	switch info.Status {
	case models.StatusTrial:
		if info.DaysRemaining == 3 || info.DaysRemaining == 1 {
			return Decision{Fire: true, Kind: models.KindTrialEnding}
		}
	case models.StatusSuspendedNoPayment:
		switch info.DaysSinceTrialEnd {
		case 1, 7, 14:
			return Decision{Fire: true, Kind: models.KindSuspended}
		}
	case models.StatusPaymentDueSoon:
		// Сам статус и есть триггер: diffDays == -3 держится одни сутки.
		return Decision{Fire: true, Kind: models.KindPaymentDue}
	case models.StatusOverdue:
		switch info.DaysOverdue {
		case 7:
			return Decision{Fire: true, Kind: models.KindSuspensionWarning}
		case 1, 3, 5:
			return Decision{Fire: true, Kind: models.KindPaymentOverdue}
		}
	case models.StatusSuspended:
		if info.DaysOverdue%7 == 1 {
			return Decision{Fire: true, Kind: models.KindSuspended}
		}
	case models.StatusActive:
	}
	return Decision{}
}
