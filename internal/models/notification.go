package models

// NotificationKind — вид напоминания о состоянии подписки.
type NotificationKind string

const (
	// KindTrialEnding — пробный период заканчивается.
	KindTrialEnding NotificationKind = "TRIAL_ENDING"
	// KindPaymentDue — срок оплаты подходит через три дня.
	KindPaymentDue NotificationKind = "PAYMENT_DUE"
	// KindPaymentOverdue — оплата просрочена.
	KindPaymentOverdue NotificationKind = "PAYMENT_OVERDUE"
	// KindSuspensionWarning — последний день до приостановки доступа.
	KindSuspensionWarning NotificationKind = "SUSPENSION_WARNING"
	// KindSuspended — доступ приостановлен.
	KindSuspended NotificationKind = "SUSPENDED"
)

// Notification — сообщение для владельца, готовое к доставке.
// Именно эта структура уходит в очередь и в SMTP-отправитель.
type Notification struct {
	Kind              NotificationKind   `json:"kind"`
	Email             string             `json:"email"`
	FullName          string             `json:"full_name"`
	Status            SubscriptionStatus `json:"status"`
	DaysRemaining     int                `json:"days_remaining"`
	DaysOverdue       int                `json:"days_overdue"`
	DaysSinceTrialEnd int                `json:"days_since_trial_end"`
	MonthlyFee        int                `json:"monthly_fee"`
}
