package models

import "time"

// BillingSnapshot — снимок биллингового состояния владельца для гейта
// доступа и экрана "моя подписка". Кэшируется с коротким TTL.
type BillingSnapshot struct {
	Status            SubscriptionStatus `json:"status"`
	CanAccess         bool               `json:"can_access"`
	DaysRemaining     int                `json:"days_remaining,omitempty"`
	DaysOverdue       int                `json:"days_overdue,omitempty"`
	DaysSinceTrialEnd int                `json:"days_since_trial_end,omitempty"`
	TrialEndsAt       time.Time          `json:"trial_ends_at"`
	PaidUntil         *time.Time         `json:"paid_until,omitempty"`
}
