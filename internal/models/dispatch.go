package models

// DispatchDetail — результат обработки одного владельца в живой рассылке.
type DispatchDetail struct {
	Email  string             `json:"email"`
	Status SubscriptionStatus `json:"status"`
	Kind   NotificationKind   `json:"kind,omitempty"`
	Result string             `json:"result"` // sent | failed | skipped
	Error  string             `json:"error,omitempty"`
}

// DispatchSummary — итог одного запуска ежедневной рассылки.
type DispatchSummary struct {
	TotalOwners         int              `json:"total_owners"`
	NotificationsSent   int              `json:"notifications_sent"`
	NotificationsFailed int              `json:"notifications_failed"`
	Details             []DispatchDetail `json:"details"`
}

// OwnerAnalysis — решение по одному владельцу в режиме предпросмотра.
type OwnerAnalysis struct {
	Email             string             `json:"email"`
	Status            SubscriptionStatus `json:"status"`
	DaysRemaining     int                `json:"days_remaining,omitempty"`
	DaysOverdue       int                `json:"days_overdue,omitempty"`
	DaysSinceTrialEnd int                `json:"days_since_trial_end,omitempty"`
	Action            string             `json:"action"` // notify | skip
	Kind              NotificationKind   `json:"kind,omitempty"`
}

// DispatchAnalysis — итог предпросмотра рассылки: что было бы отправлено
// при живом запуске с тем же моментом времени.
type DispatchAnalysis struct {
	TotalOwners int             `json:"total_owners"`
	WouldNotify int             `json:"would_notify"`
	Analysis    []OwnerAnalysis `json:"analysis"`
}
