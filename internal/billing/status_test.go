package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mercadolocal/billing-engine/internal/models"
)

func ptrTime(t time.Time) *time.Time { return &t }

func TestDeriveStatus_Trial(t *testing.T) {
	becameOwner := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	trialEnd := time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		now           time.Time
		wantRemaining int
	}{
		{
			name:          "first day of trial",
			now:           becameOwner,
			wantRemaining: 31,
		},
		{
			name:          "three days before trial end",
			now:           time.Date(2024, 2, 12, 12, 0, 0, 0, time.UTC),
			wantRemaining: 3,
		},
		{
			name:          "one day before trial end",
			now:           time.Date(2024, 2, 14, 12, 0, 0, 0, time.UTC),
			wantRemaining: 1,
		},
		{
			name:          "one millisecond before trial end",
			now:           trialEnd.Add(-time.Millisecond),
			wantRemaining: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := DeriveStatus(becameOwner, nil, tt.now)
			assert.Equal(t, models.StatusTrial, info.Status)
			assert.Equal(t, tt.wantRemaining, info.DaysRemaining)
		})
	}
}

func TestDeriveStatus_TrialBoundary(t *testing.T) {
	becameOwner := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	trialEnd := time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC)

	before := DeriveStatus(becameOwner, nil, trialEnd.Add(-time.Millisecond))
	assert.Equal(t, models.StatusTrial, before.Status)

	at := DeriveStatus(becameOwner, nil, trialEnd)
	assert.Equal(t, models.StatusSuspendedNoPayment, at.Status)
	assert.Equal(t, 0, at.DaysSinceTrialEnd)

	after := DeriveStatus(becameOwner, nil, trialEnd.Add(time.Millisecond))
	assert.Equal(t, models.StatusSuspendedNoPayment, after.Status)
	assert.Equal(t, 0, after.DaysSinceTrialEnd)

	nextDay := DeriveStatus(becameOwner, nil, trialEnd.Add(24*time.Hour))
	assert.Equal(t, 1, nextDay.DaysSinceTrialEnd)
}

func TestDeriveStatus_Paid(t *testing.T) {
	becameOwner := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	paidUntil := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		now         time.Time
		wantStatus  models.SubscriptionStatus
		wantOverdue int
	}{
		{
			name:       "paid period active",
			now:        time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			wantStatus: models.StatusActive,
		},
		{
			name:       "exactly three days before payment due",
			now:        time.Date(2024, 3, 12, 12, 0, 0, 0, time.UTC),
			wantStatus: models.StatusPaymentDueSoon,
		},
		{
			name:       "two days before payment due",
			now:        time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC),
			wantStatus: models.StatusActive,
		},
		{
			name:        "one day overdue",
			now:         time.Date(2024, 3, 16, 12, 0, 0, 0, time.UTC),
			wantStatus:  models.StatusOverdue,
			wantOverdue: 1,
		},
		{
			name:        "partial day overdue counts as full day",
			now:         paidUntil.Add(time.Millisecond),
			wantStatus:  models.StatusOverdue,
			wantOverdue: 1,
		},
		{
			name:        "seven days overdue still accessible",
			now:         time.Date(2024, 3, 22, 12, 0, 0, 0, time.UTC),
			wantStatus:  models.StatusOverdue,
			wantOverdue: 7,
		},
		{
			name:        "eight days overdue suspends",
			now:         time.Date(2024, 3, 23, 12, 0, 0, 0, time.UTC),
			wantStatus:  models.StatusSuspended,
			wantOverdue: 8,
		},
		{
			name:        "long suspension keeps counting",
			now:         time.Date(2024, 4, 6, 12, 0, 0, 0, time.UTC),
			wantStatus:  models.StatusSuspended,
			wantOverdue: 22,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := DeriveStatus(becameOwner, ptrTime(paidUntil), tt.now)
			assert.Equal(t, tt.wantStatus, info.Status)
			assert.Equal(t, tt.wantOverdue, info.DaysOverdue)
		})
	}
}

// Статус определён для любой комбинации входов: сетка моментов вокруг
// границ не должна давать ни паники, ни пустого статуса.
func TestDeriveStatus_Total(t *testing.T) {
	becameOwner := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	paidUntil := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	known := map[models.SubscriptionStatus]bool{
		models.StatusTrial:              true,
		models.StatusActive:             true,
		models.StatusPaymentDueSoon:     true,
		models.StatusOverdue:            true,
		models.StatusSuspended:          true,
		models.StatusSuspendedNoPayment: true,
	}

	for _, paid := range []*time.Time{nil, ptrTime(paidUntil)} {
		for offset := -40; offset <= 120; offset++ {
			now := becameOwner.AddDate(0, 0, offset)
			for _, jitter := range []time.Duration{0, time.Millisecond, -time.Millisecond, 12 * time.Hour} {
				info := DeriveStatus(becameOwner, paid, now.Add(jitter))
				assert.True(t, known[info.Status], "unknown status %q at offset %d", info.Status, offset)
			}
		}
	}
}
