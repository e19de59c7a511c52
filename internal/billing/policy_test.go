package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mercadolocal/billing-engine/internal/models"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		info     StatusInfo
		wantFire bool
		wantKind models.NotificationKind
	}{
		{
			name:     "trial three days left",
			info:     StatusInfo{Status: models.StatusTrial, DaysRemaining: 3},
			wantFire: true,
			wantKind: models.KindTrialEnding,
		},
		{
			name:     "trial one day left",
			info:     StatusInfo{Status: models.StatusTrial, DaysRemaining: 1},
			wantFire: true,
			wantKind: models.KindTrialEnding,
		},
		{
			name: "trial two days left stays silent",
			info: StatusInfo{Status: models.StatusTrial, DaysRemaining: 2},
		},
		{
			name: "trial start stays silent",
			info: StatusInfo{Status: models.StatusTrial, DaysRemaining: 31},
		},
		{
			name:     "no payment day one",
			info:     StatusInfo{Status: models.StatusSuspendedNoPayment, DaysSinceTrialEnd: 1},
			wantFire: true,
			wantKind: models.KindSuspended,
		},
		{
			name:     "no payment day seven",
			info:     StatusInfo{Status: models.StatusSuspendedNoPayment, DaysSinceTrialEnd: 7},
			wantFire: true,
			wantKind: models.KindSuspended,
		},
		{
			name:     "no payment day fourteen",
			info:     StatusInfo{Status: models.StatusSuspendedNoPayment, DaysSinceTrialEnd: 14},
			wantFire: true,
			wantKind: models.KindSuspended,
		},
		{
			name: "no payment day fifteen stays silent",
			info: StatusInfo{Status: models.StatusSuspendedNoPayment, DaysSinceTrialEnd: 15},
		},
		{
			name: "no payment day zero stays silent",
			info: StatusInfo{Status: models.StatusSuspendedNoPayment, DaysSinceTrialEnd: 0},
		},
		{
			name:     "payment due soon always fires",
			info:     StatusInfo{Status: models.StatusPaymentDueSoon},
			wantFire: true,
			wantKind: models.KindPaymentDue,
		},
		{
			name:     "overdue day one",
			info:     StatusInfo{Status: models.StatusOverdue, DaysOverdue: 1},
			wantFire: true,
			wantKind: models.KindPaymentOverdue,
		},
		{
			name: "overdue day two stays silent",
			info: StatusInfo{Status: models.StatusOverdue, DaysOverdue: 2},
		},
		{
			name:     "overdue day five",
			info:     StatusInfo{Status: models.StatusOverdue, DaysOverdue: 5},
			wantFire: true,
			wantKind: models.KindPaymentOverdue,
		},
		{
			name:     "overdue day seven warns about suspension",
			info:     StatusInfo{Status: models.StatusOverdue, DaysOverdue: 7},
			wantFire: true,
			wantKind: models.KindSuspensionWarning,
		},
		{
			name:     "suspended day eight",
			info:     StatusInfo{Status: models.StatusSuspended, DaysOverdue: 8},
			wantFire: true,
			wantKind: models.KindSuspended,
		},
		{
			name: "suspended day nine stays silent",
			info: StatusInfo{Status: models.StatusSuspended, DaysOverdue: 9},
		},
		{
			name: "suspended day fourteen stays silent",
			info: StatusInfo{Status: models.StatusSuspended, DaysOverdue: 14},
		},
		{
			name:     "suspended day fifteen",
			info:     StatusInfo{Status: models.StatusSuspended, DaysOverdue: 15},
			wantFire: true,
			wantKind: models.KindSuspended,
		},
		{
			name: "active never fires",
			info: StatusInfo{Status: models.StatusActive},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.info)
			assert.Equal(t, tt.wantFire, got.Fire)
			assert.Equal(t, tt.wantKind, got.Kind)
		})
	}
}

// Политика чистая: повторный вызов с тем же входом дает то же решение.
func TestDecide_Deterministic(t *testing.T) {
	info := StatusInfo{Status: models.StatusOverdue, DaysOverdue: 5}
	first := Decide(info)
	for range 100 {
		assert.Equal(t, first, Decide(info))
	}
}

// Прогон владельца без оплаты через 60 календарных суток после старта
// пробного периода: письма уходят только в дни политики и не больше
// одного в сутки.
func TestDecide_NoSpamOverSixtyDays(t *testing.T) {
	becameOwner := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	fired := make(map[int]models.NotificationKind)
	for offset := 0; offset < 60; offset++ {
		now := becameOwner.AddDate(0, 0, offset)
		d := Decide(DeriveStatus(becameOwner, nil, now))
		if d.Fire {
			_, seen := fired[offset]
			assert.False(t, seen, "duplicate notification on day %d", offset)
			fired[offset] = d.Kind
		}
	}

	// Пробный период: 31 сутки, значит напоминания за 3 и за 1 день —
	// это дни 28 и 30; после его конца дни 1, 7 и 14 без оплаты.
	want := map[int]models.NotificationKind{
		28: models.KindTrialEnding,
		30: models.KindTrialEnding,
		32: models.KindSuspended,
		38: models.KindSuspended,
		45: models.KindSuspended,
	}
	assert.Equal(t, want, fired)
}
