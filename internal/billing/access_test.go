package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mercadolocal/billing-engine/internal/models"
)

func TestCanAccessOwnerFeatures(t *testing.T) {
	tests := []struct {
		status models.SubscriptionStatus
		want   bool
	}{
		{models.StatusTrial, true},
		{models.StatusActive, true},
		{models.StatusPaymentDueSoon, true},
		{models.StatusOverdue, true},
		{models.StatusSuspended, false},
		{models.StatusSuspendedNoPayment, false},
		{models.SubscriptionStatus("UNKNOWN"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessOwnerFeatures(tt.status))
		})
	}
}

// Просроченный, но еще не приостановленный владелец сохраняет доступ,
// приостановка наступает строго после седьмого дня просрочки.
func TestCanAccessOwnerFeatures_OverdueWindow(t *testing.T) {
	assert.True(t, CanAccessOwnerFeatures(models.StatusOverdue))
	assert.False(t, CanAccessOwnerFeatures(models.StatusSuspended))
}
