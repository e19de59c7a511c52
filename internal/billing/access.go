package billing

import "github.com/mercadolocal/billing-engine/internal/models"

// CanAccessOwnerFeatures сообщает, открыт ли владельцу доступ к его
// разделам. Проверка сквозная: её обязан вызывать каждый экран и
// обработчик владельца, не только биллинговые.
func CanAccessOwnerFeatures(status models.SubscriptionStatus) bool {
	switch status {
	case models.StatusTrial, models.StatusActive, models.StatusPaymentDueSoon, models.StatusOverdue:
		return true
	case models.StatusSuspended, models.StatusSuspendedNoPayment:
		return false
	}
	return false
}
