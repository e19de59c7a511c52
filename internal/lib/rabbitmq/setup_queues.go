package rabbitmq

// Exchange — общий exchange напоминаний биллинга.
const Exchange = "billing.notifications"

// BillingQueue — очередь напоминаний владельцам.
const BillingQueue = "billing.reminders"

// BillingRoutingKey — ключ маршрутизации напоминаний.
const BillingRoutingKey = "reminder"

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди, которые объявляет каждый
// подключающийся процесс.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: BillingQueue, RoutingKey: BillingRoutingKey},
	}
}
