package dispatch

import (
	"context"

	"github.com/streadway/amqp"

	"github.com/mercadolocal/billing-engine/internal/lib/rabbitmq"
	"github.com/mercadolocal/billing-engine/internal/models"
)

// QueueNotifier доставляет напоминания публикацией в RabbitMQ.
// Публикация persistent, доставка как минимум однократная; письмо
// физически отправит воркер cmd/sender.
type QueueNotifier struct {
	ch *amqp.Channel
}

// NewQueueNotifier создает новый экземпляр QueueNotifier.
func NewQueueNotifier(ch *amqp.Channel) *QueueNotifier {
	return &QueueNotifier{ch: ch}
}

// Send публикует напоминание в очередь.
func (q *QueueNotifier) Send(_ context.Context, n models.Notification) error {
	return rabbitmq.PublishMessage(q.ch, rabbitmq.Exchange, rabbitmq.BillingRoutingKey, n)
}
