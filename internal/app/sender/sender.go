// Package sender содержит воркера отправки напоминаний: читает
// очередь RabbitMQ и рассылает письма владельцам.
package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/mercadolocal/billing-engine/internal/config"
	"github.com/mercadolocal/billing-engine/internal/lib/rabbitmq"
	"github.com/mercadolocal/billing-engine/internal/lib/sl"
	"github.com/mercadolocal/billing-engine/internal/lib/smtp"
	senderservice "github.com/mercadolocal/billing-engine/internal/services/sender"
)

// App представляет приложение воркера отправки.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

// New создает новый экземпляр воркера отправки.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		if cerr := conn.Close(); cerr != nil {
			logger.Error("failed to close connection", sl.Err(cerr))
		}
		return nil, err
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	senderService := senderservice.NewSenderService(transport, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

// Run запускает потребителя очереди напоминаний и блокируется до
// отмены контекста.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeMessages(ctx, a.ch, rabbitmq.BillingQueue, a.senderService.HandleQueued)
	if err != nil {
		a.logger.Error("failed to start billing reminders consumer", sl.Err(err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}

	return nil
}
