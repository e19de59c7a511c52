// Package dispatcher содержит логику планировщика ежедневной
// биллинговой рассылки: раз в сутки проходит по владельцам и
// публикует напоминания в очередь.
package dispatcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/mercadolocal/billing-engine/internal/config"
	"github.com/mercadolocal/billing-engine/internal/lib/rabbitmq"
	"github.com/mercadolocal/billing-engine/internal/lib/sl"
	dispatchservice "github.com/mercadolocal/billing-engine/internal/services/dispatch"
	"github.com/mercadolocal/billing-engine/internal/storage/repository"
)

// App представляет приложение планировщика рассылки.
type App struct {
	dispatchService *dispatchservice.Service
	conn            *amqp.Connection
	ch              *amqp.Channel
	db              *repository.Storage
	dispatchHour    int
	logger          *slog.Logger
}

func waitForDB(db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения планировщика.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(db); err != nil {
		closeResources(ch, conn, logger)
		return nil, err
	}

	notifier := dispatchservice.NewQueueNotifier(ch)
	dispatchService := dispatchservice.New(db, notifier, logger)

	return &App{
		dispatchService: dispatchService,
		conn:            conn,
		ch:              ch,
		db:              db,
		dispatchHour:    cfg.DispatchHour,
		logger:          logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", sl.Err(err))
		}
	}
}

// Run запускает цикл планировщика: каждый час проверяет, наступил ли
// час рассылки, и выполняет не более одного прогона за календарные
// сутки. Повторный запуск процесса в тот же день приведет к повторной
// рассылке: состояние прогона не персистится.
func (a *App) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	var lastRunDate string

	a.runIfDue(ctx, time.Now(), &lastRunDate)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("shutting down dispatcher service")
			closeResources(a.ch, a.conn, a.logger)
			if err := a.db.DB.Close(); err != nil {
				a.logger.Error("failed to close storage", sl.Err(err))
			}
			return nil
		case now := <-ticker.C:
			a.runIfDue(ctx, now, &lastRunDate)
		}
	}
}

func (a *App) runIfDue(ctx context.Context, now time.Time, lastRunDate *string) {
	today := now.Format("2006-01-02")
	if now.Hour() < a.dispatchHour || *lastRunDate == today {
		return
	}

	a.logger.Info("starting daily billing dispatch", slog.String("date", today))

	summary, err := a.dispatchService.RunDailyCheck(ctx, now)
	if err != nil {
		a.logger.Error("daily billing dispatch failed", sl.Err(err))
		return
	}

	*lastRunDate = today
	a.logger.Info("daily billing dispatch finished",
		slog.Int("total_owners", summary.TotalOwners),
		slog.Int("notifications_sent", summary.NotificationsSent),
		slog.Int("notifications_failed", summary.NotificationsFailed))
}
