// Package sender отправляет напоминания биллинга владельцам по
// электронной почте. Тексты писем на испанском: язык площадки.
package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mercadolocal/billing-engine/internal/lib/sl"
	"github.com/mercadolocal/billing-engine/internal/lib/smtp"
	"github.com/mercadolocal/billing-engine/internal/models"
)

// SenderService строит письма по виду напоминания и отправляет их
// через SMTP транспорт. Реализует dispatch.Notifier.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, log *slog.Logger) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// Send отправляет напоминание одному владельцу.
func (s *SenderService) Send(_ context.Context, n models.Notification) error {
	subject, bodyText := renderMessage(n)
	return s.sendEmail([]string{n.Email}, subject, bodyText)
}

// HandleQueued обрабатывает напоминание из очереди RabbitMQ.
func (s *SenderService) HandleQueued(body []byte) error {
	var n models.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		s.log.Error("failed to unmarshal queued notification", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}
	return s.Send(context.Background(), n)
}

func greeting(n models.Notification) string {
	if n.FullName != "" {
		return "Hola, " + n.FullName + "!"
	}
	return "Hola!"
}

func formatFee(cents int) string {
	return fmt.Sprintf("S/ %.2f", float64(cents)/100)
}

func renderMessage(n models.Notification) (string, string) {
	switch n.Kind {
	case models.KindTrialEnding:
		return "Tu período de prueba está por terminar",
			fmt.Sprintf(`%s

Tu período de prueba en MercadoLocal termina en %d día(s).

Para seguir publicando tus productos y recibiendo pedidos, realiza el pago
de la suscripción mensual (%s) y repórtalo desde tu panel.`,
				greeting(n), n.DaysRemaining, formatFee(n.MonthlyFee))
	case models.KindPaymentDue:
		return "Tu suscripción vence en 3 días",
			fmt.Sprintf(`%s

Tu suscripción mensual de MercadoLocal vence en 3 días.

Realiza el pago (%s) y repórtalo desde tu panel para evitar interrupciones.`,
				greeting(n), formatFee(n.MonthlyFee))
	case models.KindPaymentOverdue:
		return "Tienes un pago pendiente",
			fmt.Sprintf(`%s

Tu suscripción de MercadoLocal está vencida hace %d día(s).

Realiza el pago (%s) y repórtalo desde tu panel. Pasados 7 días de atraso tu
tienda dejará de estar visible para los clientes.`,
				greeting(n), n.DaysOverdue, formatFee(n.MonthlyFee))
	case models.KindSuspensionWarning:
		return "Último aviso: tu tienda será suspendida",
			fmt.Sprintf(`%s

Tu suscripción de MercadoLocal lleva 7 días vencida. Este es el último aviso:
si no registramos tu pago (%s), tu tienda quedará suspendida.`,
				greeting(n), formatFee(n.MonthlyFee))
	case models.KindSuspended:
		return "Tu tienda está suspendida",
			fmt.Sprintf(`%s

Tu tienda en MercadoLocal está suspendida por falta de pago.

Realiza el pago de la suscripción (%s) y repórtalo desde tu panel para
reactivarla. Tus productos y pedidos anteriores se conservan.`,
				greeting(n), formatFee(n.MonthlyFee))
	}
	return "Aviso de MercadoLocal", greeting(n)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", s.transport.GetSMTPUser()), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
