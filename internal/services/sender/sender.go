// Package services отправляет письма о скорых списаниях по подпискам.
package services

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/smtp"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// SenderService превращает сообщения очереди в письма пользователям.
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

// HandleMessage обрабатывает сообщение из очереди уведомлений:
// разбирает его и отправляет письмо владельцу подписки.
// Ошибка возвращает сообщение обратно в очередь.
func (s *SenderService) HandleMessage(body []byte) error {
	const op = "sender.HandleMessage"

	var notice models.SubscriptionNotice
	if err := json.Unmarshal(body, &notice); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.send(notice); err != nil {
		s.log.Error("failed to send notification email",
			slog.Int("subscription_id", notice.SubscriptionID), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("notification email sent",
		slog.Int("subscription_id", notice.SubscriptionID),
		slog.String("email", notice.Email))
	return nil
}

func (s *SenderService) send(notice models.SubscriptionNotice) error {
	client, err := s.transport.Connect()
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Quit(); err != nil {
			_ = client.Close()
		}
	}()

	from := s.transport.GetSMTPUser()
	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(notice.Email); err != nil {
		return err
	}

	writer, err := client.Data()
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Upcoming payment for %s\r\n\r\n"+
		"Hello %s,\r\n\r\n"+
		"Your subscription %q will be charged %.2f on %s.\r\n\r\n"+
		"Subscription Tracker",
		from, notice.Email, notice.Name,
		notice.Username, notice.Name, notice.Amount,
		notice.NextPaymentDate.Format("2006-01-02"))

	if _, err := writer.Write([]byte(msg)); err != nil {
		_ = writer.Close()
		return err
	}
	return writer.Close()
}
