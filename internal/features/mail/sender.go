package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/resend/resend-go/v2"
)

type Sender interface {
	Send(ctx context.Context, message *Message) error
}

type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewCustomClient(&http.Client{Timeout: 15 * time.Second}, apiKey),
		from:   from,
	}
}

func (s *ResendSender) Send(ctx context.Context, message *Message) error {
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{message.To},
		Subject: message.Subject,
		Text:    message.Text,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// LogSender is used when no provider key is configured.
type LogSender struct {
	logger *slog.Logger
}

func (s *LogSender) Send(_ context.Context, message *Message) error {
	s.logger.Info("Email delivery disabled, dropping message",
		slog.String("to", message.To),
		slog.String("subject", message.Subject))

	return nil
}
