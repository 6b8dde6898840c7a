package mail

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	cache_utils "pocketprc/internal/util/cache"
)

type MailService struct {
	queueService *cache_utils.ValkeyQueueService
	queueKey     string
	logger       *slog.Logger
}

func (s *MailService) Enqueue(message *Message) error {
	if strings.TrimSpace(message.To) == "" {
		return errors.New("email recipient is empty")
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal email: %w", err)
	}

	if err := s.queueService.Enqueue(s.queueKey, data); err != nil {
		return fmt.Errorf("failed to enqueue email: %w", err)
	}

	return nil
}

// EnqueueOrLog never fails the caller; mail is best effort.
func (s *MailService) EnqueueOrLog(message *Message) bool {
	if err := s.Enqueue(message); err != nil {
		s.logger.Error("Failed to queue email",
			slog.String("to", message.To),
			slog.String("subject", message.Subject),
			slog.String("error", err.Error()))
		return false
	}

	return true
}

func (s *MailService) PendingCount() (int64, error) {
	return s.queueService.QueueLength(s.queueKey)
}
