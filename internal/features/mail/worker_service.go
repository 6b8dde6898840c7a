package mail

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"pocketprc/internal/config"
	cache_utils "pocketprc/internal/util/cache"
)

const (
	deliveryInterval  = 2 * time.Second
	deliveryBatchSize = 50
	maxAttempts       = 3
	sendTimeout       = 20 * time.Second
)

// MailWorkerService drains the outbox. Only one instance should run it.
type MailWorkerService struct {
	queueService *cache_utils.ValkeyQueueService
	queueKey     string
	sender       Sender
	logger       *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewMailWorkerService(
	queueService *cache_utils.ValkeyQueueService,
	queueKey string,
	sender Sender,
	logger *slog.Logger,
) *MailWorkerService {
	return &MailWorkerService{
		queueService: queueService,
		queueKey:     queueKey,
		sender:       sender,
		logger:       logger,
	}
}

func (s *MailWorkerService) StartWorkers() {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.wg.Add(1)
	go s.deliveryWorker()

	s.logger.Info("Mail delivery worker started", slog.Duration("interval", deliveryInterval))
}

func (s *MailWorkerService) StopWorkers() {
	if s.cancel == nil {
		return
	}

	s.cancel()
	s.wg.Wait()
}

// ExecuteAllTasksForTest delivers one batch synchronously.
func (s *MailWorkerService) ExecuteAllTasksForTest() int {
	return s.deliverBatch(context.Background())
}

func (s *MailWorkerService) deliveryWorker() {
	defer s.wg.Done()

	ticker := time.NewTicker(deliveryInterval)
	defer ticker.Stop()

	for {
		if config.IsShouldShutdown() {
			s.logger.Info("Mail delivery worker shutting down due to shutdown signal")
			return
		}

		select {
		case <-s.ctx.Done():
			s.logger.Info("Mail delivery worker shutting down")
			return

		case <-ticker.C:
			s.deliverBatch(s.ctx)
		}
	}
}

func (s *MailWorkerService) deliverBatch(ctx context.Context) int {
	items, err := s.queueService.DequeueBatch(s.queueKey, deliveryBatchSize)
	if err != nil {
		s.logger.Error("Failed to dequeue emails", slog.String("error", err.Error()))
	}

	delivered := 0
	for _, data := range items {
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			s.logger.Error("Failed to unmarshal queued email", slog.String("error", err.Error()))
			continue
		}

		sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
		err := s.sender.Send(sendCtx, &message)
		cancel()

		if err == nil {
			delivered++
			continue
		}

		message.Attempts++
		s.logger.Error("Failed to deliver email",
			slog.String("to", message.To),
			slog.String("subject", message.Subject),
			slog.Int("attempts", message.Attempts),
			slog.String("error", err.Error()))

		if message.Attempts >= maxAttempts {
			continue
		}

		retry, err := json.Marshal(&message)
		if err != nil {
			continue
		}

		if err := s.queueService.Enqueue(s.queueKey, retry); err != nil {
			s.logger.Error("Failed to re-enqueue email", slog.String("error", err.Error()))
		}
	}

	return delivered
}
