package cache_utils

import (
	"context"
	"errors"
	"time"

	"pocketprc/internal/cache"

	"github.com/valkey-io/valkey-go"
)

// ValkeyQueueService is a FIFO list: producers LPUSH, consumers RPOP.
type ValkeyQueueService struct {
	client  valkey.Client
	timeout time.Duration
}

func NewValkeyQueueService() *ValkeyQueueService {
	return &ValkeyQueueService{
		client:  cache.GetCache(),
		timeout: DefaultQueueTimeout,
	}
}

func (q *ValkeyQueueService) Enqueue(queueKey string, item []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	return q.client.Do(ctx, q.client.B().Lpush().Key(queueKey).Element(string(item)).Build()).Error()
}

func (q *ValkeyQueueService) DequeueBatch(queueKey string, maxCount int) ([][]byte, error) {
	if maxCount <= 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	cmds := make([]valkey.Completed, 0, maxCount)
	for range maxCount {
		cmds = append(cmds, q.client.B().Rpop().Key(queueKey).Build())
	}

	var items [][]byte
	for _, response := range q.client.DoMulti(ctx, cmds...) {
		if err := response.Error(); err != nil {
			if errors.Is(err, valkey.Nil) {
				break
			}

			return items, err
		}

		data, err := response.AsBytes()
		if err != nil {
			return items, err
		}

		items = append(items, data)
	}

	return items, nil
}

func (q *ValkeyQueueService) QueueLength(queueKey string) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	return q.client.Do(ctx, q.client.B().Llen().Key(queueKey).Build()).AsInt64()
}

func (q *ValkeyQueueService) ClearQueue(queueKey string) error {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	return q.client.Do(ctx, q.client.B().Del().Key(queueKey).Build()).Error()
}
