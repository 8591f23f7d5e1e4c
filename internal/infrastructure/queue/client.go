package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Enqueuer is what services need to hand work to cmd/worker
type Enqueuer interface {
	Enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error
}

// Client wraps asynq.Client with JSON payload encoding
type Client struct {
	client *asynq.Client
}

func NewClient(opt asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(opt)}
}

func (c *Client) Enqueue(ctx context.Context, taskType string, payload interface{}, opts ...asynq.Option) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", taskType, err)
	}

	info, err := c.client.EnqueueContext(ctx, asynq.NewTask(taskType, data), opts...)
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}

	log.Debug().Str("task", taskType).Str("id", info.ID).Str("queue", info.Queue).Msg("[QUEUE] task enqueued")
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Unmarshal decodes a task payload, used by job handlers
func Unmarshal(t *asynq.Task, dest interface{}) error {
	if err := json.Unmarshal(t.Payload(), dest); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", t.Type(), err)
	}
	return nil
}
