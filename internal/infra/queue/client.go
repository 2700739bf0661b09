package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hibiken/asynq"

	"github.com/m04kA/BTR-BookingService/internal/domain"
	"github.com/m04kA/BTR-BookingService/internal/notify"
)

// Client ставит задачи в очередь asynq
type Client struct {
	client   *asynq.Client
	queue    string
	maxRetry int
}

// NewClient создает клиента очереди
func NewClient(opt asynq.RedisConnOpt, queue string, maxRetry int) *Client {
	return &Client{
		client:   asynq.NewClient(opt),
		queue:    queue,
		maxRetry: maxRetry,
	}
}

// EnqueueDelivery ставит задачу доставки уведомления
func (c *Client) EnqueueDelivery(ctx context.Context, d notify.Delivery, ev domain.BookingEvent) error {
	task, err := NewDeliveryTask(d, ev)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}

// EnqueueRankRecalculation ставит задачу пересчета ранга
func (c *Client) EnqueueRankRecalculation(ctx context.Context, riderID int64, ev domain.BookingEvent) error {
	task, err := NewRankTask(riderID, ev)
	if err != nil {
		return err
	}
	return c.enqueue(ctx, task)
}

// enqueue дубликат по TaskID не считается ошибкой
func (c *Client) enqueue(ctx context.Context, task *asynq.Task) error {
	opts := make([]asynq.Option, 0, 2)
	if c.queue != "" {
		opts = append(opts, asynq.Queue(c.queue))
	}
	if c.maxRetry > 0 {
		opts = append(opts, asynq.MaxRetry(c.maxRetry))
	}

	_, err := c.client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// Logger интерфейс для логирования
type Logger interface {
	Error(format string, v ...interface{})
}

// InlineClient выполняет задачу в отдельной горутине этого же процесса,
// без повторов. Используется, когда очередь отключена в конфигурации.
type InlineClient struct {
	handler asynq.Handler
	logger  Logger
	wg      sync.WaitGroup
}

func NewInlineClient(handler asynq.Handler, logger Logger) *InlineClient {
	return &InlineClient{handler: handler, logger: logger}
}

func (c *InlineClient) EnqueueDelivery(ctx context.Context, d notify.Delivery, ev domain.BookingEvent) error {
	task, err := NewDeliveryTask(d, ev)
	if err != nil {
		return err
	}
	c.run(ctx, task)
	return nil
}

func (c *InlineClient) EnqueueRankRecalculation(ctx context.Context, riderID int64, ev domain.BookingEvent) error {
	task, err := NewRankTask(riderID, ev)
	if err != nil {
		return err
	}
	c.run(ctx, task)
	return nil
}

// run не ждет обработчик. Отмена контекста запроса задачу не прерывает.
func (c *InlineClient) run(ctx context.Context, task *asynq.Task) {
	ctx = context.WithoutCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.handler.ProcessTask(ctx, task); err != nil {
			c.logger.Error("Inline task %s failed: %v", task.Type(), err)
		}
	}()
}

// Wait дожидается запущенных задач
func (c *InlineClient) Wait() {
	c.wg.Wait()
}
