package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task фоновая задача доставки. Получает собственный контекст с таймаутом,
// не связанный с HTTP-запросом, который её поставил.
type Task func(ctx context.Context) error

type job struct {
	name string
	task Task
}

// Dispatcher очередь best-effort задач с фиксированным числом воркеров.
// Enqueue никогда не блокирует вызывающего; Close дожидается выполнения
// всего, что уже было принято в очередь.
type Dispatcher struct {
	queue   chan job
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher создаёт очередь и запускает воркеры
func NewDispatcher(workers, queueSize int, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	d := &Dispatcher{
		queue:   make(chan job, queueSize),
		timeout: timeout,
		logger:  logger,
	}

	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.worker()
	}

	return d
}

// Enqueue ставит задачу в очередь. Возвращает false, если очередь закрыта или переполнена.
func (d *Dispatcher) Enqueue(name string, task Task) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn("Dispatcher closed, task dropped", zap.String("task", name))
		return false
	}

	select {
	case d.queue <- job{name: name, task: task}:
		return true
	default:
		d.logger.Error("Notification queue is full, task dropped", zap.String("task", name))
		return false
	}
}

// Close прекращает приём задач и ждёт завершения принятых
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain notification queue: %w", ctx.Err())
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.queue {
		d.run(j)
	}
}

func (d *Dispatcher) run(j job) {
	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Notification task panicked", zap.String("task", j.name), zap.Any("panic", r))
		}
	}()

	if err := j.task(ctx); err != nil {
		d.logger.Error("Notification task failed", zap.String("task", j.name), zap.Error(err))
	}
}
