package notification

import (
	"context"
	"sync"

	"github.com/n190166/BiryaniJunction/internal/models"
	"github.com/n190166/BiryaniJunction/internal/util"
	"go.uber.org/zap"
)

// Deliverer performs the actual delivery of one event
type Deliverer interface {
	Deliver(ctx context.Context, event models.OrderEvent) error
}

// Dispatcher queues order events in memory and delivers them from a worker pool.
// Notify never blocks; when the queue is full the event is dropped.
type Dispatcher struct {
	deliverer Deliverer
	queue     chan models.OrderEvent
	workers   int
	logger    *zap.Logger

	wg       sync.WaitGroup
	mu       sync.RWMutex
	stopped  bool
	stopOnce sync.Once
}

// NewDispatcher creates a dispatcher with a bounded queue
func NewDispatcher(deliverer Deliverer, workers, queueSize int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	return &Dispatcher{
		deliverer: deliverer,
		queue:     make(chan models.OrderEvent, queueSize),
		workers:   workers,
		logger:    util.GetLogger(),
	}
}

// Start launches the workers. ctx bounds every delivery.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run(ctx)
	}
	d.logger.Info("Notification dispatcher started", zap.Int("workers", d.workers))
}

func (d *Dispatcher) run(ctx context.Context) {
	defer d.wg.Done()
	for event := range d.queue {
		d.deliver(ctx, event)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, event models.OrderEvent) {
	if err := d.deliverer.Deliver(ctx, event); err != nil {
		util.NotificationsTotal.WithLabelValues(event.EventType, "failed").Inc()
		d.logger.Error("Notification delivery failed",
			zap.String("event_type", event.EventType),
			zap.String("order_id", event.Order.ID),
			zap.Error(err))
		return
	}
	util.NotificationsTotal.WithLabelValues(event.EventType, "sent").Inc()
}

// Notify enqueues an event
func (d *Dispatcher) Notify(_ context.Context, event models.OrderEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		util.NotificationsTotal.WithLabelValues(event.EventType, "dropped").Inc()
		return
	}

	select {
	case d.queue <- event:
	default:
		util.NotificationsTotal.WithLabelValues(event.EventType, "dropped").Inc()
		d.logger.Warn("Notification queue full, dropping event",
			zap.String("event_type", event.EventType),
			zap.String("order_id", event.Order.ID))
	}
}

// Stop stops accepting events and waits for queued ones to be delivered
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.stopped = true
		close(d.queue)
		d.mu.Unlock()
	})
	d.wg.Wait()
	d.logger.Info("Notification dispatcher stopped")
}
