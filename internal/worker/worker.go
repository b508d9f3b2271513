package worker

import (
	"context"

	"github.com/n190166/BiryaniJunction/internal/broker"
	"github.com/n190166/BiryaniJunction/internal/models"
	"github.com/n190166/BiryaniJunction/internal/notification"
	"github.com/n190166/BiryaniJunction/internal/util"
	"go.uber.org/zap"
)

// NotificationWorker consumes order events from Kafka and delivers notifications
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, deliverer notification.Deliverer) *NotificationWorker {
	w := &NotificationWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		logger:       util.GetLogger(),
	}
	w.eventHandler.OnOrderEvent(w.handle(deliverer))
	return w
}

// handle records failed deliveries and always reports success to the consumer
func (w *NotificationWorker) handle(deliverer notification.Deliverer) func(context.Context, models.OrderEvent) error {
	return func(ctx context.Context, event models.OrderEvent) error {
		if err := deliverer.Deliver(ctx, event); err != nil {
			util.NotificationsTotal.WithLabelValues(event.EventType, "failed").Inc()
			w.logger.Error("Notification delivery failed",
				zap.String("event_type", event.EventType),
				zap.String("order_id", event.Order.ID),
				zap.Error(err))
			return nil
		}
		util.NotificationsTotal.WithLabelValues(event.EventType, "sent").Inc()
		return nil
	}
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	w.logger.Info("Stopping notification worker")
	return w.consumer.Close()
}
