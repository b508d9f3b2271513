package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/n190166/BiryaniJunction/internal/models"
	"github.com/n190166/BiryaniJunction/internal/util"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventWriter publishes a keyed event
type EventWriter interface {
	PublishEvent(ctx context.Context, key string, event interface{}) error
}

// EventPublisher handles publishing order lifecycle events
type EventPublisher struct {
	writer  EventWriter
	timeout time.Duration
	logger  *zap.Logger
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(writer EventWriter, timeout time.Duration) *EventPublisher {
	return &EventPublisher{
		writer:  writer,
		timeout: timeout,
		logger:  util.GetLogger(),
	}
}

// PublishOrderEvent publishes an order event keyed by order id so that
// events of one order stay in order on a partition
func (ep *EventPublisher) PublishOrderEvent(ctx context.Context, event *models.OrderEvent) error {
	key := fmt.Sprintf("order-%s", event.Order.ID)
	return ep.writer.PublishEvent(ctx, key, event)
}

// Notify publishes in the background, detached from cancellation of ctx.
// Failures are logged and counted only.
func (ep *EventPublisher) Notify(ctx context.Context, event models.OrderEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ep.timeout)
	go func() {
		defer cancel()
		if err := ep.PublishOrderEvent(ctx, &event); err != nil {
			util.NotificationsTotal.WithLabelValues(event.EventType, "publish_failed").Inc()
			ep.logger.Error("Failed to publish order event",
				zap.String("event_type", event.EventType),
				zap.String("order_id", event.Order.ID),
				zap.Error(err))
			return
		}
		util.NotificationsTotal.WithLabelValues(event.EventType, "published").Inc()
	}()
}

// EventHandler handles incoming events
type EventHandler struct {
	onOrderEvent func(context.Context, models.OrderEvent) error
	logger       *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnOrderEvent registers a handler for order lifecycle events
func (eh *EventHandler) OnOrderEvent(handler func(context.Context, models.OrderEvent) error) {
	eh.onOrderEvent = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("event_type", baseEvent.EventType),
		zap.String("event_id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeOrderPlaced, models.EventTypeOrderStatusChanged:
		if eh.onOrderEvent != nil {
			var event models.OrderEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal %s event: %w", baseEvent.EventType, err)
			}
			return eh.onOrderEvent(ctx, event)
		}

	default:
		eh.logger.Warn("Unhandled event type", zap.String("event_type", baseEvent.EventType))
	}

	return nil
}
