package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/n190166/BiryaniJunction/internal/models"
	"github.com/n190166/BiryaniJunction/internal/util"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// OrderService is the order lifecycle engine: placement, status transitions and retrieval
type OrderService struct {
	orders    OrderRepository
	catalog   ProductGetter
	notifier  Notifier
	tolerance decimal.Decimal
	logger    *zap.Logger
}

// NewOrderService creates a new order service. catalog may be nil, in which case
// product references on draft items are not resolved.
func NewOrderService(orders OrderRepository, catalog ProductGetter, notifier Notifier, tolerance decimal.Decimal) *OrderService {
	return &OrderService{
		orders:    orders,
		catalog:   catalog,
		notifier:  notifier,
		tolerance: tolerance,
		logger:    util.GetLogger(),
	}
}

// OrderDraft is the checkout request for a new order
type OrderDraft struct {
	Items               []DraftItem      `json:"items"`
	Total               *decimal.Decimal `json:"total,omitempty"`
	DeliveryAddress     string           `json:"delivery_address"`
	PhoneNumber         string           `json:"phone_number"`
	PaymentMethod       string           `json:"payment_method"`
	SpecialInstructions string           `json:"special_instructions"`
}

// DraftItem is one requested line. When ProductID is set the name and price are
// taken from the live catalog instead of the request.
type DraftItem struct {
	ProductID string          `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// PlaceOrder validates the draft, freezes its lines and persists a pending order.
// Nothing is written when validation fails.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, draft OrderDraft) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.PlaceOrder", attribute.String("user_id", userID))
	defer span.End()

	order, err := s.buildOrder(ctx, userID, draft)
	if err != nil {
		util.OrdersRejectedTotal.WithLabelValues(rejectReason(err)).Inc()
		return nil, err
	}

	if draft.Total != nil && draft.Total.Sub(order.Total).Abs().GreaterThan(s.tolerance) {
		util.OrderTotalMismatchTotal.Inc()
		s.logger.Warn("Client total differs from server total",
			zap.String("user_id", userID),
			zap.String("client_total", draft.Total.StringFixed(2)),
			zap.String("server_total", order.Total.StringFixed(2)))
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		util.OrdersRejectedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersPlacedTotal.WithLabelValues(string(order.PaymentMethod)).Inc()
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", userID),
		zap.String("total", order.Total.StringFixed(2)))

	s.notify(ctx, models.EventTypeOrderPlaced, order, "")
	return order, nil
}

func (s *OrderService) buildOrder(ctx context.Context, userID string, draft OrderDraft) (*models.Order, error) {
	if len(draft.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	lines := make(models.OrderLines, 0, len(draft.Items))
	for i, item := range draft.Items {
		line, err := s.freezeLine(ctx, item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		lines = append(lines, line)
	}

	address := strings.TrimSpace(draft.DeliveryAddress)
	if address == "" {
		return nil, ErrMissingAddress
	}

	phone, ok := NormalizePhone(draft.PhoneNumber)
	if !ok {
		return nil, ErrInvalidPhone
	}

	method, ok := models.ParsePaymentMethod(draft.PaymentMethod)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, draft.PaymentMethod)
	}

	paymentStatus := models.PaymentStatusPending
	if method.IsElectronic() {
		paymentStatus = models.PaymentStatusPaid
	}

	return &models.Order{
		ID:                  uuid.New().String(),
		UserID:              userID,
		Items:               lines,
		Total:               lines.Total(),
		DeliveryAddress:     address,
		PhoneNumber:         phone,
		PaymentMethod:       method,
		SpecialInstructions: strings.TrimSpace(draft.SpecialInstructions),
		PaymentStatus:       paymentStatus,
		Status:              models.OrderStatusPending,
	}, nil
}

func (s *OrderService) freezeLine(ctx context.Context, item DraftItem) (models.OrderLine, error) {
	if item.Quantity < 1 {
		return models.OrderLine{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidItem)
	}

	if item.ProductID != "" && s.catalog != nil {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			return models.OrderLine{}, err
		}
		if !product.IsAvailable {
			return models.OrderLine{}, fmt.Errorf("%w: %s", ErrUnavailable, product.Name)
		}
		return models.OrderLine{Name: product.Name, Quantity: item.Quantity, Price: product.Price}, nil
	}

	name := strings.TrimSpace(item.Name)
	if name == "" {
		return models.OrderLine{}, fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	if item.Price.IsNegative() {
		return models.OrderLine{}, fmt.Errorf("%w: price must not be negative", ErrInvalidItem)
	}
	if !models.IsWholeCents(item.Price) {
		return models.OrderLine{}, fmt.Errorf("%w: price has more than two decimal places", ErrInvalidItem)
	}
	return models.OrderLine{Name: name, Quantity: item.Quantity, Price: item.Price}, nil
}

// NormalizePhone strips every non-digit and accepts exactly 10 remaining digits
func NormalizePhone(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	return digits, len(digits) == 10
}

// UpdateStatus moves an order to any status of the closed set. Transitions are not
// restricted to the forward sequence. The caller must have verified admin capability.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus",
		attribute.String("order_id", orderID), attribute.String("status", status))
	defer span.End()

	next, ok := models.ParseOrderStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	order, previous, err := s.orders.UpdateOrderStatus(ctx, orderID, next)
	if err != nil {
		return nil, translate(err)
	}

	util.OrderStatusTransitionsTotal.WithLabelValues(string(previous), string(next)).Inc()
	s.logger.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("from", string(previous)),
		zap.String("to", string(next)))

	if previous != next {
		s.notify(ctx, models.EventTypeOrderStatusChanged, order, previous)
	}
	return order, nil
}

// UpdatePaymentStatus records settlement, e.g. cash collected on delivery
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdatePaymentStatus", attribute.String("order_id", orderID))
	defer span.End()

	next, ok := models.ParsePaymentStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	order, err := s.orders.UpdatePaymentStatus(ctx, orderID, next)
	if err != nil {
		return nil, translate(err)
	}

	s.logger.Info("Order payment status updated",
		zap.String("order_id", orderID), zap.String("payment_status", string(next)))
	return order, nil
}

// GetOrder returns the order only if it belongs to userID
func (s *OrderService) GetOrder(ctx context.Context, orderID, userID string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.GetOrder", attribute.String("order_id", orderID))
	defer span.End()

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, translate(err)
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	return order, nil
}

// GetOrderAsAdmin returns any order
func (s *OrderService) GetOrderAsAdmin(ctx context.Context, orderID string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.GetOrderAsAdmin", attribute.String("order_id", orderID))
	defer span.End()

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, translate(err)
	}
	return order, nil
}

// ListOrders returns the user's orders, newest first
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ListOrders", attribute.String("user_id", userID))
	defer span.End()

	return s.orders.GetOrdersByUserID(ctx, userID)
}

// ListAllOrders returns every order matching the filter, newest first
func (s *OrderService) ListAllOrders(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ListAllOrders")
	defer span.End()

	if filter.Status != "" {
		if _, ok := models.ParseOrderStatus(string(filter.Status)); !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, filter.Status)
		}
	}
	return s.orders.ListOrders(ctx, filter)
}

// notify hands the event to the notifier. The order is already committed at this point.
func (s *OrderService) notify(ctx context.Context, eventType string, order *models.Order, previous models.OrderStatus) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, models.OrderEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: eventType,
			Timestamp: time.Now(),
		},
		Order:          *order,
		PreviousStatus: previous,
	})
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrEmptyOrder):
		return "empty_order"
	case errors.Is(err, ErrInvalidItem):
		return "invalid_item"
	case errors.Is(err, ErrMissingAddress):
		return "missing_address"
	case errors.Is(err, ErrInvalidPhone):
		return "invalid_phone"
	case errors.Is(err, ErrInvalidPaymentMethod):
		return "invalid_payment_method"
	case errors.Is(err, ErrNotFound):
		return "unknown_product"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	}
	return "other"
}
