package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/n190166/BiryaniJunction/internal/models"
)

const orderColumns = `id, user_id, items, total, delivery_address, phone_number, payment_method,
	special_instructions, payment_status, status, created_at, updated_at`

// CreateOrder persists a new order; items are stored as one JSONB document
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, user_id, items, total, delivery_address, phone_number,
			payment_method, special_instructions, payment_status, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	return s.db.QueryRowxContext(ctx, query,
		order.ID, order.UserID, order.Items, order.Total, order.DeliveryAddress, order.PhoneNumber,
		order.PaymentMethod, order.SpecialInstructions, order.PaymentStatus, order.Status,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrdersByUserID retrieves orders for a user, newest first
func (s *Store) GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders,
		"SELECT "+orderColumns+" FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return orders, err
}

// ListOrders retrieves all orders matching the filter, newest first
func (s *Store) ListOrders(ctx context.Context, f models.OrderFilter) ([]models.Order, error) {
	var (
		where []string
		args  []interface{}
	)
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where = append(where, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	query := "SELECT " + orderColumns + " FROM orders"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"

	orders := []models.Order{}
	err := s.db.SelectContext(ctx, &orders, query, args...)
	return orders, err
}

// UpdateOrderStatus sets a new status and returns the updated order with the status it replaced.
// The row is locked for the duration so concurrent transitions serialize.
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, models.OrderStatus, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, "", err
	}
	defer tx.Rollback()

	var previous models.OrderStatus
	err = tx.GetContext(ctx, &previous, "SELECT status FROM orders WHERE id = $1 FOR UPDATE", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to lock order: %w", err)
	}

	var order models.Order
	err = tx.GetContext(ctx, &order,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING "+orderColumns,
		status, id)
	if err != nil {
		return nil, "", fmt.Errorf("failed to update order status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, "", err
	}
	return &order, previous, nil
}

// UpdatePaymentStatus updates the settlement state of an order
func (s *Store) UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"UPDATE orders SET payment_status = $1, updated_at = NOW() WHERE id = $2 RETURNING "+orderColumns,
		status, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// OrderStatsByStatus aggregates order counts and revenue per status
func (s *Store) OrderStatsByStatus(ctx context.Context) ([]models.StatusStat, error) {
	stats := []models.StatusStat{}
	err := s.db.SelectContext(ctx, &stats, `
		SELECT status, COUNT(*) AS count, COALESCE(SUM(total), 0) AS revenue
		FROM orders GROUP BY status ORDER BY status`)
	return stats, err
}
