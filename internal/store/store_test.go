package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/n190166/BiryaniJunction/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderRowColumns = []string{"id", "user_id", "items", "total", "delivery_address", "phone_number",
	"payment_method", "special_instructions", "payment_status", "status", "created_at", "updated_at"}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithDB(sqlx.NewDb(db, "postgres")), mock
}

func orderRow(id string, status models.OrderStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(orderRowColumns).AddRow(
		id, "user-1", []byte(`[{"name":"Veg Biryani","quantity":2,"price":"199"}]`), "398.00",
		"12 MG Road, Bengaluru", "9876543210", "cash", "", "pending", string(status), now, now,
	)
}

func TestCreateOrder(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	order := &models.Order{
		ID:              "order-1",
		UserID:          "user-1",
		Items:           models.OrderLines{{Name: "Veg Biryani", Quantity: 2, Price: decimal.NewFromInt(199)}},
		Total:           decimal.NewFromInt(398),
		DeliveryAddress: "12 MG Road, Bengaluru",
		PhoneNumber:     "9876543210",
		PaymentMethod:   models.PaymentMethodCash,
		PaymentStatus:   models.PaymentStatusPending,
		Status:          models.OrderStatusPending,
	}

	mock.ExpectQuery("INSERT INTO orders").
		WithArgs("order-1", "user-1", sqlmock.AnyArg(), sqlmock.AnyArg(), "12 MG Road, Bengaluru",
			"9876543210", models.PaymentMethodCash, "", models.PaymentStatusPending, models.OrderStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	err := s.CreateOrder(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, now, order.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderByID(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("FROM orders WHERE id = \\$1").
		WithArgs("order-1").
		WillReturnRows(orderRow("order-1", models.OrderStatusConfirmed))

	order, err := s.GetOrderByID(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Veg Biryani", order.Items[0].Name)
	assert.True(t, order.Total.Equal(decimal.NewFromInt(398)))
}

func TestGetOrderByIDNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("FROM orders WHERE id = \\$1").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(orderRowColumns))

	_, err := s.GetOrderByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListOrdersFilter(t *testing.T) {
	s, mock := newMockStore(t)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("WHERE status = \\$1 AND created_at >= \\$2 ORDER BY created_at DESC").
		WithArgs(models.OrderStatusPending, from).
		WillReturnRows(orderRow("order-1", models.OrderStatusPending))

	orders, err := s.ListOrders(context.Background(), models.OrderFilter{Status: models.OrderStatusPending, From: &from})
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatus(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM orders WHERE id = \\$1 FOR UPDATE").
		WithArgs("order-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("pending"))
	mock.ExpectQuery("UPDATE orders SET status = \\$1").
		WithArgs(models.OrderStatusDelivered, "order-1").
		WillReturnRows(orderRow("order-1", models.OrderStatusDelivered))
	mock.ExpectCommit()

	order, previous, err := s.UpdateOrderStatus(context.Background(), "order-1", models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, previous)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOrderStatusNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM orders").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"status"}))
	mock.ExpectRollback()

	_, _, err := s.UpdateOrderStatus(context.Background(), "missing", models.OrderStatusConfirmed)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserConflict(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505"})

	err := s.CreateUser(context.Background(), &models.User{ID: "u1", Email: "a@b.com", Role: models.RoleUser})
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestListProducts(t *testing.T) {
	s, mock := newMockStore(t)
	veg := true
	now := time.Now()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM products WHERE category = \\$1 AND is_vegetarian = \\$2").
		WithArgs(models.CategoryVegBiryani, true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery("ORDER BY price DESC, id LIMIT 10 OFFSET 10").
		WithArgs(models.CategoryVegBiryani, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "price", "image", "category",
			"spice_level", "is_vegetarian", "is_available", "preparation_time", "serving_size", "ingredients",
			"average_rating", "rating_count", "created_at", "updated_at"}).
			AddRow("p1", "Veg Biryani", "Basmati and vegetables", "199.00", "", models.CategoryVegBiryani,
				models.SpiceMedium, true, true, 25, "1 plate", "{rice,peas}", 4.5, 2, now, now))

	products, total, err := s.ListProducts(context.Background(), models.ProductFilter{
		Category:   models.CategoryVegBiryani,
		Vegetarian: &veg,
		SortField:  "price",
		SortDesc:   true,
		Page:       2,
		Limit:      10,
	})
	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, products, 1)
	assert.Equal(t, pq.StringArray{"rice", "peas"}, products[0].Ingredients)
	assert.True(t, products[0].Price.Equal(decimal.NewFromInt(199)))
}

func TestDeleteProductNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM products").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeleteProduct(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUpsertRatingUnknownProduct(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM products WHERE id = \\$1 FOR UPDATE").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := s.UpsertRating(context.Background(), &models.Rating{ProductID: "missing", UserID: "u1", Rating: 4})
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactLifecycle(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM contact_messages WHERE status = \\$1").
		WithArgs(models.ContactStatusOpen).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectExec("DELETE FROM contact_messages").
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := s.CountContacts(context.Background(), models.ContactStatusOpen)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, s.DeleteContact(context.Background(), "c1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
