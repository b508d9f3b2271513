package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

// Order statuses
const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// OrderStatuses lists the closed status set in lifecycle order
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ParseOrderStatus returns the status named by s, if it is a member of the closed set
func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// IsTerminal reports whether no further progress is expected from this status.
// Terminal orders can still be moved by an admin.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// PaymentMethod is how the customer pays for an order
type PaymentMethod string

// Payment methods
const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodUPI  PaymentMethod = "upi"
)

// ParsePaymentMethod normalizes a client supplied method. Empty means cash;
// "cod" is accepted as cash on delivery.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cash", "cod":
		return PaymentMethodCash, true
	case "card":
		return PaymentMethodCard, true
	case "upi":
		return PaymentMethodUPI, true
	}
	return "", false
}

// IsElectronic reports whether the method is settled before placement
func (m PaymentMethod) IsElectronic() bool {
	return m == PaymentMethodCard || m == PaymentMethodUPI
}

// PaymentStatus tracks settlement of an order
type PaymentStatus string

// Payment statuses
const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// ParsePaymentStatus returns the payment status named by s
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(s) {
	case PaymentStatusPending, PaymentStatusPaid:
		return PaymentStatus(s), true
	}
	return "", false
}

// OrderLine is a frozen copy of an item at placement time
type OrderLine struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Subtotal returns price * quantity
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// IsWholeCents reports whether d is representable in the two decimal places
// prices and totals are stored with
func IsWholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// OrderLines is persisted as a single JSON document next to its order
type OrderLines []OrderLine

// Total sums the line subtotals
func (ls OrderLines) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range ls {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Value implements driver.Valuer
func (ls OrderLines) Value() (driver.Value, error) {
	if ls == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(ls)
}

// Scan implements sql.Scanner
func (ls *OrderLines) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*ls = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into OrderLines", src)
	}
	return json.Unmarshal(data, ls)
}

// Order is a placed purchase. Items, address and total never change after creation.
type Order struct {
	ID                  string          `db:"id" json:"id"`
	UserID              string          `db:"user_id" json:"user_id"`
	Items               OrderLines      `db:"items" json:"items"`
	Total               decimal.Decimal `db:"total" json:"total"`
	DeliveryAddress     string          `db:"delivery_address" json:"delivery_address"`
	PhoneNumber         string          `db:"phone_number" json:"phone_number"`
	PaymentMethod       PaymentMethod   `db:"payment_method" json:"payment_method"`
	SpecialInstructions string          `db:"special_instructions" json:"special_instructions"`
	PaymentStatus       PaymentStatus   `db:"payment_status" json:"payment_status"`
	Status              OrderStatus     `db:"status" json:"status"`
	CreatedAt           time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at" json:"updated_at"`
}

// OrderFilter narrows admin order listings
type OrderFilter struct {
	Status OrderStatus
	From   *time.Time
	To     *time.Time
}
