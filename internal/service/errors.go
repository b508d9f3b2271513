package service

import (
	"errors"
	"fmt"

	"github.com/n190166/BiryaniJunction/internal/store"
)

// Error kinds surfaced by the service layer. The HTTP boundary maps them to status codes.
var (
	ErrNotFound             = errors.New("not found")
	ErrUnavailable          = errors.New("product unavailable")
	ErrInvalidItem          = errors.New("invalid item")
	ErrEmptyOrder           = errors.New("order has no items")
	ErrMissingAddress       = errors.New("delivery address is required")
	ErrInvalidPhone         = errors.New("phone number must have exactly 10 digits")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidProduct       = errors.New("invalid product")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
	ErrInvalidContact       = errors.New("invalid contact message")
	ErrInvalidInput         = errors.New("invalid input")
	ErrConflict             = errors.New("already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrPaymentUnavailable   = errors.New("payment gateway unavailable")
)

// translate maps store errors onto service error kinds
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, store.ErrConflict):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
