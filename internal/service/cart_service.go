package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/n190166/BiryaniJunction/internal/models"
	"github.com/n190166/BiryaniJunction/internal/util"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CartService manages the per-user shopping cart. Totals are priced against the live catalog.
type CartService struct {
	carts    CartStore
	products ProductGetter
	logger   *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(carts CartStore, products ProductGetter) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		logger:   util.GetLogger(),
	}
}

// AddItem adds quantity of a product, incrementing an existing line
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddItem",
		attribute.String("user_id", userID), attribute.String("product_id", productID))
	defer span.End()

	if quantity < 1 {
		util.CartOperationsTotal.WithLabelValues("add", "invalid").Inc()
		return nil, ErrInvalidQuantity
	}
	if err := s.checkOrderable(ctx, productID); err != nil {
		util.CartOperationsTotal.WithLabelValues("add", "rejected").Inc()
		return nil, err
	}

	if _, _, err := s.carts.AddCartItem(ctx, userID, productID, quantity); err != nil {
		util.CartOperationsTotal.WithLabelValues("add", "error").Inc()
		return nil, fmt.Errorf("failed to add cart item: %w", err)
	}

	util.CartOperationsTotal.WithLabelValues("add", "ok").Inc()
	return s.GetCart(ctx, userID)
}

// RemoveItem drops a line; removing an absent line succeeds
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.RemoveItem",
		attribute.String("user_id", userID), attribute.String("product_id", productID))
	defer span.End()

	if err := s.carts.RemoveCartItem(ctx, userID, productID); err != nil {
		util.CartOperationsTotal.WithLabelValues("remove", "error").Inc()
		return nil, fmt.Errorf("failed to remove cart item: %w", err)
	}

	util.CartOperationsTotal.WithLabelValues("remove", "ok").Inc()
	return s.GetCart(ctx, userID)
}

// SetQuantity overwrites the quantity of a line. A quantity below 1 removes the line.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID string, quantity int) (*models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.SetQuantity",
		attribute.String("user_id", userID), attribute.String("product_id", productID))
	defer span.End()

	if quantity < 1 {
		return s.RemoveItem(ctx, userID, productID)
	}
	if err := s.checkOrderable(ctx, productID); err != nil {
		util.CartOperationsTotal.WithLabelValues("set", "rejected").Inc()
		return nil, err
	}

	if _, err := s.carts.SetCartItem(ctx, userID, productID, quantity); err != nil {
		util.CartOperationsTotal.WithLabelValues("set", "error").Inc()
		return nil, fmt.Errorf("failed to set cart item: %w", err)
	}

	util.CartOperationsTotal.WithLabelValues("set", "ok").Inc()
	return s.GetCart(ctx, userID)
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, userID string) error {
	ctx, span := util.StartSpan(ctx, "CartService.Clear", attribute.String("user_id", userID))
	defer span.End()

	if err := s.carts.ClearCart(ctx, userID); err != nil {
		util.CartOperationsTotal.WithLabelValues("clear", "error").Inc()
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	util.CartOperationsTotal.WithLabelValues("clear", "ok").Inc()
	return nil
}

// Total returns the live cart total
func (s *CartService) Total(ctx context.Context, userID string) (decimal.Decimal, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return cart.Total, nil
}

// GetCart prices every line against the current catalog.
// Lines whose product has been deleted are left out of the view.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	ctx, span := util.StartSpan(ctx, "CartService.GetCart", attribute.String("user_id", userID))
	defer span.End()

	lines, err := s.carts.CartItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	cart := &models.Cart{
		UserID: userID,
		Items:  make([]models.CartItem, 0, len(lines)),
		Total:  decimal.Zero,
	}

	for _, line := range lines {
		product, err := s.products.GetProduct(ctx, line.ProductID)
		if errors.Is(err, ErrNotFound) {
			s.logger.Warn("Cart references unknown product",
				zap.String("user_id", userID), zap.String("product_id", line.ProductID))
			continue
		}
		if err != nil {
			return nil, err
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		cart.Items = append(cart.Items, models.CartItem{
			Product:  product,
			Quantity: line.Quantity,
			Subtotal: subtotal,
		})
		cart.Total = cart.Total.Add(subtotal)
	}
	cart.LineCount = len(cart.Items)

	return cart, nil
}

func (s *CartService) checkOrderable(ctx context.Context, productID string) error {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if !product.IsAvailable {
		return fmt.Errorf("%w: %s", ErrUnavailable, product.Name)
	}
	return nil
}
