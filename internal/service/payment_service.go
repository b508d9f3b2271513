package service

import (
	"context"
	"fmt"
	"time"

	"github.com/n190166/BiryaniJunction/internal/payment"
	"github.com/n190166/BiryaniJunction/internal/util"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentGateway obtains client-side payment handles
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*payment.Intent, error)
}

// PaymentService creates payment intents for electronic payment methods.
// It records nothing; the order only carries the resulting payment status.
type PaymentService struct {
	gateway  PaymentGateway
	currency string
	logger   *zap.Logger
}

// NewPaymentService creates a new payment service. gateway may be nil when no key is configured.
func NewPaymentService(gateway PaymentGateway, currency string) *PaymentService {
	return &PaymentService{
		gateway:  gateway,
		currency: currency,
		logger:   util.GetLogger(),
	}
}

var hundred = decimal.NewFromInt(100)

// CreatePaymentIntent requests a payment handle for amount in major currency units
func (ps *PaymentService) CreatePaymentIntent(ctx context.Context, userID string, amount decimal.Decimal) (*payment.Intent, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.CreatePaymentIntent")
	defer span.End()

	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if ps.gateway == nil {
		util.PaymentIntentsTotal.WithLabelValues("disabled").Inc()
		return nil, ErrPaymentUnavailable
	}

	minor := amount.Mul(hundred).Round(0).IntPart()
	start := time.Now()

	intent, err := ps.gateway.CreateIntent(ctx, minor, ps.currency, map[string]string{"user_id": userID})
	if err != nil {
		util.PaymentIntentsTotal.WithLabelValues("error").Inc()
		ps.logger.Error("Payment intent failed",
			zap.String("user_id", userID),
			zap.Int64("amount", minor),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}

	util.PaymentIntentsTotal.WithLabelValues("ok").Inc()
	ps.logger.Info("Payment intent created",
		zap.String("user_id", userID),
		zap.String("intent_id", intent.ID),
		zap.Duration("latency", time.Since(start)))
	return intent, nil
}
