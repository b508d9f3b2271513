package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PaymentIntentRequest is the body of POST /payments/intent
type PaymentIntentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handler) createPaymentIntent(c *gin.Context) {
	var req PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	intent, err := h.svc.Payments.CreatePaymentIntent(ctx, actorFrom(c).UserID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, intent)
}
