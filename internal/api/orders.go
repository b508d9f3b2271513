package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/n190166/BiryaniJunction/internal/models"
	"github.com/n190166/BiryaniJunction/internal/service"
	"github.com/n190166/BiryaniJunction/internal/util"
	"go.uber.org/zap"
)

// StatusRequest is the body of the admin status endpoints
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// placeOrder creates an order from the submitted draft and clears the cart
func (h *Handler) placeOrder(c *gin.Context) {
	var draft service.OrderDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	userID := actorFrom(c).UserID
	order, err := h.svc.Orders.PlaceOrder(ctx, userID, draft)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.svc.Cart.Clear(ctx, userID); err != nil {
		util.GetLogger().Warn("Failed to clear cart after checkout",
			zap.String("user_id", userID), zap.String("order_id", order.ID), zap.Error(err))
	}

	ok(c, http.StatusCreated, order)
}

func (h *Handler) listOrders(c *gin.Context) {
	ctx, cancel := h.opContext(c)
	defer cancel()

	orders, err := h.svc.Orders.ListOrders(ctx, actorFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, orders)
}

func (h *Handler) getOrder(c *gin.Context) {
	ctx, cancel := h.opContext(c)
	defer cancel()

	order, err := h.svc.Orders.GetOrder(ctx, c.Param("id"), actorFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, order)
}

func parseOrderFilter(c *gin.Context) (models.OrderFilter, error) {
	filter := models.OrderFilter{Status: models.OrderStatus(c.Query("status"))}

	for name, dst := range map[string]**time.Time{"from": &filter.From, "to": &filter.To} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			if t, err = time.Parse(time.DateOnly, raw); err != nil {
				return filter, fmt.Errorf("invalid %s: %q", name, raw)
			}
		}
		*dst = &t
	}

	return filter, nil
}

func (h *Handler) listAllOrders(c *gin.Context) {
	filter, err := parseOrderFilter(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	orders, err := h.svc.Orders.ListAllOrders(ctx, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, orders)
}

func (h *Handler) getOrderAsAdmin(c *gin.Context) {
	ctx, cancel := h.opContext(c)
	defer cancel()

	order, err := h.svc.Orders.GetOrderAsAdmin(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, order)
}

func (h *Handler) updateOrderStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	order, err := h.svc.Orders.UpdateStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, order)
}

func (h *Handler) updatePaymentStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	order, err := h.svc.Orders.UpdatePaymentStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, order)
}
