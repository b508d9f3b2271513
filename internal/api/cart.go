package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest is the body of POST /cart/items. Quantity defaults to 1.
type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  *int   `json:"quantity"`
}

// SetCartItemRequest is the body of PATCH /cart/items/:productId
type SetCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *Handler) getCart(c *gin.Context) {
	ctx, cancel := h.opContext(c)
	defer cancel()

	cart, err := h.svc.Cart.GetCart(ctx, actorFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, cart)
}

func (h *Handler) addCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	cart, err := h.svc.Cart.AddItem(ctx, actorFrom(c).UserID, req.ProductID, quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, cart)
}

func (h *Handler) setCartItem(c *gin.Context) {
	var req SetCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	cart, err := h.svc.Cart.SetQuantity(ctx, actorFrom(c).UserID, c.Param("productId"), *req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, cart)
}

func (h *Handler) removeCartItem(c *gin.Context) {
	ctx, cancel := h.opContext(c)
	defer cancel()

	cart, err := h.svc.Cart.RemoveItem(ctx, actorFrom(c).UserID, c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, cart)
}

func (h *Handler) clearCart(c *gin.Context) {
	ctx, cancel := h.opContext(c)
	defer cancel()

	if err := h.svc.Cart.Clear(ctx, actorFrom(c).UserID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
