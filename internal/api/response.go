package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/n190166/BiryaniJunction/internal/service"
	"github.com/n190166/BiryaniJunction/internal/util"
	"go.uber.org/zap"
)

type errorKind struct {
	err    error
	status int
	code   string
}

// errorKinds maps service error kinds to HTTP status and machine-readable code
var errorKinds = []errorKind{
	{service.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
	{service.ErrUnavailable, http.StatusUnprocessableEntity, "PRODUCT_UNAVAILABLE"},
	{service.ErrEmptyOrder, http.StatusBadRequest, "EMPTY_ORDER"},
	{service.ErrInvalidItem, http.StatusBadRequest, "INVALID_ITEM"},
	{service.ErrMissingAddress, http.StatusBadRequest, "MISSING_ADDRESS"},
	{service.ErrInvalidPhone, http.StatusBadRequest, "INVALID_PHONE"},
	{service.ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS"},
	{service.ErrInvalidQuantity, http.StatusBadRequest, "INVALID_QUANTITY"},
	{service.ErrInvalidPaymentMethod, http.StatusBadRequest, "INVALID_PAYMENT_METHOD"},
	{service.ErrInvalidProduct, http.StatusBadRequest, "INVALID_PRODUCT"},
	{service.ErrInvalidRating, http.StatusBadRequest, "INVALID_RATING"},
	{service.ErrInvalidContact, http.StatusBadRequest, "INVALID_CONTACT"},
	{service.ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
	{service.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{service.ErrConflict, http.StatusConflict, "CONFLICT"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{service.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
	{service.ErrPaymentUnavailable, http.StatusBadGateway, "PAYMENT_UNAVAILABLE"},
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func fail(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"code":    code,
		"message": message,
	})
}

func badRequest(c *gin.Context, err error) {
	fail(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
}

// respondError classifies err into the envelope. Unclassified errors are logged
// and reported without detail.
func respondError(c *gin.Context, err error) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			fail(c, k.status, k.code, err.Error())
			return
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		util.LoggerFrom(c.Request.Context()).Warn("Request timed out", zap.String("path", c.FullPath()), zap.Error(err))
		fail(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "service temporarily unavailable")
		return
	}

	util.LoggerFrom(c.Request.Context()).Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
