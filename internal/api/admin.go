package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// stats serves the admin dashboard
func (h *Handler) stats(c *gin.Context) {
	ctx, cancel := h.opContext(c)
	defer cancel()

	stats, err := h.svc.Admin.Stats(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, stats)
}
