package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/n190166/BiryaniJunction/internal/models"
)

// RatingRequest is the body of POST /products/:id/ratings
type RatingRequest struct {
	Rating int    `json:"rating" binding:"required"`
	Review string `json:"review"`
}

// AvailabilityRequest is the body of PATCH /admin/products/:id/availability
type AvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

var sortableProductFields = map[string]bool{
	"price":         true,
	"name":          true,
	"createdAt":     true,
	"averageRating": true,
}

func parseProductFilter(c *gin.Context) (models.ProductFilter, error) {
	filter := models.ProductFilter{
		Category:   c.Query("category"),
		SpiceLevel: c.Query("spice_level"),
	}

	for name, dst := range map[string]**bool{"vegetarian": &filter.Vegetarian, "available": &filter.Available} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid %s: %q", name, raw)
		}
		*dst = &v
	}

	if sort := c.Query("sort"); sort != "" {
		filter.SortDesc = strings.HasPrefix(sort, "-")
		filter.SortField = strings.TrimPrefix(sort, "-")
		if !sortableProductFields[filter.SortField] {
			return filter, fmt.Errorf("unsupported sort field: %q", filter.SortField)
		}
	}

	for name, dst := range map[string]*int{"page": &filter.Page, "limit": &filter.Limit} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid %s: %q", name, raw)
		}
		*dst = v
	}

	return filter, nil
}

func (h *Handler) listProducts(c *gin.Context) {
	filter, err := parseProductFilter(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	page, err := h.svc.Catalog.ListProducts(ctx, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, page)
}

func (h *Handler) getProduct(c *gin.Context) {
	ctx, cancel := h.opContext(c)
	defer cancel()

	product, err := h.svc.Catalog.GetProduct(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, product)
}

func (h *Handler) listRatings(c *gin.Context) {
	ctx, cancel := h.opContext(c)
	defer cancel()

	ratings, err := h.svc.Catalog.GetRatings(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, ratings)
}

func (h *Handler) rateProduct(c *gin.Context) {
	var req RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	product, err := h.svc.Catalog.RateProduct(ctx, actorFrom(c).UserID, c.Param("id"), req.Rating, req.Review)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, product)
}

func (h *Handler) createProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	if err := h.svc.Catalog.CreateProduct(ctx, &product); err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusCreated, product)
}

func (h *Handler) updateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	if err := h.svc.Catalog.UpdateProduct(ctx, c.Param("id"), &product); err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, product)
}

func (h *Handler) setAvailability(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	product, err := h.svc.Catalog.SetAvailability(ctx, c.Param("id"), *req.IsAvailable)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, product)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	ctx, cancel := h.opContext(c)
	defer cancel()

	if err := h.svc.Catalog.DeleteProduct(ctx, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
