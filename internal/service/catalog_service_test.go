package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/n190166/BiryaniJunction/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProductReadThroughCache(t *testing.T) {
	products := newMemProducts(product("veg", "Veg Biryani", "199.00", true))
	cache := newMemCache()
	svc := NewCatalogService(products, cache, time.Minute)
	ctx := context.Background()

	p, err := svc.GetProduct(ctx, "veg")
	require.NoError(t, err)
	assert.Equal(t, "Veg Biryani", p.Name)
	assert.Contains(t, cache.items, "veg")

	delete(products.products, "veg")
	p, err = svc.GetProduct(ctx, "veg")
	require.NoError(t, err)
	assert.Equal(t, "Veg Biryani", p.Name)

	_, err = svc.GetProduct(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGetProductFallsBackWhenCacheFails(t *testing.T) {
	cache := newMemCache()
	cache.err = errors.New("redis down")
	svc := NewCatalogService(newMemProducts(product("veg", "Veg Biryani", "199.00", true)), cache, time.Minute)

	p, err := svc.GetProduct(context.Background(), "veg")
	require.NoError(t, err)
	assert.Equal(t, "veg", p.ID)
}

func TestWritesInvalidateCache(t *testing.T) {
	products := newMemProducts(product("veg", "Veg Biryani", "199.00", true))
	cache := newMemCache()
	svc := NewCatalogService(products, cache, time.Minute)
	ctx := context.Background()

	_, err := svc.GetProduct(ctx, "veg")
	require.NoError(t, err)

	updated, err := svc.SetAvailability(ctx, "veg", false)
	require.NoError(t, err)
	assert.False(t, updated.IsAvailable)
	assert.NotContains(t, cache.items, "veg")

	p, err := svc.GetProduct(ctx, "veg")
	require.NoError(t, err)
	assert.False(t, p.IsAvailable)

	require.NoError(t, svc.DeleteProduct(ctx, "veg"))
	_, err = svc.GetProduct(ctx, "veg")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewCatalogService(newMemProducts(), nil, time.Minute)
	ctx := context.Background()

	p := product("", "Kolkata Biryani", "289.00", true)
	p.Category = models.CategoryRegionalBiryani
	require.NoError(t, svc.CreateProduct(ctx, &p))
	assert.NotEmpty(t, p.ID)

	tests := []struct {
		name   string
		mutate func(*models.Product)
	}{
		{"unknown category", func(p *models.Product) { p.Category = "Pizza" }},
		{"unknown spice level", func(p *models.Product) { p.SpiceLevel = "volcanic" }},
		{"blank name", func(p *models.Product) { p.Name = "  " }},
		{"negative price", func(p *models.Product) { p.Price = decimal.NewFromInt(-5) }},
		{"sub-cent price", func(p *models.Product) { p.Price = decimal.RequireFromString("99.999") }},
		{"no ingredients", func(p *models.Product) { p.Ingredients = nil }},
		{"zero preparation time", func(p *models.Product) { p.PreparationTime = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := product("", "Kolkata Biryani", "289.00", true)
			tt.mutate(&p)
			err := svc.CreateProduct(ctx, &p)
			assert.True(t, errors.Is(err, ErrInvalidProduct), "got %v", err)
		})
	}
}

func TestUpdateProductUnknown(t *testing.T) {
	svc := NewCatalogService(newMemProducts(), nil, time.Minute)
	p := product("", "Veg Biryani", "199.00", true)

	err := svc.UpdateProduct(context.Background(), "missing", &p)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListProductsPaging(t *testing.T) {
	products := newMemProducts()
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		p := product(id, "Biryani "+id, "100", true)
		products.products[id] = &p
	}
	svc := NewCatalogService(products, nil, time.Minute)

	page, err := svc.ListProducts(context.Background(), models.ProductFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Products, 2)
	assert.Equal(t, "c", page.Products[0].ID)

	page, err = svc.ListProducts(context.Background(), models.ProductFilter{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 100, page.Limit)
}

func TestRateProduct(t *testing.T) {
	svc := NewCatalogService(newMemProducts(product("veg", "Veg Biryani", "199.00", true)), newMemCache(), time.Minute)
	ctx := context.Background()

	_, err := svc.RateProduct(ctx, "u1", "veg", 6, "")
	assert.True(t, errors.Is(err, ErrInvalidRating))

	p, err := svc.RateProduct(ctx, "u1", "veg", 4, "good")
	require.NoError(t, err)
	p, err = svc.RateProduct(ctx, "u2", "veg", 2, "too mild")
	require.NoError(t, err)
	assert.Equal(t, 2, p.RatingCount)
	assert.InDelta(t, 3.0, p.AverageRating, 0.001)

	p, err = svc.RateProduct(ctx, "u1", "veg", 5, "even better")
	require.NoError(t, err)
	assert.Equal(t, 2, p.RatingCount)
	assert.InDelta(t, 3.5, p.AverageRating, 0.001)

	ratings, err := svc.GetRatings(ctx, "veg")
	require.NoError(t, err)
	assert.Len(t, ratings, 2)

	_, err = svc.RateProduct(ctx, "u1", "missing", 3, "")
	assert.True(t, errors.Is(err, ErrNotFound))
}
