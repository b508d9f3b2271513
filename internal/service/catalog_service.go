package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/n190166/BiryaniJunction/internal/models"
	"github.com/n190166/BiryaniJunction/internal/util"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// ProductPage is one page of a catalog listing
type ProductPage struct {
	Products   []models.Product `json:"products"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// CatalogService handles menu browsing, product administration and ratings
type CatalogService struct {
	products ProductRepository
	cache    ProductCache
	cacheTTL time.Duration
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCatalogService creates a new catalog service. cache may be nil.
func NewCatalogService(products ProductRepository, cache ProductCache, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{
		products: products,
		cache:    cache,
		cacheTTL: cacheTTL,
		validate: NewValidator(),
		logger:   util.GetLogger(),
	}
}

// NewValidator returns a validator that knows the catalog enumerations
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("category", oneOf(models.Categories))
	_ = v.RegisterValidation("spicelevel", oneOf(models.SpiceLevels))
	return v
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, a := range allowed {
			if a == value {
				return true
			}
		}
		return false
	}
}

// ListProducts returns a filtered, sorted page of the catalog
func (s *CatalogService) ListProducts(ctx context.Context, filter models.ProductFilter) (*ProductPage, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListProducts")
	defer span.End()

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	products, total, err := s.products.ListProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &ProductPage{
		Products:   products,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: (total + filter.Limit - 1) / filter.Limit,
	}, nil
}

// GetProduct returns a product, served from cache when possible
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetProduct", attribute.String("product_id", id))
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.GetCachedProduct(ctx, id)
		switch {
		case err != nil:
			util.ProductCacheLookups.WithLabelValues("error").Inc()
			s.logger.Warn("Product cache read failed", zap.String("product_id", id), zap.Error(err))
		case cached != nil:
			util.ProductCacheLookups.WithLabelValues("hit").Inc()
			return cached, nil
		default:
			util.ProductCacheLookups.WithLabelValues("miss").Inc()
		}
	}

	product, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}

	if s.cache != nil {
		if err := s.cache.CacheProduct(ctx, product, s.cacheTTL); err != nil {
			s.logger.Warn("Product cache write failed", zap.String("product_id", id), zap.Error(err))
		}
	}

	return product, nil
}

// CreateProduct validates and adds a product to the menu
func (s *CatalogService) CreateProduct(ctx context.Context, p *models.Product) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.CreateProduct")
	defer span.End()

	if err := s.validateProduct(p); err != nil {
		return err
	}
	p.ID = uuid.New().String()

	if err := s.products.CreateProduct(ctx, p); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created", zap.String("product_id", p.ID), zap.String("name", p.Name))
	return nil
}

// UpdateProduct replaces the editable fields of a product
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, p *models.Product) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.UpdateProduct", attribute.String("product_id", id))
	defer span.End()

	if err := s.validateProduct(p); err != nil {
		return err
	}
	p.ID = id

	if err := s.products.UpdateProduct(ctx, p); err != nil {
		return translate(err)
	}

	s.invalidate(ctx, id)
	return nil
}

// SetAvailability toggles whether a product can be ordered
func (s *CatalogService) SetAvailability(ctx context.Context, id string, available bool) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.SetAvailability", attribute.String("product_id", id))
	defer span.End()

	product, err := s.products.SetProductAvailability(ctx, id, available)
	if err != nil {
		return nil, translate(err)
	}

	s.invalidate(ctx, id)
	s.logger.Info("Product availability changed", zap.String("product_id", id), zap.Bool("available", available))
	return product, nil
}

// DeleteProduct removes a product from the menu
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := util.StartSpan(ctx, "CatalogService.DeleteProduct", attribute.String("product_id", id))
	defer span.End()

	if err := s.products.DeleteProduct(ctx, id); err != nil {
		return translate(err)
	}

	s.invalidate(ctx, id)
	return nil
}

// RateProduct records the user's rating and returns the product with its refreshed average
func (s *CatalogService) RateProduct(ctx context.Context, userID, productID string, rating int, review string) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.RateProduct", attribute.String("product_id", productID))
	defer span.End()

	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	product, err := s.products.UpsertRating(ctx, &models.Rating{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Review:    strings.TrimSpace(review),
	})
	if err != nil {
		return nil, translate(err)
	}

	s.invalidate(ctx, productID)
	return product, nil
}

// GetRatings lists reviews of a product
func (s *CatalogService) GetRatings(ctx context.Context, productID string) ([]models.Rating, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetRatings", attribute.String("product_id", productID))
	defer span.End()

	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.products.GetRatings(ctx, productID)
}

// CountProducts returns the catalog size
func (s *CatalogService) CountProducts(ctx context.Context) (int, error) {
	return s.products.CountProducts(ctx)
}

func (s *CatalogService) validateProduct(p *models.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.ServingSize = strings.TrimSpace(p.ServingSize)

	if err := s.validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	if !models.IsWholeCents(p.Price) {
		return fmt.Errorf("%w: price has more than two decimal places", ErrInvalidProduct)
	}
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProduct(ctx, id); err != nil {
		s.logger.Warn("Product cache invalidation failed", zap.String("product_id", id), zap.Error(err))
	}
}
