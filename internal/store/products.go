package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/n190166/BiryaniJunction/internal/models"
)

const productColumns = `id, name, description, price, image, category, spice_level, is_vegetarian,
	is_available, preparation_time, serving_size, ingredients, average_rating, rating_count,
	created_at, updated_at`

var productSortColumns = map[string]string{
	"price":         "price",
	"name":          "name",
	"createdAt":     "created_at",
	"averageRating": "average_rating",
}

// GetProductByID retrieves a product by ID
func (s *Store) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns one page of products matching the filter and the total match count
func (s *Store) ListProducts(ctx context.Context, f models.ProductFilter) ([]models.Product, int, error) {
	var (
		where []string
		args  []interface{}
	)
	add := func(cond string, v interface{}) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.SpiceLevel != "" {
		add("spice_level = $%d", f.SpiceLevel)
	}
	if f.Vegetarian != nil {
		add("is_vegetarian = $%d", *f.Vegetarian)
	}
	if f.Available != nil {
		add("is_available = $%d", *f.Available)
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM products"+clause, args...); err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	if col, ok := productSortColumns[f.SortField]; ok {
		order = col + " ASC"
		if f.SortDesc {
			order = col + " DESC"
		}
	}

	query := fmt.Sprintf("SELECT %s FROM products%s ORDER BY %s, id LIMIT %d OFFSET %d",
		productColumns, clause, order, f.Limit, (f.Page-1)*f.Limit)

	products := []models.Product{}
	if err := s.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, err
	}
	return products, count, nil
}

// CountProducts returns the catalog size
func (s *Store) CountProducts(ctx context.Context) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM products")
	return n, err
}

// CreateProduct inserts a new product
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, image, category, spice_level,
			is_vegetarian, is_available, preparation_time, serving_size, ingredients)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`

	return s.db.QueryRowxContext(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.Image, p.Category, p.SpiceLevel,
		p.IsVegetarian, p.IsAvailable, p.PreparationTime, p.ServingSize, p.Ingredients,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// UpdateProduct overwrites the editable fields of a product
func (s *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, price = $4, image = $5, category = $6,
			spice_level = $7, is_vegetarian = $8, is_available = $9, preparation_time = $10,
			serving_size = $11, ingredients = $12, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at, average_rating, rating_count`

	err := s.db.QueryRowxContext(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.Image, p.Category, p.SpiceLevel,
		p.IsVegetarian, p.IsAvailable, p.PreparationTime, p.ServingSize, p.Ingredients,
	).Scan(&p.CreatedAt, &p.UpdatedAt, &p.AverageRating, &p.RatingCount)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("product %s: %w", p.ID, ErrNotFound)
	}
	return err
}

// SetProductAvailability flips the availability flag
func (s *Store) SetProductAvailability(ctx context.Context, id string, available bool) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product,
		"UPDATE products SET is_available = $1, updated_at = NOW() WHERE id = $2 RETURNING "+productColumns,
		available, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product; ratings cascade
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return nil
}

// UpsertRating records a user's rating, replacing any earlier one, and refreshes the
// product aggregate in the same transaction (FOR UPDATE lock on the product row)
func (s *Store) UpsertRating(ctx context.Context, r *models.Rating) (*models.Product, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var id string
	err = tx.GetContext(ctx, &id, "SELECT id FROM products WHERE id = $1 FOR UPDATE", r.ProductID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", r.ProductID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock product: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO product_ratings (product_id, user_id, rating, review)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, user_id)
		DO UPDATE SET rating = EXCLUDED.rating, review = EXCLUDED.review, updated_at = NOW()`,
		r.ProductID, r.UserID, r.Rating, r.Review)
	if err != nil {
		return nil, fmt.Errorf("failed to save rating: %w", err)
	}

	var product models.Product
	err = tx.GetContext(ctx, &product, `
		UPDATE products SET
			average_rating = (SELECT COALESCE(AVG(rating), 0) FROM product_ratings WHERE product_id = $1),
			rating_count = (SELECT COUNT(*) FROM product_ratings WHERE product_id = $1),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+productColumns, r.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh rating aggregate: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &product, nil
}

// GetRatings lists reviews for a product, newest first
func (s *Store) GetRatings(ctx context.Context, productID string) ([]models.Rating, error) {
	ratings := []models.Rating{}
	err := s.db.SelectContext(ctx, &ratings, `
		SELECT product_id, user_id, rating, review, created_at, updated_at
		FROM product_ratings WHERE product_id = $1 ORDER BY updated_at DESC`, productID)
	return ratings, err
}
