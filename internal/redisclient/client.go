package redisclient

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/n190166/BiryaniJunction/internal/models"
)

//go:embed scripts/cart_add.lua
var cartAddScript string

//go:embed scripts/cart_set.lua
var cartSetScript string

type Client struct {
	rdb       *redis.Client
	cartTTL   time.Duration
	addScript *redis.Script
	setScript *redis.Script
}

// NewClient creates a new Redis client with Lua scripts loaded
func NewClient(addr, password string, db int, cartTTL time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewWithRedis(rdb, cartTTL), nil
}

// NewWithRedis wraps an existing connection
func NewWithRedis(rdb *redis.Client, cartTTL time.Duration) *Client {
	return &Client{
		rdb:       rdb,
		cartTTL:   cartTTL,
		addScript: redis.NewScript(cartAddScript),
		setScript: redis.NewScript(cartSetScript),
	}
}

// Ping checks connectivity
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// ttlSeconds rounds the cart TTL up to whole seconds; 0 means no expiry
func (c *Client) ttlSeconds() int {
	if c.cartTTL <= 0 {
		return 0
	}
	return int(math.Ceil(c.cartTTL.Seconds()))
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}

func productKey(productID string) string {
	return fmt.Sprintf("product:%s", productID)
}

// AddCartItem atomically increments the line for productID, creating it if absent.
// Returns the new line quantity and the number of lines in the cart.
func (c *Client) AddCartItem(ctx context.Context, userID, productID string, quantity int) (int, int, error) {
	result, err := c.addScript.Run(ctx, c.rdb, []string{cartKey(userID)},
		productID, quantity, c.ttlSeconds()).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("cart add script failed: %w", err)
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		return 0, 0, fmt.Errorf("unexpected script result type")
	}
	qty, ok1 := values[0].(int64)
	lines, ok2 := values[1].(int64)
	if !ok1 || !ok2 {
		return 0, 0, fmt.Errorf("unexpected script result type")
	}

	return int(qty), int(lines), nil
}

// SetCartItem overwrites the quantity of a line; a quantity below 1 removes it.
// Returns the number of lines left in the cart.
func (c *Client) SetCartItem(ctx context.Context, userID, productID string, quantity int) (int, error) {
	lines, err := c.setScript.Run(ctx, c.rdb, []string{cartKey(userID)},
		productID, quantity, c.ttlSeconds()).Int()
	if err != nil {
		return 0, fmt.Errorf("cart set script failed: %w", err)
	}
	return lines, nil
}

// RemoveCartItem deletes a line; removing an absent line is not an error
func (c *Client) RemoveCartItem(ctx context.Context, userID, productID string) error {
	return c.rdb.HDel(ctx, cartKey(userID), productID).Err()
}

// ClearCart drops the whole cart
func (c *Client) ClearCart(ctx context.Context, userID string) error {
	return c.rdb.Del(ctx, cartKey(userID)).Err()
}

// CartItems returns the raw cart lines ordered by product id
func (c *Client) CartItems(ctx context.Context, userID string) ([]models.CartLine, error) {
	result, err := c.rdb.HGetAll(ctx, cartKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	lines := make([]models.CartLine, 0, len(result))
	for productID, raw := range result {
		qty, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt cart line %s: %w", productID, err)
		}
		lines = append(lines, models.CartLine{ProductID: productID, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })

	return lines, nil
}

// GetCachedProduct returns a cached product, or nil on a cache miss
func (c *Client) GetCachedProduct(ctx context.Context, productID string) (*models.Product, error) {
	data, err := c.rdb.Get(ctx, productKey(productID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("failed to decode cached product: %w", err)
	}
	return &product, nil
}

// CacheProduct stores a product snapshot with TTL
func (c *Client) CacheProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, productKey(product.ID), data, ttl).Err()
}

// InvalidateProduct evicts a cached product
func (c *Client) InvalidateProduct(ctx context.Context, productID string) error {
	return c.rdb.Del(ctx, productKey(productID)).Err()
}
