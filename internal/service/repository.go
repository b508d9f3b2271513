package service

import (
	"context"
	"time"

	"github.com/n190166/BiryaniJunction/internal/models"
)

// ProductRepository is the catalog persistence used by CatalogService
type ProductRepository interface {
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	ListProducts(ctx context.Context, f models.ProductFilter) ([]models.Product, int, error)
	CountProducts(ctx context.Context) (int, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	SetProductAvailability(ctx context.Context, id string, available bool) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	UpsertRating(ctx context.Context, r *models.Rating) (*models.Product, error)
	GetRatings(ctx context.Context, productID string) ([]models.Rating, error)
}

// ProductCache is a read-through cache in front of the catalog
type ProductCache interface {
	GetCachedProduct(ctx context.Context, productID string) (*models.Product, error)
	CacheProduct(ctx context.Context, product *models.Product, ttl time.Duration) error
	InvalidateProduct(ctx context.Context, productID string) error
}

// CartStore holds per-user cart lines with atomic increments
type CartStore interface {
	AddCartItem(ctx context.Context, userID, productID string, quantity int) (int, int, error)
	SetCartItem(ctx context.Context, userID, productID string, quantity int) (int, error)
	RemoveCartItem(ctx context.Context, userID, productID string) error
	ClearCart(ctx context.Context, userID string) error
	CartItems(ctx context.Context, userID string) ([]models.CartLine, error)
}

// ProductGetter resolves live product data
type ProductGetter interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// OrderRepository is the order persistence used by the lifecycle engine
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	GetOrdersByUserID(ctx context.Context, userID string) ([]models.Order, error)
	ListOrders(ctx context.Context, f models.OrderFilter) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) (*models.Order, models.OrderStatus, error)
	UpdatePaymentStatus(ctx context.Context, id string, status models.PaymentStatus) (*models.Order, error)
	OrderStatsByStatus(ctx context.Context) ([]models.StatusStat, error)
}

// UserRepository stores accounts
type UserRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, u *models.User) error
}

// ContactRepository stores contact form submissions
type ContactRepository interface {
	CreateContact(ctx context.Context, m *models.ContactMessage) error
	ListContacts(ctx context.Context, status string) ([]models.ContactMessage, error)
	UpdateContactStatus(ctx context.Context, id, status string) (*models.ContactMessage, error)
	DeleteContact(ctx context.Context, id string) error
	CountContacts(ctx context.Context, status string) (int, error)
}

// Notifier delivers lifecycle events on a best-effort side channel.
// Notify must not block on delivery and has no failure result.
type Notifier interface {
	Notify(ctx context.Context, event models.OrderEvent)
}
