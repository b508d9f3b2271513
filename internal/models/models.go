package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents a menu item in the catalog
type Product struct {
	ID              string          `db:"id" json:"id"`
	Name            string          `db:"name" json:"name" validate:"required"`
	Description     string          `db:"description" json:"description" validate:"required"`
	Price           decimal.Decimal `db:"price" json:"price"`
	Image           string          `db:"image" json:"image"`
	Category        string          `db:"category" json:"category" validate:"required,category"`
	SpiceLevel      string          `db:"spice_level" json:"spice_level" validate:"required,spicelevel"`
	IsVegetarian    bool            `db:"is_vegetarian" json:"is_vegetarian"`
	IsAvailable     bool            `db:"is_available" json:"is_available"`
	PreparationTime int             `db:"preparation_time" json:"preparation_time" validate:"gte=1"`
	ServingSize     string          `db:"serving_size" json:"serving_size" validate:"required"`
	Ingredients     pq.StringArray  `db:"ingredients" json:"ingredients" validate:"min=1,dive,required"`
	AverageRating   float64         `db:"average_rating" json:"average_rating"`
	RatingCount     int             `db:"rating_count" json:"rating_count"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// Product categories
const (
	CategoryVegBiryani      = "Veg Biryani"
	CategoryNonVegBiryani   = "Non-Veg Biryani"
	CategoryRegionalBiryani = "Regional Biryani"
)

// Spice levels
const (
	SpiceMild       = "mild"
	SpiceMedium     = "medium"
	SpiceSpicy      = "spicy"
	SpiceExtraSpicy = "extra_spicy"
)

var (
	Categories  = []string{CategoryVegBiryani, CategoryNonVegBiryani, CategoryRegionalBiryani}
	SpiceLevels = []string{SpiceMild, SpiceMedium, SpiceSpicy, SpiceExtraSpicy}
)

// Rating is one user's review of a product. A user holds at most one per product.
type Rating struct {
	ProductID string    `db:"product_id" json:"product_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Rating    int       `db:"rating" json:"rating"`
	Review    string    `db:"review" json:"review"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ProductFilter narrows catalog listings
type ProductFilter struct {
	Category   string
	SpiceLevel string
	Vegetarian *bool
	Available  *bool
	SortField  string
	SortDesc   bool
	Page       int
	Limit      int
}

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered customer or administrator
type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Phone        string    `db:"phone" json:"phone"`
	Address      string    `db:"address" json:"address"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin capability
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CartLine is one product reference in a user's cart
type CartLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CartItem is a cart line priced against the current catalog
type CartItem struct {
	Product  *Product        `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Cart is the live, priced view of a user's shopping state
type Cart struct {
	UserID    string          `json:"user_id"`
	Items     []CartItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	LineCount int             `json:"line_count"`
}

// Contact message statuses
const (
	ContactStatusOpen       = "open"
	ContactStatusInProgress = "in_progress"
	ContactStatusClosed     = "closed"
)

// ContactMessage is a message submitted through the public contact form
type ContactMessage struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name" validate:"required"`
	Email     string    `db:"email" json:"email" validate:"required,email"`
	Subject   string    `db:"subject" json:"subject" validate:"required"`
	Message   string    `db:"message" json:"message" validate:"required"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StatusStat aggregates orders sharing a status
type StatusStat struct {
	Status  OrderStatus     `db:"status" json:"status"`
	Count   int             `db:"count" json:"count"`
	Revenue decimal.Decimal `db:"revenue" json:"revenue"`
}

// DashboardStats backs the admin dashboard
type DashboardStats struct {
	TotalOrders  int             `json:"total_orders"`
	Revenue      decimal.Decimal `json:"revenue"`
	ByStatus     []StatusStat    `json:"by_status"`
	Products     int             `json:"products"`
	OpenMessages int             `json:"open_messages"`
}
