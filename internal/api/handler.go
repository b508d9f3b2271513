package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/n190166/BiryaniJunction/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles the application services served over HTTP
type Services struct {
	Auth     *service.AuthService
	Catalog  *service.CatalogService
	Cart     *service.CartService
	Orders   *service.OrderService
	Contacts *service.ContactService
	Payments *service.PaymentService
	Admin    *service.AdminService
}

// Handler contains HTTP handlers
type Handler struct {
	svc     Services
	tokens  TokenVerifier
	timeout time.Duration
	checks  map[string]Pinger
}

// NewHandler creates a new HTTP handler. checks are probed by the readiness endpoint.
func NewHandler(svc Services, tokens TokenVerifier, timeout time.Duration, checks map[string]Pinger) *Handler {
	return &Handler{
		svc:     svc,
		tokens:  tokens,
		timeout: timeout,
		checks:  checks,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(requestLogger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/register", h.register)
		v1.POST("/auth/login", h.login)
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)
		v1.GET("/products/:id/ratings", h.listRatings)
		v1.POST("/contact", h.submitContact)
	}

	authed := v1.Group("", requireAuth(h.tokens))
	{
		authed.GET("/auth/me", h.me)
		authed.PATCH("/auth/me", h.updateProfile)

		authed.GET("/cart", h.getCart)
		authed.POST("/cart/items", h.addCartItem)
		authed.PATCH("/cart/items/:productId", h.setCartItem)
		authed.DELETE("/cart/items/:productId", h.removeCartItem)
		authed.DELETE("/cart", h.clearCart)

		authed.POST("/orders", h.placeOrder)
		authed.GET("/orders", h.listOrders)
		authed.GET("/orders/:id", h.getOrder)

		authed.POST("/products/:id/ratings", h.rateProduct)
		authed.POST("/payments/intent", h.createPaymentIntent)
	}

	admin := authed.Group("/admin", requireAdmin())
	{
		admin.POST("/products", h.createProduct)
		admin.PUT("/products/:id", h.updateProduct)
		admin.PATCH("/products/:id/availability", h.setAvailability)
		admin.DELETE("/products/:id", h.deleteProduct)

		admin.GET("/orders", h.listAllOrders)
		admin.GET("/orders/:id", h.getOrderAsAdmin)
		admin.PATCH("/orders/:id/status", h.updateOrderStatus)
		admin.PATCH("/orders/:id/payment", h.updatePaymentStatus)

		admin.GET("/contacts", h.listContacts)
		admin.PATCH("/contacts/:id", h.updateContact)
		admin.DELETE("/contacts/:id", h.deleteContact)

		admin.GET("/stats", h.stats)
	}
}

// opContext bounds one request's work by the configured operation timeout
func (h *Handler) opContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck probes every dependency
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := h.opContext(c)
	defer cancel()

	status := http.StatusOK
	deps := gin.H{}
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			deps[name] = err.Error()
			continue
		}
		deps[name] = "ok"
	}

	ready := "ready"
	if status != http.StatusOK {
		ready = "not_ready"
	}
	c.JSON(status, gin.H{
		"status":       ready,
		"dependencies": deps,
		"time":         time.Now().Unix(),
	})
}
