package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/n190166/BiryaniJunction/internal/auth"
	"github.com/n190166/BiryaniJunction/internal/models"
	"github.com/n190166/BiryaniJunction/internal/service"
	"github.com/n190166/BiryaniJunction/internal/util"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const actorKey = "actor"

// Actor is the authenticated caller of a request
type Actor struct {
	UserID string
	Role   string
}

// IsAdmin reports the admin capability
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// TokenVerifier validates bearer tokens
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

func actorFrom(c *gin.Context) Actor {
	v, _ := c.Get(actorKey)
	actor, _ := v.(Actor)
	return actor
}

// requireAuth resolves the bearer token into an Actor or rejects the request
func requireAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if header == "" || token == "" || token == header {
			respondError(c, service.ErrUnauthorized)
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			respondError(c, service.ErrUnauthorized)
			return
		}

		c.Set(actorKey, Actor{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// requireAdmin is the single capability check for admin route groups
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !actorFrom(c).IsAdmin() {
			respondError(c, service.ErrForbidden)
			return
		}
		c.Next()
	}
}

// requestLogger opens the root span of a request and logs one line when it completes
func requestLogger() gin.HandlerFunc {
	logger := util.GetLogger()
	return func(c *gin.Context) {
		start := time.Now()
		ctx, span := util.StartSpan(c.Request.Context(), c.Request.Method+" "+c.FullPath())
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		span.SetAttributes(attribute.Int("http.status_code", c.Writer.Status()))
		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("trace_id", util.TraceID(ctx)))
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
