package notification

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/n190166/BiryaniJunction/internal/models"
	"github.com/n190166/BiryaniJunction/internal/util"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFiles = map[string]string{
	models.EventTypeOrderPlaced:        "order_placed.html",
	models.EventTypeOrderStatusChanged: "order_status_changed.html",
}

// ErrNoRecipient is returned when the order owner has no email address
var ErrNoRecipient = errors.New("no recipient")

// Sender delivers one rendered message
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// UserDirectory resolves the recipient of an order event
type UserDirectory interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// MailerConfig tunes delivery
type MailerConfig struct {
	Brand         string
	MaxAttempts   int
	SendTimeout   time.Duration
	RetryInterval time.Duration
}

// Mailer renders order events to email and sends them with retries
type Mailer struct {
	users     UserDirectory
	sender    Sender
	templates *template.Template
	cfg       MailerConfig
	logger    *zap.Logger
}

// NewMailer parses the embedded templates
func NewMailer(users UserDirectory, sender Sender, cfg MailerConfig) (*Mailer, error) {
	funcs := template.FuncMap{
		"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
		"label": statusLabel,
	}
	tmpl, err := template.New("mail").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 500 * time.Millisecond
	}

	return &Mailer{
		users:     users,
		sender:    sender,
		templates: tmpl,
		cfg:       cfg,
		logger:    util.GetLogger(),
	}, nil
}

func statusLabel(s models.OrderStatus) string {
	words := strings.Split(string(s), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func (m *Mailer) subject(event models.OrderEvent) string {
	if event.EventType == models.EventTypeOrderPlaced {
		return fmt.Sprintf("%s: order %s received", m.cfg.Brand, event.Order.ID)
	}
	return fmt.Sprintf("%s: order %s is %s", m.cfg.Brand, event.Order.ID, statusLabel(event.Order.Status))
}

// Render produces the message body for an event
func (m *Mailer) Render(event models.OrderEvent, name string) (string, error) {
	file, ok := templateFiles[event.EventType]
	if !ok {
		return "", fmt.Errorf("no template for event %s", event.EventType)
	}

	var buf bytes.Buffer
	err := m.templates.ExecuteTemplate(&buf, file, map[string]interface{}{
		"Brand":          m.cfg.Brand,
		"Name":           name,
		"Order":          event.Order,
		"PreviousStatus": event.PreviousStatus,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", file, err)
	}
	return buf.String(), nil
}

// Deliver sends the notification for one event, retrying transient send failures
func (m *Mailer) Deliver(ctx context.Context, event models.OrderEvent) error {
	ctx, span := util.StartSpan(ctx, "Mailer.Deliver")
	defer span.End()

	start := time.Now()
	defer func() {
		util.NotificationLatency.Observe(time.Since(start).Seconds())
	}()

	user, err := m.users.GetUserByID(ctx, event.Order.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve recipient: %w", err)
	}
	if user.Email == "" {
		return ErrNoRecipient
	}

	body, err := m.Render(event, user.Name)
	if err != nil {
		return err
	}
	subject := m.subject(event)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = m.cfg.RetryInterval

	attempt := 0
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		sendCtx, cancel := context.WithTimeout(ctx, m.cfg.SendTimeout)
		defer cancel()

		if err := m.sender.Send(sendCtx, user.Email, subject, body); err != nil {
			m.logger.Warn("Notification send attempt failed",
				zap.String("order_id", event.Order.ID),
				zap.Int("attempt", attempt),
				zap.Error(err))
			return struct{}{}, err
		}
		return struct{}{}, nil
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(m.cfg.MaxAttempts)))

	return err
}
