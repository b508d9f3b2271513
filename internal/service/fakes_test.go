package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/n190166/BiryaniJunction/internal/models"
	"github.com/n190166/BiryaniJunction/internal/store"
	"github.com/shopspring/decimal"
)

type memOrders struct {
	mu     sync.Mutex
	orders map[string]*models.Order
	err    error
}

func newMemOrders() *memOrders {
	return &memOrders{orders: map[string]*models.Order{}}
}

func (m *memOrders) CreateOrder(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	o.CreatedAt = time.Now().Add(time.Duration(len(m.orders)) * time.Millisecond)
	o.UpdatedAt = o.CreatedAt
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *memOrders) GetOrderByID(_ context.Context, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, store.ErrNotFound)
	}
	cp := *o
	return &cp, nil
}

func (m *memOrders) sorted(keep func(*models.Order) bool) []models.Order {
	out := []models.Order{}
	for _, o := range m.orders {
		if keep(o) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memOrders) GetOrdersByUserID(_ context.Context, userID string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(o *models.Order) bool { return o.UserID == userID }), nil
}

func (m *memOrders) ListOrders(_ context.Context, f models.OrderFilter) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(o *models.Order) bool {
		if f.Status != "" && o.Status != f.Status {
			return false
		}
		if f.From != nil && o.CreatedAt.Before(*f.From) {
			return false
		}
		if f.To != nil && o.CreatedAt.After(*f.To) {
			return false
		}
		return true
	}), nil
}

func (m *memOrders) UpdateOrderStatus(_ context.Context, id string, status models.OrderStatus) (*models.Order, models.OrderStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, "", fmt.Errorf("order %s: %w", id, store.ErrNotFound)
	}
	previous := o.Status
	o.Status = status
	o.UpdatedAt = time.Now()
	cp := *o
	return &cp, previous, nil
}

func (m *memOrders) UpdatePaymentStatus(_ context.Context, id string, status models.PaymentStatus) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, store.ErrNotFound)
	}
	o.PaymentStatus = status
	cp := *o
	return &cp, nil
}

func (m *memOrders) OrderStatsByStatus(_ context.Context) ([]models.StatusStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	agg := map[models.OrderStatus]*models.StatusStat{}
	for _, o := range m.orders {
		st, ok := agg[o.Status]
		if !ok {
			st = &models.StatusStat{Status: o.Status, Revenue: decimal.Zero}
			agg[o.Status] = st
		}
		st.Count++
		st.Revenue = st.Revenue.Add(o.Total)
	}
	out := []models.StatusStat{}
	for _, st := range agg {
		out = append(out, *st)
	}
	return out, nil
}

type memProducts struct {
	mu       sync.Mutex
	products map[string]*models.Product
	ratings  map[string]map[string]models.Rating
}

func newMemProducts(products ...models.Product) *memProducts {
	m := &memProducts{products: map[string]*models.Product{}, ratings: map[string]map[string]models.Rating{}}
	for i := range products {
		p := products[i]
		m.products[p.ID] = &p
	}
	return m
}

func (m *memProducts) GetProductByID(_ context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, store.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (m *memProducts) ListProducts(_ context.Context, f models.ProductFilter) ([]models.Product, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Product{}
	for _, p := range m.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := len(out)
	start := (f.Page - 1) * f.Limit
	if start > total {
		start = total
	}
	end := start + f.Limit
	if end > total {
		end = total
	}
	return out[start:end], total, nil
}

func (m *memProducts) CountProducts(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.products), nil
}

func (m *memProducts) CreateProduct(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *memProducts) UpdateProduct(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return fmt.Errorf("product %s: %w", p.ID, store.ErrNotFound)
	}
	cp := *p
	m.products[p.ID] = &cp
	return nil
}

func (m *memProducts) SetProductAvailability(_ context.Context, id string, available bool) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, store.ErrNotFound)
	}
	p.IsAvailable = available
	cp := *p
	return &cp, nil
}

func (m *memProducts) DeleteProduct(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return fmt.Errorf("product %s: %w", id, store.ErrNotFound)
	}
	delete(m.products, id)
	return nil
}

func (m *memProducts) UpsertRating(_ context.Context, r *models.Rating) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[r.ProductID]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", r.ProductID, store.ErrNotFound)
	}
	if m.ratings[r.ProductID] == nil {
		m.ratings[r.ProductID] = map[string]models.Rating{}
	}
	m.ratings[r.ProductID][r.UserID] = *r

	sum := 0
	for _, rt := range m.ratings[r.ProductID] {
		sum += rt.Rating
	}
	p.RatingCount = len(m.ratings[r.ProductID])
	p.AverageRating = float64(sum) / float64(p.RatingCount)
	cp := *p
	return &cp, nil
}

func (m *memProducts) GetRatings(_ context.Context, productID string) ([]models.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Rating{}
	for _, r := range m.ratings[productID] {
		out = append(out, r)
	}
	return out, nil
}

type memCache struct {
	mu    sync.Mutex
	items map[string]models.Product
	err   error
}

func newMemCache() *memCache {
	return &memCache{items: map[string]models.Product{}}
}

func (c *memCache) GetCachedProduct(_ context.Context, id string) (*models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	p, ok := c.items[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (c *memCache) CacheProduct(_ context.Context, p *models.Product, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[p.ID] = *p
	return nil
}

func (c *memCache) InvalidateProduct(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	return nil
}

type memCarts struct {
	mu    sync.Mutex
	carts map[string]map[string]int
}

func newMemCarts() *memCarts {
	return &memCarts{carts: map[string]map[string]int{}}
}

func (m *memCarts) AddCartItem(_ context.Context, userID, productID string, quantity int) (int, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.carts[userID] == nil {
		m.carts[userID] = map[string]int{}
	}
	m.carts[userID][productID] += quantity
	return m.carts[userID][productID], len(m.carts[userID]), nil
}

func (m *memCarts) SetCartItem(_ context.Context, userID, productID string, quantity int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.carts[userID] == nil {
		m.carts[userID] = map[string]int{}
	}
	if quantity < 1 {
		delete(m.carts[userID], productID)
	} else {
		m.carts[userID][productID] = quantity
	}
	return len(m.carts[userID]), nil
}

func (m *memCarts) RemoveCartItem(_ context.Context, userID, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts[userID], productID)
	return nil
}

func (m *memCarts) ClearCart(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	return nil
}

func (m *memCarts) CartItems(_ context.Context, userID string) ([]models.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.CartLine{}
	for id, q := range m.carts[userID] {
		out = append(out, models.CartLine{ProductID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[string]*models.User{}}
}

func (m *memUsers) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return fmt.Errorf("email %s: %w", u.Email, store.ErrConflict)
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, store.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", email, store.ErrNotFound)
}

func (m *memUsers) UpdateUserProfile(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return fmt.Errorf("user %s: %w", u.ID, store.ErrNotFound)
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

type memContacts struct {
	mu   sync.Mutex
	msgs map[string]*models.ContactMessage
}

func newMemContacts() *memContacts {
	return &memContacts{msgs: map[string]*models.ContactMessage{}}
}

func (m *memContacts) CreateContact(_ context.Context, c *models.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.msgs[c.ID] = &cp
	return nil
}

func (m *memContacts) ListContacts(_ context.Context, status string) ([]models.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.ContactMessage{}
	for _, c := range m.msgs {
		if status == "" || c.Status == status {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memContacts) UpdateContactStatus(_ context.Context, id, status string) (*models.ContactMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.msgs[id]
	if !ok {
		return nil, fmt.Errorf("contact %s: %w", id, store.ErrNotFound)
	}
	c.Status = status
	cp := *c
	return &cp, nil
}

func (m *memContacts) DeleteContact(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.msgs[id]; !ok {
		return fmt.Errorf("contact %s: %w", id, store.ErrNotFound)
	}
	delete(m.msgs, id)
	return nil
}

func (m *memContacts) CountContacts(_ context.Context, status string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.msgs {
		if c.Status == status {
			n++
		}
	}
	return n, nil
}

// recordingNotifier captures events; it never fails the caller
type recordingNotifier struct {
	mu     sync.Mutex
	events []models.OrderEvent
}

func (r *recordingNotifier) Notify(_ context.Context, e models.OrderEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// failingDeliverer stands in for a broken mail relay
type failingDeliverer struct {
	mu    sync.Mutex
	calls int
}

func (f *failingDeliverer) Deliver(_ context.Context, _ models.OrderEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return errors.New("smtp: connection refused")
}

var errStoreDown = errors.New("connection refused")

func product(id, name, price string, available bool) models.Product {
	return models.Product{
		ID:              id,
		Name:            name,
		Description:     name + " cooked dum style",
		Price:           decimal.RequireFromString(price),
		Category:        models.CategoryVegBiryani,
		SpiceLevel:      models.SpiceMedium,
		IsVegetarian:    true,
		IsAvailable:     available,
		PreparationTime: 25,
		ServingSize:     "1 plate",
		Ingredients:     []string{"basmati rice", "vegetables"},
	}
}
