package api

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/n190166/BiryaniJunction/internal/models"
	"github.com/n190166/BiryaniJunction/internal/store"
)

type stubProducts struct {
	products map[string]*models.Product
}

func (s *stubProducts) GetProductByID(_ context.Context, id string) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, store.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (s *stubProducts) ListProducts(_ context.Context, f models.ProductFilter) ([]models.Product, int, error) {
	out := []models.Product{}
	for _, p := range s.products {
		if f.Category == "" || p.Category == f.Category {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (s *stubProducts) CountProducts(context.Context) (int, error) { return len(s.products), nil }

func (s *stubProducts) CreateProduct(_ context.Context, p *models.Product) error {
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *stubProducts) UpdateProduct(_ context.Context, p *models.Product) error {
	if _, ok := s.products[p.ID]; !ok {
		return store.ErrNotFound
	}
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *stubProducts) SetProductAvailability(_ context.Context, id string, available bool) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p.IsAvailable = available
	cp := *p
	return &cp, nil
}

func (s *stubProducts) DeleteProduct(_ context.Context, id string) error {
	if _, ok := s.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *stubProducts) UpsertRating(_ context.Context, r *models.Rating) (*models.Product, error) {
	return s.GetProductByID(context.Background(), r.ProductID)
}

func (s *stubProducts) GetRatings(context.Context, string) ([]models.Rating, error) {
	return []models.Rating{}, nil
}

type stubOrders struct {
	mu     sync.Mutex
	orders map[string]*models.Order
}

func (s *stubOrders) CreateOrder(_ context.Context, o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *o
	s.orders[o.ID] = &cp
	return nil
}

func (s *stubOrders) GetOrderByID(_ context.Context, id string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *stubOrders) GetOrdersByUserID(_ context.Context, userID string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Order{}
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *stubOrders) ListOrders(_ context.Context, f models.OrderFilter) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Order{}
	for _, o := range s.orders {
		if f.Status == "" || o.Status == f.Status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *stubOrders) UpdateOrderStatus(_ context.Context, id string, status models.OrderStatus) (*models.Order, models.OrderStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, "", store.ErrNotFound
	}
	previous := o.Status
	o.Status = status
	cp := *o
	return &cp, previous, nil
}

func (s *stubOrders) UpdatePaymentStatus(_ context.Context, id string, status models.PaymentStatus) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	o.PaymentStatus = status
	cp := *o
	return &cp, nil
}

func (s *stubOrders) OrderStatsByStatus(context.Context) ([]models.StatusStat, error) {
	return nil, nil
}

type recordedEvents struct {
	mu     sync.Mutex
	events []models.OrderEvent
}

func (r *recordedEvents) Notify(_ context.Context, event models.OrderEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordedEvents) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.EventType)
	}
	return out
}

type downPinger struct{ err error }

func (p downPinger) Ping(context.Context) error { return p.err }
