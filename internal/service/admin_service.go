package service

import (
	"context"
	"fmt"

	"github.com/n190166/BiryaniJunction/internal/models"
	"github.com/n190166/BiryaniJunction/internal/util"
	"github.com/shopspring/decimal"
)

// AdminService aggregates the back-office dashboard
type AdminService struct {
	orders   OrderRepository
	catalog  *CatalogService
	contacts *ContactService
}

// NewAdminService creates a new admin service
func NewAdminService(orders OrderRepository, catalog *CatalogService, contacts *ContactService) *AdminService {
	return &AdminService{orders: orders, catalog: catalog, contacts: contacts}
}

// Stats summarizes orders per status, revenue from non-cancelled orders,
// catalog size and open contact messages
func (s *AdminService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	ctx, span := util.StartSpan(ctx, "AdminService.Stats")
	defer span.End()

	byStatus, err := s.orders.OrderStatsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate orders: %w", err)
	}

	stats := &models.DashboardStats{ByStatus: byStatus, Revenue: decimal.Zero}
	for _, st := range byStatus {
		stats.TotalOrders += st.Count
		if st.Status != models.OrderStatusCancelled {
			stats.Revenue = stats.Revenue.Add(st.Revenue)
		}
	}

	if stats.Products, err = s.catalog.CountProducts(ctx); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if stats.OpenMessages, err = s.contacts.CountOpen(ctx); err != nil {
		return nil, fmt.Errorf("failed to count contact messages: %w", err)
	}
	return stats, nil
}
