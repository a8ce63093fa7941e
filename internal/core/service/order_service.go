package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/urbanthreads/storefront-api/internal/core/domain"
	"github.com/urbanthreads/storefront-api/internal/core/ports"
)

// OrderService implements order placement and back-office management.
type OrderService struct {
	orders   ports.OrderRepository
	products ports.ProductRepository
	log      zerolog.Logger
}

func NewOrderService(orders ports.OrderRepository, products ports.ProductRepository, log zerolog.Logger) *OrderService {
	return &OrderService{orders: orders, products: products, log: log}
}

// PlaceOrder prices each requested line against the current catalog and
// persists the order. The total is computed server-side; client-supplied
// prices are never trusted.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, items []ports.OrderItemInput) (*domain.Order, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	lines := make([]domain.OrderItem, 0, len(items))
	total := 0.0
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, domain.ErrEmptyOrder
		}
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("place order: %w", err)
		}
		lines = append(lines, domain.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
		total += product.Price * float64(item.Quantity)
	}

	now := time.Now().UTC()
	created, err := s.orders.Create(ctx, &domain.Order{
		UserID:      userID,
		Items:       lines,
		TotalAmount: total,
		Status:      domain.OrderPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("order_id", created.ID).Str("user_id", userID).Float64("total", total).Msg("order placed")
	return created, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string, principal *domain.Principal) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if principal.Role != domain.RoleAdmin && order.UserID != principal.Identity.ID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, principal *domain.Principal) ([]*domain.Order, error) {
	if principal.Role == domain.RoleAdmin {
		return s.orders.FindAll(ctx)
	}
	return s.orders.FindByUser(ctx, principal.Identity.ID)
}

func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidOrderTransition, order.Status, status)
	}
	return s.orders.UpdateStatus(ctx, id, status)
}
