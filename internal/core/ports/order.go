package ports

import (
	"context"

	"github.com/urbanthreads/storefront-api/internal/core/domain"
)

type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	FindAll(ctx context.Context) ([]*domain.Order, error)
	Create(ctx context.Context, o *domain.Order) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

// StatsRepository aggregates the dashboard counters straight from the
// database (declarative pipeline, no in-process computation).
type StatsRepository interface {
	Collect(ctx context.Context) (*domain.StoreStats, error)
}

// OrderItemInput is one requested line in a new order.
type OrderItemInput struct {
	ProductID string
	Quantity  int
}

type OrderService interface {
	// PlaceOrder prices the requested items from the catalog and
	// persists the order for the given user.
	PlaceOrder(ctx context.Context, userID string, items []OrderItemInput) (*domain.Order, error)
	// GetOrder enforces ownership: customers only see their own orders,
	// admins see everything.
	GetOrder(ctx context.Context, id string, principal *domain.Principal) (*domain.Order, error)
	ListOrders(ctx context.Context, principal *domain.Principal) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}
