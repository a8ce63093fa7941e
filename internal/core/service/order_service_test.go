package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/urbanthreads/storefront-api/internal/core/domain"
	"github.com/urbanthreads/storefront-api/internal/core/ports"
)

type stubProductRepo struct {
	byID map[string]*domain.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{byID: make(map[string]*domain.Product)}
}

func (r *stubProductRepo) FindAll(_ context.Context) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(r.byID))
	for _, p := range r.byID {
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	if p, ok := r.byID[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, domain.ErrProductNotFound
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) (*domain.Product, error) {
	clone := *p
	clone.ID = fmt.Sprintf("p_%d", len(r.byID)+1)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubProductRepo) Update(_ context.Context, p *domain.Product) (*domain.Product, error) {
	if _, ok := r.byID[p.ID]; !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	r.byID[p.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubOrderRepo struct {
	byID map[string]*domain.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{byID: make(map[string]*domain.Order)}
}

func (r *stubOrderRepo) FindByID(_ context.Context, id string) (*domain.Order, error) {
	if o, ok := r.byID[id]; ok {
		clone := *o
		return &clone, nil
	}
	return nil, domain.ErrOrderNotFound
}

func (r *stubOrderRepo) FindByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, o := range r.byID {
		if o.UserID == userID {
			clone := *o
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubOrderRepo) FindAll(_ context.Context) ([]*domain.Order, error) {
	out := make([]*domain.Order, 0, len(r.byID))
	for _, o := range r.byID {
		clone := *o
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubOrderRepo) Create(_ context.Context, o *domain.Order) (*domain.Order, error) {
	clone := *o
	clone.ID = fmt.Sprintf("o_%d", len(r.byID)+1)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now().UTC()
	clone := *o
	return &clone, nil
}

func customerPrincipal(id string) *domain.Principal {
	return &domain.Principal{
		Identity: &domain.Identity{ID: id, Role: domain.RoleCustomer, Active: true},
		Role:     domain.RoleCustomer,
	}
}

func adminPrincipal() *domain.Principal {
	return &domain.Principal{
		Identity: &domain.Identity{ID: "admin_1", Role: domain.RoleAdmin, Active: true},
		Role:     domain.RoleAdmin,
	}
}

func TestOrderService_PlaceOrder_PricesFromCatalog(t *testing.T) {
	products := newStubProductRepo()
	orders := newStubOrderRepo()
	svc := NewOrderService(orders, products, zerolog.Nop())

	shirt, _ := products.Create(context.Background(), &domain.Product{Name: "Shirt", Price: 25.5, Stock: 10})
	jeans, _ := products.Create(context.Background(), &domain.Product{Name: "Jeans", Price: 60, Stock: 5})

	order, err := svc.PlaceOrder(context.Background(), "user_1", []ports.OrderItemInput{
		{ProductID: shirt.ID, Quantity: 2},
		{ProductID: jeans.ID, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if order.TotalAmount != 111 {
		t.Fatalf("expected total 111, got %v", order.TotalAmount)
	}
	if order.Status != domain.OrderPending {
		t.Fatalf("expected pending, got %s", order.Status)
	}
	if len(order.Items) != 2 || order.Items[0].UnitPrice != 25.5 {
		t.Fatalf("unexpected items: %+v", order.Items)
	}
}

func TestOrderService_PlaceOrder_Validation(t *testing.T) {
	svc := NewOrderService(newStubOrderRepo(), newStubProductRepo(), zerolog.Nop())

	if _, err := svc.PlaceOrder(context.Background(), "user_1", nil); !errors.Is(err, domain.ErrEmptyOrder) {
		t.Fatalf("expected ErrEmptyOrder, got %v", err)
	}
	if _, err := svc.PlaceOrder(context.Background(), "user_1", []ports.OrderItemInput{{ProductID: "missing", Quantity: 1}}); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestOrderService_Ownership(t *testing.T) {
	products := newStubProductRepo()
	orders := newStubOrderRepo()
	svc := NewOrderService(orders, products, zerolog.Nop())

	shirt, _ := products.Create(context.Background(), &domain.Product{Name: "Shirt", Price: 10})
	order, err := svc.PlaceOrder(context.Background(), "user_1", []ports.OrderItemInput{{ProductID: shirt.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	if _, err := svc.GetOrder(context.Background(), order.ID, customerPrincipal("user_2")); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for other customer, got %v", err)
	}
	if _, err := svc.GetOrder(context.Background(), order.ID, customerPrincipal("user_1")); err != nil {
		t.Fatalf("owner must see own order: %v", err)
	}
	if _, err := svc.GetOrder(context.Background(), order.ID, adminPrincipal()); err != nil {
		t.Fatalf("admin must see any order: %v", err)
	}
}

func TestOrderService_UpdateStatus_Transitions(t *testing.T) {
	products := newStubProductRepo()
	orders := newStubOrderRepo()
	svc := NewOrderService(orders, products, zerolog.Nop())

	shirt, _ := products.Create(context.Background(), &domain.Product{Name: "Shirt", Price: 10})
	order, _ := svc.PlaceOrder(context.Background(), "user_1", []ports.OrderItemInput{{ProductID: shirt.ID, Quantity: 1}})

	if _, err := svc.UpdateStatus(context.Background(), order.ID, domain.OrderShipped); !errors.Is(err, domain.ErrInvalidOrderTransition) {
		t.Fatalf("pending -> shipped must be rejected, got %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), order.ID, domain.OrderPaid)
	if err != nil {
		t.Fatalf("pending -> paid failed: %v", err)
	}
	if updated.Status != domain.OrderPaid {
		t.Fatalf("expected paid, got %s", updated.Status)
	}
}
