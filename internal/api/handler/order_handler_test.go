package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/urbanthreads/storefront-api/internal/core/domain"
	"github.com/urbanthreads/storefront-api/internal/core/ports"
)

type stubOrderService struct {
	placeFn  func(ctx context.Context, userID string, items []ports.OrderItemInput) (*domain.Order, error)
	statusFn func(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
}

func (s *stubOrderService) PlaceOrder(ctx context.Context, userID string, items []ports.OrderItemInput) (*domain.Order, error) {
	return s.placeFn(ctx, userID, items)
}

func (s *stubOrderService) GetOrder(context.Context, string, *domain.Principal) (*domain.Order, error) {
	return nil, domain.ErrOrderNotFound
}

func (s *stubOrderService) ListOrders(context.Context, *domain.Principal) ([]*domain.Order, error) {
	return nil, nil
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	return s.statusFn(ctx, id, status)
}

func customer() *domain.Principal {
	return &domain.Principal{
		Identity: &domain.Identity{ID: "u1", Role: domain.RoleCustomer, Active: true},
		Role:     domain.RoleCustomer,
	}
}

func TestOrderHandler_Place_Success(t *testing.T) {
	svc := &stubOrderService{
		placeFn: func(_ context.Context, userID string, items []ports.OrderItemInput) (*domain.Order, error) {
			if userID != "u1" || len(items) != 2 {
				t.Fatalf("unexpected args: %s %v", userID, items)
			}
			return &domain.Order{ID: "o1", UserID: userID, Status: domain.OrderPending}, nil
		},
	}
	h := NewOrderHandler(svc)

	c, rec := newJSONContext(t, http.MethodPost, "/orders",
		`{"items":[{"product_id":"p1","quantity":2},{"product_id":"p2","quantity":1}]}`)
	c.Set("principal", customer())

	if err := h.Place(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestOrderHandler_Place_RequiresPrincipal(t *testing.T) {
	h := NewOrderHandler(&stubOrderService{})

	c, _ := newJSONContext(t, http.MethodPost, "/orders",
		`{"items":[{"product_id":"p1","quantity":1}]}`)

	if err := h.Place(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestOrderHandler_Place_RejectsEmptyItems(t *testing.T) {
	svc := &stubOrderService{
		placeFn: func(context.Context, string, []ports.OrderItemInput) (*domain.Order, error) {
			t.Fatal("service must not be called for an empty order")
			return nil, nil
		},
	}
	h := NewOrderHandler(svc)

	c, _ := newJSONContext(t, http.MethodPost, "/orders", `{"items":[]}`)
	c.Set("principal", customer())

	if err := h.Place(c); err == nil {
		t.Fatal("expected validation error for empty items")
	}
}

func TestOrderHandler_UpdateStatus_PropagatesTransitionError(t *testing.T) {
	svc := &stubOrderService{
		statusFn: func(_ context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
			if id != "o1" || status != domain.OrderDelivered {
				t.Fatalf("unexpected args: %s %s", id, status)
			}
			return nil, domain.ErrInvalidOrderTransition
		},
	}
	h := NewOrderHandler(svc)

	c, _ := newJSONContext(t, http.MethodPatch, "/admin/orders/o1/status", `{"status":"delivered"}`)
	c.SetParamNames("id")
	c.SetParamValues("o1")

	if err := h.UpdateStatus(c); !errors.Is(err, domain.ErrInvalidOrderTransition) {
		t.Fatalf("expected ErrInvalidOrderTransition, got %v", err)
	}
}
