package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/urbanthreads/storefront-api/internal/core/domain"
	"github.com/urbanthreads/storefront-api/internal/core/ports"
)

type stubOfferRepo struct {
	byID map[string]*domain.Offer
}

func newStubOfferRepo() *stubOfferRepo {
	return &stubOfferRepo{byID: make(map[string]*domain.Offer)}
}

func (r *stubOfferRepo) FindAll(_ context.Context) ([]*domain.Offer, error) {
	out := make([]*domain.Offer, 0, len(r.byID))
	for _, o := range r.byID {
		clone := *o
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubOfferRepo) FindByID(_ context.Context, id string) (*domain.Offer, error) {
	if o, ok := r.byID[id]; ok {
		clone := *o
		return &clone, nil
	}
	return nil, domain.ErrOfferNotFound
}

func (r *stubOfferRepo) Create(_ context.Context, o *domain.Offer) (*domain.Offer, error) {
	clone := *o
	clone.ID = fmt.Sprintf("of_%d", len(r.byID)+1)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubOfferRepo) Update(_ context.Context, o *domain.Offer) (*domain.Offer, error) {
	if _, ok := r.byID[o.ID]; !ok {
		return nil, domain.ErrOfferNotFound
	}
	clone := *o
	r.byID[o.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubOfferRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrOfferNotFound
	}
	delete(r.byID, id)
	return nil
}

func TestOfferService_ListLive(t *testing.T) {
	repo := newStubOfferRepo()
	svc := NewOfferService(repo)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	_, _ = svc.Create(context.Background(), ports.OfferInput{
		Title: "summer sale", DiscountPct: 20, Active: true,
		StartsAt: now.AddDate(0, 0, -1), EndsAt: now.AddDate(0, 0, 7),
	})
	_, _ = svc.Create(context.Background(), ports.OfferInput{
		Title: "expired", DiscountPct: 10, Active: true,
		StartsAt: now.AddDate(0, -1, 0), EndsAt: now.AddDate(0, 0, -2),
	})
	_, _ = svc.Create(context.Background(), ports.OfferInput{
		Title: "disabled", DiscountPct: 30, Active: false,
		StartsAt: now.AddDate(0, 0, -1), EndsAt: now.AddDate(0, 0, 7),
	})

	live, err := svc.ListLive(context.Background())
	if err != nil {
		t.Fatalf("list live failed: %v", err)
	}
	if len(live) != 1 || live[0].Title != "summer sale" {
		t.Fatalf("expected only the summer sale, got %+v", live)
	}
}
