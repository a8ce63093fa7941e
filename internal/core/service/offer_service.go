package service

import (
	"context"
	"time"

	"github.com/urbanthreads/storefront-api/internal/core/domain"
	"github.com/urbanthreads/storefront-api/internal/core/ports"
)

// OfferService implements discount offer management.
type OfferService struct {
	offers ports.OfferRepository
	now    func() time.Time
}

func NewOfferService(offers ports.OfferRepository) *OfferService {
	return &OfferService{offers: offers, now: time.Now}
}

func (s *OfferService) ListAll(ctx context.Context) ([]*domain.Offer, error) {
	return s.offers.FindAll(ctx)
}

// ListLive returns only offers currently applicable on the storefront.
func (s *OfferService) ListLive(ctx context.Context) ([]*domain.Offer, error) {
	all, err := s.offers.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	at := s.now().UTC()
	live := make([]*domain.Offer, 0, len(all))
	for _, o := range all {
		if o.Live(at) {
			live = append(live, o)
		}
	}
	return live, nil
}

func (s *OfferService) Get(ctx context.Context, id string) (*domain.Offer, error) {
	return s.offers.FindByID(ctx, id)
}

func (s *OfferService) Create(ctx context.Context, in ports.OfferInput) (*domain.Offer, error) {
	return s.offers.Create(ctx, &domain.Offer{
		Title:       in.Title,
		Description: in.Description,
		DiscountPct: in.DiscountPct,
		ProductIDs:  in.ProductIDs,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
		Active:      in.Active,
		CreatedAt:   s.now().UTC(),
	})
}

func (s *OfferService) Update(ctx context.Context, id string, in ports.OfferInput) (*domain.Offer, error) {
	existing, err := s.offers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Title = in.Title
	existing.Description = in.Description
	existing.DiscountPct = in.DiscountPct
	existing.ProductIDs = in.ProductIDs
	existing.StartsAt = in.StartsAt
	existing.EndsAt = in.EndsAt
	existing.Active = in.Active

	return s.offers.Update(ctx, existing)
}

func (s *OfferService) Delete(ctx context.Context, id string) error {
	return s.offers.Delete(ctx, id)
}
