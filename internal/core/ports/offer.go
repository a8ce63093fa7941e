package ports

import (
	"context"
	"time"

	"github.com/urbanthreads/storefront-api/internal/core/domain"
)

type OfferRepository interface {
	FindAll(ctx context.Context) ([]*domain.Offer, error)
	FindByID(ctx context.Context, id string) (*domain.Offer, error)
	Create(ctx context.Context, o *domain.Offer) (*domain.Offer, error)
	Update(ctx context.Context, o *domain.Offer) (*domain.Offer, error)
	Delete(ctx context.Context, id string) error
}

// OfferInput carries the admin-supplied offer fields.
type OfferInput struct {
	Title       string
	Description string
	DiscountPct float64
	ProductIDs  []string
	StartsAt    time.Time
	EndsAt      time.Time
	Active      bool
}

type OfferService interface {
	ListAll(ctx context.Context) ([]*domain.Offer, error)
	ListLive(ctx context.Context) ([]*domain.Offer, error)
	Get(ctx context.Context, id string) (*domain.Offer, error)
	Create(ctx context.Context, in OfferInput) (*domain.Offer, error)
	Update(ctx context.Context, id string, in OfferInput) (*domain.Offer, error)
	Delete(ctx context.Context, id string) error
}
