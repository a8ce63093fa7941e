package ports

import (
	"context"

	"github.com/urbanthreads/storefront-api/internal/core/domain"
)

type ReviewRepository interface {
	FindByProduct(ctx context.Context, productID string) ([]*domain.Review, error)
	FindByID(ctx context.Context, id string) (*domain.Review, error)
	Create(ctx context.Context, r *domain.Review) (*domain.Review, error)
	Delete(ctx context.Context, id string) error
}

type ReviewService interface {
	ListByProduct(ctx context.Context, productID string) ([]*domain.Review, error)
	Create(ctx context.Context, productID string, principal *domain.Principal, rating int, comment string) (*domain.Review, error)
	// Delete succeeds for the review owner or an admin; anyone else gets
	// ErrForbidden.
	Delete(ctx context.Context, id string, principal *domain.Principal) error
}
