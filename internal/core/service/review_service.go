package service

import (
	"context"
	"time"

	"github.com/urbanthreads/storefront-api/internal/core/domain"
	"github.com/urbanthreads/storefront-api/internal/core/ports"
)

// ReviewService implements product reviews with owner-or-admin deletion.
type ReviewService struct {
	reviews  ports.ReviewRepository
	products ports.ProductRepository
}

func NewReviewService(reviews ports.ReviewRepository, products ports.ProductRepository) *ReviewService {
	return &ReviewService{reviews: reviews, products: products}
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID string) ([]*domain.Review, error) {
	return s.reviews.FindByProduct(ctx, productID)
}

func (s *ReviewService) Create(ctx context.Context, productID string, principal *domain.Principal, rating int, comment string) (*domain.Review, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.reviews.Create(ctx, &domain.Review{
		ProductID: productID,
		UserID:    principal.Identity.ID,
		UserName:  principal.Identity.Name,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *ReviewService) Delete(ctx context.Context, id string, principal *domain.Principal) error {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if principal.Role != domain.RoleAdmin && review.UserID != principal.Identity.ID {
		return domain.ErrForbidden
	}
	return s.reviews.Delete(ctx, id)
}
