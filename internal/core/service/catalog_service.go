package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/urbanthreads/storefront-api/internal/core/domain"
	"github.com/urbanthreads/storefront-api/internal/core/ports"
)

// CatalogService implements product and category management.
type CatalogService struct {
	products   ports.ProductRepository
	categories ports.CategoryRepository
	log        zerolog.Logger
}

func NewCatalogService(products ports.ProductRepository, categories ports.CategoryRepository, log zerolog.Logger) *CatalogService {
	return &CatalogService{products: products, categories: categories, log: log}
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.products.FindAll(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ports.CreateProductInput) (*domain.Product, error) {
	now := time.Now().UTC()
	created, err := s.products.Create(ctx, &domain.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    in.Category,
		Size:        in.Size,
		ImageURL:    in.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("product_id", created.ID).Str("name", created.Name).Msg("product created")
	return created, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ports.CreateProductInput) (*domain.Product, error) {
	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = in.Name
	existing.Description = in.Description
	existing.Price = in.Price
	existing.Stock = in.Stock
	existing.Category = in.Category
	existing.Size = in.Size
	existing.ImageURL = in.ImageURL
	existing.UpdatedAt = time.Now().UTC()

	return s.products.Update(ctx, existing)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.FindAll(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return s.categories.FindByID(ctx, id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, name, description string) (*domain.Category, error) {
	return s.categories.Create(ctx, &domain.Category{
		Name:        name,
		Description: description,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	})
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id, name, description string, active bool) (*domain.Category, error) {
	existing, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.Name = name
	existing.Description = description
	existing.Active = active

	return s.categories.Update(ctx, existing)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	return s.categories.Delete(ctx, id)
}
