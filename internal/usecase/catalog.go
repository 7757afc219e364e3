package usecase

import (
	"context"

	"github.com/polkiloo/fitinbox/internal/domain/model"
	"github.com/polkiloo/fitinbox/internal/domain/repository"
)

// CatalogUseCase exposes the products companies can order.
type CatalogUseCase struct {
	products repository.ProductCatalog
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(products repository.ProductCatalog) *CatalogUseCase {
	return &CatalogUseCase{products: products}
}

// ListProducts returns active products ordered by name.
func (u *CatalogUseCase) ListProducts(ctx context.Context) ([]model.Product, error) {
	return u.products.ListActive(ctx)
}
