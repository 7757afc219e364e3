package repository

import (
	"context"

	"github.com/polkiloo/fitinbox/internal/domain/model"
)

// ProductCatalog gives read access to the products that can be ordered.
type ProductCatalog interface {
	ListActive(ctx context.Context) ([]model.Product, error)
	GetByID(ctx context.Context, id string) (*model.Product, error)
}
