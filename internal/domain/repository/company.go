package repository

import (
	"context"

	"github.com/polkiloo/fitinbox/internal/domain/model"
)

// CompanyRepository describes persistence operations for company accounts.
type CompanyRepository interface {
	Create(ctx context.Context, company model.Company) (*model.Company, error)
	GetByCNPJ(ctx context.Context, cnpj string) (*model.Company, error)
	GetByID(ctx context.Context, id string) (*model.Company, error)
	List(ctx context.Context) ([]model.Company, error)
	Delete(ctx context.Context, id string) error
}
