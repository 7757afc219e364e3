package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainErrors "github.com/polkiloo/fitinbox/internal/domain/errors"
	"github.com/polkiloo/fitinbox/internal/domain/model"
	"github.com/polkiloo/fitinbox/internal/domain/repository"
	pkgAuth "github.com/polkiloo/fitinbox/internal/pkg/auth"
)

// CompanyUseCase is the administrative management of company accounts.
type CompanyUseCase struct {
	companies repository.CompanyRepository
	hasher    pkgAuth.PasswordHasher
	logger    *slog.Logger
}

// NewCompanyUseCase constructs CompanyUseCase.
func NewCompanyUseCase(companies repository.CompanyRepository, hasher pkgAuth.PasswordHasher, logger *slog.Logger) *CompanyUseCase {
	return &CompanyUseCase{companies: companies, hasher: hasher, logger: logger}
}

// Register creates a company account that can place orders.
func (u *CompanyUseCase) Register(ctx context.Context, cnpj, name, password string) (*model.Company, error) {
	return u.create(ctx, cnpj, name, password, model.RoleCompany)
}

// List returns every registered account.
func (u *CompanyUseCase) List(ctx context.Context) ([]model.Company, error) {
	return u.companies.List(ctx)
}

// Delete removes a company account. Administrators are protected.
func (u *CompanyUseCase) Delete(ctx context.Context, id string) error {
	company, err := u.companies.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if company.IsAdmin() {
		return domainErrors.ErrProtectedAccount
	}
	return u.companies.Delete(ctx, id)
}

// EnsureAdmin creates the administrator account when it does not exist.
// Blank credentials disable the bootstrap.
func (u *CompanyUseCase) EnsureAdmin(ctx context.Context, cnpj, password string) error {
	if strings.TrimSpace(cnpj) == "" || password == "" {
		u.logger.Warn("admin bootstrap skipped: ADMIN_CNPJ or ADMIN_PASSWORD not set")
		return nil
	}

	_, err := u.companies.GetByCNPJ(ctx, NormalizeCNPJ(cnpj))
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, domainErrors.ErrNotFound):
		return fmt.Errorf("lookup admin: %w", err)
	}

	admin, err := u.create(ctx, cnpj, "Fit In Box", password, model.RoleAdmin)
	if errors.Is(err, domainErrors.ErrAlreadyExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	u.logger.Info("admin account created", slog.String("company_id", admin.ID))
	return nil
}

func (u *CompanyUseCase) create(ctx context.Context, cnpj, name, password string, role model.Role) (*model.Company, error) {
	if !ValidateCNPJ(cnpj) {
		return nil, domainErrors.ErrInvalidCNPJ
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainErrors.ErrInvalidCompanyName
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	return u.companies.Create(ctx, model.Company{
		CNPJ:         NormalizeCNPJ(cnpj),
		Name:         name,
		PasswordHash: hash,
		Role:         role,
	})
}
