package usecase

import (
	"context"
	"errors"

	domainErrors "github.com/polkiloo/fitinbox/internal/domain/errors"
	"github.com/polkiloo/fitinbox/internal/domain/model"
	"github.com/polkiloo/fitinbox/internal/domain/repository"
	pkgAuth "github.com/polkiloo/fitinbox/internal/pkg/auth"
)

// AuthUseCase logs companies in by CNPJ and manages session tokens.
type AuthUseCase struct {
	companies repository.CompanyRepository
	hasher    pkgAuth.PasswordHasher
	tokens    pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(companies repository.CompanyRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{companies: companies, hasher: hasher, tokens: strategy}
}

// Authenticate validates credentials and returns a session token.
func (u *AuthUseCase) Authenticate(ctx context.Context, cnpj, password string) (*model.Company, string, error) {
	if !ValidateCNPJ(cnpj) {
		return nil, "", domainErrors.ErrInvalidCNPJ
	}
	if password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	company, err := u.companies.GetByCNPJ(ctx, NormalizeCNPJ(cnpj))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(company.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(company.ID, string(company.Role))
	if err != nil {
		return nil, "", err
	}

	return company, token, nil
}

// ParseToken returns the claims carried by a session token.
func (u *AuthUseCase) ParseToken(token string) (pkgAuth.Claims, error) {
	if token == "" {
		return pkgAuth.Claims{}, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByID fetches a company by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id string) (*model.Company, error) {
	return u.companies.GetByID(ctx, id)
}
