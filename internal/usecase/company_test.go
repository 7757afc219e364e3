package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/fitinbox/internal/domain/errors"
	"github.com/polkiloo/fitinbox/internal/domain/model"
	testhelpers "github.com/polkiloo/fitinbox/internal/test"
)

func TestRandomCNPJIsValid(t *testing.T) {
	for i := 0; i < 50; i++ {
		if cnpj := testhelpers.RandomCNPJ(); !ValidateCNPJ(cnpj) {
			t.Fatalf("generated CNPJ %q failed validation", cnpj)
		}
	}
}

func TestCompanyUseCaseRegister(t *testing.T) {
	repo := testhelpers.NewCompanyRepositoryStub()
	uc := NewCompanyUseCase(repo, testhelpers.HasherStub{}, discardLogger())
	cnpj := testhelpers.RandomCNPJ()
	formatted := cnpj[:2] + "." + cnpj[2:5] + "." + cnpj[5:8] + "/" + cnpj[8:12] + "-" + cnpj[12:]

	company, err := uc.Register(context.Background(), formatted, "  Beta Ltda ", "pw")
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	if company.CNPJ != cnpj || company.Name != "Beta Ltda" || company.Role != model.RoleCompany {
		t.Fatalf("unexpected company %+v", company)
	}
	if company.PasswordHash != "hash:pw" {
		t.Fatalf("password must be hashed, got %q", company.PasswordHash)
	}

	if _, err := uc.Register(context.Background(), cnpj, "Other", "pw"); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCompanyUseCaseRegisterValidation(t *testing.T) {
	uc := NewCompanyUseCase(testhelpers.NewCompanyRepositoryStub(), testhelpers.HasherStub{}, discardLogger())

	tests := []struct {
		name    string
		cnpj    string
		company string
		want    error
	}{
		{name: "bad check digit", cnpj: "11222333000182", company: "ACME", want: domainErrors.ErrInvalidCNPJ},
		{name: "repeated digits", cnpj: "11111111111111", company: "ACME", want: domainErrors.ErrInvalidCNPJ},
		{name: "short", cnpj: "1122233300018", company: "ACME", want: domainErrors.ErrInvalidCNPJ},
		{name: "blank name", cnpj: testhelpers.RandomCNPJ(), company: "   ", want: domainErrors.ErrInvalidCompanyName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.Register(context.Background(), tt.cnpj, tt.company, "pw"); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	hashErr := errors.New("hash failed")
	uc = NewCompanyUseCase(testhelpers.NewCompanyRepositoryStub(), testhelpers.HasherStub{
		HashFn: func(string) (string, error) { return "", hashErr },
	}, discardLogger())
	if _, err := uc.Register(context.Background(), testhelpers.RandomCNPJ(), "ACME", "pw"); !errors.Is(err, hashErr) {
		t.Fatalf("expected hash error, got %v", err)
	}
}

func TestCompanyUseCaseDelete(t *testing.T) {
	repo := testhelpers.NewCompanyRepositoryStub(
		model.Company{ID: "admin", CNPJ: validCNPJ, Name: "Fit In Box", Role: model.RoleAdmin},
		model.Company{ID: "company-7", CNPJ: testhelpers.RandomCNPJ(), Name: "ACME", Role: model.RoleCompany},
	)
	uc := NewCompanyUseCase(repo, testhelpers.HasherStub{}, discardLogger())

	if err := uc.Delete(context.Background(), "admin"); !errors.Is(err, domainErrors.ErrProtectedAccount) {
		t.Fatalf("expected ErrProtectedAccount, got %v", err)
	}
	if err := uc.Delete(context.Background(), "company-7"); err != nil {
		t.Fatalf("delete returned error: %v", err)
	}
	if err := uc.Delete(context.Background(), "company-7"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}

	companies, err := uc.List(context.Background())
	if err != nil || len(companies) != 1 || companies[0].ID != "admin" {
		t.Fatalf("expected only the admin to remain, got %+v err=%v", companies, err)
	}
}

func TestCompanyUseCaseEnsureAdmin(t *testing.T) {
	repo := testhelpers.NewCompanyRepositoryStub()
	uc := NewCompanyUseCase(repo, testhelpers.HasherStub{}, discardLogger())

	if err := uc.EnsureAdmin(context.Background(), "", "pw"); err != nil {
		t.Fatalf("blank credentials must skip bootstrap, got %v", err)
	}
	if len(repo.ByID) != 0 {
		t.Fatalf("nothing must be created without credentials")
	}

	if err := uc.EnsureAdmin(context.Background(), "11.222.333/0001-81", "admin-pw"); err != nil {
		t.Fatalf("ensure admin returned error: %v", err)
	}
	admin, err := repo.GetByCNPJ(context.Background(), validCNPJ)
	if err != nil || !admin.IsAdmin() || admin.PasswordHash != "hash:admin-pw" {
		t.Fatalf("expected admin account, got %+v err=%v", admin, err)
	}

	if err := uc.EnsureAdmin(context.Background(), validCNPJ, "other"); err != nil {
		t.Fatalf("second bootstrap must be a no-op, got %v", err)
	}
	if len(repo.ByID) != 1 {
		t.Fatalf("expected a single account, got %d", len(repo.ByID))
	}

	repo.Err = errors.New("db down")
	if err := uc.EnsureAdmin(context.Background(), validCNPJ, "pw"); err == nil {
		t.Fatal("expected lookup failure to surface")
	}
}
