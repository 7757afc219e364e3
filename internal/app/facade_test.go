package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/fitinbox/internal/domain/errors"
	"github.com/polkiloo/fitinbox/internal/domain/model"
	testhelpers "github.com/polkiloo/fitinbox/internal/test"
	"github.com/polkiloo/fitinbox/internal/usecase"
)

const companyCNPJ = "45723174000110"

type facadeFixture struct {
	facade    *OrderingFacade
	companies *testhelpers.CompanyRepositoryStub
	orders    *testhelpers.OrderRepositoryStub
	publisher *testhelpers.PublisherStub
}

func newFacadeFixture() facadeFixture {
	f := facadeFixture{
		companies: testhelpers.NewCompanyRepositoryStub(model.Company{
			ID:           "company-acme",
			CNPJ:         companyCNPJ,
			Name:         "ACME",
			PasswordHash: "hash:secret",
			Role:         model.RoleCompany,
		}),
		orders:    testhelpers.NewOrderRepositoryStub(),
		publisher: &testhelpers.PublisherStub{},
	}
	catalog := &testhelpers.ProductCatalogStub{Products: []model.Product{
		{ID: "meal-1", Name: "Frango grelhado", Price: decimal.RequireFromString("2.00"), Active: true},
	}}
	resolver := &testhelpers.ResolverStub{LookupFn: func(_ context.Context, cep string) (model.Address, error) {
		if cep == "00000000" {
			return model.Address{}, domainErrors.ErrPostalCodeNotFound
		}
		return model.Address{PostalCode: cep, Street: "Av. Paulista", Neighborhood: "Bela Vista", City: "Sao Paulo", State: "SP"}, nil
	}}
	builder := usecase.NewOrderBuilder(30, model.DefaultPricingPolicy(), &testhelpers.NumberGeneratorStub{Last: 999})
	carts := usecase.NewCartUseCase(testhelpers.NewKeyValueStoreStub(), catalog, resolver, builder)
	lifecycle := usecase.NewOrderLifecycle(f.orders, f.publisher, nil, time.UTC, discardLogger())

	f.facade = NewOrderingFacade(FacadeDeps{
		Auth:      usecase.NewAuthUseCase(f.companies, testhelpers.HasherStub{}, testhelpers.StrategyStub{}),
		Companies: usecase.NewCompanyUseCase(f.companies, testhelpers.HasherStub{}, discardLogger()),
		Catalog:   usecase.NewCatalogUseCase(catalog),
		Carts:     carts,
		Checkout: usecase.NewCheckoutUseCase(usecase.CheckoutDeps{
			Carts:         carts,
			Builder:       builder,
			Orders:        f.orders,
			Companies:     f.companies,
			Lifecycle:     lifecycle,
			Events:        f.publisher,
			WhatsAppPhone: "5511999990000",
			Logger:        discardLogger(),
		}),
		Lifecycle: lifecycle,
		Resolver:  resolver,
	})
	return f
}

func TestOrderingFacadeAuth(t *testing.T) {
	f := newFacadeFixture()
	ctx := context.Background()

	company, token, err := f.facade.Login(ctx, companyCNPJ, "secret")
	if err != nil || company.ID != "company-acme" {
		t.Fatalf("login: company=%+v err=%v", company, err)
	}
	claims, err := f.facade.ParseToken(token)
	if err != nil || claims.CompanyID != "company-acme" || claims.Role != string(model.RoleCompany) {
		t.Fatalf("unexpected claims %+v err=%v", claims, err)
	}
	if _, _, err := f.facade.Login(ctx, companyCNPJ, "wrong"); !errors.Is(err, domainErrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestOrderingFacadeCartToAdmin(t *testing.T) {
	f := newFacadeFixture()
	ctx := context.Background()

	products, err := f.facade.Products(ctx)
	if err != nil || len(products) != 1 {
		t.Fatalf("products: %+v err=%v", products, err)
	}

	if _, err := f.facade.AddToCart(ctx, "company-acme", "meal-1", 10); err != nil {
		t.Fatalf("add: %v", err)
	}
	view, err := f.facade.UpdateCartItem(ctx, "company-acme", "meal-1", 30)
	if err != nil || view.TotalUnits != 30 {
		t.Fatalf("update: view=%+v err=%v", view, err)
	}
	if _, err := f.facade.SetCartAddress(ctx, "company-acme", model.Address{Number: "1000"}); err != nil {
		t.Fatalf("address: %v", err)
	}
	view, err = f.facade.LookupCartAddress(ctx, "company-acme", "01310-100")
	if err != nil || view.Session.Address.City != "Sao Paulo" || view.Session.Address.Number != "1000" {
		t.Fatalf("lookup: view=%+v err=%v", view, err)
	}
	if _, err := f.facade.SetCartNotes(ctx, "company-acme", "  portaria  "); err != nil {
		t.Fatalf("notes: %v", err)
	}

	result, err := f.facade.SubmitOrder(ctx, "company-acme")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Order.Number != 1000 || result.WhatsAppURL == "" {
		t.Fatalf("unexpected result %+v", result)
	}

	mine, err := f.facade.CompanyOrders(ctx, "company-acme")
	if err != nil || len(mine) != 1 {
		t.Fatalf("company orders: %+v err=%v", mine, err)
	}

	if got := f.facade.AdminOrders(""); len(got) != 1 {
		t.Fatalf("expected the new order in the admin list, got %d", len(got))
	}
	if got := f.facade.AdminOrders(model.BucketFinalized); len(got) != 0 {
		t.Fatalf("expected no finalized orders, got %d", len(got))
	}

	change, err := f.facade.ChangeOrderStatus(ctx, model.RefByNumber(1000), model.OrderStatusDelivered)
	if err != nil || change.Bucket != model.BucketFinalized {
		t.Fatalf("change status: %+v err=%v", change, err)
	}
	if stats := f.facade.OrderStats(); stats.TotalOrders != 1 || !stats.TotalSales.Equal(decimal.RequireFromString("60")) {
		t.Fatalf("unexpected stats %+v", stats)
	}

	if _, err := f.facade.DeleteOrder(ctx, model.RefByID(result.Order.ID)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.facade.ReloadOrders(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := f.facade.AdminOrders(""); len(got) != 0 {
		t.Fatalf("expected empty list after delete, got %d", len(got))
	}

	view, err = f.facade.RemoveCartItem(ctx, "company-acme", "meal-1")
	if err != nil || view.TotalUnits != 0 {
		t.Fatalf("remove: %+v err=%v", view, err)
	}
	if _, err := f.facade.ClearCart(ctx, "company-acme"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if view, _ := f.facade.Cart(ctx, "company-acme"); view.Session.Address.City != "Sao Paulo" {
		t.Fatalf("clearing the cart must keep the address")
	}
}

func TestOrderingFacadePostalCodeAndCompanies(t *testing.T) {
	f := newFacadeFixture()
	ctx := context.Background()

	addr, err := f.facade.LookupPostalCode(ctx, "01310100")
	if err != nil || addr.Street != "Av. Paulista" {
		t.Fatalf("lookup: %+v err=%v", addr, err)
	}
	if _, err := f.facade.LookupPostalCode(ctx, "00000000"); !errors.Is(err, domainErrors.ErrPostalCodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	created, err := f.facade.RegisterCompany(ctx, adminCNPJ, "Beta Ltda", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	list, err := f.facade.Companies(ctx)
	if err != nil || len(list) != 2 {
		t.Fatalf("companies: %+v err=%v", list, err)
	}
	if err := f.facade.DeleteCompany(ctx, created.ID); err != nil {
		t.Fatalf("delete company: %v", err)
	}
}
