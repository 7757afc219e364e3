package app

import (
	"context"

	"github.com/polkiloo/fitinbox/internal/domain/model"
	pkgAuth "github.com/polkiloo/fitinbox/internal/pkg/auth"
	"github.com/polkiloo/fitinbox/internal/usecase"
)

// OrderingFacade is the single entry point the HTTP layer talks to.
type OrderingFacade struct {
	auth      *usecase.AuthUseCase
	companies *usecase.CompanyUseCase
	catalog   *usecase.CatalogUseCase
	carts     *usecase.CartUseCase
	checkout  *usecase.CheckoutUseCase
	lifecycle *usecase.OrderLifecycle
	resolver  usecase.AddressResolver
}

// FacadeDeps groups the use cases behind the facade.
type FacadeDeps struct {
	Auth      *usecase.AuthUseCase
	Companies *usecase.CompanyUseCase
	Catalog   *usecase.CatalogUseCase
	Carts     *usecase.CartUseCase
	Checkout  *usecase.CheckoutUseCase
	Lifecycle *usecase.OrderLifecycle
	Resolver  usecase.AddressResolver
}

func NewOrderingFacade(d FacadeDeps) *OrderingFacade {
	return &OrderingFacade{
		auth:      d.Auth,
		companies: d.Companies,
		catalog:   d.Catalog,
		carts:     d.Carts,
		checkout:  d.Checkout,
		lifecycle: d.Lifecycle,
		resolver:  d.Resolver,
	}
}

func (f *OrderingFacade) Login(ctx context.Context, cnpj, password string) (*model.Company, string, error) {
	return f.auth.Authenticate(ctx, cnpj, password)
}

func (f *OrderingFacade) ParseToken(token string) (pkgAuth.Claims, error) {
	return f.auth.ParseToken(token)
}

func (f *OrderingFacade) Products(ctx context.Context) ([]model.Product, error) {
	return f.catalog.ListProducts(ctx)
}

func (f *OrderingFacade) LookupPostalCode(ctx context.Context, postalCode string) (model.Address, error) {
	return f.resolver.Lookup(ctx, postalCode)
}

func (f *OrderingFacade) Cart(ctx context.Context, companyID string) (*usecase.CartView, error) {
	return f.carts.Get(ctx, companyID)
}

func (f *OrderingFacade) AddToCart(ctx context.Context, companyID, productID string, quantity int) (*usecase.CartView, error) {
	return f.carts.AddItem(ctx, companyID, productID, quantity)
}

func (f *OrderingFacade) UpdateCartItem(ctx context.Context, companyID, productID string, quantity int) (*usecase.CartView, error) {
	return f.carts.UpdateQuantity(ctx, companyID, productID, quantity)
}

func (f *OrderingFacade) RemoveCartItem(ctx context.Context, companyID, productID string) (*usecase.CartView, error) {
	return f.carts.RemoveItem(ctx, companyID, productID)
}

func (f *OrderingFacade) ClearCart(ctx context.Context, companyID string) (*usecase.CartView, error) {
	return f.carts.Clear(ctx, companyID)
}

func (f *OrderingFacade) SetCartAddress(ctx context.Context, companyID string, address model.Address) (*usecase.CartView, error) {
	return f.carts.SetAddress(ctx, companyID, address)
}

func (f *OrderingFacade) LookupCartAddress(ctx context.Context, companyID, postalCode string) (*usecase.CartView, error) {
	return f.carts.LookupAddress(ctx, companyID, postalCode)
}

func (f *OrderingFacade) SetCartNotes(ctx context.Context, companyID, notes string) (*usecase.CartView, error) {
	return f.carts.SetNotes(ctx, companyID, notes)
}

func (f *OrderingFacade) SubmitOrder(ctx context.Context, companyID string) (*usecase.CheckoutResult, error) {
	return f.checkout.Submit(ctx, companyID)
}

func (f *OrderingFacade) CompanyOrders(ctx context.Context, companyID string) ([]model.Order, error) {
	return f.checkout.ListForCompany(ctx, companyID)
}

// AdminOrders lists the cached orders, all buckets when bucket is empty.
func (f *OrderingFacade) AdminOrders(bucket model.Bucket) []model.Order {
	if bucket == "" {
		return f.lifecycle.ListAll()
	}
	return f.lifecycle.ListBucket(bucket)
}

func (f *OrderingFacade) OrderStats() model.OrderStats {
	return f.lifecycle.Stats()
}

func (f *OrderingFacade) ReloadOrders(ctx context.Context) error {
	return f.lifecycle.Reload(ctx)
}

func (f *OrderingFacade) ChangeOrderStatus(ctx context.Context, ref model.OrderRef, status model.OrderStatus) (*model.StatusChange, error) {
	return f.lifecycle.ChangeStatus(ctx, ref, status)
}

func (f *OrderingFacade) DeleteOrder(ctx context.Context, ref model.OrderRef) (*model.Order, error) {
	return f.lifecycle.Delete(ctx, ref)
}

func (f *OrderingFacade) Companies(ctx context.Context) ([]model.Company, error) {
	return f.companies.List(ctx)
}

func (f *OrderingFacade) RegisterCompany(ctx context.Context, cnpj, name, password string) (*model.Company, error) {
	return f.companies.Register(ctx, cnpj, name, password)
}

func (f *OrderingFacade) DeleteCompany(ctx context.Context, id string) error {
	return f.companies.Delete(ctx, id)
}
