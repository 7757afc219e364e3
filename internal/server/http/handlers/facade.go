package handlers

import (
	"context"

	"github.com/polkiloo/fitinbox/internal/domain/model"
	pkgAuth "github.com/polkiloo/fitinbox/internal/pkg/auth"
	"github.com/polkiloo/fitinbox/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Login(ctx context.Context, cnpj, password string) (*model.Company, string, error)
	ParseToken(token string) (pkgAuth.Claims, error)
}

// CatalogFacade exposes products and postal code lookups.
type CatalogFacade interface {
	Products(ctx context.Context) ([]model.Product, error)
	LookupPostalCode(ctx context.Context, postalCode string) (model.Address, error)
}

// CartFacade manages the cart of the authenticated company.
type CartFacade interface {
	Cart(ctx context.Context, companyID string) (*usecase.CartView, error)
	AddToCart(ctx context.Context, companyID, productID string, quantity int) (*usecase.CartView, error)
	UpdateCartItem(ctx context.Context, companyID, productID string, quantity int) (*usecase.CartView, error)
	RemoveCartItem(ctx context.Context, companyID, productID string) (*usecase.CartView, error)
	ClearCart(ctx context.Context, companyID string) (*usecase.CartView, error)
	SetCartAddress(ctx context.Context, companyID string, address model.Address) (*usecase.CartView, error)
	LookupCartAddress(ctx context.Context, companyID, postalCode string) (*usecase.CartView, error)
	SetCartNotes(ctx context.Context, companyID, notes string) (*usecase.CartView, error)
}

// OrderFacade submits and lists the orders of a company.
type OrderFacade interface {
	SubmitOrder(ctx context.Context, companyID string) (*usecase.CheckoutResult, error)
	CompanyOrders(ctx context.Context, companyID string) ([]model.Order, error)
}

// AdminFacade covers the administrator screens.
type AdminFacade interface {
	AdminOrders(bucket model.Bucket) []model.Order
	OrderStats() model.OrderStats
	ReloadOrders(ctx context.Context) error
	ChangeOrderStatus(ctx context.Context, ref model.OrderRef, status model.OrderStatus) (*model.StatusChange, error)
	DeleteOrder(ctx context.Context, ref model.OrderRef) (*model.Order, error)
	Companies(ctx context.Context) ([]model.Company, error)
	RegisterCompany(ctx context.Context, cnpj, name, password string) (*model.Company, error)
	DeleteCompany(ctx context.Context, id string) error
}

// OrderingFacade aggregates the full set of operations used across handlers.
type OrderingFacade interface {
	AuthFacade
	CatalogFacade
	CartFacade
	OrderFacade
	AdminFacade
}
