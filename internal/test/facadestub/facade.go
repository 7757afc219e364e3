// Package facadestub provides an in-memory OrderingFacade for HTTP tests.
package facadestub

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/fitinbox/internal/domain/model"
	pkgAuth "github.com/polkiloo/fitinbox/internal/pkg/auth"
	"github.com/polkiloo/fitinbox/internal/usecase"
)

// SampleOrder is the order returned by OrderingFacadeStub defaults.
func SampleOrder() model.Order {
	created := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	return model.Order{
		ID:          "order-1",
		Number:      1000,
		CompanyID:   "company-7",
		CompanyName: "ACME",
		Items: []model.LineItem{
			{ProductID: "meal-1", Name: "Frango grelhado", UnitPrice: decimal.RequireFromString("2"), Quantity: 30},
		},
		Subtotal:        decimal.RequireFromString("60"),
		DeliveryFee:     decimal.Zero,
		Total:           decimal.RequireFromString("60"),
		Address:         "Av. Paulista, 1000 - Bela Vista, Sao Paulo/SP - CEP: 01310-100",
		Status:          model.OrderStatusSubmitted,
		CreatedAt:       created,
		StatusUpdatedAt: created,
		Revision:        1,
	}
}

// SampleCartView is the cart returned by OrderingFacadeStub defaults.
func SampleCartView() *usecase.CartView {
	session := model.CartSession{
		Cart: model.Cart{Items: []model.LineItem{
			{ProductID: "meal-1", Name: "Frango grelhado", UnitPrice: decimal.RequireFromString("2"), Quantity: 10},
		}},
		Address: model.Address{PostalCode: "01310100", City: "Sao Paulo"},
	}
	return &usecase.CartView{
		Session:      session,
		TotalUnits:   10,
		Subtotal:     decimal.RequireFromString("20"),
		DeliveryFee:  decimal.RequireFromString("5"),
		Total:        decimal.RequireFromString("25"),
		MinimumUnits: 30,
		MissingUnits: 20,
	}
}

// CartCall records the arguments of a cart mutation.
type CartCall struct {
	Op        string
	CompanyID string
	ProductID string
	Quantity  int
	Value     string
	Address   model.Address
}

// OrderingFacadeStub implements every facade operation used by handlers.
// Fn overrides take precedence; otherwise the Sample values are returned.
type OrderingFacadeStub struct {
	LoginFn       func(context.Context, string, string) (*model.Company, string, error)
	Claims        pkgAuth.Claims
	ParseErr      error
	ProductsFn    func(context.Context) ([]model.Product, error)
	PostalCodeFn  func(context.Context, string) (model.Address, error)
	CartErr       error
	SubmitFn      func(context.Context, string) (*usecase.CheckoutResult, error)
	OrdersFn      func(context.Context, string) ([]model.Order, error)
	AdminOrdersFn func(model.Bucket) []model.Order
	ReloadErr     error
	ChangeFn      func(context.Context, model.OrderRef, model.OrderStatus) (*model.StatusChange, error)
	DeleteFn      func(context.Context, model.OrderRef) (*model.Order, error)
	CompaniesFn   func(context.Context) ([]model.Company, error)
	RegisterFn    func(context.Context, string, string, string) (*model.Company, error)
	DeleteCompErr error

	CartCalls []CartCall
}

func (s *OrderingFacadeStub) Login(ctx context.Context, cnpj, password string) (*model.Company, string, error) {
	if s.LoginFn != nil {
		return s.LoginFn(ctx, cnpj, password)
	}
	return &model.Company{ID: "company-7", Name: "ACME", Role: model.RoleCompany}, "token", nil
}

func (s *OrderingFacadeStub) ParseToken(string) (pkgAuth.Claims, error) {
	if s.ParseErr != nil {
		return pkgAuth.Claims{}, s.ParseErr
	}
	if s.Claims.CompanyID == "" {
		return pkgAuth.Claims{CompanyID: "company-7", Role: string(model.RoleCompany)}, nil
	}
	return s.Claims, nil
}

func (s *OrderingFacadeStub) Products(ctx context.Context) ([]model.Product, error) {
	if s.ProductsFn != nil {
		return s.ProductsFn(ctx)
	}
	return []model.Product{{ID: "meal-1", Name: "Frango grelhado", Price: decimal.RequireFromString("2"), Active: true}}, nil
}

func (s *OrderingFacadeStub) LookupPostalCode(ctx context.Context, postalCode string) (model.Address, error) {
	if s.PostalCodeFn != nil {
		return s.PostalCodeFn(ctx, postalCode)
	}
	return model.Address{PostalCode: postalCode, Street: "Av. Paulista", City: "Sao Paulo", State: "SP"}, nil
}

func (s *OrderingFacadeStub) cart(call CartCall) (*usecase.CartView, error) {
	s.CartCalls = append(s.CartCalls, call)
	if s.CartErr != nil {
		return nil, s.CartErr
	}
	return SampleCartView(), nil
}

func (s *OrderingFacadeStub) Cart(_ context.Context, companyID string) (*usecase.CartView, error) {
	return s.cart(CartCall{Op: "get", CompanyID: companyID})
}

func (s *OrderingFacadeStub) AddToCart(_ context.Context, companyID, productID string, quantity int) (*usecase.CartView, error) {
	return s.cart(CartCall{Op: "add", CompanyID: companyID, ProductID: productID, Quantity: quantity})
}

func (s *OrderingFacadeStub) UpdateCartItem(_ context.Context, companyID, productID string, quantity int) (*usecase.CartView, error) {
	return s.cart(CartCall{Op: "update", CompanyID: companyID, ProductID: productID, Quantity: quantity})
}

func (s *OrderingFacadeStub) RemoveCartItem(_ context.Context, companyID, productID string) (*usecase.CartView, error) {
	return s.cart(CartCall{Op: "remove", CompanyID: companyID, ProductID: productID})
}

func (s *OrderingFacadeStub) ClearCart(_ context.Context, companyID string) (*usecase.CartView, error) {
	return s.cart(CartCall{Op: "clear", CompanyID: companyID})
}

func (s *OrderingFacadeStub) SetCartAddress(_ context.Context, companyID string, address model.Address) (*usecase.CartView, error) {
	return s.cart(CartCall{Op: "address", CompanyID: companyID, Address: address})
}

func (s *OrderingFacadeStub) LookupCartAddress(_ context.Context, companyID, postalCode string) (*usecase.CartView, error) {
	return s.cart(CartCall{Op: "lookup", CompanyID: companyID, Value: postalCode})
}

func (s *OrderingFacadeStub) SetCartNotes(_ context.Context, companyID, notes string) (*usecase.CartView, error) {
	return s.cart(CartCall{Op: "notes", CompanyID: companyID, Value: notes})
}

func (s *OrderingFacadeStub) SubmitOrder(ctx context.Context, companyID string) (*usecase.CheckoutResult, error) {
	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, companyID)
	}
	return &usecase.CheckoutResult{Order: SampleOrder(), Message: "Pedido #1000", WhatsAppURL: "https://wa.me/5511999990000?text=Pedido"}, nil
}

func (s *OrderingFacadeStub) CompanyOrders(ctx context.Context, companyID string) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, companyID)
	}
	return []model.Order{SampleOrder()}, nil
}

func (s *OrderingFacadeStub) AdminOrders(bucket model.Bucket) []model.Order {
	if s.AdminOrdersFn != nil {
		return s.AdminOrdersFn(bucket)
	}
	return []model.Order{SampleOrder()}
}

func (s *OrderingFacadeStub) OrderStats() model.OrderStats {
	return model.OrderStats{TotalOrders: 1, TotalSales: decimal.RequireFromString("60"), TodayOrders: 1}
}

func (s *OrderingFacadeStub) ReloadOrders(context.Context) error {
	return s.ReloadErr
}

func (s *OrderingFacadeStub) ChangeOrderStatus(ctx context.Context, ref model.OrderRef, status model.OrderStatus) (*model.StatusChange, error) {
	if s.ChangeFn != nil {
		return s.ChangeFn(ctx, ref, status)
	}
	order := SampleOrder()
	previous := order.Status
	order.Status = status
	return &model.StatusChange{Order: order, Previous: previous, Bucket: model.BucketOf(status), Changed: previous != status}, nil
}

func (s *OrderingFacadeStub) DeleteOrder(ctx context.Context, ref model.OrderRef) (*model.Order, error) {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, ref)
	}
	order := SampleOrder()
	return &order, nil
}

func (s *OrderingFacadeStub) Companies(ctx context.Context) ([]model.Company, error) {
	if s.CompaniesFn != nil {
		return s.CompaniesFn(ctx)
	}
	return []model.Company{{ID: "company-7", CNPJ: "11222333000181", Name: "ACME", Role: model.RoleCompany}}, nil
}

func (s *OrderingFacadeStub) RegisterCompany(ctx context.Context, cnpj, name, password string) (*model.Company, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, cnpj, name, password)
	}
	return &model.Company{ID: "company-8", CNPJ: cnpj, Name: name, Role: model.RoleCompany}, nil
}

func (s *OrderingFacadeStub) DeleteCompany(context.Context, string) error {
	return s.DeleteCompErr
}
