package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domainErrors "github.com/polkiloo/fitinbox/internal/domain/errors"
	"github.com/polkiloo/fitinbox/internal/domain/model"
	"github.com/polkiloo/fitinbox/internal/domain/repository"
)

// CheckoutResult is a persisted order with its WhatsApp handoff.
type CheckoutResult struct {
	Order       model.Order
	Message     string
	WhatsAppURL string
}

// CheckoutUseCase turns the company cart into a persisted order.
type CheckoutUseCase struct {
	carts         *CartUseCase
	builder       *OrderBuilder
	orders        repository.OrderRepository
	companies     repository.CompanyRepository
	lifecycle     *OrderLifecycle
	events        EventPublisher
	metrics       Metrics
	whatsAppPhone string
	logger        *slog.Logger
}

// CheckoutDeps groups CheckoutUseCase collaborators.
type CheckoutDeps struct {
	Carts         *CartUseCase
	Builder       *OrderBuilder
	Orders        repository.OrderRepository
	Companies     repository.CompanyRepository
	Lifecycle     *OrderLifecycle
	Events        EventPublisher
	Metrics       Metrics
	WhatsAppPhone string
	Logger        *slog.Logger
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(d CheckoutDeps) *CheckoutUseCase {
	u := &CheckoutUseCase{
		carts:         d.Carts,
		builder:       d.Builder,
		orders:        d.Orders,
		companies:     d.Companies,
		lifecycle:     d.Lifecycle,
		events:        d.Events,
		metrics:       d.Metrics,
		whatsAppPhone: d.WhatsAppPhone,
		logger:        d.Logger,
	}
	if u.events == nil {
		u.events = nopPublisher{}
	}
	if u.metrics == nil {
		u.metrics = nopMetrics{}
	}
	if u.logger == nil {
		u.logger = slog.Default()
	}
	return u
}

// Submit builds and stores an order from the company cart. On success the
// cart items and notes are cleared; on any failure the cart is untouched.
func (u *CheckoutUseCase) Submit(ctx context.Context, companyID string) (*CheckoutResult, error) {
	company, err := u.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load company: %w", err)
	}

	var saved *model.Order
	err = u.carts.WithLock(companyID, func(session model.CartSession, save func(model.CartSession) error) error {
		order, err := u.builder.Build(ctx, session.Cart, session.Address, session.Notes)
		if err != nil {
			var vErr *domainErrors.ValidationError
			if errors.As(err, &vErr) {
				u.metrics.CheckoutRejected(string(vErr.Reason))
			}
			return err
		}
		order.CompanyID = company.ID
		order.CompanyName = company.Name

		saved, err = u.orders.Insert(ctx, *order)
		if err != nil {
			return classifyStoreError("submit order", err)
		}

		session.Cart.Clear()
		session.Notes = ""
		if err := save(session); err != nil {
			u.logger.Error("clear cart after checkout",
				slog.String("company_id", companyID),
				slog.Int64("order_number", saved.Number),
				slog.String("error", err.Error()),
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.lifecycle.Track(*saved)
	u.metrics.OrderSubmitted()
	if err := u.events.Publish(ctx, model.OrderEvent{
		Type:       model.OrderEventSubmitted,
		Order:      *saved,
		OccurredAt: saved.CreatedAt,
	}); err != nil {
		u.logger.Warn("publish order event",
			slog.String("order_id", saved.ID),
			slog.String("error", err.Error()),
		)
	}

	u.logger.Info("order submitted",
		slog.String("order_id", saved.ID),
		slog.Int64("order_number", saved.Number),
		slog.String("company_id", companyID),
		slog.String("total", saved.Total.StringFixed(2)),
	)

	message := FormatHandoffMessage(*saved)
	return &CheckoutResult{
		Order:       *saved,
		Message:     message,
		WhatsAppURL: WhatsAppLink(u.whatsAppPhone, message),
	}, nil
}

// ListForCompany returns the orders placed by a company, newest first.
func (u *CheckoutUseCase) ListForCompany(ctx context.Context, companyID string) ([]model.Order, error) {
	orders, err := u.orders.List(ctx, model.OrderFilter{CompanyID: companyID})
	if err != nil {
		return nil, err
	}
	return orders, nil
}
