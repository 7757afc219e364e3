package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/fitinbox/internal/config"
	"github.com/polkiloo/fitinbox/internal/domain/model"
	"github.com/polkiloo/fitinbox/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewAuthUseCase,
	NewCompanyUseCase,
	NewCatalogUseCase,
	NewCartUseCase,
	newOrderBuilder,
	newOrderLifecycle,
	newCheckoutUseCase,
)

func newOrderBuilder(cfg *config.Config, numbers repository.OrderNumberGenerator) *OrderBuilder {
	return NewOrderBuilder(cfg.MinimumOrderUnits, model.PricingPolicy{
		FreeDeliveryAbove: cfg.FreeDeliveryAbove,
		DeliveryFee:       cfg.DeliveryFee,
	}, numbers)
}

type lifecycleParams struct {
	fx.In

	Config  *config.Config
	Orders  repository.OrderRepository
	Events  EventPublisher `optional:"true"`
	Metrics Metrics        `optional:"true"`
	Logger  *slog.Logger
}

func newOrderLifecycle(p lifecycleParams) *OrderLifecycle {
	return NewOrderLifecycle(p.Orders, p.Events, p.Metrics, p.Config.Location, p.Logger)
}

type checkoutParams struct {
	fx.In

	Config    *config.Config
	Carts     *CartUseCase
	Builder   *OrderBuilder
	Orders    repository.OrderRepository
	Companies repository.CompanyRepository
	Lifecycle *OrderLifecycle
	Events    EventPublisher `optional:"true"`
	Metrics   Metrics        `optional:"true"`
	Logger    *slog.Logger
}

func newCheckoutUseCase(p checkoutParams) *CheckoutUseCase {
	return NewCheckoutUseCase(CheckoutDeps{
		Carts:         p.Carts,
		Builder:       p.Builder,
		Orders:        p.Orders,
		Companies:     p.Companies,
		Lifecycle:     p.Lifecycle,
		Events:        p.Events,
		Metrics:       p.Metrics,
		WhatsAppPhone: p.Config.WhatsAppPhone,
		Logger:        p.Logger,
	})
}
