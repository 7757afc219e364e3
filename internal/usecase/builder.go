package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/fitinbox/internal/domain/errors"
	"github.com/polkiloo/fitinbox/internal/domain/model"
	"github.com/polkiloo/fitinbox/internal/domain/repository"
)

// OrderBuilder validates a cart and freezes it into a submitted order.
type OrderBuilder struct {
	minimumUnits int
	pricing      model.PricingPolicy
	numbers      repository.OrderNumberGenerator
	now          func() time.Time
}

// NewOrderBuilder constructs OrderBuilder.
func NewOrderBuilder(minimumUnits int, pricing model.PricingPolicy, numbers repository.OrderNumberGenerator) *OrderBuilder {
	return &OrderBuilder{
		minimumUnits: minimumUnits,
		pricing:      pricing,
		numbers:      numbers,
		now:          time.Now,
	}
}

// Validate runs the checkout rules in order and stops at the first failure.
func (b *OrderBuilder) Validate(cart model.Cart, address model.Address) error {
	if cart.IsEmpty() {
		return domainErrors.NewEmptyCartError()
	}
	if units := cart.TotalUnits(); units < b.minimumUnits {
		return domainErrors.NewBelowMinimumError(b.minimumUnits, units)
	}
	missing := address.MissingFields()
	if !isBlankString(address.PostalCode) && !model.ValidPostalCode(address.PostalCode) {
		missing = append(missing, "postal code must have 8 digits")
	}
	if len(missing) > 0 {
		return domainErrors.NewIncompleteAddressError(missing)
	}
	return nil
}

// Build validates the cart and returns an order in the submitted status.
// An order number is only drawn once validation passed.
func (b *OrderBuilder) Build(ctx context.Context, cart model.Cart, address model.Address, notes string) (*model.Order, error) {
	if err := b.Validate(cart, address); err != nil {
		return nil, err
	}

	number, err := b.numbers.NextOrderNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("next order number: %w", err)
	}

	createdAt := b.now().UTC()
	subtotal := cart.Subtotal()
	fee := cart.DeliveryFee(b.pricing)

	return &model.Order{
		Number:          number,
		Items:           cart.Snapshot(),
		Subtotal:        subtotal,
		DeliveryFee:     fee,
		Total:           subtotal.Add(fee),
		Address:         address.Format(),
		Notes:           strings.TrimSpace(notes),
		CreatedAt:       createdAt,
		Status:          model.OrderStatusSubmitted,
		StatusUpdatedAt: createdAt,
	}, nil
}

// MinimumUnits returns the configured order minimum.
func (b *OrderBuilder) MinimumUnits() int {
	return b.minimumUnits
}

// Pricing returns the delivery fee policy.
func (b *OrderBuilder) Pricing() model.PricingPolicy {
	return b.pricing
}

func isBlankString(s string) bool {
	return strings.TrimSpace(s) == ""
}
