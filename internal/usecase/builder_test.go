package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/fitinbox/internal/domain/errors"
	"github.com/polkiloo/fitinbox/internal/domain/model"
	testhelpers "github.com/polkiloo/fitinbox/internal/test"
)

func completeAddress() model.Address {
	return model.Address{
		PostalCode:   "01234-567",
		Street:       "Rua A",
		Number:       "100",
		Neighborhood: "Centro",
		City:         "São Paulo",
		State:        "SP",
	}
}

func cartWith(units int, price string) model.Cart {
	var c model.Cart
	c.AddItem(model.Product{ID: "meal-1", Name: "Frango", Price: decimal.RequireFromString(price), Active: true}, units)
	return c
}

func newTestBuilder(numbers *testhelpers.NumberGeneratorStub) *OrderBuilder {
	b := NewOrderBuilder(30, model.DefaultPricingPolicy(), numbers)
	b.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.FixedZone("BRT", -3*3600)) }
	return b
}

func TestOrderBuilderBuildsSubmittedOrder(t *testing.T) {
	numbers := &testhelpers.NumberGeneratorStub{Last: 1041}
	b := newTestBuilder(numbers)
	cart := cartWith(30, "2.00")

	order, err := b.Build(context.Background(), cart, completeAddress(), "  no onions ")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if order.Number != 1042 {
		t.Fatalf("unexpected number %d", order.Number)
	}
	if !order.Subtotal.Equal(decimal.NewFromInt(60)) || !order.DeliveryFee.IsZero() || !order.Total.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("unexpected pricing %s + %s = %s", order.Subtotal, order.DeliveryFee, order.Total)
	}
	if order.Status != model.OrderStatusSubmitted {
		t.Fatalf("expected submitted, got %s", order.Status)
	}
	if order.CreatedAt.Location() != time.UTC || order.CreatedAt.Hour() != 12 {
		t.Fatalf("expected UTC timestamp, got %s", order.CreatedAt)
	}
	if order.Address != "Rua A, 100 - Centro, São Paulo/SP - CEP: 01234-567" {
		t.Fatalf("unexpected address %q", order.Address)
	}
	if order.Notes != "no onions" {
		t.Fatalf("unexpected notes %q", order.Notes)
	}

	cart.UpdateQuantity("meal-1", 99)
	if order.Items[0].Quantity != 30 {
		t.Fatalf("order items must be frozen, got %d", order.Items[0].Quantity)
	}
}

func TestOrderBuilderValidationOrder(t *testing.T) {
	numbers := &testhelpers.NumberGeneratorStub{}
	b := newTestBuilder(numbers)

	cases := []struct {
		name    string
		cart    model.Cart
		address model.Address
		reason  domainErrors.ValidationReason
		message string
	}{
		{"empty cart wins over address", model.Cart{}, model.Address{}, domainErrors.ReasonEmptyCart, "cart is empty"},
		{"minimum wins over address", cartWith(10, "2.00"), model.Address{}, domainErrors.ReasonBelowMinimum, "missing 20 units"},
		{"incomplete address", cartWith(30, "2.00"), model.Address{PostalCode: "01234567", Street: "Rua A"}, domainErrors.ReasonIncompleteAddress, "number"},
		{"short postal code", cartWith(31, "2.00"), func() model.Address { a := completeAddress(); a.PostalCode = "1234-567"; return a }(), domainErrors.ReasonIncompleteAddress, "8 digits"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := b.Build(context.Background(), tc.cart, tc.address, "")
			var vErr *domainErrors.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if vErr.Reason != tc.reason {
				t.Fatalf("expected reason %s, got %s", tc.reason, vErr.Reason)
			}
			if !strings.Contains(vErr.Error(), tc.message) {
				t.Fatalf("expected %q in %q", tc.message, vErr.Error())
			}
		})
	}

	if numbers.Calls != 0 {
		t.Fatalf("no order number may be drawn for invalid carts, got %d calls", numbers.Calls)
	}
}

func TestOrderBuilderShortfall(t *testing.T) {
	b := newTestBuilder(&testhelpers.NumberGeneratorStub{})
	for units := 1; units < 30; units += 7 {
		_, err := b.Build(context.Background(), cartWith(units, "1.00"), completeAddress(), "")
		var vErr *domainErrors.ValidationError
		if !errors.As(err, &vErr) || vErr.Shortfall != 30-units {
			t.Fatalf("units %d: expected shortfall %d, got %+v", units, 30-units, vErr)
		}
	}
}

func TestOrderBuilderNumberGeneratorFailure(t *testing.T) {
	b := newTestBuilder(&testhelpers.NumberGeneratorStub{Err: errors.New("sequence gone")})
	if _, err := b.Build(context.Background(), cartWith(30, "2.00"), completeAddress(), ""); err == nil || !strings.Contains(err.Error(), "next order number") {
		t.Fatalf("expected number generator error, got %v", err)
	}
}

func TestOrderBuilderChargesDeliveryBelowThreshold(t *testing.T) {
	b := newTestBuilder(&testhelpers.NumberGeneratorStub{})
	order, err := b.Build(context.Background(), cartWith(30, "1.50"), completeAddress(), "")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !order.DeliveryFee.Equal(decimal.NewFromInt(5)) || !order.Total.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected pricing fee=%s total=%s", order.DeliveryFee, order.Total)
	}
}
