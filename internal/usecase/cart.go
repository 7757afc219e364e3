package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/fitinbox/internal/domain/errors"
	"github.com/polkiloo/fitinbox/internal/domain/model"
	"github.com/polkiloo/fitinbox/internal/domain/repository"
)

const cartKeyPrefix = "cart:"

// CartView is a cart session together with its derived totals.
type CartView struct {
	Session      model.CartSession
	TotalUnits   int
	Subtotal     decimal.Decimal
	DeliveryFee  decimal.Decimal
	Total        decimal.Decimal
	MinimumUnits int
	MissingUnits int
}

// CartUseCase manages the per-company checkout draft kept in a key/value
// store. Read-modify-write cycles are serialized per company.
type CartUseCase struct {
	store        repository.KeyValueStore
	catalog      repository.ProductCatalog
	resolver     AddressResolver
	pricing      model.PricingPolicy
	minimumUnits int

	locks sync.Map
}

// NewCartUseCase constructs CartUseCase.
func NewCartUseCase(store repository.KeyValueStore, catalog repository.ProductCatalog, resolver AddressResolver, builder *OrderBuilder) *CartUseCase {
	return &CartUseCase{
		store:        store,
		catalog:      catalog,
		resolver:     resolver,
		pricing:      builder.Pricing(),
		minimumUnits: builder.MinimumUnits(),
	}
}

// Get returns the current cart of the company.
func (u *CartUseCase) Get(ctx context.Context, companyID string) (*CartView, error) {
	unlock := u.lock(companyID)
	defer unlock()

	session, err := u.loadLocked(companyID)
	if err != nil {
		return nil, err
	}
	return u.view(session), nil
}

// AddItem adds quantity units of an active catalog product.
func (u *CartUseCase) AddItem(ctx context.Context, companyID, productID string, quantity int) (*CartView, error) {
	product, err := u.catalog.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrProductUnavailable
		}
		return nil, err
	}
	if !product.Active {
		return nil, domainErrors.ErrProductUnavailable
	}

	return u.mutate(companyID, func(s *model.CartSession) {
		s.Cart.AddItem(*product, quantity)
	})
}

// UpdateQuantity replaces the quantity of a line; zero or less removes it.
func (u *CartUseCase) UpdateQuantity(ctx context.Context, companyID, productID string, quantity int) (*CartView, error) {
	return u.mutate(companyID, func(s *model.CartSession) {
		s.Cart.UpdateQuantity(productID, quantity)
	})
}

// RemoveItem drops a line from the cart.
func (u *CartUseCase) RemoveItem(ctx context.Context, companyID, productID string) (*CartView, error) {
	return u.mutate(companyID, func(s *model.CartSession) {
		s.Cart.RemoveItem(productID)
	})
}

// Clear empties the cart and notes, keeping the delivery address.
func (u *CartUseCase) Clear(ctx context.Context, companyID string) (*CartView, error) {
	return u.mutate(companyID, func(s *model.CartSession) {
		s.Cart.Clear()
		s.Notes = ""
	})
}

// SetAddress stores manually entered address fields as typed.
func (u *CartUseCase) SetAddress(ctx context.Context, companyID string, address model.Address) (*CartView, error) {
	return u.mutate(companyID, func(s *model.CartSession) {
		s.Address = address
	})
}

// SetNotes stores free text delivered with the order.
func (u *CartUseCase) SetNotes(ctx context.Context, companyID, notes string) (*CartView, error) {
	return u.mutate(companyID, func(s *model.CartSession) {
		s.Notes = strings.TrimSpace(notes)
	})
}

// LookupAddress records postalCode on the session and fills the blank
// address fields from the lookup providers. When the postal code changes,
// fields filled by an earlier lookup are cleared first so the new result
// replaces them. A lookup that was overtaken by
// a newer one for the same company returns ErrSuperseded.
func (u *CartUseCase) LookupAddress(ctx context.Context, companyID, postalCode string) (*CartView, error) {
	cep := model.NormalizePostalCode(postalCode)
	if len(cep) != model.PostalCodeLength {
		return nil, domainErrors.ErrInvalidPostalCode
	}

	view, err := u.mutate(companyID, func(s *model.CartSession) {
		if model.NormalizePostalCode(s.Address.PostalCode) != cep {
			s.Address = s.Address.Forget(s.AutoFilled)
			s.Address.PostalCode = cep
			s.AutoFilled = model.Address{}
		}
	})
	if err != nil {
		return nil, err
	}

	var result *CartView
	err = u.resolver.Resolve(ctx, companyID, view.Session.Address, func(filled model.Address) error {
		var applyErr error
		result, applyErr = u.mutateErr(companyID, func(s *model.CartSession) error {
			if model.NormalizePostalCode(s.Address.PostalCode) != cep {
				return domainErrors.ErrSuperseded
			}
			merged := s.Address.Merge(filled)
			s.AutoFilled = s.AutoFilled.Merge(s.Address.FilledBy(merged))
			s.Address = merged
			return nil
		})
		return applyErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Load returns the raw session, used by checkout.
func (u *CartUseCase) Load(companyID string) (model.CartSession, error) {
	unlock := u.lock(companyID)
	defer unlock()
	return u.loadLocked(companyID)
}

// WithLock runs fn while holding the company cart lock, giving it the
// loaded session and a function to persist changes.
func (u *CartUseCase) WithLock(companyID string, fn func(session model.CartSession, save func(model.CartSession) error) error) error {
	unlock := u.lock(companyID)
	defer unlock()

	session, err := u.loadLocked(companyID)
	if err != nil {
		return err
	}
	return fn(session, func(updated model.CartSession) error {
		return u.saveLocked(companyID, updated)
	})
}

func (u *CartUseCase) mutate(companyID string, fn func(*model.CartSession)) (*CartView, error) {
	return u.mutateErr(companyID, func(s *model.CartSession) error {
		fn(s)
		return nil
	})
}

func (u *CartUseCase) mutateErr(companyID string, fn func(*model.CartSession) error) (*CartView, error) {
	unlock := u.lock(companyID)
	defer unlock()

	session, err := u.loadLocked(companyID)
	if err != nil {
		return nil, err
	}
	if err := fn(&session); err != nil {
		return nil, err
	}
	if err := u.saveLocked(companyID, session); err != nil {
		return nil, err
	}
	return u.view(session), nil
}

func (u *CartUseCase) loadLocked(companyID string) (model.CartSession, error) {
	var session model.CartSession
	raw, err := u.store.Get(cartKeyPrefix + companyID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return session, nil
		}
		return session, fmt.Errorf("load cart: %w", err)
	}
	if err := json.Unmarshal(raw, &session); err != nil {
		return model.CartSession{}, fmt.Errorf("decode cart: %w", err)
	}
	return session, nil
}

func (u *CartUseCase) saveLocked(companyID string, session model.CartSession) error {
	if session.Cart.IsEmpty() && session.Notes == "" && session.Address == (model.Address{}) && session.AutoFilled == (model.Address{}) {
		if err := u.store.Remove(cartKeyPrefix + companyID); err != nil {
			return fmt.Errorf("remove cart: %w", err)
		}
		return nil
	}
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := u.store.Set(cartKeyPrefix+companyID, raw); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (u *CartUseCase) lock(companyID string) func() {
	v, _ := u.locks.LoadOrStore(companyID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (u *CartUseCase) view(session model.CartSession) *CartView {
	units := session.Cart.TotalUnits()
	missing := u.minimumUnits - units
	if missing < 0 {
		missing = 0
	}
	return &CartView{
		Session:      session,
		TotalUnits:   units,
		Subtotal:     session.Cart.Subtotal(),
		DeliveryFee:  session.Cart.DeliveryFee(u.pricing),
		Total:        session.Cart.Total(u.pricing),
		MinimumUnits: u.minimumUnits,
		MissingUnits: missing,
	}
}
