package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists         = errors.New("already exists")
	ErrNotFound              = errors.New("not found")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidCNPJ           = errors.New("invalid cnpj")
	ErrInvalidPostalCode     = errors.New("invalid postal code")
	ErrPostalCodeNotFound    = errors.New("postal code not found")
	ErrResolutionUnavailable = errors.New("address lookup unavailable, fill in the address manually")
	ErrSuperseded            = errors.New("superseded by a newer request")
	ErrStaleReference        = errors.New("order list was stale and has been reloaded, please retry")
	ErrInvalidStatus         = errors.New("invalid order status")
	ErrProductUnavailable    = errors.New("product unavailable")
	ErrInvalidCompanyName    = errors.New("company name is required")
	ErrProtectedAccount      = errors.New("administrator accounts cannot be deleted")
)

// ValidationReason identifies which checkout rule rejected a cart.
type ValidationReason string

const (
	ReasonEmptyCart         ValidationReason = "empty_cart"
	ReasonBelowMinimum      ValidationReason = "below_minimum"
	ReasonIncompleteAddress ValidationReason = "incomplete_address"
)

// ValidationError is returned when a cart cannot become an order. It never
// reaches the order store.
type ValidationError struct {
	Reason    ValidationReason
	Message   string
	Shortfall int
	Fields    []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewEmptyCartError reports a cart with no lines.
func NewEmptyCartError() *ValidationError {
	return &ValidationError{Reason: ReasonEmptyCart, Message: "cart is empty"}
}

// NewBelowMinimumError reports how many units are still missing.
func NewBelowMinimumError(minimum, current int) *ValidationError {
	shortfall := minimum - current
	return &ValidationError{
		Reason:    ReasonBelowMinimum,
		Message:   fmt.Sprintf("minimum order is %d units, missing %d units", minimum, shortfall),
		Shortfall: shortfall,
	}
}

// NewIncompleteAddressError reports blank or malformed address fields.
func NewIncompleteAddressError(fields []string) *ValidationError {
	return &ValidationError{
		Reason:  ReasonIncompleteAddress,
		Message: fmt.Sprintf("delivery address is incomplete: %v", fields),
		Fields:  fields,
	}
}

// StoreErrorKind classifies failures reported by the order store.
type StoreErrorKind int

const (
	StoreErrorOther StoreErrorKind = iota
	StoreErrorNotFound
	StoreErrorUnauthorized
)

func (k StoreErrorKind) String() string {
	switch k {
	case StoreErrorNotFound:
		return "not_found"
	case StoreErrorUnauthorized:
		return "unauthorized"
	default:
		return "other"
	}
}

// StoreError wraps a failed write against the order store.
type StoreError struct {
	Op   string
	Kind StoreErrorKind
	Err  error
}

// NewStoreError builds a classified store failure.
func NewStoreError(op string, kind StoreErrorKind, err error) *StoreError {
	return &StoreError{Op: op, Kind: kind, Err: err}
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrNotFound) match not found store failures.
func (e *StoreError) Is(target error) bool {
	return e.Kind == StoreErrorNotFound && target == ErrNotFound
}

// Remediation is the user facing hint for the failure class.
func (e *StoreError) Remediation() string {
	switch e.Kind {
	case StoreErrorNotFound:
		return "the order no longer exists; reload the list and try again"
	case StoreErrorUnauthorized:
		return "permission denied by the order store; check your credentials"
	default:
		return "could not save the change; try again"
	}
}
