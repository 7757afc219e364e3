package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"already exists", ErrAlreadyExists},
		{"not found", ErrNotFound},
		{"invalid credentials", ErrInvalidCredentials},
		{"postal code not found", ErrPostalCodeNotFound},
		{"resolution unavailable", ErrResolutionUnavailable},
		{"stale reference", ErrStaleReference},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !stdErrors.Is(tc.err, tc.err) {
				t.Fatalf("expected error to match itself: %v", tc.err)
			}
		})
	}

	if stdErrors.Is(ErrPostalCodeNotFound, ErrResolutionUnavailable) {
		t.Fatal("lookup outcomes must be distinguishable")
	}
}

func TestBelowMinimumErrorStatesShortfall(t *testing.T) {
	err := NewBelowMinimumError(30, 10)
	if err.Shortfall != 20 {
		t.Fatalf("expected shortfall 20, got %d", err.Shortfall)
	}
	if !strings.Contains(err.Error(), "missing 20 units") {
		t.Fatalf("unexpected message %q", err.Error())
	}

	var target *ValidationError
	if !stdErrors.As(fmt.Errorf("build: %w", err), &target) || target.Reason != ReasonBelowMinimum {
		t.Fatalf("expected wrapped validation error, got %+v", target)
	}
}

func TestStoreErrorClassification(t *testing.T) {
	cause := stdErrors.New("row missing")
	err := fmt.Errorf("change status: %w", NewStoreError("orders.update", StoreErrorNotFound, cause))

	if !stdErrors.Is(err, ErrNotFound) {
		t.Fatal("not found store error must match ErrNotFound")
	}
	if !stdErrors.Is(err, cause) {
		t.Fatal("store error must unwrap to its cause")
	}

	remediations := map[string]bool{}
	for _, kind := range []StoreErrorKind{StoreErrorNotFound, StoreErrorUnauthorized, StoreErrorOther} {
		se := NewStoreError("op", kind, cause)
		remediations[se.Remediation()] = true
		if kind != StoreErrorNotFound && stdErrors.Is(se, ErrNotFound) {
			t.Fatalf("%s must not match ErrNotFound", kind)
		}
	}
	if len(remediations) != 3 {
		t.Fatalf("expected three distinct remediation messages, got %d", len(remediations))
	}
}
