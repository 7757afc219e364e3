package firestore

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domainErrors "github.com/polkiloo/fitinbox/internal/domain/errors"
)

// storeError classifies a Firestore failure into the store error kinds the
// order lifecycle understands.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domainErrors.NewStoreError(op, domainErrors.StoreErrorOther, err)
	}

	var storeErr *domainErrors.StoreError
	if errors.As(err, &storeErr) {
		return err
	}

	switch status.Code(err) {
	case codes.NotFound:
		return domainErrors.NewStoreError(op, domainErrors.StoreErrorNotFound, err)
	case codes.PermissionDenied, codes.Unauthenticated:
		return domainErrors.NewStoreError(op, domainErrors.StoreErrorUnauthorized, err)
	default:
		return domainErrors.NewStoreError(op, domainErrors.StoreErrorOther, err)
	}
}

func isCanceled(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	return status.Code(err) == codes.Canceled
}
