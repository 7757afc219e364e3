package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/fitinbox/internal/domain/errors"
	"github.com/polkiloo/fitinbox/internal/server/http/dto"
	"github.com/polkiloo/fitinbox/internal/server/http/middleware"
)

// CurrentCompanyID extracts authenticated company identifier from context.
func CurrentCompanyID(c *gin.Context) string {
	return c.GetString(middleware.CompanyIDContextKey)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg})
}

// writeError maps domain failures to HTTP responses.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	var (
		validation *domainErrors.ValidationError
		storeErr   *domainErrors.StoreError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:     validation.Message,
			Shortfall: validation.Shortfall,
			Fields:    validation.Fields,
		})
	case errors.As(err, &storeErr):
		status := http.StatusBadGateway
		switch storeErr.Kind {
		case domainErrors.StoreErrorNotFound:
			status = http.StatusNotFound
		case domainErrors.StoreErrorUnauthorized:
			status = http.StatusForbidden
		}
		if status == http.StatusBadGateway {
			logger.Error("order store failure", slog.String("op", storeErr.Op), slog.String("error", storeErr.Error()))
		}
		c.JSON(status, dto.ErrorResponse{Error: storeErr.Error(), Remediation: storeErr.Remediation()})
	case errors.Is(err, domainErrors.ErrStaleReference), errors.Is(err, domainErrors.ErrSuperseded):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrInvalidPostalCode),
		errors.Is(err, domainErrors.ErrInvalidCNPJ),
		errors.Is(err, domainErrors.ErrInvalidCompanyName),
		errors.Is(err, domainErrors.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrResolutionUnavailable):
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrPostalCodeNotFound), errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrProductUnavailable):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrProtectedAccount):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: err.Error()})
	default:
		logger.Error("request failed", slog.String("path", c.Request.URL.Path), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}
