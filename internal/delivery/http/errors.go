package http

import (
	"errors"
	"net/http"

	"github.com/vogiaan1904/seatqueue/internal/service"
	pkgErrors "github.com/vogiaan1904/seatqueue/pkg/errors"
)

var (
	errInvalidBody       = pkgErrors.NewHTTPError(40001, "Invalid request body", http.StatusBadRequest)
	errValidation        = pkgErrors.NewHTTPError(40002, "Validation failed", http.StatusBadRequest)
	errInvalidID         = pkgErrors.NewHTTPError(40003, "Invalid customer id", http.StatusBadRequest)
	errPartyTooLarge     = pkgErrors.NewHTTPError(40004, "Party size exceeds total seats", http.StatusBadRequest)
	errCustomerNotFound  = pkgErrors.NewHTTPError(40401, "Customer not found", http.StatusNotFound)
	errNotReady          = pkgErrors.NewHTTPError(40402, "Customer not ready or already seated", http.StatusNotFound)
	errLedgerUnavailable = pkgErrors.NewHTTPError(50001, "Available seats not set", http.StatusInternalServerError)
)

func mapHTTPError(err error) error {
	switch {
	case errors.Is(err, service.ErrPartyTooLarge):
		return errPartyTooLarge
	case errors.Is(err, service.ErrCustomerNotFound):
		return errCustomerNotFound
	case errors.Is(err, service.ErrNotReady):
		return errNotReady
	case errors.Is(err, service.ErrLedgerUnavailable):
		return errLedgerUnavailable
	default:
		return err
	}
}
