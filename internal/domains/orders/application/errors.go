package application

import (
	"errors"

	"github.com/averost/commerce-api/internal/domains/orders/domain"
	"github.com/averost/commerce-api/internal/domains/orders/ports"
	"github.com/averost/commerce-api/internal/shared/fault"
)

// mapError attaches the stable fault kind so callers branch on kinds,
// not on error strings. Unclassified store errors fall through to
// fault.Classify.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrEmptyCustomerID),
		errors.Is(err, domain.ErrEmptyProductID),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrEmptyCity):
		return fault.New(fault.KindValidation, err)
	case errors.Is(err, ports.ErrProductNotFound),
		errors.Is(err, ports.ErrCustomerNotFound):
		return fault.New(fault.KindNotFound, err)
	case errors.Is(err, ports.ErrInsufficientStock):
		return fault.New(fault.KindBusinessRule, err)
	}
	return fault.Classify(err)
}
