package cgt

import (
	"errors"
	"fmt"
)

// ErrValidation is the root of every rejected acquisition or disposal. The
// calculator is unchanged when an operation fails with it.
var ErrValidation = errors.New("validation error")

var (
	// ErrInsufficientParcels reports a disposal larger than the quantity held.
	ErrInsufficientParcels = fmt.Errorf("%w: insufficient parcels", ErrValidation)
	// ErrMissingRate reports a foreign currency amount without an exchange rate.
	ErrMissingRate = fmt.Errorf("%w: missing exchange rate", ErrValidation)
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
