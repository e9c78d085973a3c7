package folio

import (
	"errors"
	"fmt"
)

// ErrValidation is the root of every rejected operation. No state is changed
// when an operation fails with an error matching it.
var ErrValidation = errors.New("validation error")

// ErrInsufficientFunds reports an amount larger than the balance it is taken from.
var ErrInsufficientFunds = fmt.Errorf("%w: insufficient funds", ErrValidation)

// validationf builds an error matching ErrValidation.
func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
