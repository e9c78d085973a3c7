package performance

import (
	"errors"
	"fmt"
)

// ErrValidation reports inputs the calculator cannot compare or compose.
var ErrValidation = errors.New("validation error")

// ErrLengthMismatch reports a portfolio and a benchmark series of different lengths.
var ErrLengthMismatch = fmt.Errorf("%w: series length mismatch", ErrValidation)
