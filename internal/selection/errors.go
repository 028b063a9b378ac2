package selection

import (
	"errors"
	"fmt"
)

// InvalidModeError reports an operation that is not valid in the cache's
// current mode, e.g. Single on a multiple-mode cache.
type InvalidModeError struct {
	// Op is the operation that was attempted.
	Op string

	// Mode is the mode the cache was in.
	Mode Mode
}

// Error implements the error interface.
func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("INVALID_MODE: %s not allowed in %s mode", e.Op, e.Mode)
}

// IsInvalidModeError returns true if err is, or wraps, an InvalidModeError.
func IsInvalidModeError(err error) bool {
	var me *InvalidModeError
	return errors.As(err, &me)
}
