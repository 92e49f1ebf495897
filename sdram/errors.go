package sdram

import (
	"errors"
	"fmt"
)

// Errors returned while building or initializing a controller.
var (
	// ErrInvalidConfig is wrapped by every ConfigError that has no more
	// specific cause.
	ErrInvalidConfig = errors.New("invalid SDRAM configuration")

	// ErrClockTooFast means the SD clock is faster than the part allows.
	ErrClockTooFast = errors.New("SD clock faster than the part allows")

	// ErrBusMismatch means the pin bus cannot address the part.
	ErrBusMismatch = errors.New("pin bus does not fit the part")

	// ErrAlreadyInitialized is returned by a second Init. Initializing
	// again requires a new controller.
	ErrAlreadyInitialized = errors.New("SDRAM controller already initialized")

	// ErrControllerStuck means the controller never cleared its busy flag
	// after a command. The part is in an unknown state and the controller
	// cannot be used any more.
	ErrControllerStuck = errors.New("SDRAM controller stuck busy")
)

// A ConfigError reports a value that the controller or the part cannot use.
// It is always returned before any register is written.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("sdram: %s = %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}

	return ErrInvalidConfig
}

func configErr(field string, value any, reason string) *ConfigError {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}
