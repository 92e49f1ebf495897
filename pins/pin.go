package pins

import (
	"errors"
	"fmt"
	"slices"
)

// A Pin is a GPIO that the board support package has put into the memory
// controller's alternate function.
type Pin interface {
	// Name identifies the pin, for example "PF0". Two pins with the same
	// name are the same pin.
	Name() string

	// Supports reports whether the pin can be muxed to the signal.
	Supports(s Signal) bool
}

type pin struct {
	name    string
	signals []Signal
}

// New returns a Pin that can carry the given signals.
func New(name string, signals ...Signal) Pin {
	return &pin{name: name, signals: signals}
}

func (p *pin) Name() string { return p.name }

func (p *pin) Supports(s Signal) bool {
	return slices.Contains(p.signals, s)
}

func (p *pin) String() string { return p.name }

// Errors reported by bus validation.
var (
	ErrMissingPin   = errors.New("pin missing")
	ErrDuplicatePin = errors.New("pin used more than once")
	ErrWrongSignal  = errors.New("pin cannot carry signal")
)

// A PinError reports the role that failed validation.
type PinError struct {
	Signal Signal
	Pin    string
	Err    error
}

func (e *PinError) Error() string {
	if e.Pin == "" {
		return fmt.Sprintf("pins: %s: %v", e.Signal, e.Err)
	}

	return fmt.Sprintf("pins: %s (%s): %v", e.Signal, e.Pin, e.Err)
}

func (e *PinError) Unwrap() error {
	return e.Err
}

// A Role assigns a pin to a signal.
type Role struct {
	Signal Signal
	Pin    Pin
}

func validate(roles []Role) error {
	seen := make(map[string]Signal, len(roles))

	for _, r := range roles {
		if r.Pin == nil {
			return &PinError{Signal: r.Signal, Err: ErrMissingPin}
		}

		name := r.Pin.Name()
		if prev, dup := seen[name]; dup {
			return &PinError{
				Signal: r.Signal,
				Pin:    name,
				Err:    fmt.Errorf("%w (also %s)", ErrDuplicatePin, prev),
			}
		}

		seen[name] = r.Signal

		if !r.Pin.Supports(r.Signal) {
			return &PinError{Signal: r.Signal, Pin: name, Err: ErrWrongSignal}
		}
	}

	return nil
}
