package sensor

import (
	"errors"
	"fmt"
)

// ErrShortResponse reports a read that returned fewer registers than requested.
var ErrShortResponse = errors.New("short response")

// TransportError is a failed Modbus transaction: timeout, CRC or framing
// error, exception response or no answer from the device.
type TransportError struct {
	Op       string
	Register uint16
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("sensor: %s register %d: %v", e.Op, e.Register, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError is a caller-supplied parameter rejected before any I/O.
type ValidationError struct {
	Param  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("sensor: invalid %s %v: %s", e.Param, e.Value, e.Reason)
}

// ConversionError is a raw measurement block of the wrong size.
type ConversionError struct {
	Got int
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("sensor: expected %d raw values, got %d", measurementCount, e.Got)
}

// IsTransport reports whether err carries a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
