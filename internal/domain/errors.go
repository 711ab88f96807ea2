package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is matched by every *InvalidParameterError.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnknownStrategy is returned when a mitigation strategy identifier is
	// not one of the known Strategy values.
	ErrUnknownStrategy = errors.New("unknown mitigation strategy")

	// ErrNEONotFound is returned by an AsteroidSource when the object does not exist.
	ErrNEONotFound = errors.New("near-earth object not found")

	// ErrNEOIncomplete is returned by an AsteroidSource when the catalogue entry
	// lacks the diameter or velocity needed to simulate it.
	ErrNEOIncomplete = errors.New("near-earth object record incomplete")
)

// InvalidParameterError describes an input that falls outside its physical range.
type InvalidParameterError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%g: %s", e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidParameter) hold.
func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}
