package geo

import (
	"context"
	"errors"
)

// ErrDisabled is returned by the Disabled resolver.
var ErrDisabled = errors.New("geo: resolver disabled")

// Resolver turns a coordinate into a human-readable place description.
type Resolver interface {
	Resolve(ctx context.Context, c Coordinate) (string, error)
}

// Disabled is the Resolver used when reverse geocoding is switched off.
type Disabled struct{}

// Resolve always returns ErrDisabled.
func (Disabled) Resolve(context.Context, Coordinate) (string, error) {
	return "", ErrDisabled
}

// IsDisabled reports whether r never resolves anything.
func IsDisabled(r Resolver) bool {
	if r == nil {
		return true
	}
	switch r.(type) {
	case Disabled, *Disabled:
		return true
	}
	return false
}
