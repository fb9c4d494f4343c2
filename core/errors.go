package core

import "errors"

var (
	// ErrUnsupported is returned for media whose type is unknown or whose
	// category is not enabled.
	ErrUnsupported = errors.New("unsupported media type")
	// ErrNoMetadata is returned when a decoder could not produce a record.
	ErrNoMetadata = errors.New("could not parse media")
)
