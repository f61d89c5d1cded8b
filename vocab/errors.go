package vocab

import "github.com/pkg/errors"

var (
	// ErrNotImplemented is returned for merge policies that are declared but
	// deliberately unsupported.
	ErrNotImplemented = errors.New("merge policy not implemented")

	// ErrUnknownPolicy is returned when a policy name cannot be parsed.
	ErrUnknownPolicy = errors.New("unknown merge policy")

	// ErrNoSources is returned when a merge receives no tables.
	ErrNoSources = errors.New("no embedding sources")

	// ErrDimensionMismatch is returned when a vector does not have the width
	// its table was declared with.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrMissingMarker is returned when the frequency table lacks the marker
	// token whose count reserved tokens borrow.
	ErrMissingMarker = errors.New("frequency marker token not found")
)
