package pool

import "errors"

var (
	// ErrNoRoots is returned when the pool is constructed without any
	// storage root paths.
	ErrNoRoots = errors.New("no storage roots configured")

	// ErrCapacityExhausted is returned when no storage root can fit the
	// requested byte count plus the safety margin. Callers must surface
	// this as a definite failure, never drop data silently.
	ErrCapacityExhausted = errors.New("no storage root with sufficient space")
)
