package ports

import "errors"

var (
	// ErrOrderNotFound is returned when an order id does not resolve.
	ErrOrderNotFound = errors.New("order not found")

	// ErrVersionConflict is returned when a conditional update lost the
	// race against a concurrent writer.
	ErrVersionConflict = errors.New("order version conflict")

	// ErrNotPersisted is returned when a store write reported success but
	// modified nothing.
	ErrNotPersisted = errors.New("order write did not take effect")
)
