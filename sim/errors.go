package sim

import "errors"

var (
	// ErrConfig wraps every configuration error. Configuration errors are reported
	// before any day runs and are never recovered internally.
	ErrConfig = errors.New("invalid warehouse configuration")

	// ErrInvariant wraps every state mutation rejected by the warehouse because it would
	// breach capacity, conservation or area binding. State is unchanged when it is returned.
	ErrInvariant = errors.New("warehouse invariant violation")
)
