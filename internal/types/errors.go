package types

import "errors"

var (
	// ErrNotFound is returned when a referenced preference record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrInvalidDestination is returned when a destination cannot be geocoded and
	// the caller opted out of the default-coordinate fallback.
	ErrInvalidDestination = errors.New("destination could not be resolved")
	// ErrGenerationFailure wraps unexpected internal errors during day assembly.
	ErrGenerationFailure = errors.New("itinerary generation failed")
	// ErrInvalidDuration guards against zero-iteration plans with nonzero cost.
	ErrInvalidDuration = errors.New("trip duration must be at least one day")
)
