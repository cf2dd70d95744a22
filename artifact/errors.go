package artifact

import "errors"

var (
	// ErrNotFound is returned when an artifact for the given session / id pair
	// does not exist in the underlying store.
	ErrNotFound = errors.New("artifact not found")

	// ErrInvalidID is returned for artifact ids that are empty or would escape
	// the store's directory.
	ErrInvalidID = errors.New("invalid artifact id")
)
