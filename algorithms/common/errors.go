package common

import "errors"

// Error kinds returned by the pitch engine. Call sites wrap them with
// context, so classify with errors.Is.
var (
	// ErrIncorrectParameters means the caller's range or data cannot yield a result
	ErrIncorrectParameters = errors.New("incorrect parameters")

	// ErrNoPitchDetected means the algorithm ran but found no confident peak
	ErrNoPitchDetected = errors.New("no pitch detected")

	// ErrUnexpected means an internal numerical routine failed
	ErrUnexpected = errors.New("unexpected error")
)
