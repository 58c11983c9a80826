package bin

import "errors"

var (
	// ErrInconsistentContinuedList signals that pre-insertion canonicalization
	// found a stored region to the left of the insert range whose coordinates
	// match an incoming continuedList entry but whose content does not.
	ErrInconsistentContinuedList = errors.New("bin: inconsistent continued list")
)
