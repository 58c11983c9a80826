package region

import "errors"

var (
	// ErrInvalidRange signals a region whose start is not strictly less than its end.
	ErrInvalidRange = errors.New("region: start must be less than end")
	// ErrEmptyChr signals a region or region string with no chromosome label.
	ErrEmptyChr = errors.New("region: empty chromosome label")
	// ErrMalformedRegionString signals a region string that does not parse.
	ErrMalformedRegionString = errors.New("region: malformed region string")
)
