package tree

import (
	"errors"
	"fmt"

	"github.com/jbrowse-go/bintree/region"
)

// ErrInvalidRange is returned when a query or mutation range is empty or
// otherwise malformed.
var ErrInvalidRange = errors.New("tree: invalid range")

// DataNotReadyError is returned by a read path that reached an Unloaded
// slot it had no way to resolve. Range names the smallest covering span
// that would need to be fetched before the read could proceed.
type DataNotReadyError struct {
	Range region.Range
}

func (e *DataNotReadyError) Error() string {
	return fmt.Sprintf("tree: data not ready for %s", e.Range)
}
