package tree

import "github.com/jbrowse-go/bintree/region"

// Pos and Range alias the region package's coordinate types so callers can
// spell them as tree.Pos / tree.Range; they are the same types, not second
// definitions.
type Pos = region.Pos
type Range = region.Range
