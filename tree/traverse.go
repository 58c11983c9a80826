package tree

import (
	"sort"

	"github.com/jbrowse-go/bintree/region"
)

// TraverseOptions configures a single Traverse call.
type TraverseOptions struct {
	// AllowNull treats an Unloaded slot as though it were Empty instead
	// of reporting DataNotReadyError.
	AllowNull bool

	// DataFn, if set, is invoked for every region.Region reached by the
	// walk (via the exactly-once startList/continuedList protocol).
	// Traversal stops as soon as it returns false.
	DataFn func(region.Region) bool

	// NodeFn, if set, is invoked once per InnerNode descended into.
	// Traversal stops (without visiting that node's children) as soon as
	// it returns false.
	NodeFn func(*InnerNode) bool

	// BothCalls, when NodeFn is set alongside DataFn, calls NodeFn for
	// every node descended into as well. Without it, NodeFn is only called
	// when DataFn is nil.
	BothCalls bool

	// DoNotWither suppresses the generation advance / wither-pass
	// scheduling a facade (bintree.IntervalTree) would otherwise perform
	// once this traversal completes. tree.Index.Traverse itself does not
	// interpret this field — it is read by the facade, which is the layer
	// that owns the generation counter and the wither pipeline.
	DoNotWither bool
}

// indexContaining returns i such that keys[i] <= p < keys[i+1], clamped to
// the valid child range. It performs no mutation, unlike ensureBoundary.
func (n *InnerNode) indexContaining(p region.Pos) int {
	i := sort.Search(len(n.keys), func(i int) bool { return n.keys[i] > p }) - 1
	if i < 0 {
		i = 0
	}
	if i > len(n.values)-1 {
		i = len(n.values) - 1
	}
	return i
}

// Traverse walks the portion of this node's span overlapping rng. first
// points at a flag that is true only until the first Loaded bin in the
// whole walk has been engaged; it is cleared the moment that happens so the
// startList/continuedList exactly-once protocol holds across node
// boundaries. It returns false as soon as a callback asks to stop, and a
// *DataNotReadyError if it reaches an Unloaded slot with AllowNull unset.
func (n *InnerNode) Traverse(rng region.Range, first *bool, opts TraverseOptions, gen uint64) (bool, error) {
	n.touch(gen)
	clipped, ok := rng.Intersect(n.Span())
	if !ok {
		return true, nil
	}
	if opts.NodeFn != nil && (opts.BothCalls || opts.DataFn == nil) {
		if !opts.NodeFn(n) {
			return false, nil
		}
	}
	if n.reverseDepth > 0 {
		for i := 0; i < len(n.values); i++ {
			childSpan := region.Range{Start: n.keys[i], End: n.keys[i+1]}
			sub, ok := clipped.Intersect(childSpan)
			if !ok {
				continue
			}
			child := n.values[i].(*InnerNode)
			complete, err := child.Traverse(sub, first, opts, gen)
			if err != nil || !complete {
				return complete, err
			}
		}
		return true, nil
	}

	startIdx := n.indexContaining(clipped.Start)
	endIdx := n.indexContaining(clipped.End - 1)
	for i := startIdx; i <= endIdx; i++ {
		slot := n.values[i].(*SlotNode)
		switch slot.Kind {
		case SlotUnloaded:
			if !opts.AllowNull {
				return false, &DataNotReadyError{Range: region.Range{Start: n.keys[i], End: n.keys[i+1]}}
			}
		case SlotEmpty:
			// nothing to visit
		case SlotLoaded:
			if opts.DataFn != nil {
				complete := slot.Bin.Traverse(*first, opts.DataFn)
				*first = false
				if !complete {
					return false, nil
				}
			}
		}
	}
	return true, nil
}

// CollectUnloaded finds Unloaded spans intersecting rng. When shortCircuit
// is set it returns true as soon as any is found without populating out
// (used by HasUncachedRange); otherwise it appends every intersecting span
// to *out, which the caller merges with region.MergeRanges.
func (n *InnerNode) CollectUnloaded(rng region.Range, out *[]region.Range, shortCircuit bool) bool {
	clipped, ok := rng.Intersect(n.Span())
	if !ok {
		return false
	}
	if n.reverseDepth > 0 {
		for i := 0; i < len(n.values); i++ {
			childSpan := region.Range{Start: n.keys[i], End: n.keys[i+1]}
			sub, ok := clipped.Intersect(childSpan)
			if !ok {
				continue
			}
			if n.values[i].(*InnerNode).CollectUnloaded(sub, out, shortCircuit) && shortCircuit {
				return true
			}
		}
		return false
	}
	startIdx := n.indexContaining(clipped.Start)
	endIdx := n.indexContaining(clipped.End - 1)
	found := false
	for i := startIdx; i <= endIdx; i++ {
		slot := n.values[i].(*SlotNode)
		if slot.Kind != SlotUnloaded {
			continue
		}
		span := region.Range{Start: n.keys[i], End: n.keys[i+1]}
		sub, ok := span.Intersect(clipped)
		if !ok {
			continue
		}
		if shortCircuit {
			return true
		}
		found = true
		*out = append(*out, sub)
	}
	return found
}

// CollectNotLoaded finds spans intersecting rng whose slots are not
// SlotLoaded — Unloaded (not yet fetched) or Empty (fetched, confirmed
// empty) alike. Insert restricts itself to these spans: a Loaded bin is
// already authoritative, so leaving it untouched is what makes repeated
// inserts over the same coverage idempotent.
func (n *InnerNode) CollectNotLoaded(rng region.Range, out *[]region.Range) {
	clipped, ok := rng.Intersect(n.Span())
	if !ok {
		return
	}
	if n.reverseDepth > 0 {
		for i := 0; i < len(n.values); i++ {
			childSpan := region.Range{Start: n.keys[i], End: n.keys[i+1]}
			sub, ok := clipped.Intersect(childSpan)
			if !ok {
				continue
			}
			n.values[i].(*InnerNode).CollectNotLoaded(sub, out)
		}
		return
	}
	startIdx := n.indexContaining(clipped.Start)
	endIdx := n.indexContaining(clipped.End - 1)
	for i := startIdx; i <= endIdx; i++ {
		slot := n.values[i].(*SlotNode)
		if slot.Kind == SlotLoaded {
			continue
		}
		span := region.Range{Start: n.keys[i], End: n.keys[i+1]}
		sub, ok := span.Intersect(clipped)
		if !ok {
			continue
		}
		*out = append(*out, sub)
	}
}
