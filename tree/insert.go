package tree

import (
	"github.com/jbrowse-go/bintree/bin"
	"github.com/jbrowse-go/bintree/region"
)

// InsertOptions configures a single Insert call. It mirrors bin.InsertOptions
// plus the canonicalization hook used at the insert's left edge.
type InsertOptions struct {
	AddNew          bool
	AllowDuplicates bool
	DataCallback    bin.DataCallback
	Canonicalize    bin.Canonicalizer
}

func (o InsertOptions) toBinOptions() bin.InsertOptions {
	return bin.InsertOptions{AddNew: o.AddNew, AllowDuplicates: o.AllowDuplicates, DataCallback: o.DataCallback}
}

// Insert places data (sorted by region.Compare, all sharing one chromosome)
// into the sub-range of this node's span that overlaps insertRange.
// continuedIn is the identity-bearing carry arriving from the left sibling
// chain; cursor tracks the next unconsumed index into data across the whole
// walk. postRange.End is extended to the rightmost coordinate actually
// touched. It returns the carry to hand to whatever lies beyond this node's
// span (empty once nothing remains live).
func (n *InnerNode) Insert(
	data []region.Region,
	insertRange region.Range,
	continuedIn []region.Region,
	cursor *int,
	postRange *region.Range,
	opts InsertOptions,
	gen uint64,
) ([]region.Region, error) {
	n.touch(gen)
	clipped, ok := insertRange.Intersect(n.Span())
	if !ok {
		return continuedIn, nil
	}
	var out []region.Region
	var err error
	if n.reverseDepth > 0 {
		out, err = n.insertNonLeaf(data, clipped, continuedIn, cursor, postRange, opts, gen)
	} else {
		out, err = n.insertLeaf(data, clipped, continuedIn, cursor, postRange, opts)
	}
	if err != nil {
		return out, err
	}
	n.restructureImmediateChildren()
	return out, nil
}

func (n *InnerNode) insertNonLeaf(
	data []region.Region,
	clipped region.Range,
	continuedIn []region.Region,
	cursor *int,
	postRange *region.Range,
	opts InsertOptions,
	gen uint64,
) ([]region.Region, error) {
	carry := continuedIn
	for i := 0; i < len(n.values); i++ {
		childSpan := region.Range{Start: n.keys[i], End: n.keys[i+1]}
		sub, ok := clipped.Intersect(childSpan)
		if !ok {
			continue
		}
		child := n.values[i].(*InnerNode)
		var err error
		carry, err = child.Insert(data, sub, carry, cursor, postRange, opts, gen)
		if err != nil {
			return carry, err
		}
	}
	return carry, nil
}

// filterCarry drops any carried region that has already ended by boundary.
func filterCarry(carry []region.Region, boundary region.Pos) []region.Region {
	if len(carry) == 0 {
		return carry
	}
	out := carry[:0:0]
	for _, r := range carry {
		if r.End > boundary {
			out = append(out, r)
		}
	}
	return out
}

func (n *InnerNode) insertLeaf(
	data []region.Region,
	clipped region.Range,
	continuedIn []region.Region,
	cursor *int,
	postRange *region.Range,
	opts InsertOptions,
) ([]region.Region, error) {
	startIdx := n.ensureBoundary(clipped.Start)
	// Every distinct data start strictly inside the range gets its own
	// boundary (and so its own bin): a bin only ever accumulates StartList
	// entries that begin exactly at its own Start, so two data entries
	// starting at different coordinates can never share one bin.
	for i := *cursor; i < len(data) && data[i].Start < clipped.End; i++ {
		if data[i].Start > clipped.Start {
			n.ensureBoundary(data[i].Start)
		}
	}
	endIdx := n.ensureBoundary(clipped.End)

	carry := continuedIn
	for i := startIdx; i < endIdx; i++ {
		slotStart, slotEnd := n.keys[i], n.keys[i+1]
		carry = filterCarry(carry, slotStart)
		hasOwnData := *cursor < len(data) && data[*cursor].Start < slotEnd
		if len(carry) > 0 || hasOwnData {
			b, ok := n.values[i].(*SlotNode)
			var bn *bin.DataBin
			if ok && b.Kind == SlotLoaded {
				bn = b.Bin
			} else {
				bn = bin.New(slotStart)
			}
			var err error
			carry, err = bn.Insert(data, cursor, region.Range{Start: slotStart, End: slotEnd}, carry, opts.toBinOptions(), postRange)
			if err != nil {
				return carry, err
			}
			n.values[i] = NewLoadedSlot(bn)
		} else {
			n.values[i] = NewEmptySlot()
		}
		if i > 0 {
			before := len(n.values)
			n.tryMergeWithLeft(i)
			if len(n.values) < before {
				// slot i merged away into i-1: the array shifted left, so
				// what is now at i is unvisited and endIdx must shrink too.
				i--
				endIdx--
			}
		}
	}
	return carry, nil
}

// ensureBoundary guarantees a key entry equal to p exists, splitting the
// slot that currently straddles it if necessary, and returns its index.
// Splitting a Loaded slot materializes a fresh bin at p and projects the
// left bin's own content forward into it (bin.ProjectForward) rather than
// cloning: the two halves are never the same stored identity.
func (n *InnerNode) ensureBoundary(p region.Pos) int {
	lo, hi := 0, len(n.keys)
	for lo < hi {
		mid := (lo + hi) / 2
		if n.keys[mid] < p {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(n.keys) && n.keys[lo] == p {
		return lo
	}
	idx := lo - 1
	old := n.values[idx].(*SlotNode)
	var left, right *SlotNode
	switch old.Kind {
	case SlotLoaded:
		newRight := bin.New(p)
		bin.ProjectForward(old.Bin, newRight)
		left = old
		right = NewLoadedSlot(newRight)
	default:
		left = old.clone()
		right = old.clone()
	}
	n.values[idx] = left
	n.keys = insertPosAt(n.keys, idx+1, p)
	n.values = insertNodeAt(n.values, idx+1, right)
	return idx + 1
}

// tryMergeWithLeft absorbs values[i] into values[i-1] when the two slots are
// mergeable, dropping the boundary key between them.
func (n *InnerNode) tryMergeWithLeft(i int) {
	left, lok := n.values[i-1].(*SlotNode)
	right, rok := n.values[i].(*SlotNode)
	if !lok || !rok {
		return
	}
	merge := false
	switch {
	case left.Kind == SlotEmpty && right.Kind == SlotEmpty:
		merge = true
	case left.Kind == SlotUnloaded && right.Kind == SlotUnloaded:
		merge = true
	case left.Kind == SlotLoaded && right.Kind == SlotLoaded:
		merge = left.Bin.MergeAfter(right.Bin)
	}
	if merge {
		n.keys = append(n.keys[:i], n.keys[i+1:]...)
		n.values = append(n.values[:i], n.values[i+1:]...)
	}
}
