// Package bin implements the leaf-level storage unit of the interval tree:
// DataBin, which distinguishes intervals that start at a coordinate
// (startList) from intervals that merely flow through it from the left
// (continuedList). This is the mechanism that lets a traversal visit every
// interval exactly once even though long intervals appear in many bins'
// continuedLists.
//
// Grounded on chunk.Chunk (the teacher's fixed leaf payload type): DataBin
// keeps the same "small, identity-preserving leaf unit with an
// immutable-by-convention mutation contract" shape, but trades chunk's
// fixed-size inline array for plain slices, since interval occupancy per bin
// is data-dependent rather than byte-bounded.
package bin

import (
	"sort"

	"github.com/jbrowse-go/bintree/region"
)

// DataBin is the leaf-level storage unit for a contiguous sub-range
// beginning at Start.
type DataBin struct {
	Start region.Pos

	// StartList holds intervals whose Start equals this bin's Start,
	// ordered by region.Compare.
	StartList []region.Region

	// ContinuedList holds intervals that begin strictly before Start and
	// whose End is strictly greater than Start, ordered by region.Compare.
	ContinuedList []region.Region
}

// New creates an empty bin at start.
func New(start region.Pos) *DataBin {
	return &DataBin{Start: start}
}

// NewWithLists creates a bin with pre-populated lists (used when splitting
// an existing bin, or rehydrating from a clone).
func NewWithLists(start region.Pos, startList, continuedList []region.Region) *DataBin {
	return &DataBin{Start: start, StartList: startList, ContinuedList: continuedList}
}

// IsEmpty reports whether neither list holds anything.
func (b *DataBin) IsEmpty() bool {
	return len(b.StartList) == 0 && len(b.ContinuedList) == 0
}

// DataCallback is invoked once per interval that Insert processes, in the
// order the bin processes it.
type DataCallback func(entry region.Region, insertRange region.Range)

// InsertOptions controls DataBin.Insert.
type InsertOptions struct {
	// AddNew merge-appends startList entries instead of replacing the slice
	// outright; when false (the default "authoritative batch" mode used by a
	// fresh section load), Insert replaces StartList wholesale.
	AddNew bool
	// AllowDuplicates permits structurally-equal entries to coexist in
	// StartList when AddNew is set. Ignored when AddNew is false.
	AllowDuplicates bool
	// DataCallback, if non-nil, fires once per processed entry (both the
	// ones folded into continuedList and the ones landing in StartList).
	DataCallback DataCallback
}

func compareRegions(a, b region.Region) bool {
	return region.Compare(a, b) < 0
}

func sortRegions(rs []region.Region) {
	sort.SliceStable(rs, func(i, j int) bool { return compareRegions(rs[i], rs[j]) })
}

// Insert processes the portion of data relevant to this bin.
//
// cursor indexes into data and is advanced in place as entries are consumed;
// callers either keep reusing the same cursor across a contiguous run of
// bins (the usual "dataIndex" fast path) or splice data themselves using the
// final cursor value.
//
// continuedIn is the carry-forward continuedList handed down from the
// previous bin in document order. Insert returns the carry-forward list to
// hand to the NEXT bin: this bin's own StartList and ContinuedList,
// merged — filtering against the next bin's start happens on the next call,
// mirroring how continuedIn is filtered against THIS bin's start below.
//
// postRange.End is extended (never shrunk) to the maximum End among the
// entries of this bin's own StartList after this call (with AddNew, that
// includes entries it already held).
func (b *DataBin) Insert(
	data []region.Region,
	cursor *int,
	insertRange region.Range,
	continuedIn []region.Region,
	opts InsertOptions,
	postRange *region.Range,
) (continuedOut []region.Region, err error) {
	// Step 1: fold entries that start left of this bin into the carry-forward
	// continuedList.
	for *cursor < len(data) && data[*cursor].Start < b.Start {
		entry := data[*cursor]
		continuedIn = append(continuedIn, entry)
		if opts.DataCallback != nil {
			opts.DataCallback(entry, insertRange)
		}
		*cursor++
	}

	// Step 2: merge the carry-forward list into this bin's continuedList,
	// dropping anything that no longer reaches into this bin.
	merged := make([]region.Region, 0, len(b.ContinuedList)+len(continuedIn))
	merged = append(merged, b.ContinuedList...)
	for _, r := range continuedIn {
		if r.End <= b.Start {
			continue
		}
		if containsIdentity(merged, r) {
			continue
		}
		merged = append(merged, r)
	}
	sortRegions(merged)
	b.ContinuedList = merged

	// Step 3: consume entries whose start equals this bin's start.
	chunkStart := *cursor
	for *cursor < len(data) && data[*cursor].Start == b.Start {
		*cursor++
	}
	chunk := data[chunkStart:*cursor]
	if opts.DataCallback != nil {
		for _, entry := range chunk {
			opts.DataCallback(entry, insertRange)
		}
	}
	if !opts.AddNew {
		b.StartList = append([]region.Region(nil), chunk...)
	} else {
		b.StartList = mergeAppend(b.StartList, chunk, opts.AllowDuplicates)
		sortRegions(b.StartList)
	}

	// Step 4: extend postRange.End to cover this bin's own entries.
	for _, r := range b.StartList {
		if r.End > postRange.End {
			postRange.End = r.End
		}
	}

	// Carry-forward for the next bin: everything this bin holds.
	out := make([]region.Region, 0, len(b.StartList)+len(b.ContinuedList))
	out = append(out, b.ContinuedList...)
	out = append(out, b.StartList...)
	sortRegions(out)
	return out, nil
}

func containsIdentity(rs []region.Region, r region.Region) bool {
	for _, existing := range rs {
		if existing.SameIdentity(r) {
			return true
		}
	}
	return false
}

func mergeAppend(existing, incoming []region.Region, allowDuplicates bool) []region.Region {
	if allowDuplicates {
		return append(append([]region.Region(nil), existing...), incoming...)
	}
	out := append([]region.Region(nil), existing...)
	for _, r := range incoming {
		dup := false
		for _, e := range existing {
			if e.EqualTo(r) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, r)
		}
	}
	return out
}

// RemoveOptions controls DataBin.Remove.
type RemoveOptions struct {
	// ExactMatch narrows removal to entries that are EqualTo Match instead
	// of removing every entry whose Start equals the target coordinate.
	ExactMatch bool
	Match      region.Region
}

// Remove deletes entries from StartList whose Start equals target (narrowed
// by ExactMatch/Match when set). It reports whether the bin is now
// completely empty, i.e. should be collapsed by the caller into an Empty
// slot.
func (b *DataBin) Remove(target region.Pos, opts RemoveOptions) (vanished bool) {
	kept := b.StartList[:0:0]
	for _, r := range b.StartList {
		if r.Start != target {
			kept = append(kept, r)
			continue
		}
		if opts.ExactMatch && !r.EqualTo(opts.Match) {
			kept = append(kept, r)
			continue
		}
		// dropped
	}
	b.StartList = kept
	return b.IsEmpty()
}

// Traverse invokes fn on this bin's intervals. On the first bin visited in a
// traversal (first==true), both ContinuedList and StartList are walked;
// subsequent bins only walk StartList, since their continuedList entries
// were already handed to fn by an earlier bin in this same traversal.
//
// Traverse stops and returns false as soon as fn returns false.
func (b *DataBin) Traverse(first bool, fn func(region.Region) bool) bool {
	if first {
		for _, r := range b.ContinuedList {
			if !fn(r) {
				return false
			}
		}
	}
	for _, r := range b.StartList {
		if !fn(r) {
			return false
		}
	}
	return true
}

// ProjectForward folds left's StartList++ContinuedList into right's
// ContinuedList, skipping any entry that has already ended by right.Start
// and never replacing an entry right already carries — whether by identity
// or by structural equality — with a foreign clone of the same span. This is
// the routine both MergeAfter (when the merge itself fails) and a leaf-level
// boundary split (materializing a fresh bin mid-slot) use to keep a new
// right-hand bin visible into intervals flowing through it from the left.
func ProjectForward(left, right *DataBin) {
	projected := make([]region.Region, 0, len(left.ContinuedList)+len(left.StartList))
	projected = append(projected, left.ContinuedList...)
	projected = append(projected, left.StartList...)
	for _, r := range projected {
		if r.End <= right.Start {
			continue
		}
		if containsIdentity(right.ContinuedList, r) {
			continue
		}
		dup := false
		for _, existing := range right.ContinuedList {
			if existing.EqualTo(r) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		right.ContinuedList = append(right.ContinuedList, r)
	}
	sortRegions(right.ContinuedList)
}

// MergeAfter attempts to fold a right-neighbor bin into b.
//
// When right's StartList is empty, everything it holds is already implied by
// b (its continuedList is necessarily a subset of b's own interval set), so
// the merge succeeds and the caller should discard right. Otherwise the
// merge fails, but b still projects itself forward into right via
// ProjectForward, so right does not lose visibility into intervals flowing
// through it from b.
func (b *DataBin) MergeAfter(right *DataBin) (merged bool) {
	if len(right.StartList) == 0 {
		return true
	}
	ProjectForward(b, right)
	return false
}

// Canonicalizer looks up whether a region structurally matching r is already
// stored to the left of the active insert range. It returns the stored
// region (for identity enforcement) and whether one was found.
type Canonicalizer func(r region.Region) (stored region.Region, found bool)

// PreInsertion lifts entries from data that start before insertRange.Start
// into the continuedList, then canonicalizes the combined continuedList
// against already-stored intervals so that repeated inserts of the same
// region converge on one stored identity instead of accumulating divergent
// clones. It returns the remaining (not yet lifted) data and the
// canonicalized continuedList to seed the first bin's Insert call.
func PreInsertion(
	data []region.Region,
	insertRange region.Range,
	continuedIn []region.Region,
	canonicalize Canonicalizer,
) (remaining []region.Region, continuedOut []region.Region, err error) {
	combined := append([]region.Region(nil), continuedIn...)
	i := 0
	for i < len(data) && data[i].Start < insertRange.Start {
		combined = append(combined, data[i])
		i++
	}
	canon := make([]region.Region, 0, len(combined))
	for _, r := range combined {
		stored, found := canonicalize(r)
		if !found {
			canon = append(canon, r)
			continue
		}
		if !stored.EqualTo(r) {
			return nil, nil, ErrInconsistentContinuedList
		}
		canon = append(canon, stored)
	}
	sortRegions(canon)
	return data[i:], canon, nil
}
