package tree

import (
	"github.com/jbrowse-go/bintree/bin"
	"github.com/jbrowse-go/bintree/region"
)

// Index is the coordinate index for a single chromosome: one owned root
// InnerNode plus the root-specific growth/shrink policy that the root's own
// parentless position requires. A facade (bintree.IntervalTree) owns one
// Index per chromosome.
type Index struct {
	cfg   Config
	root  *InnerNode
	span  region.Range
}

// NewIndex builds an index covering span, with every slot initially kind.
func NewIndex(cfg Config, span region.Range, kind SlotKind) *Index {
	cfg = cfg.normalized()
	root := newLeafNode(cfg, span.Start, span.End, kind, 0)
	root.cfg = cfg
	root.isRoot = true
	return &Index{cfg: cfg, root: root, span: span}
}

// Span reports the coordinate range this index covers.
func (idx *Index) Span() region.Range { return idx.span }

// Insert places data into the sub-ranges of insertRange that are not yet
// Loaded (Unloaded or Empty alike). A range already Loaded is left
// untouched: its stored bins are authoritative and are not re-created from
// data, which is what makes repeated inserts of the same coverage idempotent
// (no dataCallback firing, no identity churn) rather than merely
// structurally harmless. gen is the tree's current wither generation; the
// birthGen stamps it leaves only matter when Config.LifeSpan > 0.
func (idx *Index) Insert(data []region.Region, insertRange region.Range, opts InsertOptions, gen uint64) error {
	clipped, ok := insertRange.Intersect(idx.span)
	if !ok {
		return ErrInvalidRange
	}
	var insertable []region.Range
	idx.root.CollectNotLoaded(clipped, &insertable)
	insertable = region.MergeRanges(insertable)

	for _, sub := range insertable {
		seedContinued, canon := idx.leftSeed(sub.Start)
		if opts.Canonicalize != nil {
			canon = opts.Canonicalize
		}
		remaining, continuedIn, err := bin.PreInsertion(data, sub, seedContinued, canon)
		if err != nil {
			return err
		}
		cursor := 0
		post := region.Range{Start: sub.Start}
		if _, err := idx.root.Insert(remaining, sub, continuedIn, &cursor, &post, opts, gen); err != nil {
			return err
		}
	}
	idx.growRoot()
	return nil
}

// Remove drops the entry (or entries) at target.
func (idx *Index) Remove(target region.Pos, opts RemoveOptions, gen uint64) (bool, error) {
	found, err := idx.root.Remove(target, opts, gen)
	if err != nil {
		return found, err
	}
	idx.shrinkRoot()
	return found, nil
}

// Traverse walks rng, invoking opts' callbacks.
func (idx *Index) Traverse(rng region.Range, opts TraverseOptions, gen uint64) error {
	clipped, ok := rng.Intersect(idx.span)
	if !ok {
		return ErrInvalidRange
	}
	if idx.cfg.LocalOnly {
		opts.AllowNull = true
	}
	first := true
	_, err := idx.root.Traverse(clipped, &first, opts, gen)
	return err
}

// HasUncachedRange reports whether any Unloaded slot intersects rng.
func (idx *Index) HasUncachedRange(rng region.Range) bool {
	clipped, ok := rng.Intersect(idx.span)
	if !ok {
		return false
	}
	return idx.root.CollectUnloaded(clipped, nil, true)
}

// GetUncachedRange returns the merged, sorted set of Unloaded spans
// intersecting rng.
func (idx *Index) GetUncachedRange(rng region.Range) []region.Range {
	clipped, ok := rng.Intersect(idx.span)
	if !ok {
		return nil
	}
	var out []region.Range
	idx.root.CollectUnloaded(clipped, &out, false)
	return region.MergeRanges(out)
}

// Clear resets the whole index back to a single slot of kind.
func (idx *Index) Clear(kind SlotKind) {
	root := newLeafNode(idx.cfg, idx.span.Start, idx.span.End, kind, 0)
	root.cfg = idx.cfg
	root.isRoot = true
	idx.root = root
}

// leftSeed looks for a Loaded bin immediately to the left of pos and, if
// found, builds a Canonicalizer over its own stored identities so that
// PreInsertion can fold a caller-supplied continuedIn entry onto whatever
// identity this index already considers canonical for that span, instead of
// accumulating a foreign structural clone.
func (idx *Index) leftSeed(pos region.Pos) ([]region.Region, bin.Canonicalizer) {
	noop := func(region.Region) (region.Region, bool) { return region.Region{}, false }
	if pos <= idx.span.Start {
		return nil, noop
	}
	b := idx.root.binBefore(pos)
	if b == nil {
		return nil, noop
	}
	return nil, func(r region.Region) (region.Region, bool) {
		for _, s := range b.ContinuedList {
			if s.EqualTo(r) {
				return s, true
			}
		}
		for _, s := range b.StartList {
			if s.EqualTo(r) {
				return s, true
			}
		}
		return region.Region{}, false
	}
}

// binBefore returns the Loaded bin whose slot directly precedes pos, or nil.
func (n *InnerNode) binBefore(pos region.Pos) *bin.DataBin {
	if pos <= n.keys[0] || pos > n.keys[len(n.keys)-1] {
		return nil
	}
	i := n.indexContaining(pos - 1)
	if n.reverseDepth > 0 {
		return n.values[i].(*InnerNode).binBefore(pos)
	}
	slot := n.values[i].(*SlotNode)
	if slot.Kind == SlotLoaded {
		return slot.Bin
	}
	return nil
}

// growRoot wraps the root one level higher whenever its own child count has
// exceeded the branching factor — the one rebalancing decision no node can
// make for itself, since restructureImmediateChildren only ever fixes a
// node's grandchildren.
func (idx *Index) growRoot() {
	for len(idx.root.values) > idx.cfg.BranchingFactor {
		k := (2 * len(idx.root.values)) / idx.cfg.BranchingFactor
		if k < 2 {
			k = 2
		}
		pieces := splitChildInto(idx.root, k)
		keys := make([]region.Pos, 0, len(pieces)+1)
		keys = append(keys, idx.root.keys[0])
		for _, p := range pieces {
			keys = append(keys, p.(*InnerNode).keys[len(p.(*InnerNode).keys)-1])
		}
		newRoot := &InnerNode{
			cfg:          idx.cfg,
			reverseDepth: idx.root.reverseDepth + 1,
			isRoot:       true,
			keys:         keys,
			values:       pieces,
			birthGen:     idx.root.birthGen,
		}
		idx.root.isRoot = false
		idx.root = newRoot
	}
}

// shrinkRoot promotes the root's sole child while the root is a non-leaf
// node with only one child, the dual of growRoot.
func (idx *Index) shrinkRoot() {
	for idx.root.reverseDepth > 0 && len(idx.root.values) == 1 {
		sole := idx.root.values[0].(*InnerNode)
		sole.isRoot = true
		idx.root = sole
	}
}
