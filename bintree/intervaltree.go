package bintree

import (
	"sync"

	"github.com/jbrowse-go/bintree/region"
	"github.com/jbrowse-go/bintree/tree"
)

// Props configures a new IntervalTree. Zero-value Props yields sane
// defaults (DefaultBranchingFactor, withering disabled).
type Props struct {
	// BranchingFactor bounds inner-node child counts; 0 picks
	// tree.DefaultBranchingFactor.
	BranchingFactor int

	// LifeSpan is the number of generations a subtree may go untouched
	// before a wither pass prunes it. 0 disables withering.
	LifeSpan uint64

	// LocalOnly marks every chromosome's index as fully resident: new
	// slots start Empty instead of Unloaded, and reads never report
	// DataNotReadyError.
	LocalOnly bool

	// NeighboringLinks is passed on to tree.Config, where it has no
	// effect: no sibling prev/next pointers are set.
	NeighboringLinks bool
}

// IntervalTree is the per-process facade: one tree.Index per chromosome,
// a shared wither generation counter, and (if LifeSpan > 0) a background
// wither pipeline.
type IntervalTree struct {
	mu      sync.Mutex
	cfg     tree.Config
	spans   map[string]region.Range
	indices map[string]*tree.Index
	gen     uint64
	wither  *witherPipeline
}

// New creates an empty IntervalTree. Chromosomes and their covering ranges
// are registered with Register before the first Insert/Traverse against
// them.
func New(props Props) *IntervalTree {
	cfg := tree.Config{
		BranchingFactor:  props.BranchingFactor,
		LifeSpan:         props.LifeSpan,
		LocalOnly:        props.LocalOnly,
		NeighboringLinks: props.NeighboringLinks,
	}
	it := &IntervalTree{
		cfg:     cfg,
		spans:   make(map[string]region.Range),
		indices: make(map[string]*tree.Index),
	}
	if cfg.LifeSpan > 0 {
		it.wither = newWitherPipeline(it)
	}
	return it
}

// Register declares the covering range for a chromosome, creating its
// index lazily. Calling Register again for a chromosome already indexed
// is a no-op: the existing index and its contents are left untouched.
func (it *IntervalTree) Register(chr string, span region.Range) {
	it.mu.Lock()
	defer it.mu.Unlock()
	if _, ok := it.indices[chr]; ok {
		return
	}
	kind := tree.SlotUnloaded
	if it.cfg.LocalOnly {
		kind = tree.SlotEmpty
	}
	it.spans[chr] = span
	it.indices[chr] = tree.NewIndex(it.cfg, span, kind)
}

func (it *IntervalTree) indexFor(chr string) (*tree.Index, bool) {
	it.mu.Lock()
	defer it.mu.Unlock()
	idx, ok := it.indices[chr]
	return idx, ok
}

// InsertBatch is one chromosome's worth of data to place in one call to
// Insert.
type InsertBatch struct {
	Chr   string
	Data  []region.Region
	Range region.Range
}

// Insert places each batch's data into its chromosome's index. Failures
// are collected rather than aborting the whole call: if any batch fails,
// Insert returns a non-nil *AggregatedInsertError naming every failing
// batch, after having applied every batch that succeeded.
func (it *IntervalTree) Insert(batches []InsertBatch, opts tree.InsertOptions) error {
	var agg AggregatedInsertError
	gen := it.currentGen()
	for _, b := range batches {
		if b.Range.IsEmpty() {
			agg.add(b.Chr, b.Range, b.Data, ErrIllegalArguments)
			continue
		}
		idx, ok := it.indexFor(b.Chr)
		if !ok {
			agg.add(b.Chr, b.Range, b.Data, ErrUnknownChromosome)
			continue
		}
		if err := idx.Insert(b.Data, b.Range, opts, gen); err != nil {
			agg.add(b.Chr, b.Range, b.Data, err)
			T().Errorf("bintree: insert %s%s failed: %v", b.Chr, b.Range, err)
		}
	}
	if len(agg.Failures) > 0 {
		return &agg
	}
	return nil
}

// Remove drops the entry (or entries) at target on chr.
func (it *IntervalTree) Remove(chr string, target region.Pos, opts tree.RemoveOptions) (bool, error) {
	idx, ok := it.indexFor(chr)
	if !ok {
		return false, ErrUnknownChromosome
	}
	return idx.Remove(target, opts, it.currentGen())
}

// Traverse walks rng on chr, invoking opts' callbacks. Per spec, the
// generation counter advances by exactly one on completion — successful or
// not — unless opts.DoNotWither was set; it is this call, not Insert or
// Remove, that schedules the wither pass.
func (it *IntervalTree) Traverse(chr string, rng region.Range, opts tree.TraverseOptions) error {
	idx, ok := it.indexFor(chr)
	if !ok {
		return ErrUnknownChromosome
	}
	if !opts.DoNotWither {
		defer func() {
			if it.wither == nil {
				it.AdvanceGen(false)
				return
			}
			// One pipeline request both advances the counter and withers.
			it.wither.submit(true, false)
		}()
	}
	return idx.Traverse(rng, opts, it.currentGen())
}

// HasUncachedRange reports whether any Unloaded slot intersects rng on chr.
func (it *IntervalTree) HasUncachedRange(chr string, rng region.Range) (bool, error) {
	idx, ok := it.indexFor(chr)
	if !ok {
		return false, ErrUnknownChromosome
	}
	return idx.HasUncachedRange(rng), nil
}

// GetUncachedRange returns the merged, sorted set of Unloaded spans
// intersecting rng on chr.
func (it *IntervalTree) GetUncachedRange(chr string, rng region.Range) ([]region.Range, error) {
	idx, ok := it.indexFor(chr)
	if !ok {
		return nil, ErrUnknownChromosome
	}
	return idx.GetUncachedRange(rng), nil
}

// Clear resets chr's index back to a single slot, Unloaded unless the tree
// was built LocalOnly.
func (it *IntervalTree) Clear(chr string) error {
	it.mu.Lock()
	span, ok := it.spans[chr]
	localOnly := it.cfg.LocalOnly
	it.mu.Unlock()
	if !ok {
		return ErrUnknownChromosome
	}
	kind := tree.SlotUnloaded
	if localOnly {
		kind = tree.SlotEmpty
	}
	idx, _ := it.indexFor(chr)
	_ = span
	idx.Clear(kind)
	return nil
}

// currentGen reads the generation counter under the tree's own lock so
// concurrent Insert/Remove calls see a consistent value to stamp nodes
// with; it is not the wither pipeline's single-writer advance (see
// wither.go).
func (it *IntervalTree) currentGen() uint64 {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.gen
}
