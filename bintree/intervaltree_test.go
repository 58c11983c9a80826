package bintree

import (
	"errors"
	"testing"
	"time"

	"github.com/jbrowse-go/bintree/region"
	"github.com/jbrowse-go/bintree/tree"
)

func mustRegion(t *testing.T, chr string, start, end region.Pos) region.Region {
	t.Helper()
	r, err := region.New(chr, start, end)
	if err != nil {
		t.Fatalf("region.New: %v", err)
	}
	return r
}

func newTestTree(props Props) *IntervalTree {
	it := New(props)
	it.Register("chr1", region.Range{Start: 0, End: 1000})
	it.Register("chr2", region.Range{Start: 0, End: 1000})
	return it
}

func TestIntervalTreeInsertAndTraverse(t *testing.T) {
	it := newTestTree(Props{BranchingFactor: 8})
	d0 := mustRegion(t, "chr1", 10, 20)
	err := it.Insert([]InsertBatch{
		{Chr: "chr1", Data: []region.Region{d0}, Range: region.Range{Start: 10, End: 20}},
	}, tree.InsertOptions{})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	var got []region.Region
	err = it.Traverse("chr1", region.Range{Start: 10, End: 20}, tree.TraverseOptions{
		DataFn: func(r region.Region) bool { got = append(got, r); return true },
	})
	if err != nil {
		t.Fatalf("Traverse: %v", err)
	}
	if len(got) != 1 || !got[0].EqualTo(d0) {
		t.Fatalf("expected [%v], got %v", d0, got)
	}
}

func TestIntervalTreeUnknownChromosome(t *testing.T) {
	it := newTestTree(Props{})
	_, err := it.Remove("chrZ", 5, tree.RemoveOptions{})
	if !errors.Is(err, ErrUnknownChromosome) {
		t.Fatalf("expected ErrUnknownChromosome, got %v", err)
	}
}

func TestIntervalTreeInsertAggregatesFailuresButAppliesRest(t *testing.T) {
	it := newTestTree(Props{BranchingFactor: 8})
	good := mustRegion(t, "chr1", 10, 20)
	bad := mustRegion(t, "chrZ", 10, 20)

	err := it.Insert([]InsertBatch{
		{Chr: "chr1", Data: []region.Region{good}, Range: region.Range{Start: 10, End: 20}},
		{Chr: "chrZ", Data: []region.Region{bad}, Range: region.Range{Start: 10, End: 20}},
	}, tree.InsertOptions{})
	if err == nil {
		t.Fatalf("expected an aggregated error for the unknown chromosome batch")
	}
	var agg *AggregatedInsertError
	if !errors.As(err, &agg) {
		t.Fatalf("expected *AggregatedInsertError, got %T: %v", err, err)
	}
	if len(agg.Failures) != 1 {
		t.Fatalf("expected exactly one failure, got %d", len(agg.Failures))
	}

	var got []region.Region
	if err := it.Traverse("chr1", region.Range{Start: 10, End: 20}, tree.TraverseOptions{
		DataFn: func(r region.Region) bool { got = append(got, r); return true },
	}); err != nil {
		t.Fatalf("Traverse: %v", err)
	}
	if len(got) != 1 || !got[0].EqualTo(good) {
		t.Fatalf("expected chr1's batch to have been applied despite chrZ's failure, got %v", got)
	}
}

func TestIntervalTreeGetUncachedRange(t *testing.T) {
	it := newTestTree(Props{BranchingFactor: 8})
	d0 := mustRegion(t, "chr1", 100, 200)
	if err := it.Insert([]InsertBatch{
		{Chr: "chr1", Data: []region.Region{d0}, Range: region.Range{Start: 100, End: 200}},
	}, tree.InsertOptions{}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	uncached, err := it.GetUncachedRange("chr1", region.Range{Start: 0, End: 1000})
	if err != nil {
		t.Fatalf("GetUncachedRange: %v", err)
	}
	if len(uncached) != 2 {
		t.Fatalf("expected two flanking uncached spans, got %v", uncached)
	}
}

func TestIntervalTreeClearResetsToUnloaded(t *testing.T) {
	it := newTestTree(Props{BranchingFactor: 8})
	d0 := mustRegion(t, "chr1", 10, 20)
	if err := it.Insert([]InsertBatch{
		{Chr: "chr1", Data: []region.Region{d0}, Range: region.Range{Start: 10, End: 20}},
	}, tree.InsertOptions{}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := it.Clear("chr1"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	has, err := it.HasUncachedRange("chr1", region.Range{Start: 10, End: 20})
	if err != nil {
		t.Fatalf("HasUncachedRange: %v", err)
	}
	if !has {
		t.Fatalf("expected the cleared chromosome to report its whole span as uncached again")
	}
}

// TestIntervalTreeWitherPipelineSubscribe covers spec property 8: it is
// Traverse, not Insert, that advances the wither generation. Insert and
// Traverse both stamp the tree with generation 0; Traverse's deferred pass
// then moves the counter to 1 (nothing is stale yet at LifeSpan 1), and
// Wither's own pass bumps it to 2, more than LifeSpan past that stamp. If
// Traverse stopped advancing the counter, the first wait below would time
// out, and Wither's pass would run at generation 1, within LifeSpan of the
// stamp, so the staleness assertion below would fail to trip.
func TestIntervalTreeWitherPipelineSubscribe(t *testing.T) {
	it := newTestTree(Props{BranchingFactor: 8, LifeSpan: 1})
	ch, unsub, ok := it.Subscribe()
	if !ok {
		t.Fatalf("expected a subscription channel when LifeSpan > 0")
	}
	defer unsub()

	d0 := mustRegion(t, "chr1", 10, 20)
	if err := it.Insert([]InsertBatch{
		{Chr: "chr1", Data: []region.Region{d0}, Range: region.Range{Start: 10, End: 20}},
	}, tree.InsertOptions{}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if err := it.Traverse("chr1", region.Range{Start: 0, End: 1000}, tree.TraverseOptions{AllowNull: true}); err != nil {
		t.Fatalf("Traverse: %v", err)
	}
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for Traverse's own generation advance")
	}

	it.Wither(true)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for a wither completion broadcast")
	}

	has, err := it.HasUncachedRange("chr1", region.Range{Start: 10, End: 20})
	if err != nil {
		t.Fatalf("HasUncachedRange: %v", err)
	}
	if !has {
		t.Fatalf("expected the subtree to have withered back to Unloaded after two generations")
	}
}

func TestIntervalTreeNoWitherPipelineWithoutLifeSpan(t *testing.T) {
	it := newTestTree(Props{BranchingFactor: 8})
	if _, _, ok := it.Subscribe(); ok {
		t.Fatalf("expected no subscription when LifeSpan is 0")
	}
	it.Wither(true) // must be a harmless no-op
}
