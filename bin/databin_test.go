package bin

import (
	"testing"

	"github.com/jbrowse-go/bintree/region"
)

func mustRegion(t *testing.T, chr string, start, end region.Pos) region.Region {
	t.Helper()
	r, err := region.New(chr, start, end)
	if err != nil {
		t.Fatalf("region.New(%s,%d,%d): %v", chr, start, end, err)
	}
	return r
}

func TestDataBinInsertReplacesStartListByDefault(t *testing.T) {
	d0 := mustRegion(t, "chr1", 3, 8)
	previous := mustRegion(t, "chr1", 3, 5)
	b := NewWithLists(3, []region.Region{previous}, nil)
	cursor := 0
	post := region.Range{Start: 3}
	_, err := b.Insert([]region.Region{d0}, &cursor, region.Range{Start: 3, End: 9}, nil, InsertOptions{}, &post)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if len(b.StartList) != 1 || !b.StartList[0].EqualTo(d0) {
		t.Fatalf("unexpected startList: %+v", b.StartList)
	}
	if post.End != 8 {
		t.Fatalf("expected postRange.End=8, got %d", post.End)
	}
	if cursor != 1 {
		t.Fatalf("expected cursor to advance past consumed entry, got %d", cursor)
	}
}

func TestDataBinInsertFoldsEarlierStartsIntoContinuedList(t *testing.T) {
	early := mustRegion(t, "chr1", 1, 20)
	here := mustRegion(t, "chr1", 5, 10)
	b := New(5)
	cursor := 0
	post := region.Range{}
	var seen []region.Region
	opts := InsertOptions{DataCallback: func(entry region.Region, _ region.Range) { seen = append(seen, entry) }}
	_, err := b.Insert([]region.Region{early, here}, &cursor, region.Range{Start: 5, End: 20}, nil, opts, &post)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if len(b.ContinuedList) != 1 || !b.ContinuedList[0].EqualTo(early) {
		t.Fatalf("expected early entry folded into continuedList, got %+v", b.ContinuedList)
	}
	if len(seen) != 2 {
		t.Fatalf("expected dataCallback fired for both entries, got %d", len(seen))
	}
}

func TestDataBinInsertAddNewSuppressesDuplicates(t *testing.T) {
	d, _ := region.New("chr1", 5, 10)
	b := NewWithLists(5, []region.Region{d}, nil)
	clone, _ := region.New("chr1", 5, 10)
	cursor := 0
	post := region.Range{}
	_, err := b.Insert([]region.Region{clone}, &cursor, region.Range{Start: 5, End: 10}, nil, InsertOptions{AddNew: true}, &post)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if len(b.StartList) != 1 {
		t.Fatalf("expected duplicate suppressed, got %+v", b.StartList)
	}
}

func TestDataBinInsertAddNewAllowsDuplicatesWhenRequested(t *testing.T) {
	d, _ := region.New("chr1", 5, 10)
	b := NewWithLists(5, []region.Region{d}, nil)
	clone, _ := region.New("chr1", 5, 10)
	cursor := 0
	post := region.Range{}
	_, err := b.Insert([]region.Region{clone}, &cursor, region.Range{Start: 5, End: 10}, nil, InsertOptions{AddNew: true, AllowDuplicates: true}, &post)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if len(b.StartList) != 2 {
		t.Fatalf("expected duplicate retained, got %+v", b.StartList)
	}
}

func TestDataBinRemoveCollapsesWhenEmpty(t *testing.T) {
	d, _ := region.New("chr1", 5, 10)
	b := NewWithLists(5, []region.Region{d}, nil)
	if vanished := b.Remove(5, RemoveOptions{}); !vanished {
		t.Fatalf("expected bin to vanish after removing its only entry")
	}
}

func TestDataBinRemoveExactMatchNarrows(t *testing.T) {
	a, _ := region.New("chr1", 5, 10)
	b2, _ := region.New("chr1", 5, 20)
	bin := NewWithLists(5, []region.Region{a, b2}, nil)
	vanished := bin.Remove(5, RemoveOptions{ExactMatch: true, Match: a})
	if vanished {
		t.Fatalf("bin should not vanish, one entry remains")
	}
	if len(bin.StartList) != 1 || !bin.StartList[0].EqualTo(b2) {
		t.Fatalf("expected only b2 to remain, got %+v", bin.StartList)
	}
}

func TestDataBinTraverseFirstBinEmitsContinuedList(t *testing.T) {
	cont, _ := region.New("chr1", 1, 100)
	start, _ := region.New("chr1", 5, 10)
	b := NewWithLists(5, []region.Region{start}, []region.Region{cont})
	var got []region.Region
	b.Traverse(true, func(r region.Region) bool { got = append(got, r); return true })
	if len(got) != 2 {
		t.Fatalf("expected both lists visited on first bin, got %d", len(got))
	}

	got = nil
	b.Traverse(false, func(r region.Region) bool { got = append(got, r); return true })
	if len(got) != 1 || !got[0].EqualTo(start) {
		t.Fatalf("expected only startList visited on non-first bin, got %+v", got)
	}
}

func TestDataBinTraverseBreaksOnFalse(t *testing.T) {
	a, _ := region.New("chr1", 5, 6)
	c, _ := region.New("chr1", 5, 7)
	b := NewWithLists(5, []region.Region{a, c}, nil)
	count := 0
	complete := b.Traverse(false, func(region.Region) bool { count++; return false })
	if complete {
		t.Fatalf("expected Traverse to report incomplete")
	}
	if count != 1 {
		t.Fatalf("expected exactly one callback before break, got %d", count)
	}
}

func TestMergeAfterAbsorbsEmptyStartListNeighbor(t *testing.T) {
	left := NewWithLists(5, nil, nil)
	right := NewWithLists(9, nil, []region.Region{mustRegion(t, "chr1", 1, 20)})
	if merged := left.MergeAfter(right); !merged {
		t.Fatalf("expected merge to succeed when right.StartList is empty")
	}
}

func TestMergeAfterProjectsWithoutReplacingIdentity(t *testing.T) {
	shared := mustRegion(t, "chr1", 1, 200)
	leftOwn := mustRegion(t, "chr1", 5, 50)
	left := NewWithLists(5, []region.Region{leftOwn}, []region.Region{shared})

	rightStored := shared.Clone() // structurally equal, distinct identity
	rightStart := mustRegion(t, "chr1", 9, 10)
	right := NewWithLists(9, []region.Region{rightStart}, []region.Region{rightStored})

	if merged := left.MergeAfter(right); merged {
		t.Fatalf("expected merge to fail: right has a non-empty startList")
	}
	for _, r := range right.ContinuedList {
		if r.EqualTo(shared) && !r.SameIdentity(rightStored) {
			t.Fatalf("projection replaced right's own identity with a foreign clone")
		}
	}
	found := false
	for _, r := range right.ContinuedList {
		if r.SameIdentity(leftOwn) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected left's own startList entry to be projected into right.ContinuedList")
	}
}

func TestPreInsertionLiftsEarlierStartsAndCanonicalizes(t *testing.T) {
	stored := mustRegion(t, "chr1", 1, 150)
	foreignClone := stored.Clone()
	data := []region.Region{mustRegion(t, "chr1", 9, 10)}

	canon := func(r region.Region) (region.Region, bool) {
		if r.EqualTo(stored) {
			return stored, true
		}
		return region.Region{}, false
	}
	remaining, continuedOut, err := PreInsertion(data, region.Range{Start: 9, End: 10}, []region.Region{foreignClone}, canon)
	if err != nil {
		t.Fatalf("PreInsertion: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("expected data entry left untouched (start >= insertRange.Start)")
	}
	if len(continuedOut) != 1 || !continuedOut[0].SameIdentity(stored) {
		t.Fatalf("expected canonicalization to replace foreign clone with stored identity")
	}
}

func TestPreInsertionRejectsInconsistentContinuedList(t *testing.T) {
	stored := mustRegion(t, "chr1", 1, 150)
	conflicting := mustRegion(t, "chr1", 1, 999)
	canon := func(r region.Region) (region.Region, bool) {
		return stored, true
	}
	_, _, err := PreInsertion(nil, region.Range{Start: 9, End: 10}, []region.Region{conflicting}, canon)
	if err != ErrInconsistentContinuedList {
		t.Fatalf("expected ErrInconsistentContinuedList, got %v", err)
	}
}
