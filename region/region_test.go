package region

import (
	"errors"
	"testing"
)

func TestNewValidatesRange(t *testing.T) {
	if _, err := New("chr1", 10, 5); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := New("", 0, 10); !errors.Is(err, ErrEmptyChr) {
		t.Fatalf("expected ErrEmptyChr, got %v", err)
	}
}

func TestCompareOrdersByStartThenEnd(t *testing.T) {
	a, _ := New("chr1", 5, 100)
	b, _ := New("chr1", 5, 150)
	c, _ := New("chr1", 9, 10)
	if Compare(a, b) >= 0 {
		t.Fatalf("expected a < b")
	}
	if Compare(b, c) >= 0 {
		t.Fatalf("expected b < c")
	}
	if Compare(a, a) != 0 {
		t.Fatalf("expected a == a")
	}
}

func TestOverlapsIsHalfOpen(t *testing.T) {
	a, _ := New("chr1", 5, 10)
	b, _ := New("chr1", 10, 20)
	if a.Overlaps(b) {
		t.Fatalf("touching intervals must not overlap")
	}
	c, _ := New("chr1", 9, 20)
	if !a.Overlaps(c) {
		t.Fatalf("expected overlap")
	}
	d, _ := New("chr2", 5, 10)
	if a.Overlaps(d) {
		t.Fatalf("different chromosomes must never overlap")
	}
}

func TestEqualToFallsBackToIdentity(t *testing.T) {
	a, _ := New("chr1", 5, 10)
	b, _ := New("chr1", 5, 10)
	if !a.EqualTo(b) {
		t.Fatalf("expected structural equality with identical payload (nil==nil)")
	}
	a = a.WithPayload(1, nil)
	b = b.WithPayload(2, nil)
	if a.EqualTo(b) {
		t.Fatalf("expected inequality: distinct payloads, no predicate")
	}
}

func TestEqualToUsesInjectedPredicate(t *testing.T) {
	a, _ := New("chr1", 5, 10)
	b, _ := New("chr1", 5, 10)
	a = a.WithPayload("x", func(p, q any) bool { return true })
	b = b.WithPayload("y", nil)
	if !a.EqualTo(b) {
		t.Fatalf("expected predicate to force equality")
	}
}

func TestCloneChangesIdentityNotEquality(t *testing.T) {
	a, _ := New("chr1", 5, 10)
	clone := a.Clone()
	if !a.EqualTo(clone) {
		t.Fatalf("clone must remain structurally equal")
	}
	if a.SameIdentity(clone) {
		t.Fatalf("clone must not share identity with original")
	}
	if !a.SameIdentity(a) {
		t.Fatalf("a region is always same-identity as itself")
	}
}

func TestAssimilateExpandsOnTouchOrOverlap(t *testing.T) {
	a, _ := New("chr1", 10, 20)
	b, _ := New("chr1", 20, 30)
	widened := a.Assimilate(b)
	if widened.Start != 10 || widened.End != 30 {
		t.Fatalf("expected [10,30), got [%d,%d)", widened.Start, widened.End)
	}
	other, _ := New("chr2", 20, 30)
	unchanged := a.Assimilate(other)
	if unchanged.Start != 10 || unchanged.End != 20 {
		t.Fatalf("cross-chromosome assimilate must be a no-op")
	}
}

func TestConcatAbsorbsContiguousSuccessor(t *testing.T) {
	a, _ := New("chr1", 10, 20)
	b, _ := New("chr1", 20, 30)
	joined := a.Concat(b)
	if joined.Start != 10 || joined.End != 30 {
		t.Fatalf("expected [10,30), got [%d,%d)", joined.Start, joined.End)
	}
}

func TestGetMinus(t *testing.T) {
	a, _ := New("chr1", 0, 100)
	middle, _ := New("chr1", 40, 60)
	pieces := a.GetMinus(middle)
	if len(pieces) != 2 || pieces[0].End != 40 || pieces[1].Start != 60 {
		t.Fatalf("unexpected pieces: %+v", pieces)
	}

	left, _ := New("chr1", 0, 50)
	pieces = a.GetMinus(left)
	if len(pieces) != 1 || pieces[0].Start != 50 {
		t.Fatalf("unexpected left-trim pieces: %+v", pieces)
	}

	disjoint, _ := New("chr1", 200, 300)
	pieces = a.GetMinus(disjoint)
	if len(pieces) != 1 || pieces[0].Chr != a.Chr || pieces[0].Start != a.Start || pieces[0].End != a.End ||
		pieces[0].Strand != a.Strand || pieces[0].Payload != a.Payload || pieces[0].seq != a.seq {
		t.Fatalf("disjoint subtraction must return the region unchanged")
	}
}

func TestRegionToString(t *testing.T) {
	a, _ := New("chr1", 4, 8)
	a = a.WithStrand('-')
	if got, want := a.RegionToString(), "chr1:4-8(-)"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestParseRegionString(t *testing.T) {
	cases := []struct {
		in         string
		chr        string
		start, end Pos
	}{
		{"chr1:5-150", "chr1", 4, 150},
		{"chr1:5", "chr1", 4, 5},
		{"chr1", "chr1", 0, MaxPos},
	}
	for _, c := range cases {
		r, err := ParseRegionString(c.in)
		if err != nil {
			t.Fatalf("ParseRegionString(%q): %v", c.in, err)
		}
		if r.Chr != c.chr || r.Start != c.start || r.End != c.end {
			t.Fatalf("ParseRegionString(%q) = %+v, want chr=%s [%d,%d)", c.in, r, c.chr, c.start, c.end)
		}
	}
}

func TestParseRegionStringRejectsMalformed(t *testing.T) {
	for _, in := range []string{"", ":5-10", "chr1:abc", "chr1:10-5"} {
		if _, err := ParseRegionString(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}
