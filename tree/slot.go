package tree

import (
	"github.com/jbrowse-go/bintree/bin"
	"github.com/jbrowse-go/bintree/region"
)

// SlotKind distinguishes the three states a leaf-level slot may be in.
type SlotKind uint8

const (
	// SlotUnloaded means the span has never been fetched; a read that
	// reaches it must report DataNotReadyError rather than assume it is
	// empty.
	SlotUnloaded SlotKind = iota
	// SlotEmpty means the span was fetched and confirmed to hold no
	// intervals.
	SlotEmpty
	// SlotLoaded means the span holds a materialized DataBin.
	SlotLoaded
)

// SlotNode is a leaf child of an InnerNode at reverseDepth 0. It carries no
// coordinates of its own; its span is implied by the parent's keys[i] and
// keys[i+1].
type SlotNode struct {
	Kind SlotKind
	Bin  *bin.DataBin
}

func (s *SlotNode) isLeaf() bool { return true }

// NewUnloadedSlot returns a slot reporting DataNotReadyError on read.
func NewUnloadedSlot() *SlotNode { return &SlotNode{Kind: SlotUnloaded} }

// NewEmptySlot returns a slot known to hold nothing.
func NewEmptySlot() *SlotNode { return &SlotNode{Kind: SlotEmpty} }

// NewLoadedSlot wraps an already-populated bin.
func NewLoadedSlot(b *bin.DataBin) *SlotNode { return &SlotNode{Kind: SlotLoaded, Bin: b} }

// clone returns an independent copy suitable for use as the other half of a
// boundary split. Unloaded/Empty fillers merely duplicate; a Loaded slot
// is never cloned this way (callers split it via bin.ProjectForward into a
// freshly addressed bin instead).
func (s *SlotNode) clone() *SlotNode {
	switch s.Kind {
	case SlotLoaded:
		return &SlotNode{Kind: SlotLoaded, Bin: bin.NewWithLists(
			s.Bin.Start,
			append([]region.Region(nil), s.Bin.StartList...),
			append([]region.Region(nil), s.Bin.ContinuedList...),
		)}
	default:
		return &SlotNode{Kind: s.Kind}
	}
}
