// Package tree implements the B+-tree-derived coordinate index that sits
// above bin.DataBin: InnerNode, the branching node of the index, and
// SlotNode, its leaf-level terminal. Grounded on btree.innerNode /
// btree.leafNode (npillmayer-cords/btree/tree.go, nodes.go), adapted from a
// generic persistent rope index to a concrete, in-place-mutated interval
// index: this tree has a single owner and does not path-copy on write.
package tree

import (
	"github.com/jbrowse-go/bintree/region"
)

// treeNode is either an *InnerNode (reverseDepth > 0) or a *SlotNode
// (reverseDepth == 0, terminal).
type treeNode interface {
	isLeaf() bool
}

// InnerNode holds keys[0..n] and values[0..n-1] such that keys[i] is the
// start coordinate of values[i] and keys[i+1] is its end. At reverseDepth 0,
// values are *SlotNode; above that, values are *InnerNode.
type InnerNode struct {
	keys   []region.Pos
	values []treeNode

	reverseDepth int
	isRoot       bool

	// prev/next are sibling links at the same reverseDepth. They are
	// never set, whatever Config.NeighboringLinks says, and stay nil.
	prev, next *InnerNode

	// birthGen is the generation at which this node was last touched by
	// an insert, remove, or traversal. A wither pass prunes subtrees
	// whose birthGen has fallen more than Config.LifeSpan generations
	// behind the tree's current generation.
	birthGen uint64

	cfg Config
}

func (n *InnerNode) isLeaf() bool { return false }

// Span reports the coordinate range this node covers.
func (n *InnerNode) Span() region.Range {
	return region.Range{Start: n.keys[0], End: n.keys[len(n.keys)-1]}
}

// ChildCount is the number of immediate children (slots or inner nodes).
func (n *InnerNode) ChildCount() int { return len(n.values) }

func (n *InnerNode) touch(gen uint64) {
	if gen > n.birthGen {
		n.birthGen = gen
	}
}

// newLeafNode builds a single-slot leaf-level node spanning [start,end)
// with the given filler kind.
func newLeafNode(cfg Config, start, end region.Pos, kind SlotKind, gen uint64) *InnerNode {
	return &InnerNode{
		cfg:          cfg,
		reverseDepth: 0,
		keys:         []region.Pos{start, end},
		values:       []treeNode{&SlotNode{Kind: kind}},
		birthGen:     gen,
	}
}

func insertPosAt(s []region.Pos, idx int, v region.Pos) []region.Pos {
	s = append(s, 0)
	copy(s[idx+1:], s[idx:len(s)-1])
	s[idx] = v
	return s
}

func insertNodeAt(s []treeNode, idx int, v treeNode) []treeNode {
	s = append(s, nil)
	copy(s[idx+1:], s[idx:len(s)-1])
	s[idx] = v
	return s
}

func spliceInsertPos(s []region.Pos, at int, ins []region.Pos) []region.Pos {
	if len(ins) == 0 {
		return s
	}
	out := make([]region.Pos, 0, len(s)+len(ins))
	out = append(out, s[:at]...)
	out = append(out, ins...)
	out = append(out, s[at:]...)
	return out
}

func spliceInsertNodes(s []treeNode, at int, ins []treeNode) []treeNode {
	if len(ins) == 0 {
		return s
	}
	out := make([]treeNode, 0, len(s)+len(ins))
	out = append(out, s[:at]...)
	out = append(out, ins...)
	out = append(out, s[at:]...)
	return out
}
