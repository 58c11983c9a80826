package tree

// DefaultBranchingFactor is used whenever a Config leaves BranchingFactor
// unset or too small to admit a meaningful split/merge threshold.
const DefaultBranchingFactor = 50

// Config carries the knobs that shape a tree's index structure. It is
// supplied once, at construction, and is shared (read-only) by every node in
// the tree.
type Config struct {
	// BranchingFactor bounds how many children an inner node may hold
	// (B in the invariant ⌈B/2⌉ ≤ childCount ≤ B).
	BranchingFactor int

	// LifeSpan is the maximum number of generations a subtree may go
	// untouched before a wither pass prunes it back to Unloaded. Zero
	// disables withering.
	LifeSpan uint64

	// LocalOnly, when set, marks the tree as never populated lazily:
	// Index.Traverse treats any Unloaded slot as Empty, and withering is
	// disabled.
	LocalOnly bool

	// NeighboringLinks is accepted and stored but has no effect: no code
	// path sets the prev/next sibling pointers of InnerNode.
	NeighboringLinks bool
}

func (c Config) normalized() Config {
	if c.BranchingFactor < 4 {
		c.BranchingFactor = DefaultBranchingFactor
	}
	if c.LocalOnly {
		// A LocalOnly tree has no Unloaded slots to begin with, so there is
		// nothing a wither pass could usefully evict it back to.
		c.LifeSpan = 0
	}
	return c
}

// minFill is the reference implementation's effective lower bound on
// childCount, floor(B/2) rather than the textbook ceiling.
func (c Config) minFill() int {
	return c.BranchingFactor / 2
}
