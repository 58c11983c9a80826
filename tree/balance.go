package tree

import "github.com/jbrowse-go/bintree/region"

// restructureImmediateChildren enforces ⌈B/2⌉ ≤ childCount ≤ B (floor(B/2)
// in this implementation) on each of n's immediate children. It is only
// meaningful when those children are themselves *InnerNode — a leaf-level
// node's own slot count is the concern of ITS parent, not of the leaf node
// itself, so this is a no-op at reverseDepth 0.
//
// Grounded on btree.rebalanceChildAfterDelete / applyRebalancePolicy
// (npillmayer-cords/btree/tree.go), adapted from that tree's
// delete-triggered rebalancing to run after every insert and remove alike,
// and from borrow-one-element policies to move whole children between
// siblings (this index rebalances child COUNT, not byte content).
//
// It returns false if some child with too few children has no sibling to
// redistribute with or merge into (CannotBalance). InnerNode.Insert and
// InnerNode.Remove discard this result; the parent's own restructure pass,
// which runs after its child's, sees the under-filled node directly, and
// after a Remove Index.shrinkRoot promotes a root's sole child.
func (n *InnerNode) restructureImmediateChildren() bool {
	if n.reverseDepth == 0 {
		return true
	}
	resolved := true
	minFill := n.cfg.minFill()
	maxFill := n.cfg.BranchingFactor
	for i := 0; i < len(n.values); i++ {
		child := n.values[i].(*InnerNode)
		switch count := len(child.values); {
		case count < minFill:
			if !n.fixUnderflow(i) {
				resolved = false
			}
		case count > maxFill:
			n.fixOverflow(i)
		}
	}
	return resolved
}

func (n *InnerNode) fixUnderflow(i int) bool {
	child := n.values[i].(*InnerNode)
	if i > 0 {
		left := n.values[i-1].(*InnerNode)
		if len(left.values)+len(child.values) > n.cfg.BranchingFactor {
			n.redistributeAt(i-1, i)
			return true
		}
	}
	if i+1 < len(n.values) {
		right := n.values[i+1].(*InnerNode)
		if len(child.values)+len(right.values) > n.cfg.BranchingFactor {
			n.redistributeAt(i, i+1)
			return true
		}
	}
	if i > 0 {
		n.mergeAt(i-1, i)
		return true
	}
	if i+1 < len(n.values) {
		n.mergeAt(i, i+1)
		return true
	}
	// Sole child: nothing to redistribute or merge with at this level.
	return false
}

func (n *InnerNode) fixOverflow(i int) {
	child := n.values[i].(*InnerNode)
	if i > 0 {
		left := n.values[i-1].(*InnerNode)
		if len(left.values)+len(child.values) <= 2*n.cfg.BranchingFactor {
			n.redistributeAt(i-1, i)
			return
		}
	}
	if i+1 < len(n.values) {
		right := n.values[i+1].(*InnerNode)
		if len(child.values)+len(right.values) <= 2*n.cfg.BranchingFactor {
			n.redistributeAt(i, i+1)
			return
		}
	}
	k := (2 * len(child.values)) / n.cfg.BranchingFactor
	if k < 2 {
		k = 2
	}
	n.splitAt(i, k)
}

// redistributeAt rebalances the child counts of adjacent children i, j
// (j == i+1) by combining their (keys,values) and splitting the combination
// evenly, then fixes the parent's own boundary key between them.
func (n *InnerNode) redistributeAt(i, j int) {
	left := n.values[i].(*InnerNode)
	right := n.values[j].(*InnerNode)

	combinedKeys := append(append([]region.Pos(nil), left.keys[:len(left.keys)-1]...), right.keys...)
	combinedValues := append(append([]treeNode(nil), left.values...), right.values...)

	mid := len(combinedValues) / 2
	left.values = append([]treeNode(nil), combinedValues[:mid]...)
	left.keys = append([]region.Pos(nil), combinedKeys[:mid+1]...)
	right.values = append([]treeNode(nil), combinedValues[mid:]...)
	right.keys = append([]region.Pos(nil), combinedKeys[mid:]...)

	n.keys[j] = left.keys[len(left.keys)-1]
}

// mergeAt folds child j into child i and removes slot j from n.
func (n *InnerNode) mergeAt(i, j int) {
	left := n.values[i].(*InnerNode)
	right := n.values[j].(*InnerNode)

	left.values = append(left.values, right.values...)
	left.keys = append(left.keys[:len(left.keys)-1], right.keys...)

	n.values = append(n.values[:j], n.values[j+1:]...)
	n.keys = append(n.keys[:j], n.keys[j+1:]...)
}

// splitAt replaces child i with k roughly-equal siblings, inserting the
// k-1 additional boundary keys and children this requires into n.
func (n *InnerNode) splitAt(i, k int) {
	child := n.values[i].(*InnerNode)
	pieces := splitChildInto(child, k)

	newKeys := make([]region.Pos, 0, k-1)
	for p := 0; p < len(pieces)-1; p++ {
		pn := pieces[p].(*InnerNode)
		newKeys = append(newKeys, pn.keys[len(pn.keys)-1])
	}

	n.keys = spliceInsertPos(n.keys, i+1, newKeys)
	n.values = spliceInsertNodes(n.values, i+1, pieces[1:])
	n.values[i] = pieces[0]
}

func splitChildInto(child *InnerNode, k int) []treeNode {
	total := len(child.values)
	base, rem := total/k, total%k
	out := make([]treeNode, 0, k)
	valIdx, keyIdx := 0, 0
	for s := 0; s < k; s++ {
		size := base
		if s < rem {
			size++
		}
		vs := append([]treeNode(nil), child.values[valIdx:valIdx+size]...)
		ks := append([]region.Pos(nil), child.keys[keyIdx:keyIdx+size+1]...)
		out = append(out, &InnerNode{
			cfg:          child.cfg,
			reverseDepth: child.reverseDepth,
			keys:         ks,
			values:       vs,
			birthGen:     child.birthGen,
		})
		valIdx += size
		keyIdx += size
	}
	return out
}
