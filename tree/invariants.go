package tree

import "fmt"

// Check walks the tree verifying the structural invariants a careful
// reviewer would want confirmed after a sequence of inserts/removes: key
// arrays one longer than value arrays, keys non-decreasing, and child counts
// within [minFill, B] at every non-root node. It is meant for tests, not
// the hot path.
func (idx *Index) Check() error {
	return idx.root.check(idx.cfg, true)
}

func (n *InnerNode) check(cfg Config, isRoot bool) error {
	if len(n.keys) != len(n.values)+1 {
		return fmt.Errorf("tree: node has %d keys but %d values", len(n.keys), len(n.values))
	}
	for i := 1; i < len(n.keys); i++ {
		if n.keys[i] < n.keys[i-1] {
			return fmt.Errorf("tree: keys not sorted at index %d", i)
		}
	}
	if !isRoot {
		if c := len(n.values); c < cfg.minFill() || c > cfg.BranchingFactor {
			return fmt.Errorf("tree: childCount %d outside [%d,%d]", c, cfg.minFill(), cfg.BranchingFactor)
		}
	}
	if n.reverseDepth > 0 {
		for _, v := range n.values {
			child := v.(*InnerNode)
			if child.reverseDepth != n.reverseDepth-1 {
				return fmt.Errorf("tree: reverseDepth mismatch: parent %d, child %d", n.reverseDepth, child.reverseDepth)
			}
			if err := child.check(cfg, false); err != nil {
				return err
			}
		}
	}
	return nil
}
