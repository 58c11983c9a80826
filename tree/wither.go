package tree

// Wither prunes every subtree whose birthGen has fallen more than
// Config.LifeSpan generations behind currentGen back to a single Unloaded
// leaf covering that subtree's span. The root is never replaced: a stale
// root is reset in place to a single filler slot covering the whole index,
// as Clear does. A LifeSpan of 0 disables withering entirely.
func (idx *Index) Wither(currentGen uint64) {
	if idx.cfg.LifeSpan == 0 {
		return
	}
	if currentGen > idx.root.birthGen && currentGen-idx.root.birthGen > idx.cfg.LifeSpan {
		fillKind := SlotUnloaded
		if idx.cfg.LocalOnly {
			fillKind = SlotEmpty
		}
		idx.Clear(fillKind)
		idx.root.birthGen = currentGen
		return
	}
	idx.root = witherNode(idx.root, currentGen, idx.cfg)
	idx.root.isRoot = true
}

func witherNode(n *InnerNode, currentGen uint64, cfg Config) *InnerNode {
	if !n.isRoot && currentGen > n.birthGen && currentGen-n.birthGen > cfg.LifeSpan {
		fillKind := SlotUnloaded
		if cfg.LocalOnly {
			fillKind = SlotEmpty
		}
		return newLeafNode(cfg, n.keys[0], n.keys[len(n.keys)-1], fillKind, currentGen)
	}
	if n.reverseDepth > 0 {
		for i, v := range n.values {
			n.values[i] = witherNode(v.(*InnerNode), currentGen, cfg)
		}
	}
	return n
}
