package tree

import (
	"github.com/jbrowse-go/bintree/bin"
	"github.com/jbrowse-go/bintree/region"
)

// RemoveOptions configures a single Remove call.
type RemoveOptions struct {
	// ExactMatch narrows removal at the target coordinate to entries
	// structurally equal to Match, instead of dropping every startList
	// entry that begins there.
	ExactMatch bool
	Match      region.Region

	// ConvertToUnloaded leaves an emptied slot Unloaded (forcing a
	// re-fetch before it is trusted again) instead of the default Empty.
	ConvertToUnloaded bool
}

// Remove drops the entry (or entries) starting at target from whichever
// bin holds them, converting the slot to filler if that empties it, and
// merging the filler with its new neighbors. It reports whether a Loaded
// bin was found at target at all (not whether any specific entry matched).
func (n *InnerNode) Remove(target region.Pos, opts RemoveOptions, gen uint64) (found bool, err error) {
	n.touch(gen)
	if target < n.keys[0] || target >= n.keys[len(n.keys)-1] {
		return false, nil
	}
	if n.reverseDepth > 0 {
		i := n.indexContaining(target)
		child := n.values[i].(*InnerNode)
		found, err = child.Remove(target, opts, gen)
		if err != nil {
			return found, err
		}
		n.restructureImmediateChildren()
		return found, nil
	}

	idx := n.indexContaining(target)
	slot := n.values[idx].(*SlotNode)
	if slot.Kind != SlotLoaded {
		return false, nil
	}
	vanished := slot.Bin.Remove(target, bin.RemoveOptions{ExactMatch: opts.ExactMatch, Match: opts.Match})
	if vanished {
		fillKind := SlotEmpty
		if opts.ConvertToUnloaded {
			fillKind = SlotUnloaded
		}
		n.values[idx] = &SlotNode{Kind: fillKind}
		if idx > 0 {
			before := len(n.values)
			n.tryMergeWithLeft(idx)
			if len(n.values) < before {
				idx--
			}
		}
		if idx+1 < len(n.values) {
			n.tryMergeWithLeft(idx + 1)
		}
	}
	return true, nil
}
