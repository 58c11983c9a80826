package tree

import (
	"fmt"
	"io"
	"strings"

	"github.com/jbrowse-go/bintree/region"
)

// DotStyle renders node labels and Graphviz attribute strings for WriteDot.
// isLeaf distinguishes a SlotNode (true) from an InnerNode (false); kind is
// only meaningful when isLeaf is true.
type DotStyle struct {
	NodeLabel func(isLeaf bool, kind SlotKind, span region.Range) string
	NodeAttrs func(isLeaf bool, kind SlotKind, stale bool) string
}

// DefaultDotStyle labels nodes with their span and a bracket-kind tag, and
// fills slots by kind with the teacher's own hexcolors/hexhlcolors palette
// repurposed: Unloaded white, Empty light grey, Loaded blue, inner nodes
// pale blue, and any stale node orange.
func DefaultDotStyle() DotStyle {
	return DotStyle{
		NodeLabel: func(isLeaf bool, kind SlotKind, span region.Range) string {
			if !isLeaf {
				return span.String()
			}
			switch kind {
			case SlotUnloaded:
				return span.String() + "\\nunloaded"
			case SlotEmpty:
				return span.String() + "\\nempty"
			default:
				return span.String() + "\\nloaded"
			}
		},
		NodeAttrs: func(isLeaf bool, kind SlotKind, stale bool) string {
			fill := "#CCDDFF"
			shape := "circle"
			if isLeaf {
				shape = "box"
				switch kind {
				case SlotUnloaded:
					fill = "#FFFFFF"
				case SlotEmpty:
					fill = "#EEEEEE"
				default:
					fill = "#a3d7e4"
				}
			}
			if stale {
				fill = "#FFAA66"
			}
			return fmt.Sprintf(",style=filled,shape=%s,fillcolor=\"%s\"", shape, fill)
		},
	}
}

// WriteDot renders this index's tree structure in Graphviz DOT format,
// grounded on the teacher's Cord2Dot (dotty.go): a per-call node-id
// allocator, one label+attrs per InnerNode and per leaf-level SlotNode, and
// edges from every InnerNode to its children. currentGen marks nodes stale
// (withering-eligible) in the style callback; pass 0 to disable.
func (idx *Index) WriteDot(w io.Writer, style DotStyle, currentGen uint64) {
	io.WriteString(w, "strict digraph {\n")
	io.WriteString(w, "\tnode [fontname=Arial,fontsize=12];\n")

	ids := make(map[*InnerNode]int)
	next := 1
	alloc := func(n *InnerNode) int {
		if id, ok := ids[n]; ok {
			return id
		}
		ids[n] = next
		next++
		return ids[n]
	}

	var nodelist, edgelist strings.Builder
	var walk func(n *InnerNode)
	walk = func(n *InnerNode) {
		id := alloc(n)
		stale := idx.cfg.LifeSpan > 0 && currentGen > n.birthGen && currentGen-n.birthGen > idx.cfg.LifeSpan
		if n.reverseDepth == 0 {
			label := style.NodeLabel(false, 0, n.Span())
			attrs := style.NodeAttrs(false, 0, stale)
			fmt.Fprintf(&nodelist, "\"%d\" [label=%q %s];\n", id, label, attrs)
			for i, v := range n.values {
				slot := v.(*SlotNode)
				span := region.Range{Start: n.keys[i], End: n.keys[i+1]}
				slabel := style.NodeLabel(true, slot.Kind, span)
				sattrs := style.NodeAttrs(true, slot.Kind, stale)
				sid := fmt.Sprintf("%ds%d", id, i)
				fmt.Fprintf(&nodelist, "\"%s\" [label=%q %s];\n", sid, slabel, sattrs)
				fmt.Fprintf(&edgelist, "\"%d\" -> \"%s\";\n", id, sid)
			}
			return
		}
		label := style.NodeLabel(false, 0, n.Span())
		attrs := style.NodeAttrs(false, 0, stale)
		fmt.Fprintf(&nodelist, "\"%d\" [label=%q %s];\n", id, label, attrs)
		for _, v := range n.values {
			child := v.(*InnerNode)
			cid := alloc(child)
			fmt.Fprintf(&edgelist, "\"%d\" -> \"%d\";\n", id, cid)
			walk(child)
		}
	}
	walk(idx.root)

	io.WriteString(w, nodelist.String())
	io.WriteString(w, edgelist.String())
	io.WriteString(w, "}\n")
}
