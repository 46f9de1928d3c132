package layout

import (
	"slices"

	"github.com/matzehuels/flowlayout/pkg/diagram"
)

// Apply writes a layout result back onto the nodes recorded in idx.
//
// The result tree is walked depth-first. Each node found in idx gets the
// result's X/Y as its position and the attachment sides implied by
// cfg.Horizontal. A container's size is then raised, never lowered, to
// cover every direct child plus cfg's right and bottom padding:
//
//	width  = max(reported width,  child.X + child.Width  + right)
//	height = max(reported height, child.Y + child.Height + bottom)
//
// where a child container contributes its own recomputed size. Containers
// get the size as Width/Height, and as "<n>px" style entries on a copy of
// their style when they have one. Leaf sizes are not written.
//
// Result nodes missing from idx are skipped but their children are still
// visited; nodes missing from the result are left untouched. The result tree
// itself is not modified. Apply returns a new slice holding the same node
// pointers in the original order.
func Apply(result *Graph, nodes []*diagram.Node, cfg Config, idx *Index) []*diagram.Node {
	if idx == nil {
		idx = &Index{}
	}
	source, target := cfg.Sides()
	pad := cfg.Padding

	// visit positions n and its subtree and returns n's final size.
	var visit func(n *Node) (w, h float64)
	visit = func(n *Node) (float64, float64) {
		node := idx.Nodes[n.ID]
		if node != nil {
			node.Position = diagram.Position{X: n.X, Y: n.Y}
			node.TargetPosition = target
			node.SourcePosition = source
		}

		w, h := n.Width, n.Height
		if len(n.Children) == 0 {
			return w, h
		}
		for _, c := range n.Children {
			cw, ch := visit(c)
			w = max(w, c.X+cw+pad.Right)
			h = max(h, c.Y+ch+pad.Bottom)
		}

		if node != nil {
			node.Width, node.Height = w, h
			if node.Style != nil {
				style := node.Style.Clone()
				style["width"] = diagram.Px(w)
				style["height"] = diagram.Px(h)
				node.Style = style
			}
		}
		return w, h
	}

	if result != nil {
		for _, n := range result.Children {
			visit(n)
		}
	}
	return slices.Clone(nodes)
}
