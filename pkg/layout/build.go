package layout

import (
	"github.com/google/uuid"

	"github.com/matzehuels/flowlayout/pkg/diagram"
)

// Index records what Build saw, for use by Apply.
type Index struct {
	// Nodes maps ids to the caller's node objects.
	Nodes map[string]*diagram.Node

	// Dimensions maps ids to measured sizes; unmeasured nodes are 0x0.
	Dimensions map[string]diagram.Size

	// Children maps a parent id to its direct children in input order.
	// Top-level nodes are not listed.
	Children map[string][]*diagram.Node
}

// Build converts a flat node/edge collection into a nested layout request.
//
// Top-level nodes become children of a synthetic root with a random id, in
// input order. A node with children is a container: its size is zero and it
// carries cfg's padding and direction as layout hints. Every other node is a
// leaf sized by m. A nil m measures nodes with NodeMeasurer. Every edge is
// copied as a single-source, single-target request edge.
//
// Nodes whose parent is not in the collection are unreachable from the root
// and do not appear in the request. Build never modifies nodes or edges.
func Build(nodes []*diagram.Node, edges []diagram.Edge, m Measurer, cfg Config) (*Graph, *Index) {
	if m == nil {
		m = NodeMeasurer(nodes)
	}

	idx := &Index{
		Nodes:      make(map[string]*diagram.Node, len(nodes)),
		Dimensions: make(map[string]diagram.Size, len(nodes)),
		Children:   make(map[string][]*diagram.Node),
	}
	for _, n := range nodes {
		sz, _ := m.Dimensions(n.ID)
		idx.Dimensions[n.ID] = sz
		idx.Nodes[n.ID] = n
		if n.Parent != "" {
			idx.Children[n.Parent] = append(idx.Children[n.Parent], n)
		}
	}

	direction := cfg.Direction()
	padding := FormatPaddingOption(cfg.Padding)

	var build func(n *diagram.Node) *Node
	build = func(n *diagram.Node) *Node {
		sz := idx.Dimensions[n.ID]
		out := &Node{ID: n.ID, Width: sz.Width, Height: sz.Height}

		children := idx.Children[n.ID]
		if len(children) == 0 {
			return out
		}
		out.Width, out.Height = 0, 0
		out.Children = make([]*Node, len(children))
		for i, c := range children {
			out.Children[i] = build(c)
		}
		out.LayoutOptions = map[string]string{
			OptPadding:   padding,
			OptDirection: direction,
		}
		return out
	}

	g := &Graph{
		ID: uuid.NewString(),
		LayoutOptions: map[string]string{
			OptAlgorithm:         AlgorithmLayered,
			OptDirection:         direction,
			OptHierarchyHandling: HierarchyIncludeChildren,
		},
		Children: []*Node{},
		Edges:    make([]*Edge, 0, len(edges)),
	}
	for _, n := range nodes {
		if n.Parent == "" {
			g.Children = append(g.Children, build(n))
		}
	}
	for _, e := range edges {
		g.Edges = append(g.Edges, &Edge{
			ID:      e.ID,
			Sources: []string{e.Source},
			Targets: []string{e.Target},
		})
	}
	return g, idx
}
