package layered

import "github.com/matzehuels/flowlayout/pkg/layout"

// hierarchy answers ancestry questions about a request tree and holds its
// edges for lifting.
type hierarchy struct {
	parent map[string]string // "" for children of the root
	edges  []*layout.Edge
}

func newHierarchy(g *layout.Graph) *hierarchy {
	h := &hierarchy{
		parent: make(map[string]string),
		edges:  g.Edges,
	}
	g.Walk(func(n, parent *layout.Node) {
		if parent != nil {
			h.parent[n.ID] = parent.ID
		} else {
			h.parent[n.ID] = ""
		}
	})
	return h
}

// childUnder returns the ancestor of id (or id itself) whose parent is
// scope, and whether id lies under scope at all.
func (h *hierarchy) childUnder(scope, id string) (string, bool) {
	if _, ok := h.parent[id]; !ok {
		return "", false
	}
	for {
		p := h.parent[id]
		if p == scope {
			return id, true
		}
		if p == "" {
			return "", false
		}
		id = p
	}
}

// liftedEdges returns the successor lists, by index into children, of the
// edges whose endpoints fall under two different children of scope.
// Duplicate edges collapse into one.
func (h *hierarchy) liftedEdges(scope string, children []*layout.Node) [][]int {
	pos := make(map[string]int, len(children))
	for i, c := range children {
		pos[c.ID] = i
	}
	succ := make([][]int, len(children))
	seen := make(map[[2]int]bool)

	for _, e := range h.edges {
		src, ok := h.childUnder(scope, e.Source())
		if !ok {
			continue
		}
		dst, ok := h.childUnder(scope, e.Target())
		if !ok || src == dst {
			continue
		}
		k := [2]int{pos[src], pos[dst]}
		if seen[k] {
			continue
		}
		seen[k] = true
		succ[k[0]] = append(succ[k[0]], k[1])
	}
	return succ
}
