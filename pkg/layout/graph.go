package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Layout option keys and values understood by layered engines. The names
// follow the Eclipse Layout Kernel so a request can be sent to elkjs as is.
const (
	OptAlgorithm         = "elk.algorithm"
	OptDirection         = "elk.direction"
	OptHierarchyHandling = "elk.hierarchyHandling"
	OptPadding           = "elk.padding"

	AlgorithmLayered         = "layered"
	DirectionRight           = "RIGHT"
	DirectionDown            = "DOWN"
	HierarchyIncludeChildren = "INCLUDE_CHILDREN"
)

// Graph is the root of a layout request or result.
type Graph struct {
	ID            string            `json:"id"`
	LayoutOptions map[string]string `json:"layoutOptions,omitempty"`
	Children      []*Node           `json:"children,omitempty"`
	Edges         []*Edge           `json:"edges,omitempty"`

	// Width and Height are the extent of the whole drawing, set by engines.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Node is a node of a layout request or result. X and Y are relative to the
// parent node.
type Node struct {
	ID            string            `json:"id"`
	X             float64           `json:"x"`
	Y             float64           `json:"y"`
	Width         float64           `json:"width"`
	Height        float64           `json:"height"`
	Children      []*Node           `json:"children,omitempty"`
	LayoutOptions map[string]string `json:"layoutOptions,omitempty"`
}

// Edge connects exactly one source to exactly one target.
type Edge struct {
	ID      string   `json:"id"`
	Sources []string `json:"sources"`
	Targets []string `json:"targets"`
}

// Source returns the single source id, or "" if there is none.
func (e *Edge) Source() string {
	if len(e.Sources) == 0 {
		return ""
	}
	return e.Sources[0]
}

// Target returns the single target id, or "" if there is none.
func (e *Edge) Target() string {
	if len(e.Targets) == 0 {
		return ""
	}
	return e.Targets[0]
}

// IsContainer reports whether n has children.
func (n *Node) IsContainer() bool { return len(n.Children) > 0 }

// Padding returns the node's padding hint, or zero padding when it has none.
func (n *Node) Padding() Padding {
	p, _ := ParsePaddingOption(n.LayoutOptions[OptPadding])
	return p
}

// Horizontal reports the node's direction hint, falling back to def.
func (n *Node) Horizontal(def bool) bool {
	return horizontalOption(n.LayoutOptions, def)
}

// Horizontal reports the root direction, defaulting to horizontal like ELK.
func (g *Graph) Horizontal() bool {
	return horizontalOption(g.LayoutOptions, true)
}

// Padding returns the root padding hint, or zero padding when it has none.
func (g *Graph) Padding() Padding {
	p, _ := ParsePaddingOption(g.LayoutOptions[OptPadding])
	return p
}

func horizontalOption(opts map[string]string, def bool) bool {
	switch strings.ToUpper(opts[OptDirection]) {
	case DirectionRight, "LEFT":
		return true
	case DirectionDown, "UP":
		return false
	}
	return def
}

// FormatPaddingOption renders p as an elk.padding value,
// e.g. "[left=20, top=40, right=20, bottom=20]".
func FormatPaddingOption(p Padding) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return fmt.Sprintf("[left=%s, top=%s, right=%s, bottom=%s]", f(p.Left), f(p.Top), f(p.Right), f(p.Bottom))
}

// ParsePaddingOption parses an elk.padding value. Sides may appear in any
// order; missing sides are zero. An empty string is zero padding.
func ParsePaddingOption(s string) (Padding, error) {
	var p Padding
	s = strings.TrimSpace(s)
	if s == "" {
		return p, nil
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	for _, part := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			return Padding{}, fmt.Errorf("padding option %q: missing '='", part)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return Padding{}, fmt.Errorf("padding option %q: %w", part, err)
		}
		switch strings.TrimSpace(k) {
		case "left":
			p.Left = f
		case "top":
			p.Top = f
		case "right":
			p.Right = f
		case "bottom":
			p.Bottom = f
		default:
			return Padding{}, fmt.Errorf("padding option %q: unknown side", part)
		}
	}
	return p, nil
}

// Walk visits every node depth-first in pre-order. parent is nil for the
// children of the root.
func (g *Graph) Walk(fn func(n, parent *Node)) {
	var visit func(n, parent *Node)
	visit = func(n, parent *Node) {
		fn(n, parent)
		for _, c := range n.Children {
			visit(c, n)
		}
	}
	for _, c := range g.Children {
		visit(c, nil)
	}
}

// Len returns the number of nodes below the root.
func (g *Graph) Len() int {
	n := 0
	g.Walk(func(*Node, *Node) { n++ })
	return n
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		ID:            g.ID,
		LayoutOptions: cloneOptions(g.LayoutOptions),
		Children:      cloneNodes(g.Children),
		Width:         g.Width,
		Height:        g.Height,
	}
	if g.Edges != nil {
		c.Edges = make([]*Edge, len(g.Edges))
		for i, e := range g.Edges {
			c.Edges[i] = &Edge{
				ID:      e.ID,
				Sources: append([]string(nil), e.Sources...),
				Targets: append([]string(nil), e.Targets...),
			}
		}
	}
	return c
}

func cloneNodes(nodes []*Node) []*Node {
	if nodes == nil {
		return nil
	}
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		cp := *n
		cp.LayoutOptions = cloneOptions(n.LayoutOptions)
		cp.Children = cloneNodes(n.Children)
		out[i] = &cp
	}
	return out
}

func cloneOptions(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
