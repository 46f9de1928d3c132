package diagram

import (
	"encoding/json"
	"maps"
	"strconv"
	"strings"
)

// Side names the boundary of a node where edges attach.
type Side string

// Attachment sides.
const (
	SideLeft   Side = "left"
	SideRight  Side = "right"
	SideTop    Side = "top"
	SideBottom Side = "bottom"
)

// Valid reports whether s is one of the four known sides.
func (s Side) Valid() bool {
	switch s {
	case SideLeft, SideRight, SideTop, SideBottom:
		return true
	}
	return false
}

// Position is a point relative to the parent node, or to the canvas for
// top-level nodes.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Style is the visual style record of a node. Values are whatever the
// editor stored: strings such as "120px" or "1px solid", numbers such as
// zIndex, or nested records. A nil Style means the node has no style record
// at all, which is different from an empty one.
type Style map[string]any

// Clone returns a shallow copy of s. Cloning a nil Style returns nil.
func (s Style) Clone() Style {
	if s == nil {
		return nil
	}
	return maps.Clone(s)
}

// Pixels reads a dimension stored either as a number or as a string such as
// "120px" or "120". The second result is false when key is missing or not
// numeric.
func (s Style) Pixels(key string) (float64, bool) {
	switch v := s[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Px formats a pixel dimension the way the editor expects it in styles.
func Px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// Node is one diagram node.
type Node struct {
	ID     string `json:"id"`
	Type   string `json:"type,omitempty"`
	Label  string `json:"label,omitempty"`
	Parent string `json:"parentNode,omitempty"`

	Position Position `json:"position"`
	Width    float64  `json:"width,omitempty"`
	Height   float64  `json:"height,omitempty"`
	Style    Style    `json:"style"`

	SourcePosition Side `json:"sourcePosition,omitempty"`
	TargetPosition Side `json:"targetPosition,omitempty"`

	Data map[string]any `json:"data,omitempty"`
}

// Size returns the node's width and height.
func (n *Node) Size() Size { return Size{Width: n.Width, Height: n.Height} }

// Clone returns a copy of n that shares nothing mutable with it.
// Data values are copied shallowly.
func (n *Node) Clone() *Node {
	c := *n
	c.Style = n.Style.Clone()
	if n.Data != nil {
		c.Data = maps.Clone(n.Data)
	}
	return &c
}

// Edge connects two nodes. Edges carry no geometry.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type,omitempty"`
	Label  string `json:"label,omitempty"`
}

// Diagram is a snapshot of all nodes and edges.
type Diagram struct {
	Nodes []*Node `json:"nodes"`
	Edges []Edge  `json:"edges"`
}

// Clone returns a deep copy of d.
func (d *Diagram) Clone() *Diagram {
	c := &Diagram{
		Nodes: make([]*Node, len(d.Nodes)),
		Edges: append([]Edge(nil), d.Edges...),
	}
	for i, n := range d.Nodes {
		c.Nodes[i] = n.Clone()
	}
	return c
}

// CloneNodes deep-copies a node slice.
func CloneNodes(nodes []*Node) []*Node {
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// Sizes maps node ids to measured dimensions. It satisfies the measurer
// interface used by the layout builder.
type Sizes map[string]Size

// Dimensions returns the measured size of id.
func (s Sizes) Dimensions(id string) (Size, bool) {
	sz, ok := s[id]
	return sz, ok
}
