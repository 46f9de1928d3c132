package graphviz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"

	"github.com/matzehuels/flowlayout/pkg/layout"
)

// box is an absolute rectangle with the origin at the top-left of the
// drawing and y pointing down.
type box struct {
	x, y, w, h float64
}

// positioned is the parsed output of a Graphviz run.
type positioned struct {
	g      *gographviz.Graph
	bb     [4]float64 // llx, lly, urx, ury in Graphviz coordinates
	width  float64
	height float64
}

func parsePositioned(out []byte) (*positioned, error) {
	g, err := gographviz.Read(out)
	if err != nil {
		return nil, fmt.Errorf("parse positioned DOT: %w", err)
	}
	bb, err := parseFloats(g.Attrs["bb"], 4)
	if err != nil {
		return nil, fmt.Errorf("graph bb: %w", err)
	}
	p := &positioned{g: g, width: bb[2] - bb[0], height: bb[3] - bb[1]}
	copy(p.bb[:], bb)
	return p, nil
}

// leaf returns the box of a leaf node drawn with the given size.
func (p *positioned) leaf(name string, w, h float64) (box, error) {
	n, ok := p.g.Nodes.Lookup[name]
	if !ok {
		return box{}, fmt.Errorf("node %s missing from output", name)
	}
	c, err := parseFloats(n.Attrs["pos"], 2)
	if err != nil {
		return box{}, fmt.Errorf("node %s pos: %w", name, err)
	}
	return box{
		x: c[0] - w/2 - p.bb[0],
		y: p.bb[3] - c[1] - h/2,
		w: w,
		h: h,
	}, nil
}

// cluster returns the box of a cluster subgraph.
func (p *positioned) cluster(name string) (box, error) {
	sg, ok := p.g.SubGraphs.SubGraphs[name]
	if !ok {
		return box{}, fmt.Errorf("cluster %s missing from output", name)
	}
	bb, err := parseFloats(sg.Attrs["bb"], 4)
	if err != nil {
		return box{}, fmt.Errorf("cluster %s bb: %w", name, err)
	}
	return box{
		x: bb[0] - p.bb[0],
		y: p.bb[3] - bb[3],
		w: bb[2] - bb[0],
		h: bb[3] - bb[1],
	}, nil
}

// apply copies the boxes onto out, converting to parent-relative
// coordinates. Children of a container are shifted so that the top-left
// most child sits exactly at the container's left and top padding.
func (p *positioned) apply(out *layout.Graph, enc *encoded) error {
	var visit func(nodes []*layout.Node, originX, originY float64, pad layout.Padding, normalize bool) error
	visit = func(nodes []*layout.Node, originX, originY float64, pad layout.Padding, normalize bool) error {
		boxes := make([]box, len(nodes))
		for i, n := range nodes {
			var (
				b   box
				err error
			)
			if n.IsContainer() {
				b, err = p.cluster(enc.names[n.ID])
			} else {
				b, err = p.leaf(enc.names[n.ID], n.Width, n.Height)
			}
			if err != nil {
				return err
			}
			boxes[i] = b
		}

		dx, dy := 0.0, 0.0
		if normalize && len(boxes) > 0 {
			minX, minY := boxes[0].x, boxes[0].y
			for _, b := range boxes[1:] {
				minX, minY = min(minX, b.x), min(minY, b.y)
			}
			dx = originX + pad.Left - minX
			dy = originY + pad.Top - minY
		}

		for i, n := range nodes {
			b := boxes[i]
			b.x += dx
			b.y += dy
			n.X, n.Y = b.x-originX, b.y-originY
			if n.IsContainer() {
				n.Width, n.Height = b.w, b.h
				if err := visit(n.Children, b.x, b.y, n.Padding(), true); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := visit(out.Children, 0, 0, layout.Padding{}, false); err != nil {
		return err
	}
	out.Width, out.Height = p.width, p.height
	return nil
}

// parseFloats parses a Graphviz "a,b,..." value, tolerating quotes and line
// continuations.
func parseFloats(v string, n int) ([]float64, error) {
	v = strings.ReplaceAll(v, "\\\n", "")
	v = strings.Trim(strings.TrimSpace(v), "\"")
	parts := strings.Split(v, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d numbers, got %q", n, v)
	}
	out := make([]float64, n)
	for i, s := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number in %q", v)
		}
		out[i] = f
	}
	return out, nil
}
