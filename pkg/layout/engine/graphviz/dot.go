package graphviz

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/flowlayout/pkg/layout"
)

// pointsPerInch converts pixel sizes (one pixel per point) to DOT inches.
const pointsPerInch = 72.0

// encoded is a request rendered as DOT together with the names used for it.
type encoded struct {
	src string

	// names maps request ids to DOT node or cluster names.
	names map[string]string

	// anchors maps container ids to the invisible node that edges attach to.
	anchors map[string]string
}

// ToDOT renders g as the DOT source that the engine hands to Graphviz.
func ToDOT(g *layout.Graph, opts Options) string {
	return encode(g, opts).src
}

func encode(g *layout.Graph, opts Options) *encoded {
	enc := &encoded{
		names:   make(map[string]string),
		anchors: make(map[string]string),
	}
	parent := make(map[string]string)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	rankdir := "LR"
	if !g.Horizontal() {
		rankdir = "TB"
	}
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  compound=true;\n")
	fmt.Fprintf(&buf, "  nodesep=%s;\n", inches(opts.NodeSep))
	fmt.Fprintf(&buf, "  ranksep=%s;\n", inches(opts.RankSep))
	buf.WriteString("  node [shape=box, fixedsize=true, label=\"\"];\n")
	buf.WriteString("\n")

	next := 0
	var write func(n *layout.Node, indent string)
	write = func(n *layout.Node, indent string) {
		name := "n" + strconv.Itoa(next)
		next++

		if !n.IsContainer() {
			enc.names[n.ID] = name
			fmt.Fprintf(&buf, "%s%s [width=%s, height=%s];\n", indent, name, inches(n.Width), inches(n.Height))
			return
		}

		cluster := "cluster_" + name
		enc.names[n.ID] = cluster
		enc.anchors[n.ID] = "a_" + name
		p := n.Padding()
		margin := max(p.Top, p.Right, p.Bottom, p.Left)

		fmt.Fprintf(&buf, "%ssubgraph %s {\n", indent, cluster)
		fmt.Fprintf(&buf, "%s  label=\"\";\n", indent)
		fmt.Fprintf(&buf, "%s  margin=%s;\n", indent, strconv.FormatFloat(margin, 'f', -1, 64))
		fmt.Fprintf(&buf, "%s  %s [shape=point, style=invis, width=0, height=0];\n", indent, enc.anchors[n.ID])
		for _, c := range n.Children {
			parent[c.ID] = n.ID
			write(c, indent+"  ")
		}
		fmt.Fprintf(&buf, "%s}\n", indent)
	}
	for _, c := range g.Children {
		write(c, "  ")
	}

	if len(g.Edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range g.Edges {
		src, dst := e.Source(), e.Target()
		if !edgeDrawable(src, dst, enc, parent) {
			continue
		}
		tail, head := enc.endpoint(src), enc.endpoint(dst)
		var attrs []string
		if _, ok := enc.anchors[src]; ok {
			attrs = append(attrs, "ltail="+enc.names[src])
		}
		if _, ok := enc.anchors[dst]; ok {
			attrs = append(attrs, "lhead="+enc.names[dst])
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %s -> %s;\n", tail, head)
			continue
		}
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", tail, head, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	enc.src = buf.String()
	return enc
}

// endpoint returns the DOT node an edge touching id attaches to.
func (enc *encoded) endpoint(id string) string {
	if a, ok := enc.anchors[id]; ok {
		return a
	}
	return enc.names[id]
}

// edgeDrawable rejects edges Graphviz cannot draw between clusters: unknown
// endpoints, self loops, and edges between a container and its own
// descendant.
func edgeDrawable(src, dst string, enc *encoded, parent map[string]string) bool {
	if _, ok := enc.names[src]; !ok {
		return false
	}
	if _, ok := enc.names[dst]; !ok {
		return false
	}
	if src == dst {
		return false
	}
	return !isAncestor(src, dst, parent) && !isAncestor(dst, src, parent)
}

func isAncestor(anc, id string, parent map[string]string) bool {
	for p, ok := parent[id]; ok; p, ok = parent[p] {
		if p == anc {
			return true
		}
	}
	return false
}

func inches(px float64) string {
	return strconv.FormatFloat(px/pointsPerInch, 'f', 4, 64)
}
