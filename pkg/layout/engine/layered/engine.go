package layered

import (
	"context"
	"fmt"

	"github.com/matzehuels/flowlayout/pkg/layout"
)

// Name is the engine name used in configuration and cache keys.
const Name = "layered"

// Options control spacing, in pixels.
type Options struct {
	// NodeSpacing is the gap between neighbours in the same layer.
	NodeSpacing float64
	// LayerSpacing is the gap between consecutive layers.
	LayerSpacing float64
	// Sweeps is the number of barycenter sweep pairs. Zero means 4.
	Sweeps int
}

// DefaultOptions returns 20px between nodes and 40px between layers.
func DefaultOptions() Options {
	return Options{NodeSpacing: 20, LayerSpacing: 40, Sweeps: 4}
}

// Engine implements layout.Engine.
type Engine struct {
	opts Options
}

// New returns an engine with opts.
func New(opts Options) *Engine {
	if opts.Sweeps <= 0 {
		opts.Sweeps = 4
	}
	return &Engine{opts: opts}
}

// Name returns "layered".
func (e *Engine) Name() string { return Name }

// Fingerprint describes the spacing so cached results are not shared
// between differently configured engines.
func (e *Engine) Fingerprint() string {
	return fmt.Sprintf("node=%g,layer=%g,sweeps=%d", e.opts.NodeSpacing, e.opts.LayerSpacing, e.opts.Sweeps)
}

// Layout positions a copy of g. The root is padded by its own elk.padding
// hint, if any.
func (e *Engine) Layout(ctx context.Context, g *layout.Graph) (*layout.Graph, error) {
	out := g.Clone()
	h := newHierarchy(out)

	root := &frame{
		children:   out.Children,
		horizontal: out.Horizontal(),
		padding:    out.Padding(),
	}
	w, ht, err := e.layoutFrame(ctx, h, root)
	if err != nil {
		return nil, err
	}
	out.Width, out.Height = w, ht
	return out, nil
}

// frame is one level of nesting: the root or a container.
type frame struct {
	id         string
	children   []*layout.Node
	horizontal bool
	padding    layout.Padding
}

// layoutFrame lays out f's children (recursively, innermost first) and
// returns f's padded size.
func (e *Engine) layoutFrame(ctx context.Context, h *hierarchy, f *frame) (float64, float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	for _, c := range f.children {
		if !c.IsContainer() {
			continue
		}
		sub := &frame{
			id:         c.ID,
			children:   c.Children,
			horizontal: c.Horizontal(f.horizontal),
			padding:    c.Padding(),
		}
		w, ht, err := e.layoutFrame(ctx, h, sub)
		if err != nil {
			return 0, 0, err
		}
		c.Width, c.Height = w, ht
	}

	succ := h.liftedEdges(f.id, f.children)
	w, ht := e.place(f, succ)
	return w, ht, nil
}

var _ layout.Engine = (*Engine)(nil)
