package graphviz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	ferrors "github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

// Name is the engine name used in configuration and cache keys.
const Name = "graphviz"

// positionedDOT asks Graphviz for DOT output annotated with bb and pos.
const positionedDOT = graphviz.Format("dot")

// Options control spacing, in pixels.
type Options struct {
	// NodeSep is the minimum gap between nodes of the same rank.
	NodeSep float64
	// RankSep is the minimum gap between ranks.
	RankSep float64
}

// DefaultOptions returns 20px node separation and 40px rank separation.
func DefaultOptions() Options {
	return Options{NodeSep: 20, RankSep: 40}
}

// Engine implements layout.Engine with Graphviz dot.
type Engine struct {
	opts Options
}

// New returns an engine with opts.
func New(opts Options) *Engine {
	return &Engine{opts: opts}
}

// Name returns "graphviz".
func (e *Engine) Name() string { return Name }

// Fingerprint describes the spacing so cached results are not shared
// between differently configured engines.
func (e *Engine) Fingerprint() string {
	return fmt.Sprintf("nodesep=%g,ranksep=%g", e.opts.NodeSep, e.opts.RankSep)
}

// Layout positions a copy of g.
func (e *Engine) Layout(ctx context.Context, g *layout.Graph) (*layout.Graph, error) {
	out := g.Clone()
	if len(out.Children) == 0 {
		return out, nil
	}

	enc := encode(out, e.opts)
	rendered, err := render(ctx, enc.src)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeEngineFailed, err, "graphviz")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pos, err := parsePositioned(rendered)
	if err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeEngineFailed, err, "graphviz")
	}
	if err := pos.apply(out, enc); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeEngineFailed, err, "graphviz")
	}
	return out, nil
}

// render runs dot on src and returns positioned DOT.
func render(ctx context.Context, src string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, positionedDOT, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var _ layout.Engine = (*Engine)(nil)
