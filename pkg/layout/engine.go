package layout

import "context"

// Engine positions a nested graph request.
//
// Layout must not modify the request. The returned graph mirrors the
// request's tree: the same node ids under the same parents, each annotated
// with X/Y relative to its parent and a Width/Height. Engines may revise
// container sizes; the applier recomputes them from the children anyway.
type Engine interface {
	// Name identifies the engine in logs and cache keys.
	Name() string

	// Layout positions g. It blocks until the layout is done or ctx ends.
	Layout(ctx context.Context, g *Graph) (*Graph, error)
}

type funcEngine struct {
	name string
	fn   func(context.Context, *Graph) (*Graph, error)
}

func (e funcEngine) Name() string { return e.name }

func (e funcEngine) Layout(ctx context.Context, g *Graph) (*Graph, error) {
	return e.fn(ctx, g)
}

// EngineFunc adapts a function to the Engine interface.
func EngineFunc(name string, fn func(context.Context, *Graph) (*Graph, error)) Engine {
	return funcEngine{name: name, fn: fn}
}
