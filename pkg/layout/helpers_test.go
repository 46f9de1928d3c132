package layout

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/matzehuels/flowlayout/pkg/diagram"
)

// rect is a position and size assigned by placeEngine.
type rect struct{ x, y, w, h float64 }

// placeEngine returns a copy of the request with the given rectangles.
// Nodes without an entry keep their requested size at (0,0).
type placeEngine struct {
	rects map[string]rect
	calls atomic.Int32
}

func (e *placeEngine) Name() string { return "place" }

func (e *placeEngine) Layout(_ context.Context, g *Graph) (*Graph, error) {
	e.calls.Add(1)
	out := g.Clone()
	out.Walk(func(n, _ *Node) {
		if r, ok := e.rects[n.ID]; ok {
			n.X, n.Y = r.x, r.y
			if r.w != 0 || r.h != 0 {
				n.Width, n.Height = r.w, r.h
			}
		}
	})
	return out, nil
}

// failEngine always fails.
type failEngine struct{ calls atomic.Int32 }

func (e *failEngine) Name() string { return "fail" }

func (e *failEngine) Layout(context.Context, *Graph) (*Graph, error) {
	e.calls.Add(1)
	return nil, errors.New("boom")
}

func leaf(id, parent string, w, h float64) *diagram.Node {
	return &diagram.Node{ID: id, Parent: parent, Width: w, Height: h}
}

func container(id, parent string) *diagram.Node {
	return &diagram.Node{ID: id, Parent: parent, Style: diagram.Style{"border": "1px solid"}}
}
