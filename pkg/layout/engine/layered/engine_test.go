package layered

import (
	"context"
	"reflect"
	"testing"

	"github.com/matzehuels/flowlayout/pkg/layout"
)

func leaf(id string, w, h float64) *layout.Node {
	return &layout.Node{ID: id, Width: w, Height: h}
}

func edge(id, src, dst string) *layout.Edge {
	return &layout.Edge{ID: id, Sources: []string{src}, Targets: []string{dst}}
}

func root(direction string, children []*layout.Node, edges ...*layout.Edge) *layout.Graph {
	return &layout.Graph{
		ID:            "root",
		LayoutOptions: map[string]string{layout.OptDirection: direction},
		Children:      children,
		Edges:         edges,
	}
}

func find(g *layout.Graph, id string) *layout.Node {
	var found *layout.Node
	g.Walk(func(n, _ *layout.Node) {
		if n.ID == id {
			found = n
		}
	})
	return found
}

func TestLayout_TwoLeavesHorizontal(t *testing.T) {
	g := root(layout.DirectionRight, []*layout.Node{leaf("a", 100, 50), leaf("b", 100, 50)}, edge("e", "a", "b"))

	out, err := New(DefaultOptions()).Layout(context.Background(), g)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	a, b := find(out, "a"), find(out, "b")
	if a.X != 0 || a.Y != 0 {
		t.Errorf("a = (%v,%v), want (0,0)", a.X, a.Y)
	}
	if b.X != 140 || b.Y != 0 {
		t.Errorf("b = (%v,%v), want (140,0)", b.X, b.Y)
	}
	if out.Width != 240 || out.Height != 50 {
		t.Errorf("root size = %vx%v, want 240x50", out.Width, out.Height)
	}
	if out.ID != "root" {
		t.Errorf("root id = %q", out.ID)
	}
}

func TestLayout_TwoLeavesVertical(t *testing.T) {
	g := root(layout.DirectionDown, []*layout.Node{leaf("a", 100, 50), leaf("b", 100, 50)}, edge("e", "a", "b"))

	out, err := New(DefaultOptions()).Layout(context.Background(), g)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if b := find(out, "b"); b.X != 0 || b.Y != 90 {
		t.Errorf("b = (%v,%v), want (0,90)", b.X, b.Y)
	}
}

func TestLayout_ContainerPadding(t *testing.T) {
	grp := &layout.Node{
		ID:       "g",
		Children: []*layout.Node{leaf("a", 100, 50), leaf("b", 100, 50)},
		LayoutOptions: map[string]string{
			layout.OptPadding:   layout.FormatPaddingOption(layout.Padding{Top: 40, Right: 20, Bottom: 20, Left: 20}),
			layout.OptDirection: layout.DirectionRight,
		},
	}
	out, err := New(DefaultOptions()).Layout(context.Background(), root(layout.DirectionRight, []*layout.Node{grp}))
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	a, b, g := find(out, "a"), find(out, "b"), find(out, "g")
	if a.X != 20 || a.Y != 40 {
		t.Errorf("a = (%v,%v), want (20,40)", a.X, a.Y)
	}
	if b.X != 20 || b.Y != 110 {
		t.Errorf("b = (%v,%v), want (20,110)", b.X, b.Y)
	}
	if g.Width != 140 || g.Height != 180 {
		t.Errorf("g = %vx%v, want 140x180", g.Width, g.Height)
	}
}

func TestLayout_EdgesLiftedToContainers(t *testing.T) {
	g1 := &layout.Node{ID: "g1", Children: []*layout.Node{leaf("a", 10, 10)}}
	g2 := &layout.Node{ID: "g2", Children: []*layout.Node{leaf("b", 10, 10)}}
	g := root(layout.DirectionRight, []*layout.Node{g2, g1}, edge("e", "a", "b"))

	out, err := New(DefaultOptions()).Layout(context.Background(), g)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if x1, x2 := find(out, "g1").X, find(out, "g2").X; x1 >= x2 {
		t.Errorf("g1.X = %v, g2.X = %v; the edge a->b should put g1 first", x1, x2)
	}
}

func TestLayout_EdgeIntoOwnContainerIgnored(t *testing.T) {
	grp := &layout.Node{ID: "g", Children: []*layout.Node{leaf("a", 10, 10)}}
	g := root(layout.DirectionRight, []*layout.Node{grp}, edge("e", "g", "a"), edge("d", "a", "missing"))

	if _, err := New(DefaultOptions()).Layout(context.Background(), g); err != nil {
		t.Errorf("Layout() error = %v", err)
	}
}

func TestLayout_Cycle(t *testing.T) {
	g := root(layout.DirectionRight,
		[]*layout.Node{leaf("a", 10, 10), leaf("b", 10, 10), leaf("c", 10, 10)},
		edge("1", "a", "b"), edge("2", "b", "c"), edge("3", "c", "a"))

	out, err := New(DefaultOptions()).Layout(context.Background(), g)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if xa, xb, xc := find(out, "a").X, find(out, "b").X, find(out, "c").X; !(xa < xb && xb < xc) {
		t.Errorf("x = %v, %v, %v; want a < b < c", xa, xb, xc)
	}
}

func TestLayout_RootPadding(t *testing.T) {
	g := root(layout.DirectionRight, []*layout.Node{leaf("a", 10, 10)})
	g.LayoutOptions[layout.OptPadding] = "[left=5, top=6, right=7, bottom=8]"

	out, _ := New(DefaultOptions()).Layout(context.Background(), g)
	if a := find(out, "a"); a.X != 5 || a.Y != 6 {
		t.Errorf("a = (%v,%v), want (5,6)", a.X, a.Y)
	}
	if out.Width != 22 || out.Height != 24 {
		t.Errorf("root = %vx%v, want 22x24", out.Width, out.Height)
	}
}

func TestLayout_Deterministic(t *testing.T) {
	build := func() *layout.Graph {
		inner := &layout.Node{ID: "g", Children: []*layout.Node{leaf("x", 30, 20), leaf("y", 40, 10)}}
		return root(layout.DirectionRight,
			[]*layout.Node{leaf("a", 10, 10), inner, leaf("b", 25, 15), leaf("c", 10, 40)},
			edge("1", "a", "x"), edge("2", "y", "b"), edge("3", "a", "c"), edge("4", "c", "b"), edge("5", "x", "y"))
	}
	e := New(DefaultOptions())

	first, err := e.Layout(context.Background(), build())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, _ := e.Layout(context.Background(), build())
		if !reflect.DeepEqual(first, again) {
			t.Fatal("Layout() is not deterministic")
		}
	}
}

func TestLayout_DoesNotMutateRequest(t *testing.T) {
	g := root(layout.DirectionRight, []*layout.Node{leaf("a", 10, 10), leaf("b", 10, 10)}, edge("e", "a", "b"))
	before := g.Clone()

	New(DefaultOptions()).Layout(context.Background(), g)

	if !reflect.DeepEqual(g, before) {
		t.Error("Layout() modified the request")
	}
}

func TestLayout_NoOverlapInLayer(t *testing.T) {
	children := []*layout.Node{leaf("a", 10, 30), leaf("b", 10, 30), leaf("c", 10, 30)}
	out, _ := New(DefaultOptions()).Layout(context.Background(), root(layout.DirectionRight, children))

	ys := []float64{find(out, "a").Y, find(out, "b").Y, find(out, "c").Y}
	if ys[0] != 0 || ys[1] != 50 || ys[2] != 100 {
		t.Errorf("y = %v, want [0 50 100]", ys)
	}
}

func TestLayout_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(DefaultOptions()).Layout(ctx, root(layout.DirectionRight, []*layout.Node{leaf("a", 1, 1)}))
	if err == nil {
		t.Error("Layout() with canceled context should fail")
	}
}

func TestLayout_Empty(t *testing.T) {
	out, err := New(DefaultOptions()).Layout(context.Background(), root(layout.DirectionRight, nil))
	if err != nil || out.Width != 0 || out.Height != 0 {
		t.Errorf("Layout(empty) = %+v, %v", out, err)
	}
}

func TestFingerprint(t *testing.T) {
	a := New(Options{NodeSpacing: 10, LayerSpacing: 20})
	b := New(Options{NodeSpacing: 10, LayerSpacing: 30})
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("different spacing should give different fingerprints")
	}
	if a.Name() != Name {
		t.Errorf("Name() = %q", a.Name())
	}
}
