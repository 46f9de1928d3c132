package graphviz

import (
	"strings"
	"testing"

	"github.com/matzehuels/flowlayout/pkg/layout"
)

func sampleRequest(direction string) *layout.Graph {
	return &layout.Graph{
		ID:            "root",
		LayoutOptions: map[string]string{layout.OptDirection: direction},
		Children: []*layout.Node{
			{
				ID: "g",
				LayoutOptions: map[string]string{
					layout.OptPadding: "[left=20, top=40, right=20, bottom=20]",
				},
				Children: []*layout.Node{
					{ID: "a", Width: 100, Height: 50},
					{ID: "b", Width: 100, Height: 50},
				},
			},
			{ID: "c", Width: 100, Height: 50},
		},
		Edges: []*layout.Edge{
			{ID: "e1", Sources: []string{"a"}, Targets: []string{"c"}},
			{ID: "e2", Sources: []string{"g"}, Targets: []string{"c"}},
			{ID: "e3", Sources: []string{"g"}, Targets: []string{"a"}},
			{ID: "e4", Sources: []string{"a"}, Targets: []string{"ghost"}},
			{ID: "e5", Sources: []string{"c"}, Targets: []string{"c"}},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleRequest(layout.DirectionRight), DefaultOptions())

	want := []string{
		"rankdir=LR;",
		"compound=true;",
		"nodesep=0.2778;",
		"ranksep=0.5556;",
		"subgraph cluster_n0 {",
		"margin=40;",
		"a_n0 [shape=point, style=invis, width=0, height=0];",
		"n1 [width=1.3889, height=0.6944];",
		"n3 [width=1.3889, height=0.6944];",
		"n1 -> n3;",
		"a_n0 -> n3 [ltail=cluster_n0];",
	}
	for _, w := range want {
		if !strings.Contains(dot, w) {
			t.Errorf("ToDOT() missing %q:\n%s", w, dot)
		}
	}

	// Container to own child, unknown endpoints and self loops are dropped.
	if n := strings.Count(dot, "->"); n != 2 {
		t.Errorf("ToDOT() has %d edges, want 2:\n%s", n, dot)
	}
}

func TestToDOT_Vertical(t *testing.T) {
	dot := ToDOT(sampleRequest(layout.DirectionDown), DefaultOptions())
	if !strings.Contains(dot, "rankdir=TB;") {
		t.Errorf("ToDOT() missing rankdir=TB:\n%s", dot)
	}
}

func TestToDOT_UserIDsNotInOutput(t *testing.T) {
	g := &layout.Graph{Children: []*layout.Node{{ID: `weird "id" {}`, Width: 1, Height: 1}}}
	dot := ToDOT(g, DefaultOptions())
	if strings.Contains(dot, "weird") {
		t.Errorf("user ids should not reach DOT:\n%s", dot)
	}
}

func TestIsAncestor(t *testing.T) {
	parent := map[string]string{"b": "a", "c": "b"}
	tests := []struct {
		anc, id string
		want    bool
	}{
		{"a", "c", true},
		{"b", "c", true},
		{"c", "a", false},
		{"a", "a", false},
	}
	for _, tt := range tests {
		if got := isAncestor(tt.anc, tt.id, parent); got != tt.want {
			t.Errorf("isAncestor(%s, %s) = %v, want %v", tt.anc, tt.id, got, tt.want)
		}
	}
}
