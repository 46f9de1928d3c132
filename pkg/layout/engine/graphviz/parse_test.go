package graphviz

import (
	"math"
	"testing"

	"github.com/matzehuels/flowlayout/pkg/layout"
)

// positionedOutput is dot output for sampleRequest without edges, written
// by hand so the expected coordinates are easy to follow: in top-down
// coordinates the cluster is at (8,8) sized 140x184, a at (28,48), b at
// (28,122) and c at (160,75), in a 260x200 drawing.
const positionedOutput = `digraph G {
	graph [bb="0,0,260,200",
		compound=true,
		rankdir=LR
	];
	node [label="\N"];
	subgraph cluster_n0 {
		graph [bb="8,8,148,192",
			label="",
			margin=40
		];
		a_n0	[height=0,
			pos="20,100",
			width=0];
		n1	[height=0.6944,
			pos="78,127",
			width=1.3889];
		n2	[height=0.6944,
			pos="78,53",
			width=1.3889];
	}
	n3	[height=0.6944,
		pos="210,100",
		width=1.3889];
}
`

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestParsePositioned(t *testing.T) {
	req := sampleRequest(layout.DirectionRight)
	req.Edges = nil
	out := req.Clone()
	enc := encode(out, DefaultOptions())

	pos, err := parsePositioned([]byte(positionedOutput))
	if err != nil {
		t.Fatalf("parsePositioned() error = %v", err)
	}
	if err := pos.apply(out, enc); err != nil {
		t.Fatalf("apply() error = %v", err)
	}

	if out.Width != 260 || out.Height != 200 {
		t.Errorf("root = %vx%v, want 260x200", out.Width, out.Height)
	}

	tests := []struct {
		node       *layout.Node
		x, y, w, h float64
	}{
		{out.Children[0], 8, 8, 140, 184},
		{out.Children[0].Children[0], 20, 40, 100, 50},
		{out.Children[0].Children[1], 20, 114, 100, 50},
		{out.Children[1], 160, 75, 100, 50},
	}
	for _, tt := range tests {
		n := tt.node
		if !near(n.X, tt.x) || !near(n.Y, tt.y) || !near(n.Width, tt.w) || !near(n.Height, tt.h) {
			t.Errorf("%s = (%v,%v) %vx%v, want (%v,%v) %vx%v",
				n.ID, n.X, n.Y, n.Width, n.Height, tt.x, tt.y, tt.w, tt.h)
		}
	}
}

func TestParsePositioned_MissingNode(t *testing.T) {
	req := &layout.Graph{Children: []*layout.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"}}}
	enc := encode(req, DefaultOptions())

	pos, err := parsePositioned([]byte(positionedOutput))
	if err != nil {
		t.Fatal(err)
	}
	if err := pos.apply(req, enc); err == nil {
		t.Error("apply() should fail when a node is missing from the output")
	}
}

func TestParsePositioned_NoBoundingBox(t *testing.T) {
	if _, err := parsePositioned([]byte("digraph G { n0; }")); err == nil {
		t.Error("parsePositioned() should fail without a bounding box")
	}
}

func TestParseFloats(t *testing.T) {
	tests := []struct {
		in      string
		n       int
		want    []float64
		wantErr bool
	}{
		{`"1,2"`, 2, []float64{1, 2}, false},
		{`0,0,10.5,20`, 4, []float64{0, 0, 10.5, 20}, false},
		{"\"1,\\\n2\"", 2, []float64{1, 2}, false},
		{`"1,2,3"`, 2, nil, true},
		{`"x,2"`, 2, nil, true},
		{``, 2, nil, true},
	}
	for _, tt := range tests {
		got, err := parseFloats(tt.in, tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseFloats(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("parseFloats(%q) = %v, want %v", tt.in, got, tt.want)
				break
			}
		}
	}
}
