package diagram

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	ferrors "github.com/matzehuels/flowlayout/pkg/errors"
)

func TestStylePixels(t *testing.T) {
	s := Style{
		"width":    "120px",
		"height":   " 80 ",
		"color":    "red",
		"minWidth": 64.5,
		"zIndex":   3,
		"padding":  json.Number("12"),
		"border":   map[string]any{"width": 1},
	}

	tests := []struct {
		key  string
		want float64
		ok   bool
	}{
		{"width", 120, true},
		{"height", 80, true},
		{"color", 0, false},
		{"minWidth", 64.5, true},
		{"zIndex", 3, true},
		{"padding", 12, true},
		{"border", 0, false},
		{"missing", 0, false},
	}
	for _, tt := range tests {
		got, ok := s.Pixels(tt.key)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Pixels(%q) = %v, %v, want %v, %v", tt.key, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPx(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{120, "120px"},
		{0, "0px"},
		{12.5, "12.5px"},
	}
	for _, tt := range tests {
		if got := Px(tt.in); got != tt.want {
			t.Errorf("Px(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNodeClone(t *testing.T) {
	n := &Node{ID: "a", Style: Style{"width": "1px"}, Data: map[string]any{"k": "v"}}
	c := n.Clone()
	c.Style["width"] = "2px"
	c.Data["k"] = "w"
	c.Position.X = 10

	if n.Style["width"] != "1px" {
		t.Error("Clone shares Style with the original")
	}
	if n.Data["k"] != "v" {
		t.Error("Clone shares Data with the original")
	}
	if n.Position.X != 0 {
		t.Error("Clone shares Position with the original")
	}

	if (&Node{ID: "b"}).Clone().Style != nil {
		t.Error("Clone of a nil Style should stay nil")
	}
}

func TestSizes(t *testing.T) {
	s := Sizes{"a": {Width: 10, Height: 20}}
	if got, ok := s.Dimensions("a"); !ok || got != (Size{10, 20}) {
		t.Errorf("Dimensions(a) = %v, %v", got, ok)
	}
	if _, ok := s.Dimensions("b"); ok {
		t.Error("Dimensions(b) should not be found")
	}
}

func TestUnmarshal(t *testing.T) {
	data := `{
	  "nodes": [
	    {"id": "g", "style": {"width": "300px"}},
	    {"id": "a", "parentNode": "g", "width": 100, "height": 50, "position": {"x": 1, "y": 2}}
	  ],
	  "edges": [{"id": "e", "source": "a", "target": "g"}]
	}`
	d, err := Unmarshal([]byte(data))
	if err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if len(d.Nodes) != 2 || len(d.Edges) != 1 {
		t.Fatalf("got %d nodes, %d edges", len(d.Nodes), len(d.Edges))
	}
	a := d.Nodes[1]
	if a.Parent != "g" || a.Width != 100 || a.Position != (Position{1, 2}) {
		t.Errorf("node a = %+v", a)
	}
	if d.Nodes[0].Style["width"] != "300px" {
		t.Errorf("style not decoded: %v", d.Nodes[0].Style)
	}
}

func TestUnmarshalEmpty(t *testing.T) {
	d, err := Unmarshal([]byte(`{}`))
	if err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if d.Nodes == nil || d.Edges == nil {
		t.Error("missing arrays should decode as empty slices")
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code ferrors.Code
	}{
		{"malformed", `{"nodes": [`, ferrors.ErrCodeInvalidInput},
		{"null node", `{"nodes": [null]}`, ferrors.ErrCodeInvalidDiagram},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.data))
			if !ferrors.Is(err, tt.code) {
				t.Errorf("Unmarshal() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "d.json")
	in := &Diagram{
		Nodes: []*Node{{ID: "a", Width: 10, Height: 5, SourcePosition: SideRight, TargetPosition: SideLeft}},
		Edges: []Edge{},
	}
	if err := WriteFile(in, path); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
	out, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if got := out.Nodes[0]; got.SourcePosition != SideRight || got.TargetPosition != SideLeft || got.Width != 10 {
		t.Errorf("round trip node = %+v", got)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	if !ferrors.Is(err, ferrors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestMarshalFieldNames(t *testing.T) {
	d := &Diagram{Nodes: []*Node{{ID: "a", Parent: "g", SourcePosition: SideBottom}}, Edges: []Edge{}}
	data, err := Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"parentNode": "g"`, `"sourcePosition": "bottom"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Marshal output missing %s:\n%s", want, data)
		}
	}
}

func TestUnmarshalNumericStyle(t *testing.T) {
	data := `{"nodes": [{"id": "g", "style": {"width": 200, "height": "90px", "zIndex": 1, "opacity": 0.5}}]}`
	d, err := Unmarshal([]byte(data))
	if err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	style := d.Nodes[0].Style
	if w, ok := style.Pixels("width"); !ok || w != 200 {
		t.Errorf("Pixels(width) = %v, %v, want 200, true", w, ok)
	}
	if h, ok := style.Pixels("height"); !ok || h != 90 {
		t.Errorf("Pixels(height) = %v, %v, want 90, true", h, ok)
	}
	if style["zIndex"] != 1.0 || style["opacity"] != 0.5 {
		t.Errorf("numeric style entries not kept: %v", style)
	}

	out, err := Marshal(d)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if !strings.Contains(string(out), `"zIndex": 1`) {
		t.Errorf("zIndex lost on re-encode:\n%s", out)
	}
}

func TestStyleRoundTripKeepsEmptyRecord(t *testing.T) {
	d := &Diagram{
		Nodes: []*Node{
			{ID: "empty", Style: Style{}},
			{ID: "none"},
		},
		Edges: []Edge{},
	}
	out, err := Marshal(d)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	back, err := Unmarshal(out)
	if err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if back.Nodes[0].Style == nil {
		t.Errorf("empty style record dropped:\n%s", out)
	}
	if back.Nodes[1].Style != nil {
		t.Errorf("nil style decoded as %v, want nil", back.Nodes[1].Style)
	}
}
