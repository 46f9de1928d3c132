package elk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	ferrors "github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

func request() *layout.Graph {
	return &layout.Graph{
		ID:            "root",
		LayoutOptions: map[string]string{layout.OptDirection: layout.DirectionRight},
		Children: []*layout.Node{
			{ID: "g", Children: []*layout.Node{{ID: "a", Width: 100, Height: 50}}},
			{ID: "b", Width: 100, Height: 50},
		},
		Edges: []*layout.Edge{{ID: "e", Sources: []string{"a"}, Targets: []string{"b"}}},
	}
}

// fakeELK positions every node at increasing x.
func fakeELK(t *testing.T, seen *layout.Graph) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var g layout.Graph
		if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
			t.Errorf("decode request: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if seen != nil {
			*seen = g
		}
		x := 0.0
		g.Walk(func(n, _ *layout.Node) {
			n.X = x
			x += 10
		})
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(&g)
	}
}

func TestLayout(t *testing.T) {
	var seen layout.Graph
	srv := httptest.NewServer(fakeELK(t, &seen))
	defer srv.Close()

	e, err := New(Options{URL: srv.URL, NodeSpacing: 15, LayerSpacing: 30})
	if err != nil {
		t.Fatal(err)
	}
	req := request()
	out, err := e.Layout(context.Background(), req)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	if out.Children[1].X != 20 || out.Children[0].Children[0].X != 10 {
		t.Errorf("positions not taken from response: %+v", out.Children)
	}
	if seen.LayoutOptions[OptNodeSpacing] != "15" || seen.LayoutOptions[OptLayerSpacing] != "30" {
		t.Errorf("spacing options not sent: %v", seen.LayoutOptions)
	}
	if seen.Edges[0].Source() != "a" {
		t.Errorf("edges not sent: %+v", seen.Edges)
	}
	if _, ok := req.LayoutOptions[OptNodeSpacing]; ok {
		t.Error("Layout() modified the request")
	}
}

func TestLayout_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	ok := fakeELK(t, nil)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		ok(w, r)
	}))
	defer srv.Close()

	e, _ := New(Options{URL: srv.URL, Attempts: 3, RetryDelay: time.Millisecond})
	if _, err := e.Layout(context.Background(), request()); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestLayout_GivesUpAsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	e, _ := New(Options{URL: srv.URL, Attempts: 2, RetryDelay: time.Millisecond})
	_, err := e.Layout(context.Background(), request())
	if !ferrors.Is(err, ferrors.ErrCodeNetwork) {
		t.Errorf("Layout() error = %v, want NETWORK_ERROR", err)
	}
}

func TestLayout_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad graph", http.StatusBadRequest)
	}))
	defer srv.Close()

	e, _ := New(Options{URL: srv.URL, Attempts: 3, RetryDelay: time.Millisecond})
	_, err := e.Layout(context.Background(), request())
	if !ferrors.Is(err, ferrors.ErrCodeEngineFailed) {
		t.Errorf("Layout() error = %v, want ENGINE_FAILED", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestLayout_RejectsWrongShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(&layout.Graph{ID: "root", Children: []*layout.Node{{ID: "b"}}})
	}))
	defer srv.Close()

	e, _ := New(Options{URL: srv.URL})
	_, err := e.Layout(context.Background(), request())
	if !ferrors.Is(err, ferrors.ErrCodeEngineFailed) {
		t.Errorf("Layout() error = %v, want ENGINE_FAILED", err)
	}
}

func TestNew_InvalidURL(t *testing.T) {
	for _, u := range []string{"", "ftp://example.com"} {
		if _, err := New(Options{URL: u}); !ferrors.Is(err, ferrors.ErrCodeInvalidConfig) {
			t.Errorf("New(%q) error = %v, want INVALID_CONFIG", u, err)
		}
	}
}

func TestCheckShape(t *testing.T) {
	req := request()

	moved := request()
	a := moved.Children[0].Children[0]
	moved.Children[0].Children = nil
	moved.Children = append(moved.Children, a)

	if err := checkShape(req, request()); err != nil {
		t.Errorf("checkShape(same) = %v", err)
	}
	if err := checkShape(req, moved); err == nil {
		t.Error("checkShape() should detect a node under a different parent")
	}
}
