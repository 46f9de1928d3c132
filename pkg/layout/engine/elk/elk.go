// Package elk delegates layout to an Eclipse Layout Kernel service.
//
// The request graph already uses the ELK JSON format, so it is POSTed as is
// (plus spacing options) to an HTTP endpoint wrapping elkjs, for example
//
//	app.post("/layout", async (req, res) => res.json(await elk.layout(req.body)))
//
// and the positioned graph in the response is returned. ELK reports node
// coordinates relative to the parent, which is what layout.Apply expects.
// Transient failures (connection errors, 5xx, 429) are retried with backoff.
package elk

import (
	"context"
	"fmt"
	"strconv"
	"time"

	ferrors "github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/httputil"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

// Name is the engine name used in configuration and cache keys.
const Name = "elk"

// ELK spacing option keys.
const (
	OptNodeSpacing  = "elk.spacing.nodeNode"
	OptLayerSpacing = "elk.layered.spacing.nodeNodeBetweenLayers"
)

// Options configure the service endpoint.
type Options struct {
	// URL of the layout endpoint. Required.
	URL string
	// Timeout bounds one HTTP round trip. Zero uses httputil.DefaultTimeout.
	Timeout time.Duration
	// Attempts is the number of tries for transient failures. Zero means 3.
	Attempts int
	// RetryDelay is the first backoff delay. Zero means 500ms.
	RetryDelay time.Duration
	// Headers are sent with every request, e.g. for authentication.
	Headers map[string]string

	// NodeSpacing and LayerSpacing are passed as ELK spacing options on the
	// root when non-zero.
	NodeSpacing  float64
	LayerSpacing float64
}

// Engine implements layout.Engine against an ELK service.
type Engine struct {
	opts   Options
	client *httputil.Client
}

// New validates opts and returns an engine.
func New(opts Options) (*Engine, error) {
	if err := ferrors.ValidateURL(opts.URL); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeInvalidConfig, err, "elk url")
	}
	if opts.Attempts <= 0 {
		opts.Attempts = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 500 * time.Millisecond
	}
	return &Engine{
		opts:   opts,
		client: httputil.NewClient(opts.Timeout, opts.Headers),
	}, nil
}

// Name returns "elk".
func (e *Engine) Name() string { return Name }

// Fingerprint identifies the endpoint and spacing for cache keys.
func (e *Engine) Fingerprint() string {
	return fmt.Sprintf("%s,node=%g,layer=%g", e.opts.URL, e.opts.NodeSpacing, e.opts.LayerSpacing)
}

// Layout sends g to the service and returns the positioned graph.
func (e *Engine) Layout(ctx context.Context, g *layout.Graph) (*layout.Graph, error) {
	req := g.Clone()
	if e.opts.NodeSpacing > 0 || e.opts.LayerSpacing > 0 {
		if req.LayoutOptions == nil {
			req.LayoutOptions = make(map[string]string)
		}
		if e.opts.NodeSpacing > 0 {
			req.LayoutOptions[OptNodeSpacing] = strconv.FormatFloat(e.opts.NodeSpacing, 'f', -1, 64)
		}
		if e.opts.LayerSpacing > 0 {
			req.LayoutOptions[OptLayerSpacing] = strconv.FormatFloat(e.opts.LayerSpacing, 'f', -1, 64)
		}
	}

	var result *layout.Graph
	err := httputil.Retry(ctx, e.opts.Attempts, e.opts.RetryDelay, func() error {
		result = &layout.Graph{}
		return e.client.PostJSON(ctx, e.opts.URL, req, result)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ferrors.Wrap(ferrors.ErrCodeTimeout, err, "elk layout")
		}
		if httputil.IsRetryable(err) {
			return nil, ferrors.Wrap(ferrors.ErrCodeNetwork, err, "elk service at %s", e.opts.URL)
		}
		return nil, ferrors.Wrap(ferrors.ErrCodeEngineFailed, err, "elk layout")
	}

	if err := checkShape(g, result); err != nil {
		return nil, ferrors.Wrap(ferrors.ErrCodeEngineFailed, err, "elk response")
	}
	return result, nil
}

// checkShape verifies that every requested node came back under the same
// parent.
func checkShape(req, res *layout.Graph) error {
	got := make(map[string]string)
	res.Walk(func(n, parent *layout.Node) {
		got[n.ID] = parentID(parent)
	})
	var err error
	req.Walk(func(n, parent *layout.Node) {
		if err != nil {
			return
		}
		p, ok := got[n.ID]
		switch {
		case !ok:
			err = fmt.Errorf("node %q missing", n.ID)
		case p != parentID(parent):
			err = fmt.Errorf("node %q moved from %q to %q", n.ID, parentID(parent), p)
		}
	})
	return err
}

func parentID(n *layout.Node) string {
	if n == nil {
		return ""
	}
	return n.ID
}

var _ layout.Engine = (*Engine)(nil)
