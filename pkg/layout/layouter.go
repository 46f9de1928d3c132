package layout

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowlayout/pkg/diagram"
	ferrors "github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/observability"
)

// Layouter lays out diagrams with one engine and a default configuration.
// It is safe for concurrent use; each call builds its own request.
type Layouter struct {
	engine   Engine
	measurer Measurer
	logger   *log.Logger

	mu  sync.RWMutex
	cfg Config
}

// Option configures a Layouter.
type Option func(*Layouter)

// WithConfig sets the initial default configuration.
func WithConfig(cfg Config) Option {
	return func(l *Layouter) { l.cfg = cfg }
}

// WithMeasurer sets the measurer used to size leaves. Without one, nodes are
// measured by their own Width/Height (see NodeMeasurer).
func WithMeasurer(m Measurer) Option {
	return func(l *Layouter) { l.measurer = m }
}

// WithLogger sets the logger that receives layout failures.
func WithLogger(logger *log.Logger) Option {
	return func(l *Layouter) { l.logger = logger }
}

// New returns a Layouter using engine and DefaultConfig.
func New(engine Engine, opts ...Option) *Layouter {
	l := &Layouter{
		engine: engine,
		logger: log.Default(),
		cfg:    DefaultConfig(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Engine returns the engine in use.
func (l *Layouter) Engine() Engine { return l.engine }

// Config returns the current default configuration.
func (l *Layouter) Config() Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// SetConfig replaces the default configuration for subsequent calls.
// Calls already running keep the configuration they started with.
func (l *Layouter) SetConfig(cfg Config) {
	l.mu.Lock()
	l.cfg = cfg
	l.mu.Unlock()
}

// Layout lays out nodes with the default configuration.
//
// An empty nodes slice is returned as is without calling the engine. If the
// engine fails, the failure is logged and nodes is returned unmodified; no
// node is touched unless the engine succeeded. On success the nodes are
// updated in place and returned in a new slice.
func (l *Layouter) Layout(ctx context.Context, nodes []*diagram.Node, edges []diagram.Edge) []*diagram.Node {
	return l.LayoutWith(ctx, l.Config(), nodes, edges)
}

// LayoutWith is Layout with cfg instead of the default configuration.
func (l *Layouter) LayoutWith(ctx context.Context, cfg Config, nodes []*diagram.Node, edges []diagram.Edge) []*diagram.Node {
	out, err := l.Try(ctx, cfg, nodes, edges)
	if err != nil {
		l.logger.Error("layout failed", "engine", l.engine.Name(), "nodes", len(nodes), "err", err)
		return nodes
	}
	return out
}

// Try is LayoutWith but returns the engine error instead of logging it. On
// error the returned slice is nodes itself and nothing was modified.
func (l *Layouter) Try(ctx context.Context, cfg Config, nodes []*diagram.Node, edges []diagram.Edge) ([]*diagram.Node, error) {
	if len(nodes) == 0 {
		return nodes, nil
	}

	req, idx := Build(nodes, edges, l.measurer, cfg)

	name := l.engine.Name()
	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, name, len(nodes))
	start := time.Now()

	result, err := l.engine.Layout(ctx, req)
	if err == nil && result == nil {
		err = ferrors.New(ferrors.ErrCodeEngineFailed, "%s returned no result", name)
	}
	if err != nil {
		err = classify(ctx, name, err)
	}
	hooks.OnLayoutComplete(ctx, name, time.Since(start), err)
	if err != nil {
		return nodes, err
	}

	l.logger.Debug("layout computed", "engine", name, "nodes", len(nodes), "edges", len(edges), "took", time.Since(start).Round(time.Millisecond))
	return Apply(result, nodes, cfg, idx), nil
}

// classify gives engine errors a code, keeping codes engines already set.
func classify(ctx context.Context, engine string, err error) error {
	if ferrors.GetCode(err) != "" {
		return err
	}
	if ctx.Err() == context.DeadlineExceeded {
		return ferrors.Wrap(ferrors.ErrCodeTimeout, err, "%s layout timed out", engine)
	}
	return ferrors.Wrap(ferrors.ErrCodeEngineFailed, err, "%s layout", engine)
}
