// Package server exposes the layout orchestrator over HTTP.
//
// Routes:
//
//	POST /v1/layout    lay out a diagram
//	POST /v1/validate  check a diagram without laying it out
//	GET  /healthz      liveness probe
//	GET  /version      build information
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/flowlayout/pkg/buildinfo"
	"github.com/matzehuels/flowlayout/pkg/diagram"
	ferrors "github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

// Config holds the server settings.
type Config struct {
	Addr         string        // listen address (default: "127.0.0.1:8750")
	MaxBodyBytes int64         // request body limit (default: 4 MiB)
	Timeout      time.Duration // per-request layout deadline, 0 for none
	Logger       *log.Logger
}

// Server serves layout requests with a shared Layouter.
type Server struct {
	layouter *layout.Layouter
	cfg      Config
	logger   *log.Logger
	router   chi.Router
}

// New creates a Server around l.
func New(l *layout.Layouter, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8750"
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 4 << 20
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	s := &Server{layouter: l, cfg: cfg, logger: cfg.Logger}
	s.router = s.buildRouter()
	return s
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", s.cfg.Addr, "engine", s.layouter.Engine().Name())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/v1", func(r chi.Router) {
		r.Use(limitBody(s.cfg.MaxBodyBytes))
		r.Post("/layout", s.handleLayout)
		r.Post("/validate", s.handleValidate)
	})

	return r
}

// =============================================================================
// Wire types
// =============================================================================

// LayoutRequest is the body of POST /v1/layout.
type LayoutRequest struct {
	Nodes  []*diagram.Node `json:"nodes"`
	Edges  []diagram.Edge  `json:"edges"`
	Config *layout.Config  `json:"config,omitempty"`
	Strict bool            `json:"strict,omitempty"`
}

// LayoutResponse is the body returned by POST /v1/layout. When Applied is
// false the nodes are returned as received and Error says why.
type LayoutResponse struct {
	Nodes   []*diagram.Node `json:"nodes"`
	Edges   []diagram.Edge  `json:"edges"`
	Applied bool            `json:"applied"`
	Error   string          `json:"error,omitempty"`
}

// ErrorResponse is returned with every 4xx and 5xx status.
type ErrorResponse struct {
	Code    ferrors.Code `json:"code"`
	Message string       `json:"message"`
}

// ValidateResponse is the body of a successful POST /v1/validate.
type ValidateResponse struct {
	Valid bool `json:"valid"`
	Nodes int  `json:"nodes"`
	Edges int  `json:"edges"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := checkNodes(req.Nodes); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Strict {
		if err := diagram.Validate(req.Nodes, req.Edges); err != nil {
			s.writeError(w, err)
			return
		}
	}

	cfg := s.layouter.Config()
	if req.Config != nil {
		if err := req.Config.Validate(); err != nil {
			s.writeError(w, err)
			return
		}
		cfg = *req.Config
	}

	ctx := r.Context()
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	resp := LayoutResponse{Edges: emptyIfNil(req.Edges), Applied: true}
	nodes, err := s.layouter.Try(ctx, cfg, req.Nodes, req.Edges)
	if err != nil {
		s.logger.Warn("layout not applied", "engine", s.layouter.Engine().Name(), "nodes", len(req.Nodes), "err", err)
		nodes = req.Nodes
		resp.Applied = false
		resp.Error = err.Error()
	}
	resp.Nodes = emptyIfNil(nodes)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var d diagram.Diagram
	if err := decodeJSON(r.Body, &d); err != nil {
		s.writeError(w, err)
		return
	}
	if err := checkNodes(d.Nodes); err != nil {
		s.writeError(w, err)
		return
	}
	if err := diagram.Validate(d.Nodes, d.Edges); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{Valid: true, Nodes: len(d.Nodes), Edges: len(d.Edges)})
}

// =============================================================================
// Helpers
// =============================================================================

func decodeJSON(body io.Reader, v any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "decode request")
	}
	return nil
}

// checkNodes rejects null entries, which no later stage can handle.
func checkNodes(nodes []*diagram.Node) error {
	for i, n := range nodes {
		if n == nil {
			return ferrors.New(ferrors.ErrCodeInvalidDiagram, "node %d is null", i)
		}
	}
	return nil
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	code := ferrors.GetCode(err)
	if code == "" {
		code = ferrors.ErrCodeInternal
	}
	writeJSON(w, status, ErrorResponse{Code: code, Message: ferrors.UserMessage(err)})
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if ferrors.IsInputError(err) {
		return http.StatusBadRequest
	}
	switch ferrors.GetCode(err) {
	case ferrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ferrors.ErrCodeEngineFailed, ferrors.ErrCodeNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
