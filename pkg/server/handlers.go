package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/matzehuels/coarsen/pkg/buildinfo"
	"github.com/matzehuels/coarsen/pkg/contract"
	errs "github.com/matzehuels/coarsen/pkg/errors"
	"github.com/matzehuels/coarsen/pkg/graph"
	"github.com/matzehuels/coarsen/pkg/pipeline"
)

// =============================================================================
// Request / Response Types
// =============================================================================

type contractRequest struct {
	Graph      graph.Document `json:"graph"`
	Iterations *int           `json:"iterations,omitempty"` // defaults to pipeline.DefaultIterations
	Levels     bool           `json:"levels,omitempty"`
	Refresh    bool           `json:"refresh,omitempty"`
}

type hierarchyRequest struct {
	Graph   graph.Document `json:"graph"`
	Levels  int            `json:"levels"`
	Refresh bool           `json:"refresh,omitempty"`
}

type renderRequest struct {
	Graph      graph.Document `json:"graph"`
	Mapping    []int          `json:"mapping,omitempty"`    // contracted on the fly when empty
	Iterations *int           `json:"iterations,omitempty"` // used when Mapping is empty
	Format     string         `json:"format,omitempty"`
	Detailed   bool           `json:"detailed,omitempty"`
}

type contractResponse struct {
	RequestID  string                `json:"request_id"`
	GraphHash  string                `json:"graph_hash"`
	Cached     bool                  `json:"cached"`
	Mapping    *graph.Mapping        `json:"mapping"`
	Rounds     []contract.RoundStats `json:"rounds,omitempty"`
	Modularity *float64              `json:"modularity,omitempty"` // omitted for negative weights
	DurationMS float64               `json:"duration_ms"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// Content types per render format.
var contentTypes = map[string]string{
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatDOT: "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatPDF: "application/pdf",
	pipeline.FormatPNG: "image/png",
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, errs.New(errs.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
}

func (s *Server) handleContract(w http.ResponseWriter, r *http.Request) {
	var req contractRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := graph.FromDocument(req.Graph)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := pipeline.Options{
		Iterations: iterationsOrDefault(req.Iterations),
		Levels:     req.Levels,
		Refresh:    req.Refresh,
	}
	s.contract(w, r, g, opts)
}

func (s *Server) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	var req hierarchyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := pipeline.Options{Iterations: req.Levels, Levels: true, Refresh: req.Refresh}
	if err := opts.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	bounds := contract.Options{Iterations: opts.Iterations, Levels: true}
	// Check the declared size first so an oversized request allocates nothing.
	if err := contract.ValidateLevels(bounds, req.Graph.NodeCount); err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := graph.FromDocument(req.Graph)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := contract.ValidateLevels(bounds, g.NodeCount()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.contract(w, r, g, opts)
}

func (s *Server) contract(w http.ResponseWriter, r *http.Request, g *graph.Graph, opts pipeline.Options) {
	res, hit, err := s.runner.ContractWithCacheInfo(r.Context(), g, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := contractResponse{
		RequestID:  RequestIDFromContext(r.Context()),
		GraphHash:  res.GraphHash,
		Cached:     hit,
		Mapping:    res.Mapping,
		Rounds:     res.Rounds,
		DurationMS: float64(res.Stats.Duration.Microseconds()) / 1000,
	}
	if q, err := g.Modularity(res.Mapping.Mapping); err == nil {
		resp.Modularity = &q
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := graph.FromDocument(req.Graph)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var m *graph.Mapping
	if len(req.Mapping) == 0 {
		res, err := s.runner.Contract(r.Context(), g, pipeline.Options{Iterations: iterationsOrDefault(req.Iterations)})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		m = res.Mapping
	} else {
		m = &graph.Mapping{
			NodeCount: len(req.Mapping),
			Clusters:  contract.ClusterCount(req.Mapping),
			Mapping:   req.Mapping,
		}
		if err := m.Validate(); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	opts := pipeline.RenderOptions{Format: req.Format, Detailed: req.Detailed}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.renderTimeout)
	defer cancel()
	data, err := s.runner.Render(ctx, g, m, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[opts.Format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// =============================================================================
// Helpers
// =============================================================================

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode request body")
	}
	return nil
}

func iterationsOrDefault(it *int) int {
	if it == nil {
		return pipeline.DefaultIterations
	}
	return *it
}
