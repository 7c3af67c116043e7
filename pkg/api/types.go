package api

import (
	"github.com/matzehuels/forceatlas/pkg/buildinfo"
	"github.com/matzehuels/forceatlas/pkg/graph"
	"github.com/matzehuels/forceatlas/pkg/pipeline"
)

// LayoutRequest is the body of POST /v1/layout.
type LayoutRequest struct {
	Graph   graph.Graph      `json:"graph"`
	Options pipeline.Options `json:"options"`
}

// LayoutResponse is returned by POST /v1/layout.
type LayoutResponse struct {
	RequestID string       `json:"request_id"`
	Cached    bool         `json:"cached"`
	Stats     LayoutStats  `json:"stats"`
	Layout    graph.Layout `json:"layout"`
}

// LayoutStats summarizes a layout run.
type LayoutStats struct {
	Nodes      int     `json:"nodes"`
	Edges      int     `json:"edges"`
	Iterations int     `json:"iterations"`
	Speed      float64 `json:"speed"`
	DurationMS int64   `json:"duration_ms"`
}

// RenderRequest is the body of POST /v1/render. Exactly one of Graph and
// Layout must be set; a graph is laid out first.
type RenderRequest struct {
	Graph   *graph.Graph     `json:"graph,omitempty"`
	Layout  *graph.Layout    `json:"layout,omitempty"`
	Options pipeline.Options `json:"options"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
