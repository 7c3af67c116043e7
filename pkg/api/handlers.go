package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"slices"
	"time"

	"github.com/matzehuels/forceatlas/pkg/errors"
	"github.com/matzehuels/forceatlas/pkg/graph"
	"github.com/matzehuels/forceatlas/pkg/pipeline"
)

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG:  "image/svg+xml",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, HealthResponse{Status: "ok", Info: s.build})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	req := LayoutRequest{Options: s.requestOptions()}
	if !s.decode(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	start := time.Now()
	layout, hit, err := s.runner.ComputeLayoutWithCacheInfo(ctx, req.Graph, req.Options)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, LayoutResponse{
		RequestID: RequestIDFromContext(r.Context()),
		Cached:    hit,
		Stats: LayoutStats{
			Nodes:      len(layout.Nodes),
			Edges:      len(layout.Edges),
			Iterations: layout.Iterations,
			Speed:      layout.Speed,
			DurationMS: time.Since(start).Milliseconds(),
		},
		Layout: layout,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := errors.ValidateFormats([]string{format}); err != nil {
		s.respondErr(w, r, err)
		return
	}

	req := RenderRequest{Options: s.requestOptions()}
	if !s.decode(w, r, &req) {
		return
	}
	if (req.Graph == nil) == (req.Layout == nil) {
		s.respondErr(w, r, errors.New(errors.ErrCodeInvalidInput, "exactly one of graph and layout must be given"))
		return
	}
	req.Options.Formats = []string{format}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	var layout graph.Layout
	if req.Layout != nil {
		if err := req.Layout.Validate(); err != nil {
			s.respondErr(w, r, err)
			return
		}
		layout = *req.Layout
	} else {
		var err error
		if layout, err = s.runner.ComputeLayout(ctx, *req.Graph, req.Options); err != nil {
			s.respondErr(w, r, err)
			return
		}
	}

	artifacts, hit, err := s.runner.RenderWithCacheInfo(ctx, layout, req.Options)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifacts[format]); err != nil {
		s.logger.Debug("write response", "error", err)
	}
}

// requestOptions returns a copy of the defaults that a request body can be
// decoded into without touching shared slices.
func (s *Server) requestOptions() pipeline.Options {
	opts := s.defaults
	opts.Formats = slices.Clone(opts.Formats)
	return opts
}

// decode reads a JSON body into v, rejecting unknown fields and bodies
// larger than the configured limit. It writes the error response itself.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.respondError(w, r, http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput, "request body too large")
			return false
		}
		s.respondErr(w, r, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body"))
		return false
	}
	return true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode JSON response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, code errors.Code, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Code:      string(code),
		RequestID: RequestIDFromContext(r.Context()),
	})
}

// respondErr maps a pipeline error to a status code and writes it.
func (s *Server) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"id", RequestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", err)
	}
	s.respondJSON(w, status, ErrorResponse{
		Error:     http.StatusText(status),
		Message:   errors.UserMessage(err),
		Code:      string(codeOf(err)),
		RequestID: RequestIDFromContext(r.Context()),
	})
}

// codeOf returns the error's code, or INTERNAL_ERROR for uncoded errors.
func codeOf(err error) errors.Code {
	if code := errors.GetCode(err); code != "" {
		return code
	}
	return errors.ErrCodeInternal
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrCodeTimeout), stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.IsClientError(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeCanceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
