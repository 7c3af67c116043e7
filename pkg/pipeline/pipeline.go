// Package pipeline provides the layout pipeline shared by the CLI and API.
//
// This package implements the complete ingest → layout → render pipeline.
// By centralizing this logic, both entry points get identical caching,
// logging, and instrumentation.
//
// # Architecture
//
// The pipeline consists of two stages after ingestion:
//
//  1. Layout: Run ForceAtlas2 over the graph (pkg/core/fa2)
//  2. Render: Produce artifacts (JSON layout, Graphviz DOT, SVG)
//
// Each stage can be run independently or as part of the complete pipeline.
// Layout results are deterministic for a given graph and options, so both
// stages are cached by content hash.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Iterations = 500
//	opts.Formats = []string{"svg"}
//	result, err := runner.Execute(ctx, g, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	layout, err := runner.ComputeLayout(ctx, g, opts)
//	artifacts, err := runner.Render(ctx, layout, opts)
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/forceatlas/pkg/cache"
	"github.com/matzehuels/forceatlas/pkg/core/fa2"
	"github.com/matzehuels/forceatlas/pkg/errors"
	"github.com/matzehuels/forceatlas/pkg/graph"
	"github.com/matzehuels/forceatlas/pkg/render/nodelink"
)

// Algorithm versions the layout cache. Bump it whenever a change to the
// engine alters results for identical inputs.
const Algorithm = "forceatlas2/v1"

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// DefaultFormats is used when no output format is requested.
var DefaultFormats = []string{FormatSVG}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// The engine options are embedded so that JSON, TOML and YAML documents
// use flat keys ("iterations", "lin_log_mode", ...) next to the render keys.
type Options struct {
	fa2.Options `yaml:",inline"`

	// Render options
	Formats []string `json:"formats,omitempty" toml:"formats" yaml:"formats"`
	Labels  bool     `json:"labels,omitempty" toml:"labels" yaml:"labels"`
	Scale   float64  `json:"scale,omitempty" toml:"scale" yaml:"scale"`

	// Refresh bypasses cached layouts and artifacts.
	Refresh bool `json:"refresh,omitempty" toml:"refresh" yaml:"refresh"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-" yaml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// DefaultOptions returns the engine defaults and the default formats.
func DefaultOptions() Options {
	return Options{
		Options: fa2.DefaultOptions(),
		Formats: append([]string(nil), DefaultFormats...),
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the input graph.
	Graph graph.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Layout contains the computed positions.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Iterations int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every option and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLayout applies engine defaults and validates engine options.
func (o *Options) ValidateForLayout() error {
	o.setLogger()
	o.Options.SetDefaults()
	return o.Options.Validate()
}

// ValidateForRender applies render defaults and validates render options.
func (o *Options) ValidateForRender() error {
	o.setLogger()
	if len(o.Formats) == 0 {
		o.Formats = append([]string(nil), DefaultFormats...)
	}
	if !(o.Scale >= 0) || math.IsInf(o.Scale, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be finite and >= 0, got %v", o.Scale)
	}
	return errors.ValidateFormats(o.Formats)
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Options.Logger == nil {
		o.Options.Logger = o.Logger
	}
}

// NodelinkOptions returns the renderer options.
func (o *Options) NodelinkOptions() nodelink.Options {
	return nodelink.Options{Scale: o.Scale, Labels: o.Labels}
}

// LayoutKeyOpts returns cache key options for layout computation.
// Settings that cannot change the result (worker count, logging) are
// normalized away so that they share cache entries.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	params := o.Options
	params.Multithread = false
	params.Workers = 0
	params.LogEvery = 0
	params.Logger = nil
	return cache.LayoutKeyOpts{Algorithm: Algorithm, Params: params}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	if format == FormatJSON {
		return cache.ArtifactKeyOpts{Format: format}
	}
	return cache.ArtifactKeyOpts{Format: format, Params: o.NodelinkOptions()}
}
