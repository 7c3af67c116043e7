package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/forceatlas/pkg/cache"
	"github.com/matzehuels/forceatlas/pkg/errors"
	"github.com/matzehuels/forceatlas/pkg/graph"
	"github.com/matzehuels/forceatlas/pkg/observability"
)

func square() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}},
		Edges: []graph.Edge{
			{From: "a", To: "b"},
			{From: "b", To: "c"},
			{From: "c", To: "d"},
			{From: "d", To: "a"},
		},
	}
}

func testOptions(formats ...string) Options {
	opts := DefaultOptions()
	opts.Iterations = 50
	opts.Formats = formats
	opts.Logger = log.New(io.Discard)
	return opts
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options should validate: %v", err)
	}
	if opts.Iterations == 0 && opts.ScalingRatio == 0 {
		t.Error("engine defaults were not applied")
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Logger == nil || opts.Options.Logger == nil {
		t.Error("loggers should be set")
	}
}

func TestValidateRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Options)
		code errors.Code
	}{
		{"bad format", func(o *Options) { o.Formats = []string{"png"} }, errors.ErrCodeInvalidFormat},
		{"negative scale", func(o *Options) { o.Scale = -1 }, errors.ErrCodeInvalidConfig},
		{"nan scale", func(o *Options) { o.Scale = math.NaN() }, errors.ErrCodeInvalidConfig},
		{"infinite scale", func(o *Options) { o.Scale = math.Inf(1) }, errors.ErrCodeInvalidConfig},
		{"negative gravity", func(o *Options) { o.Gravity = -1 }, errors.ErrCodeInvalidConfig},
		{"theta", func(o *Options) { o.BarnesHutTheta = -0.5 }, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mut(&opts)
			err := opts.ValidateAndSetDefaults()
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestOptionsJSONIsFlat(t *testing.T) {
	var opts Options
	doc := `{"iterations": 42, "lin_log_mode": true, "formats": ["dot"], "labels": true}`
	require.NoError(t, json.Unmarshal([]byte(doc), &opts))
	assert.Equal(t, 42, opts.Iterations)
	assert.True(t, opts.LinLogMode)
	assert.Equal(t, []string{"dot"}, opts.Formats)
	assert.True(t, opts.Labels)
}

func TestLayoutKeyOptsIgnoresExecutionSettings(t *testing.T) {
	a := DefaultOptions()
	b := DefaultOptions()
	b.Multithread = true
	b.Workers = 8
	b.LogEvery = 10

	keyer := cache.NewDefaultKeyer()
	if keyer.LayoutKey("h", a.LayoutKeyOpts()) != keyer.LayoutKey("h", b.LayoutKeyOpts()) {
		t.Error("worker settings should not change the layout key")
	}

	b.Gravity = a.Gravity + 1
	if keyer.LayoutKey("h", a.LayoutKeyOpts()) == keyer.LayoutKey("h", b.LayoutKeyOpts()) {
		t.Error("gravity should change the layout key")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	opts := DefaultOptions()
	keyer := cache.NewDefaultKeyer()

	plain := keyer.ArtifactKey("h", opts.ArtifactKeyOpts(FormatDOT))
	opts.Labels = true
	labeled := keyer.ArtifactKey("h", opts.ArtifactKeyOpts(FormatDOT))
	if plain == labeled {
		t.Error("labels should change the dot artifact key")
	}

	jsonKey := keyer.ArtifactKey("h", opts.ArtifactKeyOpts(FormatJSON))
	opts.Labels = false
	if jsonKey != keyer.ArtifactKey("h", opts.ArtifactKeyOpts(FormatJSON)) {
		t.Error("render options should not change the json artifact key")
	}
}

func TestGenerateLayout(t *testing.T) {
	l, err := GenerateLayout(context.Background(), square(), testOptions())
	require.NoError(t, err)
	require.Len(t, l.Nodes, 4)
	assert.Equal(t, 50, l.Iterations)
	assert.Greater(t, l.Speed, 0.0)
	require.NotNil(t, l.Options)
	assert.Nil(t, l.Options.Logger)
	assert.NoError(t, l.Validate())
}

func TestGenerateLayoutInvalidGraph(t *testing.T) {
	g := graph.Graph{
		Nodes: []graph.Node{{ID: "a"}},
		Edges: []graph.Edge{{From: "a", To: "missing"}},
	}
	_, err := GenerateLayout(context.Background(), g, testOptions())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidGraph, errors.GetCode(err))
}

func TestGenerateLayoutCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := GenerateLayout(ctx, square(), testOptions())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCanceled, errors.GetCode(err))
}

func TestRenderLayout(t *testing.T) {
	l, err := GenerateLayout(context.Background(), square(), testOptions())
	require.NoError(t, err)

	artifacts, err := RenderLayout(context.Background(), l, testOptions(FormatJSON, FormatDOT))
	require.NoError(t, err)
	require.Len(t, artifacts, 2)

	decoded, err := graph.UnmarshalLayout(artifacts[FormatJSON])
	require.NoError(t, err)
	assert.Len(t, decoded.Nodes, 4)

	dot := string(artifacts[FormatDOT])
	assert.True(t, strings.HasPrefix(dot, "graph G {"), dot)
	assert.Contains(t, dot, `"a" -- "b"`)
}

func TestRenderLayoutUnsupportedFormat(t *testing.T) {
	opts := testOptions()
	opts.Formats = []string{"pdf"}
	_, err := RenderLayout(context.Background(), graph.Layout{}, opts)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidFormat, errors.GetCode(err))
}

func TestRunnerDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	if r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Fatal("NewRunner should fill in defaults")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestRunnerCachesLayout(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := NewRunner(fc, nil, log.New(io.Discard))
	defer r.Close()

	ctx := context.Background()
	first, hit, err := r.ComputeLayoutWithCacheInfo(ctx, square(), testOptions())
	require.NoError(t, err)
	assert.False(t, hit, "first run should miss")

	second, hit, err := r.ComputeLayoutWithCacheInfo(ctx, square(), testOptions())
	require.NoError(t, err)
	assert.True(t, hit, "second run should hit")
	assert.Equal(t, first.Positions(), second.Positions())

	opts := testOptions()
	opts.Refresh = true
	_, hit, err = r.ComputeLayoutWithCacheInfo(ctx, square(), opts)
	require.NoError(t, err)
	assert.False(t, hit, "refresh should bypass the cache")
}

func TestRunnerExecute(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := NewRunner(fc, nil, log.New(io.Discard))

	ctx := context.Background()
	opts := testOptions(FormatJSON, FormatDOT)

	res, err := r.Execute(ctx, square(), opts)
	require.NoError(t, err)
	assert.NotEmpty(t, res.GraphHash)
	assert.Equal(t, 4, res.Stats.NodeCount)
	assert.Equal(t, 4, res.Stats.EdgeCount)
	assert.Equal(t, 50, res.Stats.Iterations)
	assert.False(t, res.CacheInfo.LayoutHit)
	assert.False(t, res.CacheInfo.RenderHit)
	assert.Len(t, res.Artifacts, 2)

	again, err := r.Execute(ctx, square(), opts)
	require.NoError(t, err)
	assert.Equal(t, res.GraphHash, again.GraphHash)
	assert.True(t, again.CacheInfo.LayoutHit)
	assert.True(t, again.CacheInfo.RenderHit)
	assert.Equal(t, res.Artifacts[FormatDOT], again.Artifacts[FormatDOT])
}

func TestRunnerExecuteInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, log.New(io.Discard))
	opts := testOptions("gif")
	_, err := r.Execute(context.Background(), square(), opts)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidFormat, errors.GetCode(err))
}

type recordingHooks struct {
	observability.NoopLayoutHooks
	observability.NoopCacheHooks

	mu         sync.Mutex
	starts     int
	completes  int
	iterations int
	renders    int
	events     []string
}

func (h *recordingHooks) OnLayoutStart(context.Context, int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts++
}

func (h *recordingHooks) OnIteration(context.Context, int, float64, float64, float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.iterations++
}

func (h *recordingHooks) OnLayoutComplete(context.Context, int, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completes++
}

func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.renders++
}

func (h *recordingHooks) OnCacheHit(_ context.Context, keyType string) {
	h.record("hit:" + keyType)
}

func (h *recordingHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.record("miss:" + keyType)
}

func (h *recordingHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	h.record("set:" + keyType)
}

func (h *recordingHooks) record(event string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
}

func TestRunnerEmitsHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetLayoutHooks(hooks)
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := NewRunner(fc, nil, log.New(io.Discard))

	ctx := context.Background()
	opts := testOptions(FormatDOT)
	_, err = r.Execute(ctx, square(), opts)
	require.NoError(t, err)
	_, err = r.Execute(ctx, square(), opts)
	require.NoError(t, err)

	assert.Equal(t, 1, hooks.starts)
	assert.Equal(t, 1, hooks.completes)
	assert.Equal(t, 50, hooks.iterations)
	assert.Equal(t, 1, hooks.renders)
	assert.Equal(t, []string{
		"miss:layout", "set:layout",
		"miss:artifact", "set:artifact",
		"hit:layout", "hit:artifact",
	}, hooks.events)
}
