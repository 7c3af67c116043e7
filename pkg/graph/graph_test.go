package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/forceatlas/pkg/core/fa2"
	"github.com/matzehuels/forceatlas/pkg/errors"
)

func ptr(v float64) *float64 { return &v }

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		g       Graph
		wantErr bool
	}{
		{"empty", Graph{}, false},
		{"simple", Graph{
			Nodes: []Node{{ID: "a"}, {ID: "b"}},
			Edges: []Edge{{From: "a", To: "b"}},
		}, false},
		{"self loop", Graph{
			Nodes: []Node{{ID: "a"}},
			Edges: []Edge{{From: "a", To: "a"}},
		}, false},
		{"empty id", Graph{Nodes: []Node{{ID: ""}}}, true},
		{"duplicate id", Graph{Nodes: []Node{{ID: "a"}, {ID: "a"}}}, true},
		{"unknown from", Graph{
			Nodes: []Node{{ID: "a"}},
			Edges: []Edge{{From: "x", To: "a"}},
		}, true},
		{"unknown to", Graph{
			Nodes: []Node{{ID: "a"}},
			Edges: []Edge{{From: "a", To: "x"}},
		}, true},
		{"negative weight", Graph{
			Nodes: []Node{{ID: "a"}, {ID: "b"}},
			Edges: []Edge{{From: "a", To: "b", Weight: ptr(-1)}},
		}, true},
		{"half position", Graph{Nodes: []Node{{ID: "a", X: ptr(1)}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.g.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidGraph) {
				t.Errorf("Validate() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidGraph)
			}
		})
	}
}

func TestInput(t *testing.T) {
	g := Graph{
		Nodes: []Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []Edge{{From: "a", To: "b"}, {From: "c", To: "b"}},
	}
	in, err := g.Input()
	if err != nil {
		t.Fatalf("Input() error = %v", err)
	}
	if in.N != 3 {
		t.Errorf("N = %d, want 3", in.N)
	}
	want := []fa2.Edge{{U: 0, V: 1}, {U: 2, V: 1}}
	for i, e := range want {
		if in.Edges[i] != e {
			t.Errorf("Edges[%d] = %v, want %v", i, in.Edges[i], e)
		}
	}
	if in.Weights != nil || in.Positions != nil || in.Sizes != nil || in.Masses != nil {
		t.Errorf("optional attributes should be nil: %+v", in)
	}
}

func TestInputOptionalAttributes(t *testing.T) {
	g := Graph{
		Nodes: []Node{
			{ID: "a", X: ptr(1), Y: ptr(2), Size: ptr(3)},
			{ID: "b", X: ptr(4), Y: ptr(5), Mass: ptr(10)},
			{ID: "c", X: ptr(6), Y: ptr(7)},
		},
		Edges: []Edge{
			{From: "a", To: "b", Weight: ptr(2)},
			{From: "b", To: "c"},
		},
	}
	in, err := g.Input()
	if err != nil {
		t.Fatalf("Input() error = %v", err)
	}

	if got := in.Weights; len(got) != 2 || got[0] != 2 || got[1] != 1 {
		t.Errorf("Weights = %v, want [2 1]", got)
	}
	if got := in.Positions; len(got) != 3 || got[2] != (fa2.Point{X: 6, Y: 7}) {
		t.Errorf("Positions = %v", got)
	}
	if got := in.Sizes; len(got) != 3 || got[0] != 3 || got[1] != 0 {
		t.Errorf("Sizes = %v, want [3 0 0]", got)
	}
	// Unset masses fall back to 1 + degree.
	if got := in.Masses; len(got) != 3 || got[0] != 2 || got[1] != 10 || got[2] != 2 {
		t.Errorf("Masses = %v, want [2 10 2]", got)
	}
}

func TestInputRejectsPartialPositions(t *testing.T) {
	g := Graph{Nodes: []Node{{ID: "a", X: ptr(0), Y: ptr(0)}, {ID: "b"}}}
	_, err := g.Input()
	if !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Fatalf("Input() error = %v, want INVALID_GRAPH", err)
	}
}

func TestReadGraph(t *testing.T) {
	data := `{
		"nodes": [{"id": "a", "label": "Alpha"}, {"id": "b", "mass": 3}],
		"edges": [{"from": "a", "to": "b", "weight": 0.5}]
	}`
	g, err := ReadGraph(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadGraph() error = %v", err)
	}
	if len(g.Nodes) != 2 || len(g.Edges) != 1 {
		t.Fatalf("got %d nodes, %d edges", len(g.Nodes), len(g.Edges))
	}
	if g.Nodes[0].DisplayLabel() != "Alpha" || g.Nodes[1].DisplayLabel() != "b" {
		t.Errorf("labels = %q, %q", g.Nodes[0].DisplayLabel(), g.Nodes[1].DisplayLabel())
	}
	if g.Edges[0].EffectiveWeight() != 0.5 {
		t.Errorf("weight = %v, want 0.5", g.Edges[0].EffectiveWeight())
	}
}

func TestReadGraphErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"malformed", `{"nodes": [`, errors.ErrCodeInvalidFormat},
		{"wrong type", `{"nodes": "a"}`, errors.ErrCodeInvalidFormat},
		{"dangling edge", `{"nodes": [{"id": "a"}], "edges": [{"from": "a", "to": "b"}]}`, errors.ErrCodeInvalidGraph},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGraph(strings.NewReader(tt.data))
			if !errors.Is(err, tt.code) {
				t.Errorf("ReadGraph() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestGraphFileRoundTrip(t *testing.T) {
	g := Graph{
		Nodes: []Node{{ID: "a", X: ptr(0.5), Y: ptr(-1)}, {ID: "b", X: ptr(2), Y: ptr(0)}},
		Edges: []Edge{{From: "a", To: "b", Weight: ptr(3)}},
	}
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := WriteGraphFile(g, path); err != nil {
		t.Fatalf("WriteGraphFile() error = %v", err)
	}
	got, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile() error = %v", err)
	}
	if *got.Nodes[0].X != 0.5 || *got.Edges[0].Weight != 3 {
		t.Errorf("round trip lost data: %+v", got)
	}
}

func TestReadGraphFileMissing(t *testing.T) {
	_, err := ReadGraphFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadGraphFile() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestNewLayout(t *testing.T) {
	g := Graph{
		Nodes: []Node{{ID: "a", Label: "A", Size: ptr(2)}, {ID: "b"}},
		Edges: []Edge{{From: "a", To: "b"}},
	}
	l := NewLayout(g, []fa2.Point{{X: 1, Y: 2}, {X: -3, Y: 4}})

	pos := l.Positions()
	if pos["a"] != (fa2.Point{X: 1, Y: 2}) || pos["b"] != (fa2.Point{X: -3, Y: 4}) {
		t.Errorf("Positions() = %v", pos)
	}
	if l.Nodes[0].Size != 2 || l.Nodes[0].DisplayLabel() != "A" {
		t.Errorf("node a = %+v", l.Nodes[0])
	}

	minX, minY, maxX, maxY := l.Bounds()
	if minX != -3 || minY != 0 || maxX != 3 || maxY != 4 {
		t.Errorf("Bounds() = %v %v %v %v, want -3 0 3 4", minX, minY, maxX, maxY)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	opts := fa2.DefaultOptions()
	l := Layout{
		Nodes:      []PlacedNode{{ID: "a", X: 1, Y: 2}, {ID: "b", X: 3, Y: 4}},
		Edges:      []Edge{{From: "a", To: "b"}},
		Iterations: 100,
		Speed:      0.25,
		Options:    &opts,
	}
	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatalf("MarshalLayout() error = %v", err)
	}
	got, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout() error = %v", err)
	}
	if got.Iterations != 100 || got.Speed != 0.25 || got.Options.ScalingRatio != opts.ScalingRatio {
		t.Errorf("round trip = %+v", got)
	}

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile() error = %v", err)
	}
	onDisk, _ := os.ReadFile(path)
	if !bytes.Equal(onDisk, data) {
		t.Error("WriteLayoutFile and MarshalLayout disagree")
	}
	if _, err := ReadLayoutFile(path); err != nil {
		t.Errorf("ReadLayoutFile() error = %v", err)
	}
}

func TestUnmarshalLayoutRejectsDanglingEdge(t *testing.T) {
	data := []byte(`{"nodes": [{"id": "a", "x": 0, "y": 0}], "edges": [{"from": "a", "to": "z"}], "iterations": 1}`)
	if _, err := UnmarshalLayout(data); !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("UnmarshalLayout() error = %v, want INVALID_GRAPH", err)
	}
}
