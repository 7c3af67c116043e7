package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/forceatlas/pkg/graph"
)

func testLayout() graph.Layout {
	heavy := 3.0
	return graph.Layout{
		Nodes: []graph.PlacedNode{
			{ID: "a", Label: "Alpha", X: 0, Y: 0},
			{ID: "b", X: 1.5, Y: -2, Size: 0.5},
		},
		Edges: []graph.Edge{
			{From: "a", To: "b"},
			{From: "b", To: "a", Weight: &heavy},
		},
		Iterations: 10,
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testLayout(), Options{})

	for _, want := range []string{
		"graph G {",
		"layout=neato;",
		`"a" [pos="0.00,0.00!", width=0.17];`,
		`"b" [pos="54.00,-72.00!", width=0.50];`,
		`"a" -- "b";`,
		`"b" -- "a" [penwidth=3.00];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "xlabel") {
		t.Error("labels should be off by default")
	}
}

func TestToDOTOptions(t *testing.T) {
	dot := ToDOT(testLayout(), Options{Scale: 10, NodeRadius: 3.6, Labels: true})

	for _, want := range []string{
		`"a" [pos="0.00,0.00!", width=0.10, xlabel="Alpha"];`,
		`"b" [pos="15.00,-20.00!", width=0.14, xlabel="b"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
}

func TestPenWidthClamp(t *testing.T) {
	tests := []struct {
		weight, want float64
	}{
		{0, minPenWidth},
		{2, 2},
		{100, maxPenWidth},
	}
	for _, tt := range tests {
		if got := penWidth(tt.weight); got != tt.want {
			t.Errorf("penWidth(%v) = %v, want %v", tt.weight, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox() = %s, want %s", out, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() without viewBox changed input: %s", got)
	}
}
