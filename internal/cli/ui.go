package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorFail   = lipgloss.Color("167")
	colorLink   = lipgloss.Color("75")
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("240")
)

// Exported styles are shared with cmd/forceatlas.
var (
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleDim       = lipgloss.NewStyle().Foreground(colorMuted)
	StyleError     = lipgloss.NewStyle().Bold(true).Foreground(colorFail)
)

var (
	styleOK      = lipgloss.NewStyle().Foreground(colorOK)
	styleFail    = lipgloss.NewStyle().Foreground(colorFail)
	styleValue   = lipgloss.NewStyle().Foreground(colorText)
	styleCommand = lipgloss.NewStyle().Foreground(colorLink)
)

const (
	glyphOK   = "✓"
	glyphFail = "✗"
	glyphInfo = "›"
	glyphFile = "→"
	glyphSep  = " · "
)

// ui writes human-oriented status lines. Commands build one from
// cmd.OutOrStdout so tests can capture it.
type ui struct {
	out io.Writer
}

func newUI(w io.Writer) ui {
	if w == nil {
		w = io.Discard
	}
	return ui{out: w}
}

func (u ui) status(glyph string, style lipgloss.Style, format string, args ...any) {
	fmt.Fprintln(u.out, style.Render(glyph)+" "+fmt.Sprintf(format, args...))
}

func (u ui) success(format string, args ...any) { u.status(glyphOK, styleOK, format, args...) }
func (u ui) failure(format string, args ...any) { u.status(glyphFail, styleFail, format, args...) }
func (u ui) info(format string, args ...any)    { u.status(glyphInfo, StyleDim, format, args...) }

func (u ui) detail(format string, args ...any) {
	fmt.Fprintln(u.out, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func (u ui) file(path string) {
	fmt.Fprintln(u.out, "  "+StyleDim.Render(glyphFile)+" "+styleValue.Render(path))
}

func (u ui) next(label, command string) {
	fmt.Fprintln(u.out)
	fmt.Fprintln(u.out, StyleDim.Render(label+":")+" "+styleCommand.Render(command))
}

// layoutSummary is the one-line recap printed after layout and render.
type layoutSummary struct {
	Nodes      int
	Edges      int
	Iterations int
	Speed      float64
	Cached     bool
}

func (s layoutSummary) String() string {
	parts := []string{
		fmt.Sprintf("%d nodes", s.Nodes),
		fmt.Sprintf("%d edges", s.Edges),
	}
	if s.Iterations > 0 {
		parts = append(parts, fmt.Sprintf("%d iterations", s.Iterations))
	}
	if s.Speed > 0 {
		parts = append(parts, fmt.Sprintf("speed %.3g", s.Speed))
	}
	if s.Cached {
		parts = append(parts, "cached")
	} else {
		parts = append(parts, "fresh")
	}
	return strings.Join(parts, glyphSep)
}

func (u ui) summary(s layoutSummary) {
	fmt.Fprintln(u.out, "  "+StyleDim.Render(s.String()))
}
