package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/umlflow/pkg/layout"
)

// =============================================================================
// Palette & Styles
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Styles shared by the printer and the inspect browser.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleOK      = lipgloss.NewStyle().Foreground(colorGreen)
	styleFailed  = lipgloss.NewStyle().Foreground(colorRed)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleSpinner = lipgloss.NewStyle().Foreground(colorCyan)
)

// =============================================================================
// Printer
// =============================================================================

// printer writes the human-facing result of a command. Diagnostics go to
// the logger instead, so piping stdout never mixes the two.
type printer struct {
	w io.Writer
}

func (p printer) println(s string) {
	fmt.Fprintln(p.w, s)
}

func (p printer) success(format string, args ...any) {
	p.println(styleOK.Render("✓") + " " + fmt.Sprintf(format, args...))
}

func (p printer) failure(format string, args ...any) {
	p.println(styleFailed.Render("✗") + " " + fmt.Sprintf(format, args...))
}

func (p printer) warning(format string, args ...any) {
	p.println(StyleWarning.Render("! " + fmt.Sprintf(format, args...)))
}

func (p printer) info(format string, args ...any) {
	p.println(StyleDim.Render("›") + " " + fmt.Sprintf(format, args...))
}

// detail prints an indented secondary line.
func (p printer) detail(format string, args ...any) {
	p.println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints the path of a written output.
func (p printer) file(path string) {
	p.println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

func (p printer) keyValue(key, value string) {
	p.println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

// layoutStats summarizes a layout on one line:
//
//	5 nodes · 4 layers · 2→0 crossings · 1 loop-back · cached
func (p printer) layoutStats(s layout.Stats, cached bool) {
	parts := []string{
		plural(s.Nodes, "node"),
		plural(s.Layers, "layer"),
		fmt.Sprintf("%d→%d crossings", s.CrossingsBefore, s.CrossingsAfter),
	}
	if s.LoopBacks > 0 {
		parts = append(parts, plural(s.LoopBacks, "loop-back"))
	}
	if cached {
		parts = append(parts, styleOK.Render("cached"))
	} else {
		parts = append(parts, "fresh")
	}
	p.println("  " + StyleDim.Render(strings.Join(parts, " · ")))
}

// nextStep suggests a follow-up command.
func (p printer) nextStep(description, cmd string) {
	p.println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func (p printer) newline() {
	p.println("")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
