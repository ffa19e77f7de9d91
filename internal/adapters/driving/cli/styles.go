package cli

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/vista/internal/core/domain"
)

// Colour palette for terminal output.
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorAccent  = lipgloss.Color("#06B6D4")
	colorMuted   = lipgloss.Color("#6C7086")
	colorSuccess = lipgloss.Color("#A6E3A1")
	colorWarning = lipgloss.Color("#F9E2AF")
	colorError   = lipgloss.Color("#F38BA8")
	colorBorder  = lipgloss.Color("#45475A")
)

// styles renders output for one writer. Colour is dropped automatically
// when the writer is not a terminal.
type styles struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Muted   lipgloss.Style
	Score   lipgloss.Style
	Border  lipgloss.Style
	Header  lipgloss.Style
	Policy  lipgloss.Style
	General lipgloss.Style
	Refused lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		Title:   r.NewStyle().Bold(true).Foreground(colorPrimary),
		Section: r.NewStyle().Foreground(colorAccent),
		Muted:   r.NewStyle().Foreground(colorMuted),
		Score:   r.NewStyle().Foreground(colorMuted),
		Border:  r.NewStyle().Foreground(colorBorder),
		Header:  r.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 1),
		Policy:  r.NewStyle().Bold(true).Foreground(colorSuccess),
		General: r.NewStyle().Bold(true).Foreground(colorWarning),
		Refused: r.NewStyle().Bold(true).Foreground(colorError),
	}
}

// disposition renders a disposition label in its colour.
func (s styles) disposition(d domain.Disposition) string {
	label := strings.ToUpper(string(d))
	switch d {
	case domain.DispositionGrounded:
		return s.Policy.Render(label)
	case domain.DispositionRefused:
		return s.Refused.Render(label)
	default:
		return s.General.Render(label)
	}
}

// terminalWidth returns the width of w when it is a terminal, else 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// truncate shortens s to width runes with an ellipsis. width < 1 disables it.
func truncate(s string, width int) string {
	if width < 1 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

// oneLine collapses whitespace so an excerpt fits a single line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
