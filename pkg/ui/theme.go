package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the color profile of the stream the picker draws on.
// Computed once at package init so every style helper can branch without
// re-detecting.
var TermProfile colorprofile.Profile

// uiOutput is the stream the picker renders to. Stdout is left for the
// selection, which is usually captured by a pipe.
var uiOutput io.Writer = os.Stderr

func init() {
	TermProfile = DetectProfile(uiOutput, os.Environ())
}

// DetectProfile returns the color profile supported by w under env.
func DetectProfile(w io.Writer, env []string) colorprofile.Profile {
	return colorprofile.Detect(w, env)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme holds the colors and pre-built styles of the picker.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	Base        lipgloss.Style
	Title       lipgloss.Style
	Input       lipgloss.Style
	Dropdown    lipgloss.Style
	Cursor      lipgloss.Style
	Indicator   lipgloss.Style
	Checked     lipgloss.Style
	Partial     lipgloss.Style
	Unchecked   lipgloss.Style
	MutedText   lipgloss.Style
	Summary     lipgloss.Style
	Placeholder lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
	Help        lipgloss.Style
}

// DefaultTheme returns the Dracula-inspired adaptive theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   ColorPrimary,
		Secondary: ColorSecondary,
		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: ColorBgHighlight,
		Muted:     ColorMuted,
	}

	t.Base = r.NewStyle().Foreground(ColorText)
	t.Title = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.Input = r.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(t.Secondary).
		Padding(0, 1)
	t.Dropdown = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(0, 1)
	t.Cursor = r.NewStyle().
		Background(t.Highlight).
		Foreground(t.Primary).
		Bold(true)
	t.Indicator = r.NewStyle().Foreground(t.Secondary)
	t.Checked = r.NewStyle().Foreground(ColorSuccess).Bold(true)
	t.Partial = r.NewStyle().Foreground(ColorWarning).Bold(true)
	t.Unchecked = r.NewStyle().Foreground(t.Muted)
	t.MutedText = r.NewStyle().Foreground(t.Muted).Italic(true)
	t.Summary = r.NewStyle().Foreground(ThemeFg("#F1FA8C"))
	t.Placeholder = r.NewStyle().Foreground(t.Muted).Italic(true)
	t.Status = r.NewStyle().Foreground(ColorInfo)
	t.Error = r.NewStyle().Foreground(ColorDanger).Bold(true)
	t.Help = r.NewStyle().Foreground(t.Secondary).Italic(true)

	return t
}
