package console

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette of console output.
type Theme struct {
	// Notice is the colour of informational messages.
	Notice lipgloss.Color

	// Error is the colour of error messages.
	Error lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Notice: lipgloss.Color("#06B6D4"), // Cyan
		Error:  lipgloss.Color("#F38BA8"), // Red
	}
}

// Styles contains the lipgloss styles used by Console.
type Styles struct {
	Notice lipgloss.Style
	Error  lipgloss.Style
}

// NewStyles creates styles for renderer from a theme.
func NewStyles(renderer *lipgloss.Renderer, theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}

	return &Styles{
		Notice: renderer.NewStyle().
			Foreground(theme.Notice).
			TabWidth(lipgloss.NoTabConversion),

		Error: renderer.NewStyle().
			Bold(true).
			Foreground(theme.Error).
			TabWidth(lipgloss.NoTabConversion),
	}
}
