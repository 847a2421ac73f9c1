// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
)

// Theme defines the colour palette and styling for the TUI.
type Theme struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
}

// DefaultTheme returns the default colour theme: navy and brass on a dark
// background.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#C9A227"), // Brass
		Secondary:  lipgloss.Color("#5B8DEF"), // Blue
		Background: lipgloss.Color("#141A26"), // Navy
		Foreground: lipgloss.Color("#E4E7EE"), // Paper
		Muted:      lipgloss.Color("#7A8194"), // Slate
		Success:    lipgloss.Color("#7BC67E"), // Green
		Warning:    lipgloss.Color("#E8B04B"), // Amber
		Error:      lipgloss.Color("#E06C75"), // Red
		Border:     lipgloss.Color("#2E3648"), // Border navy
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style

	// InputField frames text inputs.
	InputField lipgloss.Style

	// StatusBar is the bottom line of every view.
	StatusBar lipgloss.Style

	Help   lipgloss.Style
	Border lipgloss.Style

	// Answer frames a generated answer.
	Answer lipgloss.Style

	// Badge renders a document category tag.
	Badge lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Background).
			Background(theme.Primary),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Background).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		Answer: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(theme.Primary).
			PaddingLeft(1),

		Badge: lipgloss.NewStyle().
			Foreground(theme.Background).
			Background(theme.Secondary).
			Padding(0, 1),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Confidence colours a confidence score: green from 0.7, amber from 0.4,
// red below.
func (s *Styles) Confidence(score float64) lipgloss.Style {
	switch {
	case score >= 0.7:
		return s.Success
	case score >= 0.4:
		return s.Warning
	default:
		return s.Error
	}
}

// Category renders a category badge.
func (s *Styles) Category(c domain.Category) string {
	return s.Badge.Render(string(c))
}
