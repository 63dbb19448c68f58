package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Catppuccin Mocha inspired).
var (
	colorPrimary   = lipgloss.AdaptiveColor{Light: "#1e66f5", Dark: "#89b4fa"} // Blue
	colorSecondary = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#cba6f7"} // Mauve
	colorSuccess   = lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"} // Green
	colorError     = lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"} // Red
	colorMuted     = lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"} // Overlay0
	colorText      = lipgloss.AdaptiveColor{Light: "#4c4f69", Dark: "#cdd6f4"} // Text
)

// Styles contains the lipgloss styles the wizard renders with.
type Styles struct {
	App      lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style

	Label       lipgloss.Style
	LabelActive lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style

	Help    lipgloss.Style
	HelpKey lipgloss.Style
}

// DefaultStyles returns the default wizard styles.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(colorSecondary),

		Label: lipgloss.NewStyle().
			Foreground(colorText),

		LabelActive: lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(colorSuccess),

		Error: lipgloss.NewStyle().
			Foreground(colorError),

		Help: lipgloss.NewStyle().
			Foreground(colorMuted),

		HelpKey: lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true),
	}
}

// WithWidth returns styles adapted for a specific terminal width.
func (s Styles) WithWidth(width int) Styles {
	s.App = s.App.Width(width)
	return s
}
