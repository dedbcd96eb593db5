// Package themes holds the lipgloss palettes used by the grading TUI.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Faint         lipgloss.Style
	Selected      lipgloss.Style
	Graded        lipgloss.Style
	Ungraded      lipgloss.Style
	Armed         lipgloss.Style
	RoundedBox    lipgloss.Style
	ProgressFull  lipgloss.Style
	ProgressEmpty lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
}

func build(primary, secondary, text, subtle, muted, border, success, warning, errColor, info string) Theme {
	return Theme{
		Primary: lipgloss.Color(primary),
		Muted:   lipgloss.Color(muted),
		Border:  lipgloss.Color(border),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(text)),
		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(subtle)),
		Normal: lipgloss.NewStyle().
			Foreground(lipgloss.Color(text)),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(text)),
		Faint: lipgloss.NewStyle().
			Foreground(lipgloss.Color(muted)),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color(primary)).
			Bold(true),
		Graded: lipgloss.NewStyle().
			Foreground(lipgloss.Color(secondary)).
			Bold(true),
		Ungraded: lipgloss.NewStyle().
			Foreground(lipgloss.Color(muted)).
			Italic(true),
		Armed: lipgloss.NewStyle().
			Foreground(lipgloss.Color(warning)).
			Bold(true),
		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(border)).
			Padding(0, 1),
		ProgressFull: lipgloss.NewStyle().
			Foreground(lipgloss.Color(primary)),
		ProgressEmpty: lipgloss.NewStyle().
			Foreground(lipgloss.Color(border)),
		StatusInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(info)),
		StatusError: lipgloss.NewStyle().
			Foreground(lipgloss.Color(errColor)).
			Bold(true),
		StatusSuccess: lipgloss.NewStyle().
			Foreground(lipgloss.Color(success)),
	}
}

// Default is the default theme.
var Default = build("#7c3aed", "#a78bfa", "#fafafa", "#a3a3a3", "#737373", "#404040",
	"#10b981", "#f59e0b", "#ef4444", "#3b82f6")

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build("#cba6f7", "#f5c2e7", "#cdd6f4", "#a6adc8", "#6c7086", "#45475a",
	"#a6e3a1", "#f9e2af", "#f38ba8", "#89dceb")

// ByName returns the named theme, falling back to Default.
func ByName(name string) Theme {
	switch name {
	case "catppuccin", "mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}
