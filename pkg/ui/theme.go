package ui

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Slide accents
	Indigo  lipgloss.AdaptiveColor
	Emerald lipgloss.AdaptiveColor
	Amber   lipgloss.AdaptiveColor
	Rose    lipgloss.AdaptiveColor
	Sky     lipgloss.AdaptiveColor
	Fuchsia lipgloss.AdaptiveColor

	// Autoplay
	Playing lipgloss.AdaptiveColor
	Paused  lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	// Styles
	Base   lipgloss.Style
	Header lipgloss.Style
	Chip   lipgloss.Style
	Key    lipgloss.Style
	Desc   lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#18181B", Dark: "#BD93F9"}, // Zinc-900 / Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#52525B", Dark: "#BFBFBF"}, // Dim
		Muted:     lipgloss.AdaptiveColor{Light: "#A1A1AA", Dark: "#44475A"},

		Indigo:  lipgloss.AdaptiveColor{Light: "#4F46E5", Dark: "#8B93F9"},
		Emerald: lipgloss.AdaptiveColor{Light: "#059669", Dark: "#50FA7B"},
		Amber:   lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FFB86C"},
		Rose:    lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FF5555"},
		Sky:     lipgloss.AdaptiveColor{Light: "#0284C7", Dark: "#8BE9FD"},
		Fuchsia: lipgloss.AdaptiveColor{Light: "#C026D3", Dark: "#FF79C6"},

		Playing: lipgloss.AdaptiveColor{Light: "#00A800", Dark: "#50FA7B"}, // Green
		Paused:  lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray

		Border:    lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#44475A"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.Chip = r.NewStyle().
		Foreground(t.Primary).
		Background(t.Highlight).
		Padding(0, 1)

	t.Key = r.NewStyle().Bold(true).Foreground(t.Primary)
	t.Desc = r.NewStyle().Foreground(t.Subtext)

	return t
}

// AccentColor maps a slide accent name to a colour. Unknown names fall back
// to the primary colour.
func (t Theme) AccentColor(name string) lipgloss.AdaptiveColor {
	switch name {
	case "indigo":
		return t.Indigo
	case "emerald":
		return t.Emerald
	case "amber":
		return t.Amber
	case "rose":
		return t.Rose
	case "sky":
		return t.Sky
	case "fuchsia":
		return t.Fuchsia
	default:
		return t.Primary
	}
}

// AutoplayBadge labels the autoplay control the way the header button does:
// "Pause" while playing, "Auto" while stopped.
func (t Theme) AutoplayBadge(on bool) string {
	if on {
		return t.Renderer.NewStyle().Bold(true).Foreground(t.Playing).Render("⏸ Pause")
	}
	return t.Renderer.NewStyle().Foreground(t.Paused).Render("▶ Auto")
}
