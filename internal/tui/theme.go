package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/vmunix/carbon/internal/job"
)

// Theme holds the color scheme for the queue display.
type Theme struct {
	Title    lipgloss.Color
	Active   lipgloss.Color
	Success  lipgloss.Color
	Error    lipgloss.Color
	Hint     lipgloss.Color
	Selected lipgloss.Color
}

// DefaultTheme provides default colors.
var DefaultTheme = Theme{
	Title:    lipgloss.Color("#AF87FF"), // violet
	Active:   lipgloss.Color("#5FAFD7"), // light blue
	Success:  lipgloss.Color("#00D787"), // green
	Error:    lipgloss.Color("#FF005F"), // red
	Hint:     lipgloss.Color("#6C6C6C"), // dim gray
	Selected: lipgloss.Color("#FFD75F"), // yellow
}

func (t Theme) titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Title).Bold(true)
}

func (t Theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Hint).Italic(true)
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
}

func (t Theme) cursorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Selected).Bold(true)
}

func (t Theme) statusStyle(s job.Status) lipgloss.Style {
	switch s {
	case job.StatusDownloading, job.StatusConverting:
		return lipgloss.NewStyle().Foreground(t.Active)
	case job.StatusCompleted:
		return lipgloss.NewStyle().Foreground(t.Success)
	case job.StatusFailed:
		return lipgloss.NewStyle().Foreground(t.Error)
	default:
		return lipgloss.NewStyle().Foreground(t.Hint)
	}
}

// glyph is the one-character marker for a status.
func glyph(s job.Status) string {
	switch s {
	case job.StatusQueued:
		return "○"
	case job.StatusDownloading:
		return "↓"
	case job.StatusConverting:
		return "⟳"
	case job.StatusCompleted:
		return "✓"
	case job.StatusFailed:
		return "✗"
	case job.StatusCancelled:
		return "–"
	default:
		return "?"
	}
}
