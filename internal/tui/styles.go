package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/banca-dev/banca/internal/model"
)

// Color constants.
const (
	primaryColor   = "#7C3AED" // Purple
	secondaryColor = "#10B981" // Green
	warningColor   = "#F59E0B" // Amber
	errorColor     = "#EF4444" // Red
	dimColor       = "#6B7280" // Gray
	infoColor      = "#3B82F6" // Blue
)

// Style variables for consistent rendering.
var (
	// BoxStyle provides a rounded border box with primary color.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(primaryColor)).
			Padding(1, 2)

	// TitleStyle renders titles in primary color with bold.
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(primaryColor)).
			Bold(true)

	// ClockStyle renders the lesson timer.
	ClockStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(primaryColor)).
			Bold(true).
			Padding(1, 4)

	// DimStyle renders dim/muted text.
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(dimColor))

	// SuccessStyle renders success messages in green.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(secondaryColor))

	// ErrorStyle renders error messages in red.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(errorColor))

	// WarningStyle renders warning messages in amber.
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(warningColor))

	// InfoStyle renders informational text in blue.
	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(infoColor))

	// SuggestionStyle frames an assistant suggestion.
	SuggestionStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color(warningColor)).
			PaddingLeft(1)
)

// StatusLabel renders a session status with its color.
func StatusLabel(s model.Status) string {
	switch s {
	case model.StatusScheduled:
		return InfoStyle.Render("scheduled")
	case model.StatusInProgress:
		return WarningStyle.Render("in progress")
	case model.StatusCompleted:
		return SuccessStyle.Render("completed")
	case model.StatusCancelled:
		return DimStyle.Render("cancelled")
	default:
		return string(s)
	}
}

// PaidLabel renders the billing state of a completed session.
func PaidLabel(paid bool) string {
	if paid {
		return SuccessStyle.Render("paid")
	}
	return ErrorStyle.Render("unpaid")
}
