package ui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	PrimaryColor   = lipgloss.Color("205") // Pink
	SecondaryColor = lipgloss.Color("241") // Gray
	SuccessColor   = lipgloss.Color("82")  // Green
	ErrorColor     = lipgloss.Color("196") // Red
	WarningColor   = lipgloss.Color("214") // Orange (remote references)
	AssetColor     = lipgloss.Color("39")  // Blue
	MutedColor     = lipgloss.Color("245") // Dimmed text
)

// Text styles.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	StatusStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	AssetStyle = lipgloss.NewStyle().
			Foreground(AssetColor)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			MarginTop(1)

	MutedStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	DetailLabelStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				Bold(true)

	DetailNoteStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)
)

// SpinnerStyle returns the style for the spinner.
func SpinnerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(PrimaryColor)
}

// Badge styles for rewrite counts.
var (
	BadgeRewritten = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(SuccessColor).
			Padding(0, 1)

	BadgeUntouched = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(SecondaryColor).
			Padding(0, 1)

	BadgeRemote = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(WarningColor).
			Padding(0, 1)
)

// RewriteBadge returns a styled badge for the number of rewritten constructs.
func RewriteBadge(rewrites, skippedRemote int) string {
	switch {
	case skippedRemote > 0:
		return BadgeRemote.Render("REMOTE")
	case rewrites > 0:
		return BadgeRewritten.Render("REWRITTEN")
	default:
		return BadgeUntouched.Render("UNCHANGED")
	}
}
