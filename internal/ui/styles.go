// Package ui holds terminal styles shared by the console reporter and the init wizard.
package ui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Theme colors
var (
	colorPrimary   = lipgloss.Color("#0EA5E9") // Sky blue
	colorSuccess   = lipgloss.Color("#22C55E") // Green
	colorWarning   = lipgloss.Color("#EAB308") // Yellow
	colorCritical  = lipgloss.Color("#FFA500") // Orange
	colorError     = lipgloss.Color("#DC2626") // Red
	colorAlarm     = lipgloss.Color("#FF5555") // Bright red
	colorFailure   = lipgloss.Color("#D946EF") // Magenta
	colorMuted     = lipgloss.Color("#6B7280") // Gray
	colorHighlight = lipgloss.Color("#A855F7") // Purple
	colorDark      = lipgloss.Color("#1F2937") // Dark gray
	colorLight     = lipgloss.Color("#F9FAFB") // Light gray
)

// Outcome styles, one per report tag
var (
	ValidStyle    = lipgloss.NewStyle().Foreground(colorSuccess)
	WarningStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	CriticalStyle = lipgloss.NewStyle().Foreground(colorCritical)
	ExpiredStyle  = lipgloss.NewStyle().Foreground(colorError)

	// ExpiredCertStyle is for handshakes rejected on an expired certificate
	ExpiredCertStyle = lipgloss.NewStyle().Foreground(colorAlarm).Bold(true)

	// FailureStyle is for every other failed check
	FailureStyle = lipgloss.NewStyle().Foreground(colorFailure)

	// TargetStyle emphasises the URL inside a message
	TargetStyle = lipgloss.NewStyle().
			Bold(true).
			Background(colorLight).
			Foreground(colorDark)
)

// Wizard styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	CodeStyle = lipgloss.NewStyle().
			Background(colorDark).
			Foreground(colorLight).
			Padding(0, 1)

	SectionStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1).
			MarginBottom(1)
)

// Prefixes for messages
const (
	SuccessPrefix = "✓ "
	ErrorPrefix   = "✗ "
	WarningPrefix = "! "
	InfoPrefix    = "→ "
)

// CreateTheme returns the huh theme used by the init wizard.
func CreateTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = t.Focused.Title.Foreground(colorPrimary)
	t.Focused.Description = t.Focused.Description.Foreground(colorMuted)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(colorHighlight)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(colorPrimary)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(colorPrimary)

	t.Blurred.Title = t.Blurred.Title.Foreground(colorMuted)

	return t
}

// RenderHeader renders the wizard header.
func RenderHeader() string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(colorLight).
		Background(colorPrimary).
		Padding(0, 2).
		Render(" cw-expiry Setup ")
}

// RenderSection renders a section divider padded to a fixed width.
func RenderSection(title string) string {
	const width = 40
	line := "────────────────────────────────────────"
	pad := width - len([]rune(title))
	if pad < 0 {
		pad = 0
	}
	return SectionStyle.Render("─── " + title + " " + string([]rune(line)[:pad]))
}

func RenderSuccess(msg string) string {
	return SuccessStyle.Render(SuccessPrefix + msg)
}

func RenderError(msg string) string {
	return ErrorStyle.Render(ErrorPrefix + msg)
}

func RenderWarning(msg string) string {
	return WarningStyle.Render(WarningPrefix + msg)
}

func RenderInfo(msg string) string {
	return MutedStyle.Render(InfoPrefix + msg)
}

func RenderCode(code string) string {
	return CodeStyle.Render(code)
}
