package dashboard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dashboard color palette
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	// Semantic colors for gauges and statuses
	ColorHealthy  = lipgloss.Color("#39FF14")
	ColorWarning  = lipgloss.Color("#FFAA00")
	ColorCritical = lipgloss.Color("#FF0055")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent = lipgloss.Color("#FF2E97")
	ColorGraph  = lipgloss.Color("#00FFFF")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1)

	// CardErrorStyle marks a region whose group failed.
	CardErrorStyle = CardStyle.
			BorderForeground(ColorCritical)

	CardTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	BannerStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorCritical).
			Bold(true).
			Padding(0, 1)

	StatusUpStyle = lipgloss.NewStyle().
			Foreground(ColorHealthy).
			Bold(true)

	StatusDownStyle = lipgloss.NewStyle().
			Foreground(ColorCritical).
			Bold(true)

	StatusOtherStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)
)

// Connection indicator glyphs
const (
	DotOnline     = "◉"
	DotOffline    = "◌"
	DotConnecting = "◐"
)

// LevelColor returns the gauge color for a severity level.
func LevelColor(l Level) lipgloss.Color {
	switch l {
	case LevelDanger:
		return ColorCritical
	case LevelWarning:
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// HealthStyle picks the style for a health status string: UP is healthy,
// DOWN, OUT_OF_SERVICE and Error are down, anything else is a warning.
func HealthStyle(status string) lipgloss.Style {
	switch strings.ToUpper(status) {
	case "UP":
		return StatusUpStyle
	case "DOWN", "OUT_OF_SERVICE", "ERROR":
		return StatusDownStyle
	default:
		return StatusOtherStyle
	}
}

// ProgressBar renders a bar of width cells filled to percent, colored by
// its level under t.
func ProgressBar(width int, percent float64, t Thresholds) string {
	if width < 1 {
		width = 1
	}

	clamped := percent
	if clamped < 0 {
		clamped = 0
	}
	if clamped > 100 {
		clamped = 100
	}

	filled := int(clamped / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
	return lipgloss.NewStyle().Foreground(LevelColor(t.LevelFor(percent))).Render(bar)
}

// metricLine renders "label ....... value" padded to width.
func metricLine(label, value string, width int) string {
	l := LabelStyle.Render(label)
	v := value
	gap := width - lipgloss.Width(l) - lipgloss.Width(v)
	if gap < 1 {
		gap = 1
	}
	return l + strings.Repeat(" ", gap) + v
}
