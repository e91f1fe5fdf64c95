package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// Card layout constants
const (
	cardWidth    = 36 // region card width inside the border
	lineWidth    = cardWidth - 2
	cardBarWidth = 20
	maxColumns   = 3
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.banner != "" {
		b.WriteString(BannerStyle.Render("⚠ " + m.banner))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.bodyReady {
		b.WriteString(m.body.View())
	} else {
		b.WriteString(m.renderRegions())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title, target and connection state.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("actop")

	var conn string
	switch {
	case !m.connKnown:
		conn = MutedStyle.Render(DotConnecting + " Connecting")
	case m.online:
		conn = StatusUpStyle.Render(DotOnline + " Connected")
	default:
		conn = StatusDownStyle.Render(DotOffline + " Disconnected")
	}

	var parts []string
	if m.baseURL != "" {
		parts = append(parts, m.baseURL)
	}
	if !m.lastRefresh.IsZero() {
		parts = append(parts, "updated "+humanize.RelTime(m.lastRefresh, m.now(), "ago", "from now"))
	}
	if m.paused {
		parts = append(parts, "paused")
	}

	stats := ""
	if len(parts) > 0 {
		stats = lipgloss.NewStyle().
			Foreground(ColorTextSecondary).
			Render(" | " + strings.Join(parts, " | "))
	}

	refreshing := ""
	if m.refreshing {
		refreshing = " " + m.spinner.View()
	}

	return HeaderStyle.Render(title + " " + conn + stats + refreshing)
}

// renderFooter renders the keyboard help footer.
func (m Model) renderFooter() string {
	pause := "p pause"
	if m.paused {
		pause = "p resume"
	}
	hints := []string{
		"q quit",
		"r refresh",
		pause,
		"? help",
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}

// renderRegions lays the six region cards out in a grid.
func (m Model) renderRegions() string {
	cards := make([]string, 0, len(Kinds))
	for _, k := range Kinds {
		cards = append(cards, m.renderCard(k))
	}
	return m.layoutCards(cards)
}

// columns returns how many cards fit side by side.
func (m Model) columns() int {
	if m.width == 0 {
		return 2
	}
	n := m.width / (cardWidth + 5) // border, padding and margin
	if n < 1 {
		n = 1
	}
	if n > maxColumns {
		n = maxColumns
	}
	return n
}

func (m Model) layoutCards(cards []string) string {
	per := m.columns()
	var rows []string
	for i := 0; i < len(cards); i += per {
		end := i + per
		if end > len(cards) {
			end = len(cards)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderCard renders the card for one region kind.
func (m Model) renderCard(kind Kind) string {
	region := m.regions[kind]

	var lines []string
	style := CardStyle
	switch r := region.(type) {
	case nil:
		lines = []string{MutedStyle.Render("Loading...")}
	case ErrorRegion:
		style = CardErrorStyle
		lines = m.errorLines(r)
	case HealthRegion:
		lines = m.healthLines(r)
	case MemoryRegion:
		lines = m.memoryLines(r)
	case SystemRegion:
		lines = m.systemLines(r)
	case HTTPRegion:
		lines = m.httpLines(r)
	case ThreadRegion:
		lines = m.threadLines(r)
	case GCRegion:
		lines = m.gcLines(r)
	}

	content := CardTitleStyle.Render(kind.Title()) + "\n" + strings.Join(lines, "\n")
	return style.Width(cardWidth).Render(content)
}

func (m Model) errorLines(r ErrorRegion) []string {
	var lines []string
	switch r.Of {
	case KindHealth:
		lines = append(lines, metricLine("Status", StatusDownStyle.Render("Error"), lineWidth))
	case KindGC:
		lines = append(lines, metricLine("GC Info", StatusDownStyle.Render("Error"), lineWidth))
	default:
		lines = append(lines, StatusDownStyle.Render("✗ Unavailable"))
	}
	if r.Message != "" {
		lines = append(lines, MutedStyle.Render(truncate(r.Message, lineWidth)))
	}
	return lines
}

func (m Model) healthLines(r HealthRegion) []string {
	lines := []string{metricLine("Status", HealthStyle(r.Status).Render(r.Status), lineWidth)}
	for _, c := range r.Components {
		lines = append(lines, metricLine("  "+c.Name, HealthStyle(c.Status).Render(c.Status), lineWidth))
	}
	return lines
}

func (m Model) memoryLines(r MemoryRegion) []string {
	lines := []string{
		metricLine("Heap used", ValueStyle.Render(FormatBytes(r.HeapUsed)), lineWidth),
		metricLine("Heap max", ValueStyle.Render(FormatBytes(r.HeapMax)), lineWidth),
	}
	if pct, ok := r.HeapPercent(); ok {
		lines = append(lines, metricLine(
			ProgressBar(cardBarWidth, pct, m.thresholds),
			ValueStyle.Render(FormatPercentage(r.HeapUsed.Value, r.HeapMax.Value)),
			lineWidth))
	}
	lines = append(lines, metricLine("Non-heap used", ValueStyle.Render(FormatBytes(r.NonHeapUsed)), lineWidth))
	return lines
}

func (m Model) systemLines(r SystemRegion) []string {
	cpu := r.CPUPercent()
	return []string{
		metricLine("CPU", ValueStyle.Render(fmt.Sprintf("%.1f%%", cpu)), lineWidth),
		ProgressBar(lineWidth, cpu, m.thresholds),
		metricLine("Uptime", ValueStyle.Render(FormatDuration(Value(r.Uptime))), lineWidth),
		metricLine("Processors", ValueStyle.Render(FormatCount(Value(r.Processors))), lineWidth),
	}
}

func (m Model) httpLines(r HTTPRegion) []string {
	count := func(n int) string {
		if !r.Available {
			return Placeholder
		}
		return FormatCount(Value(float64(n)))
	}
	return []string{
		metricLine("Status codes seen", ValueStyle.Render(count(r.Total)), lineWidth),
		metricLine("2xx", StatusUpStyle.Render(count(r.Success)), lineWidth),
		metricLine("4xx", StatusOtherStyle.Render(count(r.ClientError)), lineWidth),
		metricLine("5xx", StatusDownStyle.Render(count(r.ServerError)), lineWidth),
	}
}

func (m Model) threadLines(r ThreadRegion) []string {
	return []string{
		metricLine("Live", ValueStyle.Render(FormatCount(Value(r.Live))), lineWidth),
		metricLine("Peak", ValueStyle.Render(FormatCount(Value(r.Peak))), lineWidth),
		metricLine("Daemon", ValueStyle.Render(FormatCount(Value(r.Daemon))), lineWidth),
	}
}

func (m Model) gcLines(r GCRegion) []string {
	if len(r.Rows) == 0 {
		return []string{metricLine("♻ GC Info", MutedStyle.Render("Not available"), lineWidth)}
	}
	lines := make([]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		lines = append(lines, metricLine("♻ "+row.Name, ValueStyle.Render(FormatBytes(Value(row.Bytes))), lineWidth))
	}
	return lines
}

// truncate shortens s to max runes, adding an ellipsis.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max || max <= 3 {
		return s
	}
	return string(r[:max-3]) + "..."
}
