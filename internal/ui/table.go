package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Section is one titled block of label/value rows.
type Section struct {
	Title  string
	Failed bool
	Rows   []Row
}

// Row is a label and its formatted value.
type Row struct {
	Label string
	Value string
}

// RenderSections renders sections as an aligned, grouped list:
//
//	● Memory
//	    Heap used      512 MB (50.0%)
//	    Heap max       1 GB
func RenderSections(sections []Section) string {
	if len(sections) == 0 {
		return ""
	}

	okStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
	failStyle := lipgloss.NewStyle().Foreground(ColorError)
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	labelStyle := lipgloss.NewStyle().Foreground(ColorSecondary)

	width := 0
	for _, s := range sections {
		for _, r := range s.Rows {
			if w := lipgloss.Width(r.Label); w > width {
				width = w
			}
		}
	}

	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		icon := okStyle.Render(SymbolComplete)
		if s.Failed {
			icon = failStyle.Render(SymbolFail)
		}
		b.WriteString(icon + " " + headerStyle.Render(s.Title) + "\n")

		for _, r := range s.Rows {
			b.WriteString("    ")
			b.WriteString(labelStyle.Render(padRight(r.Label, width)))
			b.WriteString("  ")
			b.WriteString(r.Value)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// padRight pads a string to the specified width.
func padRight(s string, width int) string {
	// Account for ANSI codes when calculating visible length
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visibleLen)
}
