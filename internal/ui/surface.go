package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// surface paints header and footer segments onto a solid background.
// lipgloss resets the background after each styled run, so bare spaces
// between runs would show the terminal colour through the bar.
type surface struct {
	color lipgloss.Color
	blank lipgloss.Style
}

func newSurface(color string) surface {
	c := lipgloss.Color(color)
	return surface{color: c, blank: lipgloss.NewStyle().Background(c)}
}

// paint renders text in style on the surface colour. Runs of spaces inside
// text are painted too.
func (s surface) paint(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	style = style.Background(s.color)

	var b strings.Builder
	for i, word := range strings.Split(text, " ") {
		if i > 0 {
			b.WriteString(s.gap(1))
		}
		if word != "" {
			b.WriteString(style.Render(word))
		}
	}
	return b.String()
}

// gap returns n painted spaces.
func (s surface) gap(n int) string {
	if n <= 0 {
		return ""
	}
	return s.blank.Render(strings.Repeat(" ", n))
}

// pair paints a label and its value separated by one painted space.
func (s surface) pair(label string, labelStyle lipgloss.Style, value string, valueStyle lipgloss.Style) string {
	return s.paint(label, labelStyle) + s.gap(1) + s.paint(value, valueStyle)
}

// bar joins segments with width painted spaces between them.
func (s surface) bar(segments []string, width int) string {
	return strings.Join(segments, s.gap(width))
}
