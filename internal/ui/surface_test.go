package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestSurface_PaintKeepsSpacing(t *testing.T) {
	s := newSurface("#1b2330")
	style := lipgloss.NewStyle()

	tests := []struct {
		text  string
		width int
	}{
		{"", 0},
		{"Total:", 6},
		{"Last error:", 11},
		{"a  b", 4},
		{" Cart 3 ", 8},
	}
	for _, tt := range tests {
		if got := lipgloss.Width(s.paint(tt.text, style)); got != tt.width {
			t.Fatalf("paint(%q) width = %d, want %d", tt.text, got, tt.width)
		}
	}
}

func TestSurface_BarAndPair(t *testing.T) {
	s := newSurface("#1b2330")
	style := lipgloss.NewStyle()

	if got := lipgloss.Width(s.gap(0)); got != 0 {
		t.Fatalf("gap(0) width = %d, want 0", got)
	}
	if got := lipgloss.Width(s.pair("Total:", style, "$30.00", style)); got != len("Total: $30.00") {
		t.Fatalf("pair width = %d, want %d", got, len("Total: $30.00"))
	}
	segments := []string{s.paint("one", style), s.paint("two", style), s.paint("three", style)}
	if got := lipgloss.Width(s.bar(segments, 3)); got != len("one   two   three") {
		t.Fatalf("bar width = %d, want %d", got, len("one   two   three"))
	}
}
