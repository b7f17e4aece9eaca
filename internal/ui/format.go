package ui

import (
	"fmt"
	"strings"
)

// formatPrice renders amount with the currency symbol and two decimals.
func formatPrice(currency string, amount float64) string {
	return fmt.Sprintf("%s%.2f", currency, amount)
}

// truncate shortens s to limit runes, marking the cut with an ellipsis.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}

// plural returns "1 drink" or "3 drinks".
func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// clampIndex keeps i within a list of n entries. Empty lists clamp to 0.
func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// moveSelection applies a navigation step to i in a list of n entries.
func moveSelection(i, n int, step string) int {
	switch step {
	case "up":
		i--
	case "down":
		i++
	case "top":
		i = 0
	case "bottom":
		i = n - 1
	}
	return clampIndex(i, n)
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// errorText flattens err for single-line display.
func errorText(err error) string {
	if err == nil {
		return ""
	}
	return strings.Join(strings.Fields(err.Error()), " ")
}
