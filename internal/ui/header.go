package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the logo, view tabs, cart summary and the time of the
// last state change.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := newSurface(m.theme.Surface)

	active := m.currentView
	if active == ViewDetail {
		active = m.returnView
	}

	tab := func(v View, label string) string {
		if v == active {
			return bg.paint("["+label+"]", styles.AccentText.Bold(true))
		}
		return bg.paint(" "+label+" ", styles.MutedText)
	}

	parts := []string{
		bg.paint("shaker", styles.Logo),
		tab(ViewSearch, "Search"),
		tab(ViewFavorites, "Favorites "+strconv.Itoa(len(m.snapshot.Favorites))),
		tab(ViewCart, "Cart "+strconv.Itoa(m.snapshot.CartCount)),
		bg.pair("Total:", styles.MutedText, formatPrice(m.currency, m.snapshot.Cart.Total), styles.Text),
	}

	if !m.snapshot.LastUpdated.IsZero() && m.width >= 80 {
		parts = append(parts, bg.pair("Updated", styles.MutedText, m.snapshot.LastUpdated.Format("15:04:05"), styles.Text))
	}

	if m.snapshot.LastError != nil && m.width >= 100 {
		parts = append(parts, bg.pair("Last error:", styles.DangerText, truncate(errorText(m.snapshot.LastError), 40), styles.MutedText))
	}

	return styles.Header.Width(m.width).Render(bg.bar(parts, 2))
}

// renderFooter shows the current toast or the short key help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := newSurface(m.theme.Surface)

	if m.toast.text != "" {
		style := styles.SuccessText
		if m.toast.isError {
			style = styles.DangerText
		}
		return styles.Footer.Width(m.width).Render(bg.paint(m.toast.text, style))
	}

	bindings := m.viewHelp()
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, bg.pair(h.Key, styles.WarningText, h.Desc, styles.MutedText))
	}
	return styles.Footer.Width(m.width).Render(bg.bar(parts, 3))
}

// viewHelp returns the bindings worth showing for the active view.
func (m Model) viewHelp() []key.Binding {
	k := m.keys
	switch m.currentView {
	case ViewSearch:
		if m.inputFocused {
			return []key.Binding{k.Submit, k.HistoryPrev, k.Escape}
		}
		return []key.Binding{k.Open, k.ToggleFavorite, k.AddToCart, k.ViewSearch, k.Help}
	case ViewDetail:
		return []key.Binding{k.ToggleFavorite, k.AddToCart, k.Escape, k.Help}
	case ViewFavorites:
		return []key.Binding{k.Open, k.Remove, k.Tab, k.Help}
	case ViewCart:
		return []key.Binding{k.Increment, k.Decrement, k.Remove, k.ClearCart, k.Help}
	}
	return k.ShortHelp()
}

// sectionTitle renders a bold title, an optional badge and a rule underneath.
func (m Model) sectionTitle(title, badge string) string {
	styles := m.theme.Styles()
	line := styles.AccentText.Bold(true).Render(title)
	if badge != "" {
		line += " " + badge
	}
	width := max(lipgloss.Width(line), min(m.width-2, 60))
	return line + "\n" + styles.FaintText.Render(strings.Repeat("─", width))
}
