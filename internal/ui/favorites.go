package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleFavoritesKey processes keys for the favorites list.
func (m Model) handleFavoritesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.snapshot.Favorites
	if step, ok := m.navStep(msg); ok {
		m.selectedFavorite = moveSelection(m.selectedFavorite, len(items), step)
		return m, nil
	}
	if len(items) == 0 {
		return m, nil
	}
	item := items[clampIndex(m.selectedFavorite, len(items))]

	switch {
	case key.Matches(msg, m.keys.Open):
		return m.openDetail(item.ID, ViewFavorites)
	case key.Matches(msg, m.keys.Remove), key.Matches(msg, m.keys.ToggleFavorite):
		if m.session.RemoveFavorite(m.ctx, item.ID) {
			m.refresh()
			return m.showToast(item.Name+" removed from favorites", false)
		}
	}
	return m, nil
}

// renderFavorites renders the favorites list in insertion order.
func (m Model) renderFavorites() string {
	styles := m.theme.Styles()
	items := m.snapshot.Favorites

	var b strings.Builder
	b.WriteString(m.sectionTitle("Favorites", styles.MutedText.Render(plural(len(items), "drink"))))
	b.WriteString("\n")

	if len(items) == 0 {
		b.WriteString(styles.MutedText.Render("No favorites yet. Press f on a drink to add it."))
		return b.String()
	}
	for i, item := range items {
		line := truncate("★ "+item.Name, max(m.width-2, 20))
		if i == m.selectedFavorite {
			b.WriteString(styles.Selected.Render(line))
		} else {
			b.WriteString(styles.Text.Render(line))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
