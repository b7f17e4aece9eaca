package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shaker/internal/cocktaildb"
	"github.com/five82/shaker/internal/state"
)

// openDetail shows the recipe for id, fetching it unless already cached.
func (m Model) openDetail(id string, from View) (tea.Model, tea.Cmd) {
	id = strings.TrimSpace(id)
	if id == "" || m.session == nil {
		return m, nil
	}
	if from != ViewDetail {
		m.returnView = from
	}
	m.currentView = ViewDetail
	m.blurInput()
	m.detailID = id
	m.detail = nil
	m.detailErr = nil
	m.pending[state.DrinkKey(id)] = true
	m.updateDetailViewport()
	m.detailViewport.GotoTop()
	return m, lookupCmd(m.ctx, m.session, id)
}

func (m Model) handleLookupResult(msg lookupResultMsg) (tea.Model, tea.Cmd) {
	delete(m.pending, state.DrinkKey(msg.id))
	m.refresh()
	if msg.id != m.detailID {
		return m, nil
	}
	if msg.err != nil {
		m.detailErr = msg.err
		m.log.Warn("lookup failed", "drink", msg.id, "error", msg.err)
	} else {
		d := msg.drink
		m.detail = &d
	}
	m.updateDetailViewport()
	return m, nil
}

// handleDetailKey processes keys for the recipe detail view.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.detailViewport.ScrollUp(1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.detailViewport.ScrollDown(1)
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.detailViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.detailViewport.GotoBottom()
		return m, nil
	}

	if m.detail == nil {
		return m, nil
	}
	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.ToggleFavorite):
		m, cmd = m.toggleFavorite(*m.detail)
	case key.Matches(msg, m.keys.AddToCart):
		m, cmd = m.addToCart(*m.detail)
	default:
		return m, nil
	}
	m.updateDetailViewport()
	return m, cmd
}

func (m *Model) resizeDetail() {
	m.detailViewport.Width = max(m.width-4, 10)
	m.detailViewport.Height = max(m.height-5, 3)
	m.updateDetailViewport()
}

func (m *Model) updateDetailViewport() {
	if m.detail == nil {
		m.detailViewport.SetContent("")
		return
	}
	m.detailViewport.SetContent(m.detailContent(*m.detail))
}

// detailContent renders the recipe body: metadata, core ingredients,
// garnishes and instructions.
func (m Model) detailContent(d cocktaildb.Drink) string {
	styles := m.theme.Styles()
	width := max(m.detailViewport.Width, 20)

	var b strings.Builder

	var meta []string
	for _, v := range []string{d.Category, d.Alcoholic, d.Glass} {
		if v != "" {
			meta = append(meta, v)
		}
	}
	if len(meta) > 0 {
		b.WriteString(styles.MutedText.Render(strings.Join(meta, " · ")))
		b.WriteString("\n")
	}

	if m.snapshot.IsFavorite(d.ID) {
		b.WriteString(styles.WarningText.Render("★ Favorite"))
		b.WriteString("\n")
	}
	if id, err := d.NumericID(); err == nil {
		for _, item := range m.snapshot.Cart.Items {
			if item.ID == id {
				b.WriteString(styles.InfoText.Render(
					"In cart: " + plural(item.Quantity, "serving") + " · " + formatPrice(m.currency, item.Subtotal())))
				b.WriteString("\n")
			}
		}
	}

	core, garnish := cocktaildb.SplitGarnish(d.Ingredients)
	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("Ingredients"))
	b.WriteString("\n")
	if len(core) == 0 {
		b.WriteString(styles.FaintText.Render("  none listed"))
		b.WriteString("\n")
	}
	for _, ing := range core {
		b.WriteString(renderIngredient(styles, ing))
		b.WriteString("\n")
	}

	if len(garnish) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Bold(true).Render("Garnish"))
		b.WriteString("\n")
		for _, ing := range garnish {
			b.WriteString(styles.Text.Render("  • " + ing.Name))
			b.WriteString("\n")
		}
	}

	if instructions := strings.TrimSpace(d.Instructions); instructions != "" {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Bold(true).Render("Instructions"))
		b.WriteString("\n")
		b.WriteString(styles.Text.Width(width).Render(instructions))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderIngredient(styles Styles, ing cocktaildb.Ingredient) string {
	if ing.Measure == "" {
		return styles.Text.Render("  • " + ing.Name)
	}
	return styles.Text.Render("  • "+ing.Name) + " " + styles.MutedText.Render(ing.Measure)
}

// renderDetail renders the recipe view, or its loading and error states.
func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	entry := m.fetchEntry(state.DrinkKey(m.detailID))

	title := "Recipe"
	if m.detail != nil {
		title = m.detail.Name
	}
	badge := styles.StatusStyle(entry.Status).Render(entry.Status.String())

	var b strings.Builder
	b.WriteString(m.sectionTitle(title, badge))
	b.WriteString("\n")

	if m.detail == nil {
		if text, handled := m.renderFetchState(entry, m.detailErr); handled {
			b.WriteString(text)
		} else {
			b.WriteString(styles.MutedText.Render("Loading..."))
		}
		return b.String()
	}

	b.WriteString(lipgloss.NewStyle().PaddingLeft(1).Render(m.detailViewport.View()))
	return b.String()
}
