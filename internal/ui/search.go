package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shaker/internal/cocktaildb"
	"github.com/five82/shaker/internal/querycache"
	"github.com/five82/shaker/internal/state"
)

// handleInputKey processes keys while the search box has focus.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submitSearch()

	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Tab):
		m.blurInput()
		return m, nil

	case key.Matches(msg, m.keys.HistoryPrev):
		m.recallHistory(1)
		return m, nil

	case key.Matches(msg, m.keys.HistoryNext):
		m.recallHistory(-1)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.historyIdx = -1
	return m, cmd
}

// submitSearch dispatches a search for the input text. Blank input is ignored.
func (m Model) submitSearch() (tea.Model, tea.Cmd) {
	term := strings.TrimSpace(m.input.Value())
	if term == "" || m.session == nil {
		return m, nil
	}
	return m.startSearch(term)
}

func (m Model) startSearch(term string) (Model, tea.Cmd) {
	m.term = term
	m.results = nil
	m.resultsErr = nil
	m.selectedResult = 0
	m.historyIdx = -1
	m.input.SetValue(term)
	m.input.CursorEnd()
	m.pending[state.SearchKey(term)] = true
	return m, searchCmd(m.ctx, m.session, term)
}

// recallHistory steps through recent searches into the input, oldest-ward
// for positive steps. Stepping past the newest entry clears the input.
func (m *Model) recallHistory(step int) {
	history := m.snapshot.History
	if len(history) == 0 {
		return
	}
	idx := m.historyIdx + step
	if idx < 0 {
		m.historyIdx = -1
		m.input.SetValue("")
		return
	}
	if idx >= len(history) {
		idx = len(history) - 1
	}
	m.historyIdx = idx
	m.input.SetValue(history[idx])
	m.input.CursorEnd()
}

func (m *Model) focusInput() tea.Cmd {
	m.inputFocused = true
	return m.input.Focus()
}

func (m *Model) blurInput() {
	m.inputFocused = false
	m.input.Blur()
}

// handleSearchResult applies a finished search. Results for a term the user
// has since replaced are dropped; the session still cached them.
func (m Model) handleSearchResult(msg searchResultMsg) (tea.Model, tea.Cmd) {
	delete(m.pending, state.SearchKey(msg.term))
	m.refresh()
	if msg.term != m.term {
		return m, nil
	}
	if msg.err != nil {
		m.resultsErr = msg.err
		m.log.Warn("search failed", "term", msg.term, "error", msg.err)
		return m, nil
	}
	m.results = msg.drinks
	m.selectedResult = 0
	if len(m.results) > 0 {
		m.blurInput()
	}
	return m, nil
}

// handleResultsKey processes keys for the result or recent-search list.
func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.term == "" {
		return m.handleRecentKey(msg)
	}
	if step, ok := m.navStep(msg); ok {
		m.selectedResult = moveSelection(m.selectedResult, len(m.results), step)
		return m, nil
	}

	drink, ok := m.selectedDrink()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Open):
		return m.openDetail(drink.ID, ViewSearch)
	case key.Matches(msg, m.keys.ToggleFavorite):
		return m.toggleFavorite(drink)
	case key.Matches(msg, m.keys.AddToCart):
		return m.addToCart(drink)
	}
	return m, nil
}

// handleRecentKey lets the user re-run a recent search.
func (m Model) handleRecentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	history := m.snapshot.History
	if step, ok := m.navStep(msg); ok {
		m.selectedRecent = moveSelection(m.selectedRecent, len(history), step)
		return m, nil
	}
	if key.Matches(msg, m.keys.Open) && len(history) > 0 {
		return m.startSearch(history[clampIndex(m.selectedRecent, len(history))])
	}
	return m, nil
}

func (m Model) selectedDrink() (cocktaildb.Drink, bool) {
	if len(m.results) == 0 {
		return cocktaildb.Drink{}, false
	}
	return m.results[clampIndex(m.selectedResult, len(m.results))], true
}

// navStep maps list navigation keys to a moveSelection step.
func (m Model) navStep(msg tea.KeyMsg) (string, bool) {
	switch {
	case key.Matches(msg, m.keys.Up):
		return "up", true
	case key.Matches(msg, m.keys.Down):
		return "down", true
	case key.Matches(msg, m.keys.Top):
		return "top", true
	case key.Matches(msg, m.keys.Bottom):
		return "bottom", true
	}
	return "", false
}

// fetchEntry reports the fetch state of key, treating dispatched requests as
// in flight until their result message arrives.
func (m Model) fetchEntry(key string) querycache.Entry {
	if m.pending[key] {
		return querycache.Entry{Status: querycache.InFlight}
	}
	return m.snapshot.Fetch(key)
}

// renderFetchState renders the loading and error states of a fetch. It
// returns false when the fetch succeeded and the caller should render data.
func (m Model) renderFetchState(entry querycache.Entry, fallbackErr error) (string, bool) {
	styles := m.theme.Styles()
	switch entry.Status {
	case querycache.InFlight:
		return m.spinner.View() + " " + styles.MutedText.Render("Loading..."), true
	case querycache.Failed:
		err := entry.Err
		if err == nil {
			err = fallbackErr
		}
		return styles.DangerText.Render("Error: " + errorText(err)), true
	}
	if fallbackErr != nil {
		return styles.DangerText.Render("Error: " + errorText(fallbackErr)), true
	}
	return "", false
}

// renderSearch renders the search box, recent searches and results.
func (m Model) renderSearch() string {
	styles := m.theme.Styles()

	panel := styles.Panel
	if m.inputFocused {
		panel = styles.FocusedPanel
	}

	var b strings.Builder
	b.WriteString(panel.Render(m.input.View()))
	b.WriteString("\n")

	if recent := m.snapshot.History; len(recent) > 0 && m.term != "" {
		b.WriteString(styles.FaintText.Render("Recent: " + truncate(strings.Join(recent, " · "), max(m.width-10, 10))))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.term == "" {
		b.WriteString(m.renderRecent())
		return b.String()
	}

	entry := m.fetchEntry(state.SearchKey(m.term))
	title := "Results for \"" + m.term + "\""
	b.WriteString(m.sectionTitle(title, styles.StatusStyle(entry.Status).Render(entry.Status.String())))
	b.WriteString("\n")

	if text, handled := m.renderFetchState(entry, m.resultsErr); handled {
		b.WriteString(text)
		return b.String()
	}
	if len(m.results) == 0 {
		b.WriteString(styles.MutedText.Render("No cocktails found."))
		return b.String()
	}

	for i, d := range m.results {
		b.WriteString(m.renderDrinkRow(d, i == m.selectedResult && !m.inputFocused))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderRecent() string {
	styles := m.theme.Styles()
	history := m.snapshot.History

	var b strings.Builder
	b.WriteString(m.sectionTitle("Recent searches", ""))
	b.WriteString("\n")
	if len(history) == 0 {
		b.WriteString(styles.MutedText.Render("No recent searches. Type a cocktail name and press enter."))
		return b.String()
	}
	for i, term := range history {
		line := "  " + term
		if i == m.selectedRecent && !m.inputFocused {
			line = styles.Selected.Render("› " + term)
		} else {
			line = styles.Text.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderDrinkRow renders one drink in a list with its favorite and cart markers.
func (m Model) renderDrinkRow(d cocktaildb.Drink, selected bool) string {
	styles := m.theme.Styles()

	marker := "  "
	if m.snapshot.IsFavorite(d.ID) {
		marker = "★ "
	}
	line := marker + d.Name
	if d.Category != "" {
		line += "  " + d.Category
	}
	if id, err := d.NumericID(); err == nil {
		if q := m.snapshot.Quantity(id); q > 0 {
			line += "  ×" + strconv.Itoa(q) + " in cart"
		}
	}
	line = truncate(line, max(m.width-2, 20))

	if selected {
		return styles.Selected.Render(line)
	}
	return styles.Text.Render(line)
}
