package ui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shaker/internal/cocktaildb"
	"github.com/five82/shaker/internal/logging"
	"github.com/five82/shaker/internal/prefs"
	"github.com/five82/shaker/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewSearch View = iota
	ViewFavorites
	ViewCart
	ViewDetail
)

// tabViews is the tab cycle order. The detail view is reached by opening a drink.
var tabViews = []View{ViewSearch, ViewFavorites, ViewCart}

const toastDuration = 3 * time.Second

// Options configures the UI.
type Options struct {
	Context   context.Context
	Session   *state.Session
	ThemeName string
	Currency  string
	PrefsPath string
	Logger    *slog.Logger
}

// toast is a short-lived confirmation shown in the footer.
type toast struct {
	text    string
	isError bool
	seq     int
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	session   *state.Session
	log       *slog.Logger
	prefsPath string
	currency  string
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	returnView  View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Data state
	snapshot state.Snapshot
	pending  map[string]bool // query keys dispatched and not yet answered
	spinner  spinner.Model

	// Search state
	input          textinput.Model
	inputFocused   bool
	historyIdx     int // -1 when not browsing recent searches
	term           string
	results        []cocktaildb.Drink
	resultsErr     error
	selectedResult int
	selectedRecent int

	// Favorites and cart state
	selectedFavorite int
	selectedCartItem int

	// Detail state
	detailID       string
	detail         *cocktaildb.Drink
	detailErr      error
	detailViewport viewport.Model

	toast    toast
	toastSeq int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Default().Theme
	}

	currency := opts.Currency
	if currency == "" {
		currency = prefs.Default().Currency
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	input := textinput.New()
	input.Placeholder = "Search cocktails by name..."
	input.CharLimit = 64
	input.Width = 40
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	logger := logging.OrDiscard(opts.Logger).With("component", "ui")
	if opts.Session != nil {
		logger = logger.With("session", opts.Session.ID())
	}

	m := Model{
		ctx:            ctx,
		session:        opts.Session,
		log:            logger,
		prefsPath:      prefsPath,
		currency:       currency,
		keys:           DefaultKeyMap(),
		theme:          GetTheme(themeName),
		currentView:    ViewSearch,
		pending:        make(map[string]bool),
		spinner:        sp,
		input:          input,
		inputFocused:   true,
		historyIdx:     -1,
		detailViewport: viewport.New(0, 0),
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeDetail()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case searchResultMsg:
		return m.handleSearchResult(msg)

	case lookupResultMsg:
		return m.handleLookupResult(msg)

	case toastExpiredMsg:
		if msg.seq == m.toast.seq {
			m.toast = toast{}
		}
		return m, nil
	}

	// Cursor blink and other input housekeeping
	if m.inputFocused {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if key.Matches(msg, m.keys.Interrupt) {
		return m, tea.Quit
	}
	if m.currentView == ViewSearch && m.inputFocused {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		return m.cycleTheme()

	case key.Matches(msg, m.keys.Tab):
		m.switchView(m.adjacentView(1))
		return m, nil

	case key.Matches(msg, m.keys.ShiftTab):
		m.switchView(m.adjacentView(-1))
		return m, nil

	case key.Matches(msg, m.keys.ViewSearch):
		m.switchView(ViewSearch)
		cmd := m.focusInput()
		return m, cmd

	case key.Matches(msg, m.keys.ViewFavorites):
		m.switchView(ViewFavorites)
		return m, nil

	case key.Matches(msg, m.keys.ViewCart):
		m.switchView(ViewCart)
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		switch m.currentView {
		case ViewDetail:
			m.currentView = m.returnView
			return m, nil
		case ViewSearch:
			cmd := m.focusInput()
			return m, cmd
		default:
			m.switchView(ViewSearch)
			return m, nil
		}
	}

	switch m.currentView {
	case ViewSearch:
		return m.handleResultsKey(msg)
	case ViewFavorites:
		return m.handleFavoritesKey(msg)
	case ViewCart:
		return m.handleCartKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	}
	return m, nil
}

// switchView moves to one of the tab views.
func (m *Model) switchView(v View) {
	m.currentView = v
	if v != ViewSearch {
		m.blurInput()
	}
	m.clampSelections()
}

// adjacentView returns the tab view step positions away from the current one.
// From the detail view it steps relative to the view the detail was opened from.
func (m Model) adjacentView(step int) View {
	current := m.currentView
	if current == ViewDetail {
		current = m.returnView
	}
	for i, v := range tabViews {
		if v == current {
			n := len(tabViews)
			return tabViews[((i+step)%n+n)%n]
		}
	}
	return ViewSearch
}

func (m Model) cycleTheme() (tea.Model, tea.Cmd) {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	if m.prefsPath != "" {
		p := prefs.Prefs{Theme: m.theme.Name, Currency: m.currency}
		if err := prefs.Save(m.prefsPath, p); err != nil {
			m.log.Warn("save preferences failed", "error", err)
		}
	}
	return m.showToast("Theme: "+m.theme.Name, false)
}

// refresh replaces the cached snapshot with the session's current state.
func (m *Model) refresh() {
	if m.session == nil {
		return
	}
	m.snapshot = m.session.Snapshot()
	m.clampSelections()
}

func (m *Model) clampSelections() {
	m.selectedResult = clampIndex(m.selectedResult, len(m.results))
	m.selectedRecent = clampIndex(m.selectedRecent, len(m.snapshot.History))
	m.selectedFavorite = clampIndex(m.selectedFavorite, len(m.snapshot.Favorites))
	m.selectedCartItem = clampIndex(m.selectedCartItem, len(m.snapshot.Cart.Items))
}

func (m Model) showToast(text string, isError bool) (Model, tea.Cmd) {
	m.toastSeq++
	m.toast = toast{text: text, isError: isError, seq: m.toastSeq}
	return m, toastExpireCmd(m.toastSeq)
}

// toggleFavorite flips the favorite state of drink and confirms it.
func (m Model) toggleFavorite(drink cocktaildb.Drink) (Model, tea.Cmd) {
	if m.session == nil {
		return m, nil
	}
	now := m.session.ToggleFavorite(m.ctx, drink)
	m.refresh()
	if now {
		return m.showToast(drink.Name+" added to favorites", false)
	}
	return m.showToast(drink.Name+" removed from favorites", false)
}

// addToCart adds one unit of drink and confirms it.
func (m Model) addToCart(drink cocktaildb.Drink) (Model, tea.Cmd) {
	if m.session == nil {
		return m, nil
	}
	if err := m.session.AddToCart(m.ctx, drink); err != nil {
		m.log.Warn("add to cart failed", "drink", drink.ID, "error", err)
		return m.showToast("Could not add "+drink.Name+": "+err.Error(), true)
	}
	m.refresh()
	return m.showToast(drink.Name+" added to cart", false)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	header := m.renderHeader()
	footer := m.renderFooter()

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(m.renderContent())

	body := b.String()
	// Pin the footer to the bottom row
	if gap := m.height - lineCount(body) - 1; gap > 0 {
		body += strings.Repeat("\n", gap)
	}
	return body + "\n" + footer
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewSearch:
		return m.renderSearch()
	case ViewFavorites:
		return m.renderFavorites()
	case ViewCart:
		return m.renderCart()
	case ViewDetail:
		return m.renderDetail()
	default:
		return ""
	}
}

// Messages

type searchResultMsg struct {
	term   string
	drinks []cocktaildb.Drink
	err    error
}

type lookupResultMsg struct {
	id    string
	drink cocktaildb.Drink
	err   error
}

type toastExpiredMsg struct{ seq int }

// Commands

func searchCmd(ctx context.Context, session *state.Session, term string) tea.Cmd {
	return func() tea.Msg {
		drinks, err := session.Search(ctx, term)
		return searchResultMsg{term: term, drinks: drinks, err: err}
	}
}

func lookupCmd(ctx context.Context, session *state.Session, id string) tea.Cmd {
	return func() tea.Msg {
		drink, err := session.Lookup(ctx, id)
		return lookupResultMsg{id: id, drink: drink, err: err}
	}
}

func toastExpireCmd(seq int) tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
