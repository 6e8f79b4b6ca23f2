package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyinv/internal/config"
	"github.com/rebeliceyang/lazyinv/internal/filter"
	"github.com/rebeliceyang/lazyinv/internal/history"
	"github.com/rebeliceyang/lazyinv/internal/logger"
	"github.com/rebeliceyang/lazyinv/internal/models"
	"github.com/rebeliceyang/lazyinv/internal/query"
	"github.com/rebeliceyang/lazyinv/internal/ui/components"
	"github.com/rebeliceyang/lazyinv/internal/ui/help"
	"github.com/rebeliceyang/lazyinv/internal/ui/theme"
)

// App is the main application model
type App struct {
	state    models.AppState
	config   *config.Config
	theme    theme.Theme
	ctx      context.Context
	searcher Searcher
	copyText func(string) error

	builders   map[models.Segment]*query.Builder
	queryField *components.QueryField
	facetPanel *components.FacetPanel
	history    *history.Store

	previewPane   *components.PreviewPane
	recentTable   *components.TableView
	recentEntries []history.HistoryEntry // newest first, as shown in recentTable

	leftPanel  components.Panel
	rightPanel components.Panel

	// Error overlay
	showError    bool
	errorOverlay *components.ErrorOverlay

	lastRequest *Request
	status      string
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Title   string
	Message string
}

// SearchDoneMsg is sent when the searcher returned
type SearchDoneMsg struct {
	ID  uuid.UUID
	Err error
}

// Option configures an App
type Option func(*App)

// WithSearcher sets the search backend
func WithSearcher(s Searcher) Option {
	return func(a *App) { a.searcher = s }
}

// WithContext sets the context passed to the searcher
func WithContext(ctx context.Context) Option {
	return func(a *App) { a.ctx = ctx }
}

// WithClipboard replaces the system clipboard
func WithClipboard(fn func(string) error) Option {
	return func(a *App) { a.copyText = fn }
}

// New creates a new App instance with config
func New(cfg *config.Config, opts ...Option) *App {
	if cfg == nil {
		cfg = config.GetDefaults()
	}
	state := models.NewAppState()

	th := theme.GetTheme(cfg.UI.Theme)

	if cfg.UI.PanelWidthRatio > 0 && cfg.UI.PanelWidthRatio < 100 {
		state.LeftPanelWidth = cfg.UI.PanelWidthRatio
	}
	if seg, err := models.ParseSegment(cfg.UI.DefaultSegment); err == nil {
		state.Segment = seg
	}

	app := &App{
		state:        state,
		config:       cfg,
		theme:        th,
		ctx:          context.Background(),
		searcher:     LogSearcher{},
		copyText:     clipboard.WriteAll,
		builders:     make(map[models.Segment]*query.Builder),
		history:      history.NewStore(cfg.UI.HistorySize),
		errorOverlay: components.NewErrorOverlay(th),
		previewPane:  components.NewPreviewPane(th),
		recentTable:  components.NewTableView(th),
		leftPanel:    components.NewPanel("Facets", "tab", th),
		rightPanel:   components.NewPanel("Query", "ctrl+r", th),
	}
	for _, opt := range opts {
		opt(app)
	}
	app.recentTable.StyleCell = app.styleRecentCell

	app.queryField = components.NewQueryField(app.builderFor(state.Segment), th)
	app.facetPanel = components.NewFacetPanel(state.Segment, cfg.Facets(state.Segment), th)

	app.updatePanelDimensions(app.queryFieldHeight())
	app.updatePanelStyles()

	return app
}

// builderFor returns the builder of a segment, creating it on first use
func (a *App) builderFor(seg models.Segment) *query.Builder {
	if b, ok := a.builders[seg]; ok {
		return b
	}
	b := query.NewBuilder(a.config.Vocabulary(seg), query.Options{
		MaxSuggestions:  a.config.Search.MaxSuggestions,
		KeywordFallback: a.config.Search.KeywordFallback,
	})
	a.builders[seg] = b
	return b
}

// LastRequest returns the last submitted search, if any
func (a *App) LastRequest() (Request, bool) {
	if a.lastRequest == nil {
		return Request{}, false
	}
	return *a.lastRequest, true
}

// History returns the searches of the session, newest first
func (a *App) History() []history.HistoryEntry {
	return a.history.GetRecent(0)
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.queryField.Focus()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		a.updatePanelDimensions(a.queryFieldHeight())
		return a, nil

	case ErrorMsg:
		a.ShowError(msg.Title, msg.Message)
		return a, nil

	case SearchDoneMsg:
		a.history.Complete(msg.ID, msg.Err)
		if msg.Err != nil {
			logger.Errorf("search %s failed: %v", msg.ID, msg.Err)
			a.ShowError("Search failed", msg.Err.Error())
			return a, nil
		}
		a.status = "Search done"
		return a, nil

	case components.SubmitQueryMsg:
		return a, a.submit(msg)

	case components.QueryFieldBlurredMsg:
		a.focus(models.FacetPanel)
		return a, nil

	case components.FilterChangedMsg:
		if err := a.facetPanel.Error(); err != "" {
			a.status = "Invalid filter"
		} else {
			a.status = ""
		}
		logger.Debugf("filter changed: %s", msg.CQL)
		return a, nil

	case tea.MouseMsg:
		if a.state.FocusedPanel == models.QueryPanel {
			var cmd tea.Cmd
			a.queryField, cmd = a.queryField.Update(msg)
			return a, cmd
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

// handleKey routes key presses: overlays first, then global keys, then the
// focused panel
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if a.showError {
		switch key {
		case "esc", "enter":
			a.DismissError()
		case "ctrl+c":
			return a, tea.Quit
		}
		return a, nil
	}

	if a.state.ViewMode == models.HelpMode {
		switch key {
		case "?", "esc", "q", "f1":
			a.state.ViewMode = models.NormalMode
		case "ctrl+c":
			return a, tea.Quit
		}
		return a, nil
	}

	switch key {
	case "ctrl+c":
		return a, tea.Quit
	case "f1":
		a.state.ViewMode = models.HelpMode
		return a, nil
	case "ctrl+t":
		a.setSegment(a.state.Segment.Next())
		return a, nil
	case "ctrl+y":
		return a, a.copyQuery()
	case "ctrl+l":
		a.queryField.Reset()
		a.status = "Cleared"
		return a, a.facetPanel.ClearAll()
	case "ctrl+r":
		return a, a.focus(models.HistoryPanel)
	}

	switch a.state.FocusedPanel {
	case models.FacetPanel:
		return a.handleFacetKey(msg)
	case models.HistoryPanel:
		return a.handleHistoryKey(msg)
	}

	switch key {
	case "tab":
		if !a.queryField.State.ListOpen {
			return a, a.focus(models.FacetPanel)
		}
	case "pgup":
		a.previewPane.ScrollUp()
		return a, nil
	case "pgdown":
		a.previewPane.ScrollDown()
		return a, nil
	}
	var cmd tea.Cmd
	a.queryField, cmd = a.queryField.Update(msg)
	a.updatePanelDimensions(a.queryFieldHeight())
	return a, cmd
}

func (a *App) handleFacetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !a.facetPanel.Inputting() {
		switch msg.String() {
		case "tab", "esc", "/":
			return a, a.focus(models.QueryPanel)
		case "?":
			a.state.ViewMode = models.HelpMode
			return a, nil
		case "q":
			return a, tea.Quit
		}
	}

	var cmd tea.Cmd
	a.facetPanel, cmd = a.facetPanel.Update(msg)
	return a, cmd
}

// handleHistoryKey browses recent searches. Enter loads the selected
// search back into the query field.
func (a *App) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.refreshRecent()

	switch msg.String() {
	case "up", "k":
		a.recentTable.MoveSelection(-1)
	case "down", "j":
		a.recentTable.MoveSelection(1)
	case "pgup":
		a.recentTable.PageUp()
	case "pgdown":
		a.recentTable.PageDown()
	case "enter":
		if i := a.recentTable.Selected(); i >= 0 {
			a.loadEntry(a.recentEntries[i])
			return a, a.focus(models.QueryPanel)
		}
	case "y":
		if i := a.recentTable.Selected(); i >= 0 {
			return a, a.copy(a.recentEntries[i].Query)
		}
	case "tab", "esc", "/":
		return a, a.focus(models.QueryPanel)
	case "?":
		a.state.ViewMode = models.HelpMode
	case "q":
		return a, tea.Quit
	}
	return a, nil
}

// loadEntry puts a previous search back into the query field, switching
// segment first when needed
func (a *App) loadEntry(e history.HistoryEntry) {
	if e.Segment != a.state.Segment {
		a.setSegment(e.Segment)
	}
	a.queryField.Load(e.Human)
	a.status = "Loaded: " + e.Human
}

// refreshRecent copies the history store into the recent searches table
func (a *App) refreshRecent() {
	a.recentEntries = a.history.GetRecent(0)
	rows := make([][]string, len(a.recentEntries))
	for i, e := range a.recentEntries {
		icon := "…"
		switch {
		case e.Done && e.Success:
			icon = "✓"
		case e.Done:
			icon = "✗"
		}
		rows[i] = []string{icon, e.SubmittedAt.Format("15:04:05"), e.Segment.Title(), e.Human}
	}
	a.recentTable.SetData([]string{" ", "Time", "Segment", "Search"}, rows)
}

// styleRecentCell colors the status column of the recent searches table
func (a *App) styleRecentCell(row, col int, cell string) string {
	if col != 0 || row >= len(a.recentEntries) {
		return cell
	}
	e := a.recentEntries[row]
	switch {
	case e.Done && e.Success:
		return lipgloss.NewStyle().Foreground(a.theme.Success).Render(cell)
	case e.Done:
		return lipgloss.NewStyle().Foreground(a.theme.Error).Render(cell)
	}
	return cell
}

// focus moves keyboard focus to panel
func (a *App) focus(panel models.PanelType) tea.Cmd {
	a.state.FocusedPanel = panel
	a.updatePanelStyles()
	if panel == models.QueryPanel {
		return a.queryField.Focus()
	}
	a.queryField.Blur()
	return nil
}

// setSegment switches the vocabulary and facets. The field and the
// facet selections are cleared.
func (a *App) setSegment(seg models.Segment) {
	a.state.Segment = seg
	a.queryField.SetBuilder(a.builderFor(seg))
	a.facetPanel.SetFacets(seg, a.config.Facets(seg))
	a.status = "Segment: " + seg.Title()
	logger.Debugf("segment switched to %s", seg)
}

// submit turns a compiled query into a search request
func (a *App) submit(msg components.SubmitQueryMsg) tea.Cmd {
	if err := a.facetPanel.Error(); err != "" {
		a.ShowError("Invalid filter", err)
		return nil
	}

	filterCQL := a.facetPanel.CQL()
	req := Request{
		ID:      uuid.New(),
		Segment: a.state.Segment,
		Human:   msg.Human,
		Query:   msg.Query,
		Filter:  filterCQL,
		CQL:     filter.Combine(msg.Query, filterCQL),
		Keyword: msg.Keyword,
	}
	a.lastRequest = &req
	a.history.Add(history.HistoryEntry{
		ID:      req.ID,
		Segment: req.Segment,
		Human:   req.Human,
		Query:   req.CQL,
		Keyword: req.Keyword,
	})
	a.status = "Searching..."
	logger.Infof("submit %s [%s] %q -> %s", req.ID, req.Segment, req.Human, req.CQL)

	cmds := []tea.Cmd{a.search(req)}
	if a.config.Search.CopyOnSubmit {
		cmds = append(cmds, a.copy(req.CQL))
	}
	return tea.Batch(cmds...)
}

func (a *App) search(req Request) tea.Cmd {
	searcher, ctx := a.searcher, a.ctx
	return func() tea.Msg {
		return SearchDoneMsg{ID: req.ID, Err: searcher.Search(ctx, req)}
	}
}

// copyQuery copies the live preview, or the last submitted query when the
// field does not compile
func (a *App) copyQuery() tea.Cmd {
	text := a.preview().combined
	if text == "" && a.lastRequest != nil {
		text = a.lastRequest.CQL
	}
	if text == "" {
		a.status = "Nothing to copy"
		return nil
	}
	return a.copy(text)
}

func (a *App) copy(text string) tea.Cmd {
	if err := a.copyText(text); err != nil {
		logger.Warnf("clipboard: %v", err)
		return func() tea.Msg {
			return ErrorMsg{Title: "Clipboard", Message: fmt.Sprintf("Could not copy query: %v", err)}
		}
	}
	a.status = "Copied to clipboard"
	return nil
}

type queryPreview struct {
	query    string
	combined string
	problem  string
}

// preview compiles what Enter would submit, without submitting it
func (a *App) preview() queryPreview {
	filterCQL := a.facetPanel.CQL()

	q, err := a.queryField.Builder.Preview(a.queryField.State)
	switch {
	case query.IsKind(err, query.ErrIncomplete):
		return queryPreview{problem: "incomplete"}
	case err != nil:
		return queryPreview{problem: err.Error()}
	case q == "":
		return queryPreview{combined: filterCQL}
	}
	return queryPreview{query: q, combined: filter.Combine(q, filterCQL)}
}

// View implements tea.Model
func (a *App) View() string {
	if a.showError {
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.errorOverlay.View(),
		)
	}

	if a.state.ViewMode == models.HelpMode {
		return help.Render(a.state.Width, a.state.Height, lipgloss.NewStyle())
	}

	return a.renderNormalView()
}

// renderNormalView renders the normal application view
func (a *App) renderNormalView() string {
	topBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.BorderFocused).
		Foreground(lipgloss.Color("230")).
		Padding(0, 2).
		Render(a.formatStatusBar("lazyinv  "+a.renderSegmentTabs(), "F1 Help"))

	bottomBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.Selection).
		Foreground(a.theme.Foreground).
		Padding(0, 2).
		Render(a.formatStatusBar(a.keyHints(), a.status))

	a.queryField.Width = a.state.Width
	queryView := a.queryField.View()
	a.updatePanelDimensions(lipgloss.Height(queryView))

	a.facetPanel.Width = a.leftPanel.Width
	a.facetPanel.Height = a.leftPanel.ContentHeight()
	a.leftPanel.Content = a.facetPanel.View(a.state.FocusedPanel == models.FacetPanel)
	a.rightPanel.Content = a.renderQueryPanel()

	panels := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.leftPanel.View(),
		a.rightPanel.View(),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		topBar,
		queryView,
		panels,
		bottomBar,
	)
}

func (a *App) renderSegmentTabs() string {
	tabs := make([]string, 0, len(models.Segments))
	for _, seg := range models.Segments {
		if seg == a.state.Segment {
			tabs = append(tabs, "["+seg.Title()+"]")
			continue
		}
		tabs = append(tabs, " "+seg.Title()+" ")
	}
	return strings.Join(tabs, " ")
}

func (a *App) keyHints() string {
	switch a.state.FocusedPanel {
	case models.FacetPanel:
		return "[space] Toggle | [enter] Edit | [tab] Query | [q] Quit"
	case models.HistoryPanel:
		return "[enter] Load | [y] Copy | [tab] Query | [q] Quit"
	}
	return "[enter] Search | [tab] Facets | [ctrl+t] Segment | [ctrl+y] Copy"
}

// renderQueryPanel shows the live compiled query and recent searches
func (a *App) renderQueryPanel() string {
	labelStyle := lipgloss.NewStyle().Foreground(a.theme.Info).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(a.theme.Muted).Italic(true)
	width := max(a.rightPanel.Width-2, 10)

	line := func(label, value string) string {
		if value == "" {
			return labelStyle.Render(label) + " " + mutedStyle.Render("(none)")
		}
		return labelStyle.Render(label) + " " + runewidth.Truncate(value, width-runewidth.StringWidth(label)-1, "…")
	}

	p := a.preview()
	a.previewPane.Width = width
	a.previewPane.MaxHeight = max(a.rightPanel.Height/3, 2)
	a.previewPane.Problem = p.problem
	a.previewPane.SetContent(p.combined, "CQL:")

	sections := []string{
		line("Query:", p.query),
		line("Filter:", a.facetPanel.CQL()),
		a.previewPane.View(),
		"",
		labelStyle.Render("Recent searches") + mutedStyle.Render(" (ctrl+r)"),
	}

	a.refreshRecent()
	a.recentTable.Width = width
	a.recentTable.Height = max(a.rightPanel.ContentHeight()-a.previewPane.Height()-4, 3)
	a.recentTable.Focused = a.state.FocusedPanel == models.HistoryPanel
	sections = append(sections, a.recentTable.View())

	return strings.Join(sections, "\n")
}

func (a *App) queryFieldHeight() int {
	return lipgloss.Height(a.queryField.View())
}

// updatePanelDimensions calculates panel sizes based on window size and
// the height taken by the query field
func (a *App) updatePanelDimensions(queryHeight int) {
	if a.state.Width <= 0 || a.state.Height <= 0 {
		return
	}

	// top bar, bottom bar and the panel borders
	contentHeight := a.state.Height - 2 - queryHeight - 2
	if contentHeight < 5 {
		contentHeight = 5
	}

	leftWidth := (a.state.Width * a.state.LeftPanelWidth) / 100
	if leftWidth < 20 {
		leftWidth = 20
	}

	// Both panels have a border of 2 chars
	rightWidth := a.state.Width - leftWidth - 4
	if rightWidth < 20 {
		rightWidth = 20
		leftWidth = a.state.Width - rightWidth - 4
	}

	a.leftPanel.Width = leftWidth
	a.leftPanel.Height = contentHeight
	a.rightPanel.Width = rightWidth
	a.rightPanel.Height = contentHeight
}

// updatePanelStyles updates panel styling based on focus
func (a *App) updatePanelStyles() {
	a.leftPanel.Focused = a.state.FocusedPanel == models.FacetPanel
	a.rightPanel.Focused = a.state.FocusedPanel == models.HistoryPanel
}

// formatStatusBar formats a status bar with left and right aligned content
func (a *App) formatStatusBar(left, right string) string {
	// Account for padding (2 chars on each side = 4 total)
	availableWidth := max(a.state.Width-4, 0)

	leftLen := runewidth.StringWidth(left)
	rightLen := runewidth.StringWidth(right)

	if leftLen+rightLen > availableWidth {
		if availableWidth > rightLen {
			return runewidth.Truncate(left, availableWidth-rightLen, "") + right
		}
		return runewidth.Truncate(left, availableWidth, "")
	}

	spacing := availableWidth - leftLen - rightLen
	return left + strings.Repeat(" ", spacing) + right
}

// ShowError displays an error overlay with the given title and message
func (a *App) ShowError(title, message string) {
	a.errorOverlay.SetError(title, message)
	a.showError = true
}

// DismissError hides the error overlay
func (a *App) DismissError() {
	a.showError = false
}
