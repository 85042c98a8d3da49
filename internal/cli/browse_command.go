package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ternarybob/arbor"

	"job-board/internal/feed"
	"job-board/internal/filter"
	"job-board/internal/model"
	"job-board/internal/scroll"
)

type browseMode int

const (
	browseModeList browseMode = iota
	browseModeFilter
)

type browseKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	PageUp key.Binding
	PageDn key.Binding
	Top    key.Binding
	Bottom key.Binding
	More   key.Binding
	Filter key.Binding
	Clear  key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func newBrowseKeyMap() browseKeyMap {
	return browseKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp: key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "page up")),
		PageDn: key.NewBinding(key.WithKeys("pgdown", " "), key.WithHelp("pgdn", "page down")),
		Top:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom: key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		More:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "load more")),
		Filter: key.NewBinding(key.WithKeys("f", "/"), key.WithHelp("f", "filter")),
		Clear:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear filters")),
		Reload: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Filter, k.Clear, k.Help, k.Quit}
}

func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDn, k.Top, k.Bottom},
		{k.Filter, k.Clear, k.More, k.Reload},
		{k.Help, k.Quit},
	}
}

type browseOptions struct {
	Fetcher  feed.Fetcher
	PageSize int
	Criteria filter.Criteria
	Logger   arbor.ILogger
}

type browseModel struct {
	fetcher  feed.Fetcher
	pageSize int
	logger   arbor.ILogger

	ctx    context.Context
	cancel context.CancelFunc

	feed     *feed.Feed
	initial  feed.Request
	trigger  *scroll.Trigger
	criteria filter.Criteria
	visible  []model.Job

	cursor  int
	width   int
	height  int
	mode    browseMode
	form    *filterForm
	spinner spinner.Model
	help    help.Model
	keys    browseKeyMap

	statusMessage string
}

// pageLoadedMsg carries a finished page fetch back into the update loop.
type pageLoadedMsg struct {
	result feed.Result
}

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	boardMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	boardErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	boardOKStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	boardPanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	boardSelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Bold(true)
)

func runBrowse(args []string) error {
	fs := flag.NewFlagSet("browse", flag.ContinueOnError)
	common := bindCommonFlags(fs)
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !stdinIsTTY() {
		return errors.New("browse requires an interactive terminal (TTY)")
	}

	rt, err := common.setup()
	if err != nil {
		return err
	}
	rt.logger.Info().
		Str("endpoint", rt.client.Endpoint()).
		Int("page_size", rt.cfg.API.PageSize).
		Str("filters", rt.cfg.Filters.Criteria().Summary()).
		Msg("Starting browser")

	m := newBrowseModel(browseOptions{
		Fetcher:  rt.client,
		PageSize: rt.cfg.API.PageSize,
		Criteria: rt.cfg.Filters.Criteria(),
		Logger:   rt.logger,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if fm, ok := finalModel.(browseModel); ok {
		fm.teardown()
	} else {
		m.teardown()
	}
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "tty") {
			return errors.New("browse requires an interactive terminal (TTY)")
		}
		return err
	}
	return nil
}

// newBrowseModel mounts a browsing session: a fresh feed already loading
// page 1 and a trigger armed on the empty list.
func newBrowseModel(opts browseOptions) browseModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = boardTitleStyle

	m := browseModel{
		fetcher:  opts.Fetcher,
		pageSize: opts.PageSize,
		logger:   opts.Logger,
		criteria: opts.Criteria,
		mode:     browseModeList,
		spinner:  sp,
		help:     help.New(),
		keys:     newBrowseKeyMap(),
	}
	m.mount()
	return m
}

func (m *browseModel) mount() {
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.feed, m.initial = feed.New(m.pageSize)
	m.trigger = scroll.New()
	m.trigger.Attach(m.sentinelTarget())
	m.visible = nil
	m.cursor = 0
}

// teardown closes the session: late results are ignored, the trigger stops
// firing and the in-flight request is cancelled. Safe to call repeatedly.
func (m browseModel) teardown() {
	if m.feed != nil {
		m.feed.Close()
	}
	if m.trigger != nil && !m.trigger.Released() {
		if m.logger != nil && m.feed != nil {
			m.logger.Debug().
				Str("session", m.feed.Session()).
				Int("signals", m.trigger.Fired()).
				Int("loaded", len(m.feed.Jobs())).
				Msg("Browse session closed")
		}
		m.trigger.Release()
	}
	if m.cancel != nil {
		m.cancel()
	}
}

func (m browseModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, fetchPageCmd(m.ctx, m.fetcher, m.initial))
}

func fetchPageCmd(ctx context.Context, fetcher feed.Fetcher, req feed.Request) tea.Cmd {
	return func() tea.Msg {
		return pageLoadedMsg{result: feed.Fetch(ctx, fetcher, req)}
	}
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.form.resize(m.width)
		return m.observeSentinel()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case pageLoadedMsg:
		return m.onPageLoaded(msg.result)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch m.mode {
	case browseModeList:
		return m.updateList(keyMsg)
	case browseModeFilter:
		return m.updateFilter(keyMsg)
	default:
		return m, nil
	}
}

func (m browseModel) onPageLoaded(res feed.Result) (tea.Model, tea.Cmd) {
	if !m.feed.Complete(res) {
		if m.logger != nil {
			m.logger.Debug().
				Str("session", res.Request.Session).
				Int("page", res.Request.Page).
				Msg("Ignored stale page result")
		}
		return m, nil
	}
	if res.Err != nil {
		if m.logger != nil {
			m.logger.Warn().Err(res.Err).Int("page", res.Request.Page).Msg("Page fetch failed")
		}
	} else if m.logger != nil {
		m.logger.Info().
			Int("page", res.Request.Page).
			Int("jobs", len(res.Jobs)).
			Int("loaded", len(m.feed.Jobs())).
			Msg("Page loaded")
	}
	m.refreshVisible()
	m.trigger.Attach(m.sentinelTarget())
	return m.observeSentinel()
}

// sentinelTarget identifies the sentinel position by the number of records
// the server has sent. An empty or failed page leaves it unchanged and does
// not re-arm the trigger; a page whose records were all dropped does.
func (m browseModel) sentinelTarget() string {
	return strconv.Itoa(m.feed.Stats().Received)
}

func (m *browseModel) refreshVisible() {
	m.visible = m.feed.Visible(m.criteria)
	if m.cursor > len(m.visible)-1 {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// observeSentinel reports the sentinel's current visibility to the trigger
// and turns a firing into a page request when the feed accepts it.
func (m browseModel) observeSentinel() (tea.Model, tea.Cmd) {
	start, end := m.listRange()
	visible := scroll.SentinelVisible(len(m.visible), start, end)
	if !m.trigger.Observe(visible) {
		return m, nil
	}
	return m.requestMore()
}

func (m browseModel) requestMore() (tea.Model, tea.Cmd) {
	req, ok := m.feed.Advance()
	if !ok {
		return m, nil
	}
	if m.logger != nil {
		m.logger.Debug().
			Str("session", req.Session).
			Int("page", req.Page).
			Str("sentinel", m.trigger.Target()).
			Int("signals", m.trigger.Fired()).
			Msg("Requesting next page")
	}
	return m, fetchPageCmd(m.ctx, m.fetcher, req)
}

func (m browseModel) reload() (tea.Model, tea.Cmd) {
	m.teardown()
	m.mount()
	m.refreshVisible()
	m.statusMessage = "reloading..."
	if m.logger != nil {
		m.logger.Info().Str("session", m.feed.Session()).Msg("Reloading listings")
	}
	return m, fetchPageCmd(m.ctx, m.fetcher, m.initial)
}

func (m browseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.listRows()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.teardown()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.PageUp):
		m.cursor = max(m.cursor-rows, 0)
	case key.Matches(msg, m.keys.PageDn):
		m.cursor += rows
		if m.cursor > len(m.visible)-1 {
			m.cursor = max(len(m.visible)-1, 0)
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(len(m.visible)-1, 0)
	case key.Matches(msg, m.keys.More):
		return m.requestMore()
	case key.Matches(msg, m.keys.Filter):
		m.mode = browseModeFilter
		m.form = newFilterForm(m.criteria, m.width)
		m.statusMessage = ""
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.criteria = filter.Criteria{}
		m.cursor = 0
		m.refreshVisible()
		m.statusMessage = "filters cleared"
	case key.Matches(msg, m.keys.Reload):
		return m.reload()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	default:
		return m, nil
	}
	return m.observeSentinel()
}

func (m browseModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		m.mode = browseModeList
		return m, nil
	}

	k := strings.ToLower(msg.String())
	switch k {
	case "ctrl+c", "esc":
		m.mode = browseModeList
		m.form = nil
		m.statusMessage = "filter unchanged"
		return m, nil
	case "up", "shift+tab":
		m.form.commitInput()
		if m.form.Index > 0 {
			m.form.Index--
		}
		m.form.loadFieldIntoInput()
		return m, nil
	case "down", "tab":
		m.form.commitInput()
		if m.form.Index < len(m.form.Fields)-1 {
			m.form.Index++
		}
		m.form.loadFieldIntoInput()
		return m, nil
	case " ", "space", "left", "right":
		if m.form.currentField().Kind == filterFieldBool {
			m.form.toggleBoolField()
			return m, nil
		}
	case "y":
		if m.form.currentField().Kind == filterFieldBool {
			m.form.setBoolField(true)
			return m, nil
		}
	case "n":
		if m.form.currentField().Kind == filterFieldBool {
			m.form.setBoolField(false)
			return m, nil
		}
	case "enter", "ctrl+s":
		m.form.commitInput()
		if m.form.Index < len(m.form.Fields)-1 && k != "ctrl+s" {
			m.form.Index++
			m.form.loadFieldIntoInput()
			return m, nil
		}
		criteria, notes := m.form.toCriteria()
		m.criteria = criteria
		m.mode = browseModeList
		m.form = nil
		m.cursor = 0
		m.refreshVisible()
		m.statusMessage = "filters: " + m.criteria.Summary()
		if len(notes) > 0 {
			m.statusMessage += " (" + strings.Join(notes, "; ") + ")"
		}
		if m.logger != nil {
			m.logger.Debug().Str("filters", m.criteria.Summary()).Int("visible", len(m.visible)).Msg("Filters applied")
		}
		return m.observeSentinel()
	}

	if m.form.currentField().Kind == filterFieldBool {
		return m, nil
	}
	var cmd tea.Cmd
	m.form.Input, cmd = m.form.Input.Update(msg)
	m.form.Fields[m.form.Index].Value = m.form.Input.Value()
	return m, cmd
}

// listRows is how many rows the list panel shows, sentinel included.
func (m browseModel) listRows() int {
	h := m.height
	if h <= 0 {
		h = 30
	}
	return min(max(h-10, 3), 60)
}

// listRange is the window of list rows on screen. Row len(m.visible) is the
// sentinel.
func (m browseModel) listRange() (int, int) {
	return listWindow(len(m.visible)+1, m.cursor, m.listRows())
}

func (m browseModel) View() string {
	if m.mode == browseModeFilter {
		return m.viewFilter()
	}
	if m.feed.State().IsLoading {
		return m.viewLoading()
	}
	return m.viewList()
}

func (m browseModel) viewLoading() string {
	text := m.spinner.View() + " Loading jobs..."
	if m.width <= 0 || m.height <= 0 {
		return text
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, text)
}

func (m browseModel) viewList() string {
	header := boardTitleStyle.Render("job-board") + "  " + m.renderSummary()
	footer := m.help.View(m.keys)
	status := m.renderStatusLine()

	if m.width < 100 {
		width := max(m.width, 60)
		body := lipgloss.JoinVertical(lipgloss.Left, m.renderListPanel(width), m.renderCardPanel(width))
		return lipgloss.JoinVertical(lipgloss.Left, header, body, status, footer)
	}
	leftW := m.width * 45 / 100
	rightW := m.width - leftW - 1
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderListPanel(leftW), " ", m.renderCardPanel(rightW))
	return lipgloss.JoinVertical(lipgloss.Left, header, body, status, footer)
}

func (m browseModel) renderSummary() string {
	stats := m.feed.Stats()
	parts := []string{
		fmt.Sprintf("showing %d of %d loaded", len(m.visible), stats.Loaded),
		fmt.Sprintf("page %d", m.feed.State().CurrentPage),
	}
	if stats.TotalCount > 0 {
		parts = append(parts, fmt.Sprintf("%d listed", stats.TotalCount))
	}
	parts = append(parts, "filters: "+m.criteria.Summary())
	return boardMutedStyle.Render(strings.Join(parts, " | "))
}

func (m browseModel) renderListPanel(width int) string {
	inner := max(width-4, 10)
	start, end := m.listRange()

	lines := make([]string, 0, end-start+2)
	if len(m.visible) == 0 {
		if len(m.feed.Jobs()) == 0 {
			lines = append(lines, boardMutedStyle.Render("No jobs loaded."))
		} else {
			lines = append(lines, boardMutedStyle.Render("No jobs match the current filters."))
		}
	}
	if start > 0 {
		lines = append(lines, boardMutedStyle.Render("..."))
	}
	for i := start; i < end; i++ {
		if i == len(m.visible) {
			lines = append(lines, m.renderSentinel())
			continue
		}
		job := m.visible[i]
		prefix := "  "
		if i == m.cursor {
			prefix = "> "
		}
		line := wrapOrTrim(prefix+jobListLine(job), inner)
		if i == m.cursor {
			line = boardSelStyle.Width(inner).Render(line)
		}
		lines = append(lines, line)
	}
	return boardPanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m browseModel) renderSentinel() string {
	st := m.feed.State()
	switch {
	case st.IsFetching:
		return m.spinner.View() + " loading more..."
	case m.feed.Stats().EndReached:
		return boardMutedStyle.Render("-- end of listings --")
	default:
		return boardMutedStyle.Render("-- scroll for more --")
	}
}

func (m browseModel) renderCardPanel(width int) string {
	if len(m.visible) == 0 || m.cursor < 0 || m.cursor >= len(m.visible) {
		return boardPanelStyle.Width(width).Render(boardMutedStyle.Render("Select a job to see details."))
	}
	return renderJobCard(m.visible[m.cursor], width)
}

func (m browseModel) renderStatusLine() string {
	if err := m.feed.State().Err; err != nil {
		return boardErrorStyle.Render("error: "+err.Error()) + boardMutedStyle.Render("  (m: retry next page)")
	}
	msg := strings.TrimSpace(m.statusMessage)
	if msg == "" {
		return ""
	}
	style := boardMutedStyle
	if strings.HasPrefix(strings.ToLower(msg), "filters") {
		style = boardOKStyle
	}
	return style.Render(msg)
}

func (m browseModel) viewFilter() string {
	if m.form == nil {
		return ""
	}
	header := boardTitleStyle.Render(m.form.Title)
	hints := boardMutedStyle.Render("tab/shift+tab or up/down: move | space: toggle | y/n: set yes/no | enter: next/apply | ctrl+s: apply | esc: cancel")

	lines := make([]string, 0, len(m.form.Fields))
	for i, f := range m.form.Fields {
		prefix := "  "
		if i == m.form.Index {
			prefix = "> "
		}
		display := strings.TrimSpace(f.Value)
		if f.Kind == filterFieldBool {
			v, _ := parseBool(display)
			display = yesNo(v)
		}
		if display == "" {
			display = boardMutedStyle.Render("(any)")
		}
		line := fmt.Sprintf("%s%s: %s", prefix, f.Label, display)
		lines = append(lines, wrapOrTrim(line, max(m.width-6, 20)))
	}

	curr := m.form.currentField()
	inputLabel := fmt.Sprintf("\n%s\n", curr.Label)
	inputHelp := ""
	if strings.TrimSpace(curr.Help) != "" {
		inputHelp = boardMutedStyle.Render(curr.Help) + "\n"
	}
	input := m.form.Input.View()
	if curr.Kind == filterFieldBool {
		input = boardMutedStyle.Render("space/y/n to change")
	}
	panel := boardPanelStyle.Width(max(m.width, 40)).Render(strings.Join(lines, "\n") + inputLabel + inputHelp + input)
	return lipgloss.JoinVertical(lipgloss.Left, header, hints, panel)
}
