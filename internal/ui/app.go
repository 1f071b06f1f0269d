package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/abelbrown/releasebase/internal/catalog"
	"github.com/abelbrown/releasebase/internal/filter"
	"github.com/abelbrown/releasebase/internal/merge"
	"github.com/abelbrown/releasebase/internal/otel"
	"github.com/abelbrown/releasebase/internal/stats"
)

// DefaultFetchTimeout bounds one bulk document fetch.
const DefaultFetchTimeout = 15 * time.Second

// AppConfig wires the App to its loaders. Each loader returns a tea.Cmd that
// runs off the UI goroutine and replies with the matching *Loaded message.
// Nil loaders are skipped.
type AppConfig struct {
	LoadDocuments func(ctx context.Context, tab catalog.Tab, requestID string) tea.Cmd
	LoadPeople    func() tea.Cmd
	LoadStats     func() tea.Cmd
	LoadManifest  func() tea.Cmd

	FetchTimeout time.Duration
	InitialTab   catalog.Tab
	Seed         catalog.Collections

	Events *otel.Logger
	Ring   *otel.RingBuffer

	// NewRequestID defaults to uuid.NewString.
	NewRequestID func() string
}

// inputMode says where key presses go.
type inputMode int

const (
	modeBrowse inputMode = iota
	modeSearch
	modePeople
)

// pendingFetch is the one bulk fetch whose reply the App will accept.
type pendingFetch struct {
	id      string
	tab     catalog.Tab
	started time.Time
	cancel  context.CancelFunc
}

// App is the root Bubble Tea model and the only place view state changes.
// Loaders never touch it; they send messages.
type App struct {
	cfg AppConfig

	tab         catalog.Tab
	collections catalog.Collections
	summary     catalog.StatsSummary
	statsReady  bool
	people      []catalog.PersonFacet

	person        *catalog.PersonFacet
	selectedImage *catalog.Item
	selectedEmail *catalog.Item
	peopleCursor  int

	mode    inputMode
	search  textinput.Model
	spinner spinner.Model
	help    help.Model

	loading bool
	pending pendingFetch

	cursor    int
	status    string
	showHelp  bool
	showDebug bool

	width  int
	height int
	ready  bool
}

// NewApp creates an App. Seed collections are shown until the first fetch
// for the starting tab answers.
func NewApp(cfg AppConfig) App {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.InitialTab == "" {
		cfg.InitialTab = catalog.TabAll
	}
	if cfg.NewRequestID == nil {
		cfg.NewRequestID = uuid.NewString
	}

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "Search..."
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	return App{
		cfg:         cfg,
		tab:         cfg.InitialTab,
		collections: merge.Replace(catalog.Collections{}, cfg.Seed),
		summary:     stats.Zero(),
		search:      ti,
		spinner:     sp,
		help:        help.New(),
		loading:     true,
	}
}

// Init fires stats and manifest once and enters the starting tab.
func (a App) Init() tea.Cmd {
	a.cfg.Events.Info(otel.KindStartup, "ui", "tab="+string(a.tab))

	cmds := []tea.Cmd{a.spinner.Tick, enterTab(a.tab)}
	if a.cfg.LoadStats != nil {
		cmds = append(cmds, a.cfg.LoadStats())
	}
	if a.cfg.LoadManifest != nil {
		cmds = append(cmds, a.cfg.LoadManifest())
	}
	return tea.Batch(cmds...)
}

func enterTab(t catalog.Tab) tea.Cmd {
	return func() tea.Msg { return enterTabMsg{Tab: t} }
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if otel.TraceEnabled() {
		a.cfg.Events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindMsgReceived, Comp: "ui", Msg: fmt.Sprintf("%T", msg)})
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.search.Width = max(10, msg.Width/2)
		a.help.Width = msg.Width
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case enterTabMsg:
		return a.switchTab(msg.Tab)

	case DocumentsLoaded:
		return a.handleDocuments(msg), nil

	case PeopleLoaded:
		return a.handlePeople(msg), nil

	case StatsLoaded:
		a.statsReady = true
		if msg.Err != nil {
			a.summary = stats.Zero()
			a.cfg.Events.Error(otel.KindStatsError, "ui", msg.Err)
			return a, nil
		}
		a.summary = msg.Stats
		a.cfg.Events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindStatsLoaded, Comp: "ui", Count: msg.Stats.Total})
		return a, nil

	case ManifestLoaded:
		if msg.Err != nil {
			a.cfg.Events.Error(otel.KindManifestError, "ui", msg.Err)
			return a, nil
		}
		a.collections = merge.PrependCurated(a.collections, msg.Manifest)
		a.cfg.Events.Emit(otel.Event{
			Level: otel.LevelInfo,
			Kind:  otel.KindManifestLoaded,
			Comp:  "ui",
			Count: len(msg.Manifest.Images) + len(msg.Manifest.Audio),
		})
		return a, nil
	}

	return a, nil
}

// switchTab cancels the outstanding fetch and starts one for t.
func (a App) switchTab(t catalog.Tab) (App, tea.Cmd) {
	if a.pending.cancel != nil {
		a.pending.cancel()
		a.cfg.Events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindFetchCancel, Comp: "ui", RequestID: a.pending.id, Tab: string(a.pending.tab)})
	}

	from := a.tab
	a.tab = t
	a.cursor = 0
	a.selectedImage = nil
	a.selectedEmail = nil
	a.peopleCursor = 0
	if a.mode == modePeople {
		a.mode = modeBrowse
	}
	if !t.PeopleEligible() {
		a.person = nil
		a.people = nil
	}
	a.cfg.Events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindTabChange, Comp: "ui", Tab: string(t), Msg: "from=" + string(from)})

	var cmds []tea.Cmd
	id := a.cfg.NewRequestID()
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.FetchTimeout)
	a.pending = pendingFetch{id: id, tab: t, started: time.Now(), cancel: cancel}
	a.loading = true
	a.cfg.Events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindFetchStart, Comp: "ui", RequestID: id, Tab: string(t)})
	if a.cfg.LoadDocuments != nil {
		cmds = append(cmds, a.cfg.LoadDocuments(ctx, t, id))
	}

	if t.PeopleEligible() && a.cfg.LoadPeople != nil {
		cmds = append(cmds, a.cfg.LoadPeople())
	}
	return a, tea.Batch(cmds...)
}

func (a App) handleDocuments(msg DocumentsLoaded) App {
	if msg.RequestID != a.pending.id {
		a.cfg.Events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindFetchStale, Comp: "ui", RequestID: msg.RequestID, Tab: string(msg.Tab)})
		return a
	}

	if a.pending.cancel != nil {
		a.pending.cancel()
	}
	dur := time.Since(a.pending.started)
	a.pending = pendingFetch{}
	a.loading = false

	switch {
	case msg.Err == nil:
		a.collections = merge.Replace(a.collections, merge.Group(msg.Items))
		a.status = ""
		a.cfg.Events.Emit(otel.Event{
			Level:     otel.LevelInfo,
			Kind:      otel.KindFetchComplete,
			Comp:      "ui",
			RequestID: msg.RequestID,
			Tab:       string(msg.Tab),
			Dur:       dur,
			Count:     len(msg.Items),
			Extra:     skippedExtra(msg.Skipped),
		})
	case errors.Is(msg.Err, context.DeadlineExceeded):
		a.collections = merge.AfterTimeout(a.collections, msg.Tab)
		a.status = "Request timed out"
		a.cfg.Events.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindFetchTimeout, Comp: "ui", RequestID: msg.RequestID, Tab: string(msg.Tab), Dur: dur, Err: msg.Err.Error()})
	default:
		a.collections = merge.Empty()
		a.status = "Could not load documents"
		a.cfg.Events.Emit(otel.Event{Level: otel.LevelError, Kind: otel.KindFetchError, Comp: "ui", RequestID: msg.RequestID, Tab: string(msg.Tab), Dur: dur, Err: msg.Err.Error()})
	}

	a.clampCursor()
	return a
}

func skippedExtra(n int) map[string]any {
	if n == 0 {
		return nil
	}
	return map[string]any{"skipped": n}
}

func (a App) handlePeople(msg PeopleLoaded) App {
	if !a.tab.PeopleEligible() {
		return a
	}
	if msg.Err != nil {
		a.people = []catalog.PersonFacet{}
		a.cfg.Events.Error(otel.KindPeopleError, "ui", msg.Err)
	} else {
		a.people = msg.People
		a.cfg.Events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindPeopleLoaded, Comp: "ui", Count: len(msg.People)})
	}
	if a.peopleCursor > len(a.people) {
		a.peopleCursor = 0
	}
	return a
}

func (a App) query() filter.Query {
	return filter.Query{Person: a.person, Text: a.search.Value()}
}

func (a App) sections() []section {
	return buildSections(a.tab, a.collections, a.query())
}

func (a App) rows() []row {
	return flatten(a.sections())
}

func (a *App) clampCursor() {
	n := len(a.rows())
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a App) modalOpen() bool {
	return a.selectedImage != nil || a.selectedEmail != nil
}

func (a App) closeModal() App {
	if a.modalOpen() {
		a.cfg.Events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindModal, Comp: "ui", Msg: "close"})
	}
	a.selectedImage = nil
	a.selectedEmail = nil
	return a
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a.quit()
	}
	if otel.TraceEnabled() {
		a.cfg.Events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindKeyPress, Comp: "ui", Msg: msg.String()})
	}

	switch a.mode {
	case modeSearch:
		return a.handleSearchKey(msg)
	case modePeople:
		return a.handlePeopleKey(msg)
	}

	if a.modalOpen() {
		if key.Matches(msg, keys.Close) || key.Matches(msg, keys.Open) || msg.String() == "q" {
			return a.closeModal(), nil
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return a.quit()

	case key.Matches(msg, keys.NextTab):
		return a.switchTab(a.tab.Next())

	case key.Matches(msg, keys.PrevTab):
		return a.switchTab(a.tab.Prev())

	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && msg.Runes[0] >= '1' && msg.Runes[0] <= '7':
		tabs := catalog.Tabs()
		if t := tabs[msg.Runes[0]-'1']; t != a.tab {
			return a.switchTab(t)
		}
		return a, nil

	case key.Matches(msg, keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case key.Matches(msg, keys.Down):
		if a.cursor < len(a.rows())-1 {
			a.cursor++
		}
		return a, nil

	case key.Matches(msg, keys.Top):
		a.cursor = 0
		return a, nil

	case key.Matches(msg, keys.Bottom):
		a.cursor = max(0, len(a.rows())-1)
		return a, nil

	case key.Matches(msg, keys.Open):
		return a.openSelected(), nil

	case key.Matches(msg, keys.ViewAll):
		rows := a.rows()
		if a.tab != catalog.TabAll || a.cursor >= len(rows) {
			return a, nil
		}
		if dest := a.sections()[rows[a.cursor].Section].ViewAll; dest != "" {
			return a.switchTab(dest)
		}
		return a, nil

	case key.Matches(msg, keys.Search):
		a.mode = modeSearch
		cmd := a.search.Focus()
		return a, cmd

	case key.Matches(msg, keys.People):
		if !a.tab.PeopleEligible() || len(a.people) == 0 {
			a.status = "No people filter on this tab"
			return a, nil
		}
		a.mode = modePeople
		a.peopleCursor = a.personIndex()
		return a, nil

	case key.Matches(msg, keys.Close):
		switch {
		case a.person != nil:
			a = a.selectPerson(nil)
		case a.search.Value() != "":
			a.search.SetValue("")
			a.cursor = 0
		}
		a.status = ""
		return a, nil

	case key.Matches(msg, keys.Help):
		a.showHelp = !a.showHelp
		a.help.ShowAll = a.showHelp
		return a, nil

	case key.Matches(msg, keys.Debug):
		a.showDebug = !a.showDebug
		return a, nil
	}

	return a, nil
}

func (a App) quit() (tea.Model, tea.Cmd) {
	if a.pending.cancel != nil {
		a.pending.cancel()
	}
	a.cfg.Events.Info(otel.KindShutdown, "ui", "quit")
	return a, tea.Quit
}

func (a App) openSelected() App {
	rows := a.rows()
	if a.cursor >= len(rows) {
		return a
	}
	it := rows[a.cursor].Item
	switch it.Type {
	case catalog.TypeImage:
		if it.URL == "" {
			a.status = "No full-size image for this item"
			return a
		}
		a.selectedImage = &it
	case catalog.TypeEmail:
		a.selectedEmail = &it
	default:
		if it.URL == "" {
			a.status = "No link for this item"
		} else {
			a.status = it.URL
		}
		return a
	}
	a.cfg.Events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindModal, Comp: "ui", Msg: "open " + it.ID})
	return a
}

func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		a.mode = modeBrowse
		a.search.Blur()
		return a, nil
	}

	before := a.search.Value()
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	if a.search.Value() != before {
		a.cursor = 0
	}
	return a, cmd
}

func (a App) handlePeopleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Close), key.Matches(msg, keys.People):
		a.mode = modeBrowse
	case key.Matches(msg, keys.Up):
		if a.peopleCursor > 0 {
			a.peopleCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.peopleCursor < len(a.people) {
			a.peopleCursor++
		}
	case key.Matches(msg, keys.Open):
		a.mode = modeBrowse
		if a.peopleCursor == 0 {
			return a.selectPerson(nil), nil
		}
		p := a.people[a.peopleCursor-1]
		return a.selectPerson(&p), nil
	}
	return a, nil
}

// personIndex is the dropdown row of the active facet; 0 is "All people".
func (a App) personIndex() int {
	if a.person == nil {
		return 0
	}
	for i, p := range a.people {
		if p.Name == a.person.Name {
			return i + 1
		}
	}
	return 0
}

// selectPerson sets or clears the facet. nil means "All people".
func (a App) selectPerson(p *catalog.PersonFacet) App {
	a.person = p
	a.cursor = 0
	name := ""
	if p != nil {
		name = p.Name
	}
	a.cfg.Events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindFacet, Comp: "ui", Tab: string(a.tab), Query: name})
	return a
}

func (a App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !a.modalOpen() {
		return a, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return a, nil
	}
	if !a.modalRect().contains(msg.X, msg.Y) {
		return a.closeModal(), nil
	}
	return a, nil
}

// Tab returns the active tab.
func (a App) Tab() catalog.Tab { return a.tab }

// Collections returns the held collections.
func (a App) Collections() catalog.Collections { return a.collections }

// Loading reports whether a bulk fetch is outstanding.
func (a App) Loading() bool { return a.loading }

// VisibleImages returns the image rows the filter engine currently shows.
func (a App) VisibleImages() []catalog.Item {
	return filter.Images(a.collections.Images, a.query())
}
