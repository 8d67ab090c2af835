// Package ui is the terminal front end: a catalog browser with search and
// category filters on top, the player bar pinned at the bottom.
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tverdon/backline/internal/catalog"
	"github.com/tverdon/backline/internal/catalogview"
	"github.com/tverdon/backline/internal/errmsg"
	"github.com/tverdon/backline/internal/notify"
	"github.com/tverdon/backline/internal/playback"
)

var categories = []string{"all", "featured", "popular", "trending", "new"}

type (
	tickMsg           time.Time
	catalogChangedMsg struct{}
	clearStatusMsg    struct{}
)

const statusDuration = 3 * time.Second

type Model struct {
	repo   *catalog.Repository
	engine *playback.Engine

	cards   []catalogview.Card // full grid
	visible []catalogview.Card // after category filter + search
	cursor  int
	scroll  int

	category  int
	search    textinput.Model
	searching bool

	status string

	width, height int
}

func New(repo *catalog.Repository, engine *playback.Engine) Model {
	search := textinput.New()
	search.Placeholder = "search tracks, artists, genres"
	search.Prompt = "/ "
	search.CharLimit = 64

	m := Model{
		repo:   repo,
		engine: engine,
		search: search,
	}
	m.refreshGrid()
	return m
}

// Run starts the TUI and keeps it in sync with catalog changes.
func Run(repo *catalog.Repository, engine *playback.Engine, bus *notify.Broadcaster) error {
	p := tea.NewProgram(New(repo, engine), tea.WithAltScreen())

	unsubscribe := bus.Subscribe(func(notify.Event) {
		go p.Send(catalogChangedMsg{})
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func clearStatusAfter() tea.Cmd {
	return tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		return m, tick()

	case catalogChangedMsg:
		m.refreshGrid()
		return m, nil

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.applyFilter()
		return m, nil
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.scroll = m.scrollOffset(m.listHeight())
		}

	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
			m.scroll = m.scrollOffset(m.listHeight())
		}

	case "enter":
		return m.playSelected()

	case " ":
		if err := m.engine.Toggle(); err != nil {
			return m.fail(errmsg.OpPlaybackStart, err)
		}

	case "n":
		if err := m.engine.Next(); err != nil {
			return m.fail(errmsg.OpPlaybackStart, err)
		}

	case "p":
		if err := m.engine.Previous(); err != nil {
			return m.fail(errmsg.OpPlaybackStart, err)
		}

	case "s":
		m.engine.ToggleShuffle()

	case "r":
		m.engine.CycleRepeat()

	case "l":
		if card, ok := m.selected(); ok {
			m.engine.ToggleLike(card.Track.ID)
		}

	case "left":
		m.seekBy(-5 * time.Second)

	case "right":
		m.seekBy(5 * time.Second)

	case "+", "=":
		m.engine.SetVolume(m.engine.Volume() + 0.05)

	case "-":
		m.engine.SetVolume(m.engine.Volume() - 0.05)

	case "tab":
		m.category = (m.category + 1) % len(categories)
		m.applyFilter()

	case "shift+tab":
		m.category = (m.category + len(categories) - 1) % len(categories)
		m.applyFilter()

	case "/":
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) playSelected() (tea.Model, tea.Cmd) {
	card, ok := m.selected()
	if !ok {
		return m, nil
	}
	for i, t := range m.engine.QueueTracks() {
		if t.ID == card.Track.ID {
			if err := m.engine.PlayIndex(i); err != nil {
				return m.fail(errmsg.OpPlaybackStart, err)
			}
			return m, nil
		}
	}
	return m, nil
}

func (m Model) fail(op errmsg.Op, err error) (tea.Model, tea.Cmd) {
	m.status = errmsg.Format(op, err)
	return m, clearStatusAfter()
}

func (m *Model) seekBy(delta time.Duration) {
	duration := m.engine.Duration()
	if duration <= 0 {
		return
	}
	target := m.engine.Position() + delta
	m.engine.Seek(float64(target) / float64(duration))
}

func (m Model) selected() (catalogview.Card, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return catalogview.Card{}, false
	}
	return m.visible[m.cursor], true
}

func (m *Model) refreshGrid() {
	m.cards = catalogview.BuildGrid(m.repo, time.Now())
	m.applyFilter()
}

func (m *Model) applyFilter() {
	filtered := catalogview.FilterByCategory(m.cards, categories[m.category])
	m.visible = catalogview.Search(filtered, m.search.Value())
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scroll = m.scrollOffset(m.listHeight())
}
