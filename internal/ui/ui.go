package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/banger/internal/models"
	"github.com/desertthunder/banger/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SongListView ViewState = iota
	SongDetailView
	StatsView
)

const statsBarWidth = 30

// Catalog loads normalized songs. Implemented by [tasks.Catalog].
type Catalog interface {
	Songs(ctx context.Context) (*tasks.NormalizeResult, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	catalog  Catalog
	width    int
	height   int
	loading  bool
	songList list.Model
	songs    []models.SongResponse
	selected *models.SongResponse
	stats    models.Stats
	skipped  int
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model reading from catalog.
func NewModel(ctx context.Context, catalog Catalog) *Model {
	songList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	songList.Title = "Songs"

	return &Model{
		ctx:      ctx,
		view:     SongListView,
		catalog:  catalog,
		loading:  true,
		songList: songList,
		stats:    models.Stats{UserStats: []models.UserStat{}},
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init initializes the TUI by loading the database.
func (m *Model) Init() tea.Cmd {
	return m.loadSongs()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.songList.SetSize(max(msg.Width-4, 0), max(msg.Height-6, 0))
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) && msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.err != nil {
			return m.handleErrorKeys(msg)
		}
		switch m.view {
		case SongListView:
			return m.handleSongListKeys(msg)
		case SongDetailView:
			return m.handleDetailKeys(msg)
		case StatsView:
			return m.handleStatsKeys(msg)
		}

	case Msg:
		if msg.kind == MsgSongsLoaded {
			m.applyLoaded(msg.data.(songsLoaded))
			return m, nil
		}
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" +
			m.help.ShortHelpView([]key.Binding{m.keys.reload, m.keys.quit})
	}
	if m.loading {
		return styles.help.Render("Loading songs...")
	}

	switch m.view {
	case SongListView:
		return m.renderSongList()
	case SongDetailView:
		return m.renderDetail()
	case StatsView:
		return m.renderStats()
	default:
		return ""
	}
}

func (m *Model) applyLoaded(loaded songsLoaded) {
	m.loading = false
	m.err = loaded.err
	if loaded.err != nil {
		return
	}

	m.songs = loaded.songs
	m.stats = loaded.stats
	m.skipped = loaded.skipped
	m.songList.SetItems(songItems(loaded.songs))
	m.songList.Title = fmt.Sprintf("Songs (%d)", len(loaded.songs))
	if m.view == SongDetailView {
		m.view = SongListView
		m.selected = nil
	}
}

func (m *Model) handleErrorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.reload):
		return m, m.reload()
	}
	return m, nil
}

func (m *Model) handleSongListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.songList.FilterState() == list.Filtering {
		return m.updateList(msg)
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.stats):
		m.view = StatsView
		return m, nil
	case key.Matches(msg, m.keys.reload):
		return m, m.reload()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.songList.SelectedItem().(songItem); ok {
			song := item.song
			m.selected = &song
			m.view = SongDetailView
		}
		return m, nil
	}

	return m.updateList(msg)
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = SongListView
		m.selected = nil
	}
	return m, nil
}

func (m *Model) handleStatsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.stats):
		m.view = SongListView
	case key.Matches(msg, m.keys.reload):
		return m, m.reload()
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.view != SongListView {
		return m, nil
	}
	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) reload() tea.Cmd {
	m.loading = true
	m.err = nil
	return m.loadSongs()
}

func (m *Model) loadSongs() tea.Cmd {
	return func() tea.Msg {
		result, err := m.catalog.Songs(m.ctx)
		if err != nil {
			return songsLoadedMsg(nil, models.Stats{}, 0, err)
		}
		return songsLoadedMsg(tasks.BuildSongList(result.Songs), tasks.BuildStats(result.Songs), result.Skipped, nil)
	}
}

func (m *Model) renderSongList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.stats, m.keys.reload, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	footer := helpView
	if m.skipped > 0 {
		footer = styles.warn.Render(fmt.Sprintf("%d invalid entries skipped", m.skipped)) + "\n" + helpView
	}
	return fmt.Sprintf("%s\n\n%s", m.songList.View(), footer)
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return ""
	}
	s := m.selected

	var b strings.Builder
	b.WriteString(styles.title.Render(s.Title))
	b.WriteString("\n")
	rows := [][2]string{
		{"Artist", s.Artist},
		{"Link", s.ID},
		{"Video ID", s.YouTubeID},
		{"Thumbnail", s.ThumbnailURL},
		{"Plays", fmt.Sprint(s.Plays)},
		{"Likes", fmt.Sprint(s.Likes)},
		{"Dislikes", fmt.Sprint(s.Dislikes)},
		{"Date", s.Date},
		{"Added by", s.AddedBy},
	}
	for _, row := range rows {
		value := row[1]
		if value == "" {
			value = styles.help.Render("n/a")
		}
		b.WriteString(styles.label.Render(row[0]) + " " + value + "\n")
	}

	b.WriteString("\n" + m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit}))
	return b.String()
}

func (m *Model) renderStats() string {
	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("Shares (%d songs)", m.stats.TotalSongs)))
	b.WriteString("\n")

	if len(m.stats.UserStats) == 0 {
		b.WriteString(styles.help.Render("No shares yet") + "\n")
	}

	top := 0
	width := 0
	for _, stat := range m.stats.UserStats {
		top = max(top, stat.Shares)
		width = max(width, len([]rune(stat.Username)))
	}
	for i, stat := range m.stats.UserStats {
		name := stat.Username + strings.Repeat(" ", width-len([]rune(stat.Username)))
		b.WriteString(fmt.Sprintf("%2d. %s %4d %s\n", i+1, name, stat.Shares, Bar(stat.Shares, top, statsBarWidth)))
	}

	b.WriteString("\n" + m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.reload, m.keys.quit}))
	return b.String()
}
