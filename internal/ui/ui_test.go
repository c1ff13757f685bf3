package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/banger/internal/models"
	"github.com/desertthunder/banger/internal/tasks"
)

type fakeCatalog struct {
	result *tasks.NormalizeResult
	err    error
	calls  int
}

func (f *fakeCatalog) Songs(ctx context.Context) (*tasks.NormalizeResult, error) {
	f.calls++
	return f.result, f.err
}

func testCatalog() *fakeCatalog {
	return &fakeCatalog{result: &tasks.NormalizeResult{
		Songs: []models.Song{
			{SourceURL: "https://youtu.be/abc12345678", Title: "Song One", Artist: "Artist One", VideoID: "abc12345678", MentionCount: 2, Submitter: "Ann", Username: "ann"},
			{SourceURL: "https://youtu.be/abc12345679", Title: "Song Two", Artist: "Artist Two", Submitter: "Ann", Username: "ann"},
			{SourceURL: "https://youtu.be/abc12345670", Title: "Song Three", Artist: "Artist Three", Submitter: "Bob", Username: "bob"},
		},
		Candidates: 4,
		Valid:      3,
		Skipped:    1,
	}}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// loaded returns a model that has processed its initial load.
func loaded(t *testing.T, catalog Catalog) *Model {
	t.Helper()
	m := NewModel(context.Background(), catalog)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	cmd := m.Init()
	if cmd == nil {
		t.Fatal("expected Init to return a command")
	}
	m.Update(cmd())
	return m
}

func TestModel(t *testing.T) {
	t.Run("shows loading before the first load", func(t *testing.T) {
		m := NewModel(context.Background(), testCatalog())
		if !strings.Contains(m.View(), "Loading") {
			t.Errorf("expected loading view, got %q", m.View())
		}
	})

	t.Run("loads songs and stats", func(t *testing.T) {
		m := loaded(t, testCatalog())

		if len(m.songs) != 3 {
			t.Fatalf("expected 3 songs, got %d", len(m.songs))
		}
		if m.stats.TotalSongs != 3 || len(m.stats.UserStats) != 2 || m.stats.UserStats[0].Username != "ann" {
			t.Errorf("unexpected stats %+v", m.stats)
		}
		if m.skipped != 1 {
			t.Errorf("expected 1 skipped, got %d", m.skipped)
		}

		view := m.View()
		if !strings.Contains(view, "Song One") {
			t.Errorf("expected song list in view")
		}
		if !strings.Contains(view, "1 invalid entries skipped") {
			t.Errorf("expected skipped notice in view")
		}
	})

	t.Run("enter opens details and esc returns", func(t *testing.T) {
		m := loaded(t, testCatalog())

		m.Update(keyPress("enter"))
		if m.view != SongDetailView || m.selected == nil {
			t.Fatalf("expected detail view, got %v", m.view)
		}
		view := m.View()
		if !strings.Contains(view, "https://youtu.be/abc12345678") || !strings.Contains(view, "abc12345678") {
			t.Errorf("expected song details in view, got %q", view)
		}

		m.Update(keyPress("esc"))
		if m.view != SongListView || m.selected != nil {
			t.Errorf("expected list view after esc, got %v", m.view)
		}
	})

	t.Run("s toggles stats", func(t *testing.T) {
		m := loaded(t, testCatalog())

		m.Update(keyPress("s"))
		if m.view != StatsView {
			t.Fatalf("expected stats view, got %v", m.view)
		}
		view := m.View()
		if !strings.Contains(view, "Shares (3 songs)") || !strings.Contains(view, "ann") || !strings.Contains(view, "bob") {
			t.Errorf("unexpected stats view %q", view)
		}
		if strings.Index(view, "ann") > strings.Index(view, "bob") {
			t.Errorf("expected ann ranked before bob")
		}

		m.Update(keyPress("s"))
		if m.view != SongListView {
			t.Errorf("expected list view, got %v", m.view)
		}
	})

	t.Run("empty stats", func(t *testing.T) {
		m := loaded(t, &fakeCatalog{result: &tasks.NormalizeResult{}})
		m.Update(keyPress("s"))
		if !strings.Contains(m.View(), "No shares yet") {
			t.Errorf("expected empty stats message, got %q", m.View())
		}
	})

	t.Run("load error and reload", func(t *testing.T) {
		catalog := &fakeCatalog{err: errors.New("database file is not valid JSON")}
		m := loaded(t, catalog)

		if !strings.Contains(m.View(), "database file is not valid JSON") {
			t.Errorf("expected error view, got %q", m.View())
		}

		catalog.err = nil
		catalog.result = testCatalog().result
		_, cmd := m.Update(keyPress("r"))
		if cmd == nil {
			t.Fatal("expected reload command")
		}
		m.Update(cmd())

		if m.err != nil || len(m.songs) != 3 {
			t.Errorf("expected recovered model, err=%v songs=%d", m.err, len(m.songs))
		}
		if catalog.calls != 2 {
			t.Errorf("expected 2 loads, got %d", catalog.calls)
		}
	})

	t.Run("q quits", func(t *testing.T) {
		m := loaded(t, testCatalog())
		_, cmd := m.Update(keyPress("q"))
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}

func TestBar(t *testing.T) {
	tests := []struct {
		name              string
		value, total, width int
		wantCells         int
	}{
		{"full", 10, 10, 5, 5},
		{"half", 5, 10, 10, 5},
		{"tiny value gets a cell", 1, 100, 10, 1},
		{"zero value", 0, 10, 10, 0},
		{"zero max", 3, 0, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Count(Bar(tt.value, tt.total, tt.width), "█")
			if got != tt.wantCells {
				t.Errorf("expected %d cells, got %d", tt.wantCells, got)
			}
		})
	}
}
