package formatter

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/banger/internal/models"
	"github.com/desertthunder/banger/internal/shared"
	th "github.com/desertthunder/banger/internal/testing"
)

func testSongs() []models.SongResponse {
	return []models.SongResponse{
		{
			ID:           "https://youtu.be/abc12345678",
			Title:        "Song One",
			Artist:       "Artist One",
			YouTubeID:    "abc12345678",
			ThumbnailURL: "https://img.youtube.com/vi/abc12345678/hqdefault.jpg",
			Plays:        3,
			Likes:        2,
			Dislikes:     1,
			Date:         "2024-03-01T10:00:00",
			AddedBy:      "Ann Lee",
		},
		{
			ID:      "https://www.youtube.com/watch?v=xyz98765432",
			Title:   "Song, Two",
			Artist:  "Unknown Artist",
			Date:    "2024-03-02T10:00:00",
			AddedBy: "Unknown",
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(testSongs())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ID,Title,Artist,YouTube ID,Plays,Likes,Dislikes,Date,Added By") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "https://youtu.be/abc12345678,Song One,Artist One,abc12345678,3,2,1,2024-03-01T10:00:00,Ann Lee") {
			t.Errorf("CSV missing first record, got: %s", output)
		}
		if !strings.Contains(output, `"Song, Two"`) {
			t.Errorf("CSV should quote fields with commas, got: %s", output)
		}
	})

	t.Run("ExportToCSV with no songs", func(t *testing.T) {
		data, err := ExportToCSV(nil)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}
		if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 1 {
			t.Errorf("expected header only, got %d lines", len(lines))
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown(testSongs(), "Bangers")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "# Bangers\n") {
			t.Errorf("Markdown missing heading, got: %s", output)
		}
		if !strings.Contains(output, "**Songs**: 2") {
			t.Errorf("Markdown missing song count")
		}
		if !strings.Contains(output, "1. [Artist One - Song One](https://youtu.be/abc12345678)") {
			t.Errorf("Markdown missing linked first song, got: %s", output)
		}
		if !strings.Contains(output, "added by Ann Lee") {
			t.Errorf("Markdown missing submitter")
		}
	})

	t.Run("ExportToMarkdown escapes link text", func(t *testing.T) {
		songs := []models.SongResponse{{ID: "u", Title: "[Live]", Artist: "A|B", AddedBy: "x"}}
		data, _ := ExportToMarkdown(songs, "")
		output := string(data)
		if !strings.HasPrefix(output, "# Songs\n") {
			t.Errorf("expected default heading, got: %s", output)
		}
		if !strings.Contains(output, `[A\|B - \[Live\]](u)`) {
			t.Errorf("expected escaped link text, got: %s", output)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(testSongs())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Songs: 2") {
			t.Errorf("Text missing count")
		}
		if !strings.Contains(output, "1. Artist One - Song One (Ann Lee)") {
			t.Errorf("Text missing first song, got: %s", output)
		}
		if !strings.Contains(output, "2. Unknown Artist - Song, Two (Unknown)") {
			t.Errorf("Text missing second song, got: %s", output)
		}
	})

	t.Run("StatsToText", func(t *testing.T) {
		stats := models.Stats{
			TotalSongs: 4,
			UserStats:  []models.UserStat{{Username: "A", Shares: 3}, {Username: "B", Shares: 1}},
		}
		data, err := StatsToText(stats)
		if err != nil {
			t.Fatalf("StatsToText failed: %v", err)
		}

		output := string(data)
		for _, want := range []string{"Total songs: 4", "Contributors: 2", "1. A: 3", "2. B: 1"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected %q in %s", want, output)
			}
		}
	})

	t.Run("ToJSON", func(t *testing.T) {
		compact, err := ToJSON(models.Stats{UserStats: []models.UserStat{}}, false)
		if err != nil {
			t.Fatalf("ToJSON failed: %v", err)
		}
		if string(compact) != "{\"totalSongs\":0,\"userStats\":[]}\n" {
			t.Errorf("unexpected compact JSON %q", compact)
		}

		pretty, _ := ToJSON(testSongs(), true)
		if !strings.Contains(string(pretty), "\n  {\n    \"id\"") {
			t.Errorf("expected indented JSON, got %s", pretty)
		}
	})
}

func TestRender(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{FormatTable, "Songs: 2"},
		{"", "Songs: 2"},
		{FormatJSON, `"youtubeId":"abc12345678"`},
		{FormatCSV, "YouTube ID"},
		{FormatMarkdown, "# Songs"},
		{"MD", "# Songs"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			data, err := Render(testSongs(), tt.format, false)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Errorf("expected %q in %s", tt.want, data)
			}
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		_, err := Render(testSongs(), "xml", false)
		if !errors.Is(err, shared.ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("writes file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "songs.csv")
		written, err := WriteExport([]byte("a,b\n"), path)
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}

		th.AssertFileExists(t, written)
		if got := th.MustReadFile(t, written); got != "a,b\n" {
			t.Errorf("unexpected content %q", got)
		}
	})

	t.Run("requires a path", func(t *testing.T) {
		if _, err := WriteExport([]byte("x"), ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("fails in missing directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "songs.csv")
		if _, err := WriteExport([]byte("x"), path); err == nil {
			t.Error("expected error")
		}
	})
}
