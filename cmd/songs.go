package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/banger/internal/formatter"
	"github.com/desertthunder/banger/internal/models"
	"github.com/desertthunder/banger/internal/shared"
	"github.com/desertthunder/banger/internal/tasks"
	"github.com/urfave/cli/v3"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#626262"))
)

// Songs prints the normalized songs of the songs database. A missing database is an error.
func (r *Runner) Songs(ctx context.Context, cmd *cli.Command) error {
	path := sourcePath(cmd, r.config.Database.SongsPath)
	catalog := r.catalog(path)

	exists, err := catalog.Exists()
	if err != nil {
		return fmt.Errorf("failed to check database: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", shared.ErrSourceAbsent, path)
	}

	result, err := catalog.Songs(ctx)
	if err != nil {
		return fmt.Errorf("failed to load songs: %w", err)
	}
	songs := tasks.BuildSongList(result.Songs)

	format := cmd.String("format")
	output := cmd.String("output")

	if format == formatter.FormatTable && output == "" {
		if err := r.writePlain("%s\n", songTable(songs)); err != nil {
			return err
		}
		return r.writePlain("%s\n", footerStyle.Render(summary(result)))
	}

	data, err := formatter.Render(songs, format, cmd.Bool("pretty"))
	if err != nil {
		return err
	}

	if output != "" {
		written, err := formatter.WriteExport(data, output)
		if err != nil {
			return err
		}
		r.logger.Info("songs exported", "path", written, "format", format, "songs", len(songs))
		return nil
	}

	_, err = r.output.Write(data)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// Stats prints per-user share counts from the stats database. A missing database yields zero counts.
func (r *Runner) Stats(ctx context.Context, cmd *cli.Command) error {
	path := sourcePath(cmd, r.config.Database.StatsPath)

	stats, err := r.catalog(path).Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to generate statistics: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, cmd.Bool("pretty"))
	}

	if err := r.writePlain("%s\n", statsTable(stats)); err != nil {
		return err
	}
	return r.writePlain("%s\n", footerStyle.Render(fmt.Sprintf("%d songs from %d users", stats.TotalSongs, len(stats.UserStats))))
}

func summary(result *tasks.NormalizeResult) string {
	if result.Skipped == 0 {
		return fmt.Sprintf("%d songs", result.Valid)
	}
	return fmt.Sprintf("%d songs (%d invalid entries skipped)", result.Valid, result.Skipped)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func songTable(songs []models.SongResponse) string {
	t := newTable("#", "Title", "Artist", "Plays", "Likes", "Added By", "Date")
	for i, s := range songs {
		t.Row(strconv.Itoa(i+1), s.Title, s.Artist, strconv.Itoa(s.Plays), strconv.Itoa(s.Likes), s.AddedBy, s.Date)
	}
	return t.String()
}

func statsTable(stats models.Stats) string {
	t := newTable("#", "User", "Shares")
	for i, u := range stats.UserStats {
		t.Row(strconv.Itoa(i+1), u.Username, strconv.Itoa(u.Shares))
	}
	return t.String()
}
