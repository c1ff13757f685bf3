// package formatter renders song lists and share statistics as CSV, Markdown, JSON & plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/banger/internal/models"
	"github.com/desertthunder/banger/internal/shared"
	"github.com/goccy/go-json"
)

// Format names accepted by [Render].
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
)

// Formats lists the supported output formats.
var Formats = []string{FormatTable, FormatJSON, FormatCSV, FormatMarkdown}

// ExportToCSV converts songs to CSV with columns: ID, Title, Artist, YouTube ID, Plays, Likes, Dislikes, Date, Added By
func ExportToCSV(songs []models.SongResponse) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "YouTube ID", "Plays", "Likes", "Dislikes", "Date", "Added By"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range songs {
		record := []string{
			song.ID,
			song.Title,
			song.Artist,
			song.YouTubeID,
			strconv.Itoa(song.Plays),
			strconv.Itoa(song.Likes),
			strconv.Itoa(song.Dislikes),
			song.Date,
			song.AddedBy,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts songs to a Markdown list with thumbnails linked to the source URL
func ExportToMarkdown(songs []models.SongResponse, heading string) ([]byte, error) {
	var buf bytes.Buffer

	if heading == "" {
		heading = "Songs"
	}
	buf.WriteString(fmt.Sprintf("# %s\n\n", heading))
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n\n", len(songs)))

	for i, song := range songs {
		buf.WriteString(fmt.Sprintf("%d. [%s - %s](%s)", i+1, escapeMarkdown(song.Artist), escapeMarkdown(song.Title), song.ID))
		buf.WriteString(fmt.Sprintf(" | %d plays, %d likes, %d dislikes | added by %s\n",
			song.Plays, song.Likes, song.Dislikes, escapeMarkdown(song.AddedBy)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts songs to numbered plain text lines
func ExportToText(songs []models.SongResponse) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(songs)))
	for i, song := range songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%s)\n", i+1, song.Artist, song.Title, song.AddedBy))
	}

	return buf.Bytes(), nil
}

// StatsToText renders share statistics as a ranked plain text list
func StatsToText(stats models.Stats) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Total songs: %d\n", stats.TotalSongs))
	buf.WriteString(fmt.Sprintf("Contributors: %d\n\n", len(stats.UserStats)))

	for i, stat := range stats.UserStats {
		buf.WriteString(fmt.Sprintf("%d. %s: %d\n", i+1, stat.Username, stat.Shares))
	}

	return buf.Bytes(), nil
}

// ToJSON encodes v, indented when pretty is set
func ToJSON(v any, pretty bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Render converts songs to the named format. The table format is rendered as plain text here; the CLI styles it.
func Render(songs []models.SongResponse, format string, pretty bool) ([]byte, error) {
	switch strings.ToLower(format) {
	case FormatTable, "":
		return ExportToText(songs)
	case FormatJSON:
		return ToJSON(songs, pretty)
	case FormatCSV:
		return ExportToCSV(songs)
	case FormatMarkdown, "md":
		return ExportToMarkdown(songs, "")
	default:
		return nil, fmt.Errorf("%w: unknown format %q (expected one of %s)",
			shared.ErrInvalidFlag, format, strings.Join(Formats, ", "))
	}
}

// WriteExport writes data to path, creating or truncating it.
func WriteExport(data []byte, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: output path", shared.ErrMissingArgument)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

var markdownEscaper = strings.NewReplacer(`[`, `\[`, `]`, `\]`, `|`, `\|`, `*`, `\*`, `_`, `\_`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
