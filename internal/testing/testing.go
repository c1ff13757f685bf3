// package testing contains shared testing utilities
package testing

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// WriteFile writes content to name inside a fresh temp directory and returns the full path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// WriteDocument marshals doc as JSON into a temp file and returns its path.
func WriteDocument(t *testing.T, doc map[string]any) string {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document: %v", err)
	}
	return WriteFile(t, "db.json", string(data))
}

// SongEntry builds a bot-shaped song entry. first may be empty to omit the user object.
func SongEntry(url, title, first, last string) map[string]any {
	entry := map[string]any{
		"youtube_url": url,
		"song_title":  title,
		"mentions":    float64(1),
		"likes":       float64(0),
		"dislikes":    float64(0),
		"date_added":  "2024-03-01T10:00:00",
	}
	if first != "" {
		user := map[string]any{"first_name": first}
		if last != "" {
			user["last_name"] = last
		}
		entry["user"] = user
	}
	return entry
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
