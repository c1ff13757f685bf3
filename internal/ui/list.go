package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/banger/internal/models"
)

var (
	_ list.Item = songItem{}
)

// songItem wraps [models.SongResponse] to implement [list.Item].
type songItem struct {
	song models.SongResponse
}

func (i songItem) FilterValue() string { return i.song.Title + " " + i.song.Artist + " " + i.song.AddedBy }
func (i songItem) Title() string       { return i.song.Title }
func (i songItem) Description() string {
	desc := fmt.Sprintf("%s • %d plays", i.song.Artist, i.song.Plays)
	if i.song.AddedBy != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.song.AddedBy)
	}
	return desc
}

func songItems(songs []models.SongResponse) []list.Item {
	items := make([]list.Item, len(songs))
	for i, song := range songs {
		items[i] = songItem{song: song}
	}
	return items
}
