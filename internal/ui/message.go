package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/banger/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgSongsLoaded MsgKind = iota
)

// songsLoaded is the payload of [MsgSongsLoaded]
type songsLoaded struct {
	songs   []models.SongResponse
	stats   models.Stats
	skipped int
	err     error
}

// songsLoadedMsg is the constructor for [MsgSongsLoaded]
func songsLoadedMsg(songs []models.SongResponse, stats models.Stats, skipped int, err error) Msg {
	return Msg{
		kind: MsgSongsLoaded,
		data: songsLoaded{songs: songs, stats: stats, skipped: skipped, err: err},
	}
}
