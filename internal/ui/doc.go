// Package ui implements an interactive terminal browser using bubbletea's Elm architecture.
//
// The TUI offers three views over the bot's song database:
//  1. [SongListView] : Browse & filter the normalized songs
//  2. [SongDetailView] : Inspect one song (source link, thumbnail, counters, submitter)
//  3. [StatsView] : Ranked share counts per user
//
// The (view) [Model] implements bubbletea's Init/Update/View pattern, receiving messages via the [Msg] union type.
// The database is re-read on every reload, mirroring the HTTP API.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, s, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
