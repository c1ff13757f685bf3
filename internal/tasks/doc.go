// Package tasks turns the bot's JSON database into songs and statistics.
//
// [Normalize] walks a [models.Document] looking for song-like entries (objects carrying a youtube_url) at up
// to three levels below the root table, validates each candidate and maps it to a flat [models.Song]. A bad
// entry is skipped and counted, never fatal to the pass.
//
// [BuildSongList] and [BuildStats] project normalized songs onto the HTTP response shapes. Both are pure.
//
// [Catalog] ties a document source to the normalizer so the HTTP handlers and CLI commands share one code path.
package tasks
