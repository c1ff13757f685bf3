// Package models defines the data shapes flowing through banger.
//
// The package contains three groups of types:
//
// 1. Source data: [Document], the untrusted JSON object written by the chat bot. No schema is assumed.
//
// 2. Normalized records: [Song], a flat typed record derived from one song-like entry of a [Document].
// Songs are rebuilt from the source on every request and never persisted.
//
// 3. Response shapes: [SongResponse], [Stats] and [UserStat], the external JSON contract of the HTTP API.
package models
