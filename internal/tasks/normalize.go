package tasks

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/desertthunder/banger/internal/models"
	"github.com/desertthunder/banger/internal/services"
	"github.com/desertthunder/banger/internal/shared"
)

// maxDepth bounds how far below the root table song entries are searched for.
const maxDepth = 3

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// InvalidEntry describes a skipped candidate.
type InvalidEntry struct {
	Position int // index in discovery order
	Err      error
}

// NormalizeResult is the outcome of one normalization pass.
//
// Valid + Skipped always equals Candidates.
type NormalizeResult struct {
	Songs      []models.Song
	Invalid    []InvalidEntry
	Candidates int
	Valid      int
	Skipped    int
}

// Normalize discovers and converts every song entry in doc. now is used for songs without a stored date.
//
// Entries reachable through more than one path are emitted once per path; no deduplication is done.
func Normalize(doc models.Document, now time.Time) *NormalizeResult {
	candidates := Discover(doc)
	result := &NormalizeResult{
		Songs:      make([]models.Song, 0, len(candidates)),
		Candidates: len(candidates),
	}

	for i, entry := range candidates {
		song, err := toSong(entry, now)
		if err != nil {
			result.Invalid = append(result.Invalid, InvalidEntry{Position: i, Err: err})
			result.Skipped++
			continue
		}
		result.Songs = append(result.Songs, song)
		result.Valid++
	}

	return result
}

// Discover returns the song-like entries of doc in discovery order:
//
//  1. entries of the nested _default table (root._default._default)
//  2. root entries carrying a youtube_url
//  3. descendants of other root entries, down to [maxDepth]
//
// root is doc._default when that is an object, doc otherwise.
func Discover(doc models.Document) []models.Document {
	root := doc
	if table, ok := doc.Object(models.DefaultTable); ok {
		root = table
	}

	var found []models.Document
	if table, ok := root.Object(models.DefaultTable); ok {
		for _, key := range sortedKeys(table) {
			if entry, ok := models.AsObject(table[key]); ok && entry.Has(models.FieldSourceURL) {
				found = append(found, entry)
			}
		}
	}

	for _, key := range sortedKeys(root) {
		if key == models.DefaultTable {
			continue
		}
		found = collect(root[key], 1, found)
	}

	return found
}

// collect appends v when it is a song entry, otherwise descends into its values while depth < maxDepth.
func collect(v any, depth int, found []models.Document) []models.Document {
	obj, ok := models.AsObject(v)
	if !ok {
		return found
	}
	if obj.Has(models.FieldSourceURL) {
		return append(found, obj)
	}
	if depth >= maxDepth {
		return found
	}

	for _, key := range sortedKeys(obj) {
		found = collect(obj[key], depth+1, found)
	}
	return found
}

func toSong(entry models.Document, now time.Time) (models.Song, error) {
	sourceURL, ok := entry.String(models.FieldSourceURL)
	if !ok {
		return models.Song{}, fmt.Errorf("%w: %v", shared.ErrMissingSourceURL, entry[models.FieldSourceURL])
	}

	title, ok := entry.String(models.FieldSongTitle)
	if !ok {
		if title, ok = entry.String(models.FieldTitle); !ok {
			return models.Song{}, fmt.Errorf("%w: %s", shared.ErrMissingTitle, sourceURL)
		}
	}

	artist := models.UnknownArtist
	if a, ok := entry.String(models.FieldArtist); ok {
		artist = shared.Repair(a)
	}

	videoID := services.VideoID(sourceURL)
	song := models.Song{
		SourceURL:    sourceURL,
		Title:        shared.Repair(title),
		Artist:       artist,
		VideoID:      videoID,
		ThumbnailURL: services.ThumbnailURL(videoID),
		MentionCount: count(entry, models.FieldMentions),
		LikeCount:    count(entry, models.FieldLikes),
		DislikeCount: count(entry, models.FieldDislikes),
		Timestamp:    timestamp(entry, now),
		Submitter:    models.UnknownSubmitter,
	}

	if user, ok := entry.Object(models.FieldUser); ok {
		song.Submitter = submitter(user)
		song.Username = username(user)
	}
	if id, ok := entry.Number(models.FieldChatID); ok {
		song.ChatID = int64(id)
	}

	return song, nil
}

// count reads a non-negative integer counter, defaulting to 0.
func count(entry models.Document, key string) int {
	n, ok := entry.Number(key)
	if !ok || math.IsNaN(n) || n <= 0 {
		return 0
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

func timestamp(entry models.Document, now time.Time) string {
	for _, key := range []string{models.FieldLastMentioned, models.FieldDateAdded} {
		if ts, ok := entry.String(key); ok {
			return ts
		}
	}
	return now.UTC().Format(timestampLayout)
}

func submitter(user models.Document) string {
	first, hasFirst := user.String(models.FieldFirstName)
	last, hasLast := user.String(models.FieldLastName)

	switch {
	case hasFirst && hasLast:
		return first + " " + last
	case hasFirst:
		return first
	default:
		return models.UnknownSubmitter
	}
}

func username(user models.Document) string {
	if name, ok := user.String(models.FieldUsername); ok {
		return shared.NormalizeName(name)
	}
	first, _ := user.String(models.FieldFirstName)
	last, _ := user.String(models.FieldLastName)
	return shared.NormalizeName(first + " " + last)
}

// sortedKeys orders integer keys numerically before other keys, which sort lexically.
func sortedKeys(doc models.Document) []string {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		a, aErr := strconv.ParseUint(keys[i], 10, 64)
		b, bErr := strconv.ParseUint(keys[j], 10, 64)
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}
