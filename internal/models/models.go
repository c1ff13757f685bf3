// package models defines the data model for the banger song API
package models

// Source document field names, as written by the bot.
const (
	DefaultTable      = "_default"
	FieldSourceURL    = "youtube_url"
	FieldSongTitle    = "song_title"
	FieldTitle        = "title"
	FieldArtist       = "artist"
	FieldMentions     = "mentions"
	FieldLikes        = "likes"
	FieldDislikes     = "dislikes"
	FieldLastMentioned = "last_mentioned"
	FieldDateAdded    = "date_added"
	FieldUser         = "user"
	FieldChatID       = "chat_id"
	FieldFirstName    = "first_name"
	FieldLastName     = "last_name"
	FieldUsername     = "username"
)

// Fallback values for missing fields.
const (
	UnknownArtist    = "Unknown Artist"
	UnknownSubmitter = "Unknown"
)

// Document is a parsed source file. Values are whatever the JSON decoder produced
// (map[string]any, []any, string, float64, bool or nil).
type Document map[string]any

// Object returns the value at key when it is a JSON object.
func (d Document) Object(key string) (Document, bool) {
	return AsObject(d[key])
}

// String returns the value at key when it is a non-empty string.
func (d Document) String(key string) (string, bool) {
	s, ok := d[key].(string)
	return s, ok && s != ""
}

// Number returns the value at key when it is a JSON number.
func (d Document) Number(key string) (float64, bool) {
	n, ok := d[key].(float64)
	return n, ok
}

// Has reports whether key holds a truthy value: non-empty string, non-zero number, true, object or array.
func (d Document) Has(key string) bool {
	switch v := d[key].(type) {
	case nil:
		return false
	case string:
		return v != ""
	case float64:
		return v != 0
	case bool:
		return v
	default:
		return true
	}
}

// AsObject reports whether v is a JSON object and returns it as a [Document].
func AsObject(v any) (Document, bool) {
	switch o := v.(type) {
	case map[string]any:
		return Document(o), true
	case Document:
		return o, true
	default:
		return nil, false
	}
}

// Song is a normalized song record.
type Song struct {
	SourceURL    string // identity key
	Title        string
	Artist       string
	VideoID      string
	ThumbnailURL string
	MentionCount int
	LikeCount    int
	DislikeCount int
	Timestamp    string // ISO-8601
	Submitter    string // display name
	Username     string // grouping key for stats, empty without a user object
	ChatID       int64
}

// SongResponse is the external JSON shape of a song.
type SongResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	YouTubeID    string `json:"youtubeId"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Plays        int    `json:"plays"`
	Likes        int    `json:"likes"`
	Dislikes     int    `json:"dislikes"`
	Date         string `json:"date"`
	AddedBy      string `json:"addedBy"`
}

// UserStat is the number of songs shared by one user.
type UserStat struct {
	Username string `json:"username"`
	Shares   int    `json:"shares"`
}

// Stats is the response of the statistics endpoint.
type Stats struct {
	TotalSongs int        `json:"totalSongs"`
	UserStats  []UserStat `json:"userStats"`
}

// ErrorResponse is the JSON body returned on failure. Details is omitted when empty.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
