// ABOUTME: Core song and now-playing types shared across the pipeline
// ABOUTME: Defines sentinel defaults used when no upstream metadata is available
package domain

import "time"

// Sentinel values returned when no real metadata could be resolved.
// The UI treats a record with DefaultTitle as "no song info yet".
const (
	DefaultTitle     = "stuVion Radio"
	DefaultArtist    = "Live Stream"
	PlaceholderCover = "/placeholder.svg"
)

// Song identifies a playing track. Two songs are the same iff both
// fields match exactly; no case folding or trimming is applied.
type Song struct {
	Title  string
	Artist string
}

// DefaultSong returns the sentinel identity used when every upstream
// source failed to produce metadata.
func DefaultSong() Song {
	return Song{Title: DefaultTitle, Artist: DefaultArtist}
}

// IsDefault reports whether the song is the sentinel identity.
func (s Song) IsDefault() bool {
	return s.Title == DefaultTitle
}

// Equal reports exact identity match. Used as the history dedup key.
func (s Song) Equal(other Song) bool {
	return s.Title == other.Title && s.Artist == other.Artist
}

// LiveInfo carries optional live-DJ data from sources that report it.
type LiveInfo struct {
	IsLive       bool   `json:"is_live"`
	StreamerName string `json:"streamer_name,omitempty"`
}

// NowPlaying is the externally visible resolved state. It is always
// fully populated; degraded modes carry the sentinel defaults instead
// of missing fields.
type NowPlaying struct {
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Listeners int       `json:"listeners"`
	CoverURL  string    `json:"coverUrl"`
	Live      *LiveInfo `json:"live,omitempty"`
}

// DefaultNowPlaying returns the fully degraded record.
func DefaultNowPlaying() NowPlaying {
	return NowPlaying{
		Title:    DefaultTitle,
		Artist:   DefaultArtist,
		CoverURL: PlaceholderCover,
	}
}

// Song returns the identity portion of the record.
func (n NowPlaying) Song() Song {
	return Song{Title: n.Title, Artist: n.Artist}
}

// HistoryEntry is one persisted row of the play history. Entries are
// append-only and ordered by PlayedAt descending; consecutive entries
// never share the same (title, artist) pair.
type HistoryEntry struct {
	ID        string    `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Artist    string    `json:"artist" db:"artist"`
	CoverURL  string    `json:"coverUrl" db:"cover_url"`
	Listeners int       `json:"listeners" db:"listeners"`
	PlayedAt  time.Time `json:"playedAt" db:"played_at"`
}

// Song returns the identity portion of the entry.
func (e HistoryEntry) Song() Song {
	return Song{Title: e.Title, Artist: e.Artist}
}

// AdapterResult is what an upstream adapter produces: either usable
// song data or nothing. Adapters map every transport and parse failure
// to NoData instead of returning an error.
type AdapterResult struct {
	OK     bool
	Title  string
	Artist string

	// Listeners is only meaningful when HasListeners is set; not every
	// upstream format reports an audience size.
	Listeners    int
	HasListeners bool

	Live *LiveInfo
}

// NoData is the result for any adapter failure or empty payload.
func NoData() AdapterResult {
	return AdapterResult{}
}
