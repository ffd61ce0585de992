// ABOUTME: Pure parsing functions for the upstream wire formats
// ABOUTME: Kept free of I/O so each format is testable without network mocks
package upstream

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/SteKarstens/stuvion-radio-player/internal/domain"
)

// streamTitleSeparator is the conventional Shoutcast "Artist - Title"
// divider. Only the first occurrence splits; the remainder stays in
// the title so "A - B - C" parses as artist "A", title "B - C".
const streamTitleSeparator = " - "

// statsMinFields is the minimum field count of a Shoutcast 7.html
// stats record: listeners,status,peak,max,unique,bitrate,song.
const statsMinFields = 7

// ParseStreamTitle parses a raw current-song string. When no separator
// is present the whole text becomes the title and the artist is left
// empty for the caller to default.
func ParseStreamTitle(raw string) domain.AdapterResult {
	text := strings.TrimSpace(raw)
	if text == "" {
		return domain.NoData()
	}

	res := domain.AdapterResult{OK: true, Title: text}
	if artist, title, found := strings.Cut(text, streamTitleSeparator); found {
		res.Artist = strings.TrimSpace(artist)
		res.Title = strings.TrimSpace(title)
	}
	if res.Title == "" {
		return domain.NoData()
	}
	return res
}

// ParseStatsCSV parses a Shoutcast stats record. The song text may
// itself contain commas, so everything past the sixth field is
// rejoined before the artist/title split.
func ParseStatsCSV(raw string) domain.AdapterResult {
	fields := strings.Split(strings.TrimSpace(raw), ",")
	if len(fields) < statsMinFields {
		return domain.NoData()
	}

	res := ParseStreamTitle(strings.Join(fields[6:], ","))
	if !res.OK {
		return domain.NoData()
	}

	if listeners, err := strconv.Atoi(strings.TrimSpace(fields[0])); err == nil && listeners >= 0 {
		res.Listeners = listeners
	}
	res.HasListeners = true
	return res
}

// ParseAzuraCast parses an AzuraCast now-playing payload. Song data
// lives at now_playing.song, or at now_playing itself on older
// installs; the title key is "title" with "text" as fallback. The
// listener count appears either as an object with a "current" field
// or as a bare number.
func ParseAzuraCast(body []byte) domain.AdapterResult {
	var root map[string]any
	if err := json.Unmarshal(body, &root); err != nil {
		return domain.NoData()
	}

	nowPlaying, ok := root["now_playing"].(map[string]any)
	if !ok {
		nowPlaying = root
	}
	song, ok := nowPlaying["song"].(map[string]any)
	if !ok {
		song = nowPlaying
	}

	title := stringField(song, "title")
	if title == "" {
		title = stringField(song, "text")
	}
	if title == "" {
		return domain.NoData()
	}

	res := domain.AdapterResult{
		OK:     true,
		Title:  title,
		Artist: stringField(song, "artist"),
	}

	if listeners, ok := listenerCount(root["listeners"]); ok {
		res.Listeners = listeners
		res.HasListeners = true
	}

	if live, ok := nowPlaying["live"].(map[string]any); ok {
		if isLive, _ := live["is_live"].(bool); isLive {
			res.Live = &domain.LiveInfo{
				IsLive:       true,
				StreamerName: stringField(live, "streamer_name"),
			}
		}
	}

	return res
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func listenerCount(v any) (int, bool) {
	switch val := v.(type) {
	case map[string]any:
		if current, ok := val["current"].(float64); ok && current >= 0 {
			return int(current), true
		}
	case float64:
		if val >= 0 {
			return int(val), true
		}
	}
	return 0, false
}
