// ABOUTME: Cover art lookup against the iTunes Search API
// ABOUTME: Upgrades thumbnail resolution and caches misses to spare the API
package artwork

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/SteKarstens/stuvion-radio-player/internal/domain"
)

const (
	defaultEndpoint = "https://itunes.apple.com/search"
	defaultTimeout  = 5 * time.Second

	// Misses are retried after a while; a song that iTunes does not
	// know now will usually still be unknown on the next poll.
	negativeCacheTTL = 10 * time.Minute

	lowResToken  = "100x100"
	highResToken = "600x600"
)

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

// ITunes resolves cover art via the iTunes free-text search endpoint.
type ITunes struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
	now      func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	url     string
	expires time.Time // zero means never
}

func NewITunes(cfg Config, logger *slog.Logger) *ITunes {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &ITunes{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   logger.With("component", "artwork"),
		now:      time.Now,
		cache:    make(map[string]cacheEntry),
	}
}

// Lookup returns a cover URL for the song, or the placeholder sentinel
// when the song is the sentinel default or the search yields nothing.
// It never fails outward.
func (i *ITunes) Lookup(ctx context.Context, song domain.Song) string {
	if song.IsDefault() {
		return domain.PlaceholderCover
	}

	key := song.Artist + "|" + song.Title
	now := i.now()

	i.mu.Lock()
	if entry, ok := i.cache[key]; ok {
		if entry.expires.IsZero() || now.Before(entry.expires) {
			i.mu.Unlock()
			return entry.url
		}
		delete(i.cache, key)
	}
	i.mu.Unlock()

	coverURL := i.search(ctx, song)

	entry := cacheEntry{url: coverURL}
	if coverURL == domain.PlaceholderCover {
		entry.expires = now.Add(negativeCacheTTL)
	}
	i.mu.Lock()
	i.cache[key] = entry
	i.mu.Unlock()

	return coverURL
}

func (i *ITunes) search(ctx context.Context, song domain.Song) string {
	query := url.Values{
		"term":  {song.Artist + " " + song.Title},
		"media": {"music"},
		"limit": {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		i.logger.Warn("building search request failed", "err", err)
		return domain.PlaceholderCover
	}

	resp, err := i.client.Do(req)
	if err != nil {
		i.logger.Debug("search failed", "err", err)
		return domain.PlaceholderCover
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		i.logger.Debug("unexpected search status", "status", resp.StatusCode)
		return domain.PlaceholderCover
	}

	var result struct {
		Results []struct {
			ArtworkURL100 string `json:"artworkUrl100"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		i.logger.Debug("decoding search response failed", "err", err)
		return domain.PlaceholderCover
	}
	if len(result.Results) == 0 || result.Results[0].ArtworkURL100 == "" {
		return domain.PlaceholderCover
	}

	return strings.Replace(result.Results[0].ArtworkURL100, lowResToken, highResToken, 1)
}
