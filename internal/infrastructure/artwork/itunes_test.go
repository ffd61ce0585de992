// ABOUTME: Tests for the iTunes artwork provider
// ABOUTME: Verifies resolution upgrade, sentinel skip, and failure fallback
package artwork

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/SteKarstens/stuvion-radio-player/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestITunes_LookupUpgradesResolution(t *testing.T) {
	var term string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		term = r.URL.Query().Get("term")
		w.Write([]byte(`{"resultCount":1,"results":[{"artworkUrl100":"https://img.example.com/cover/100x100bb.jpg"}]}`))
	}))
	defer server.Close()

	provider := NewITunes(Config{Endpoint: server.URL}, discardLogger())

	got := provider.Lookup(context.Background(), domain.Song{Title: "Blue Monday", Artist: "New Order"})
	assert.Equal(t, "https://img.example.com/cover/600x600bb.jpg", got)
	assert.Equal(t, "New Order Blue Monday", term)
}

func TestITunes_SentinelSongSkipsSearch(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	provider := NewITunes(Config{Endpoint: server.URL}, discardLogger())

	got := provider.Lookup(context.Background(), domain.DefaultSong())
	assert.Equal(t, domain.PlaceholderCover, got)
	assert.Zero(t, calls.Load())
}

func TestITunes_NoResultsIsPlaceholder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"resultCount":0,"results":[]}`))
	}))
	defer server.Close()

	provider := NewITunes(Config{Endpoint: server.URL}, discardLogger())

	got := provider.Lookup(context.Background(), domain.Song{Title: "Obscure B-Side", Artist: "Nobody"})
	assert.Equal(t, domain.PlaceholderCover, got)
}

func TestITunes_ServerErrorIsPlaceholder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewITunes(Config{Endpoint: server.URL}, discardLogger())

	got := provider.Lookup(context.Background(), domain.Song{Title: "Song", Artist: "Artist"})
	assert.Equal(t, domain.PlaceholderCover, got)
}

func TestITunes_CachesHitsAndExpiresMisses(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Write([]byte(`{"results":[]}`))
			return
		}
		w.Write([]byte(`{"results":[{"artworkUrl100":"https://img.example.com/100x100bb.jpg"}]}`))
	}))
	defer server.Close()

	provider := NewITunes(Config{Endpoint: server.URL}, discardLogger())
	clock := time.Now()
	provider.now = func() time.Time { return clock }

	song := domain.Song{Title: "Song", Artist: "Artist"}

	// First lookup misses and is cached negatively.
	assert.Equal(t, domain.PlaceholderCover, provider.Lookup(context.Background(), song))
	assert.Equal(t, domain.PlaceholderCover, provider.Lookup(context.Background(), song))
	assert.Equal(t, int32(1), calls.Load())

	// After the negative TTL the search is retried and the hit sticks.
	clock = clock.Add(negativeCacheTTL + time.Minute)
	assert.Equal(t, "https://img.example.com/600x600bb.jpg", provider.Lookup(context.Background(), song))
	assert.Equal(t, "https://img.example.com/600x600bb.jpg", provider.Lookup(context.Background(), song))
	assert.Equal(t, int32(2), calls.Load())
}
