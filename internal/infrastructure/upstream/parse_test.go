// ABOUTME: Tests for the upstream wire-format parsers
// ABOUTME: Covers separator handling, short CSV records, and AzuraCast shapes
package upstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStreamTitle(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		ok     bool
		artist string
		title  string
	}{
		{name: "artist and title", raw: "New Order - Blue Monday", ok: true, artist: "New Order", title: "Blue Monday"},
		{name: "splits on first separator only", raw: "A - B - C", ok: true, artist: "A", title: "B - C"},
		{name: "no separator keeps artist empty", raw: "Station Jingle", ok: true, artist: "", title: "Station Jingle"},
		{name: "empty body", raw: "", ok: false},
		{name: "whitespace only", raw: "   \n", ok: false},
		{name: "trims surrounding whitespace", raw: "  Daft Punk - One More Time \n", ok: true, artist: "Daft Punk", title: "One More Time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseStreamTitle(tt.raw)
			assert.Equal(t, tt.ok, res.OK)
			if tt.ok {
				assert.Equal(t, tt.artist, res.Artist)
				assert.Equal(t, tt.title, res.Title)
				assert.False(t, res.HasListeners)
			}
		})
	}
}

func TestParseStatsCSV(t *testing.T) {
	t.Run("full record", func(t *testing.T) {
		res := ParseStatsCSV("42,1,100,500,37,128,New Order - Blue Monday")
		require.True(t, res.OK)
		assert.Equal(t, "New Order", res.Artist)
		assert.Equal(t, "Blue Monday", res.Title)
		assert.True(t, res.HasListeners)
		assert.Equal(t, 42, res.Listeners)
	})

	t.Run("song text containing commas", func(t *testing.T) {
		res := ParseStatsCSV("7,1,10,50,5,128,Earth, Wind & Fire - September")
		require.True(t, res.OK)
		assert.Equal(t, "Earth, Wind & Fire", res.Artist)
		assert.Equal(t, "September", res.Title)
	})

	t.Run("fewer than seven fields is no data", func(t *testing.T) {
		res := ParseStatsCSV("42,1,100,500,37,128")
		assert.False(t, res.OK)
		assert.False(t, res.HasListeners)
	})

	t.Run("unparseable listener count defaults to zero", func(t *testing.T) {
		res := ParseStatsCSV("n/a,1,100,500,37,128,Some Artist - Some Song")
		require.True(t, res.OK)
		assert.True(t, res.HasListeners)
		assert.Equal(t, 0, res.Listeners)
	})

	t.Run("empty song field is no data", func(t *testing.T) {
		res := ParseStatsCSV("42,1,100,500,37,128,")
		assert.False(t, res.OK)
	})
}

func TestParseAzuraCast(t *testing.T) {
	t.Run("nested song with listeners object", func(t *testing.T) {
		body := `{"now_playing":{"song":{"title":"Blue Monday","artist":"New Order"}},"listeners":{"current":42}}`
		res := ParseAzuraCast([]byte(body))
		require.True(t, res.OK)
		assert.Equal(t, "Blue Monday", res.Title)
		assert.Equal(t, "New Order", res.Artist)
		assert.True(t, res.HasListeners)
		assert.Equal(t, 42, res.Listeners)
	})

	t.Run("song data directly on now_playing", func(t *testing.T) {
		body := `{"now_playing":{"title":"Blue Monday","artist":"New Order"}}`
		res := ParseAzuraCast([]byte(body))
		require.True(t, res.OK)
		assert.Equal(t, "Blue Monday", res.Title)
		assert.Equal(t, "New Order", res.Artist)
		assert.False(t, res.HasListeners)
	})

	t.Run("text key as title fallback", func(t *testing.T) {
		body := `{"now_playing":{"song":{"text":"New Order - Blue Monday"}}}`
		res := ParseAzuraCast([]byte(body))
		require.True(t, res.OK)
		assert.Equal(t, "New Order - Blue Monday", res.Title)
		assert.Empty(t, res.Artist)
	})

	t.Run("scalar listeners", func(t *testing.T) {
		body := `{"now_playing":{"song":{"title":"Song"}},"listeners":17}`
		res := ParseAzuraCast([]byte(body))
		require.True(t, res.OK)
		assert.True(t, res.HasListeners)
		assert.Equal(t, 17, res.Listeners)
	})

	t.Run("live streamer info", func(t *testing.T) {
		body := `{"now_playing":{"song":{"title":"Song"},"live":{"is_live":true,"streamer_name":"DJ Stu"}}}`
		res := ParseAzuraCast([]byte(body))
		require.True(t, res.OK)
		require.NotNil(t, res.Live)
		assert.True(t, res.Live.IsLive)
		assert.Equal(t, "DJ Stu", res.Live.StreamerName)
	})

	t.Run("missing title is no data", func(t *testing.T) {
		res := ParseAzuraCast([]byte(`{"now_playing":{"song":{"artist":"New Order"}}}`))
		assert.False(t, res.OK)
	})

	t.Run("malformed json is no data", func(t *testing.T) {
		res := ParseAzuraCast([]byte(`{"now_playing":`))
		assert.False(t, res.OK)
	})
}
