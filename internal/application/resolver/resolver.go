// ABOUTME: The now-playing resolution pipeline
// ABOUTME: Sequential source fallback, artwork enrichment, history dedup, assembly
package resolver

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SteKarstens/stuvion-radio-player/internal/domain"
	"github.com/SteKarstens/stuvion-radio-player/internal/infrastructure/metrics"
)

// Pipeline resolves the current song from a prioritized list of
// upstream sources, enriches it with cover art, and records song
// transitions in the history store. One call is one poll cycle; calls
// share no state beyond the history store.
type Pipeline struct {
	sources []domain.SourceAdapter
	artwork domain.ArtworkProvider
	history domain.HistoryRepository
	logger  *slog.Logger
	metrics *metrics.Pipeline

	now   func() time.Time
	newID func() string
}

func New(sources []domain.SourceAdapter, artwork domain.ArtworkProvider, history domain.HistoryRepository, logger *slog.Logger, m *metrics.Pipeline) *Pipeline {
	return &Pipeline{
		sources: sources,
		artwork: artwork,
		history: history,
		logger:  logger.With("component", "resolver"),
		metrics: m,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Resolve runs one full poll cycle and always returns a well-formed
// record. There is no error path: degraded upstreams produce the
// sentinel defaults, and even a panic inside the pipeline resolves to
// the default record.
func (p *Pipeline) Resolve(ctx context.Context) (record domain.NowPlaying) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pipeline panic recovered", "panic", r)
			record = domain.DefaultNowPlaying()
		}
	}()

	song, listeners, live := p.resolveSong(ctx)
	coverURL := p.enrich(ctx, song)
	p.persistIfChanged(ctx, song, coverURL, listeners)

	return domain.NowPlaying{
		Title:     song.Title,
		Artist:    song.Artist,
		Listeners: listeners,
		CoverURL:  coverURL,
		Live:      live,
	}
}

// resolveSong tries each source in priority order and stops at the
// first usable result. A source timing out or returning garbage is
// not an error, just a reason to move on.
func (p *Pipeline) resolveSong(ctx context.Context) (domain.Song, int, *domain.LiveInfo) {
	listeners := 0

	for _, source := range p.sources {
		res := source.Fetch(ctx)
		if !res.OK {
			p.metrics.SourceResults.WithLabelValues(source.Name(), metrics.OutcomeNoData).Inc()
			p.logger.Debug("source returned no data", "source", source.Name())
			continue
		}
		p.metrics.SourceResults.WithLabelValues(source.Name(), metrics.OutcomeSuccess).Inc()
		p.metrics.Resolutions.WithLabelValues(source.Name()).Inc()

		song := domain.Song{Title: res.Title, Artist: res.Artist}
		if song.Artist == "" {
			song.Artist = domain.DefaultArtist
		}
		if res.HasListeners {
			listeners = res.Listeners
		}

		p.logger.Info("resolved now playing", "source", source.Name(), "title", song.Title, "artist", song.Artist)
		return song, listeners, res.Live
	}

	p.metrics.Resolutions.WithLabelValues("default").Inc()
	p.logger.Info("all sources exhausted, using defaults")
	return domain.DefaultSong(), 0, nil
}

func (p *Pipeline) enrich(ctx context.Context, song domain.Song) string {
	if song.IsDefault() {
		p.metrics.ArtworkLookups.WithLabelValues(metrics.OutcomeSkip).Inc()
		return domain.PlaceholderCover
	}

	coverURL := p.artwork.Lookup(ctx, song)
	if coverURL == domain.PlaceholderCover {
		p.metrics.ArtworkLookups.WithLabelValues(metrics.OutcomeMiss).Inc()
	} else {
		p.metrics.ArtworkLookups.WithLabelValues(metrics.OutcomeHit).Inc()
	}
	return coverURL
}

// persistIfChanged appends a history entry when the song differs from
// the most recent one. The read-then-insert pair is deliberately not
// transactional; overlapping polls can in rare cases write a duplicate
// row, which the next correct read heals. Failures are logged and
// swallowed so persistence can never affect the returned record.
func (p *Pipeline) persistIfChanged(ctx context.Context, song domain.Song, coverURL string, listeners int) {
	if song.IsDefault() {
		return
	}

	latest, err := p.history.Latest(ctx)
	if err != nil {
		p.metrics.HistoryErrors.Inc()
		p.logger.Error("reading latest history entry failed", "err", err)
		return
	}
	if latest != nil && latest.Song().Equal(song) {
		return
	}

	entry := domain.HistoryEntry{
		ID:        p.newID(),
		Title:     song.Title,
		Artist:    song.Artist,
		CoverURL:  coverURL,
		Listeners: listeners,
		PlayedAt:  p.now().UTC(),
	}
	if err := p.history.Insert(ctx, entry); err != nil {
		p.metrics.HistoryErrors.Inc()
		p.logger.Error("inserting history entry failed", "err", err, "title", song.Title)
		return
	}

	p.metrics.HistoryInserts.Inc()
	p.logger.Info("song transition recorded", "title", song.Title, "artist", song.Artist)
}
