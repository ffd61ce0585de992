// ABOUTME: Optional background poller running the pipeline on an interval
// ABOUTME: A single writer serializes history inserts; HTTP reads serve the cache
package poller

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/SteKarstens/stuvion-radio-player/internal/domain"
)

// Resolver is the pipeline surface the poller needs.
type Resolver interface {
	Resolve(ctx context.Context) domain.NowPlaying
}

// Poller drives the pipeline from one server-side loop instead of
// per-request. That removes the read-then-insert race on the history
// store, since only this goroutine ever resolves.
type Poller struct {
	resolver Resolver
	interval time.Duration
	logger   *slog.Logger

	current atomic.Pointer[domain.NowPlaying]
}

func New(resolver Resolver, interval time.Duration, logger *slog.Logger) *Poller {
	return &Poller{
		resolver: resolver,
		interval: interval,
		logger:   logger.With("component", "poller"),
	}
}

// Run polls until the context is cancelled. It resolves once up front
// so the cache is warm before the first tick.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("poller started", "interval", p.interval)
	defer p.logger.Info("poller stopped")

	p.update(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.update(ctx)
		}
	}
}

func (p *Poller) update(ctx context.Context) {
	record := p.resolver.Resolve(ctx)
	p.current.Store(&record)
}

// Current returns the last resolved record, or the sentinel default
// before the first resolution completes.
func (p *Poller) Current() domain.NowPlaying {
	if record := p.current.Load(); record != nil {
		return *record
	}
	return domain.DefaultNowPlaying()
}
