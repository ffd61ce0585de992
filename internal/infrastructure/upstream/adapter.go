// ABOUTME: HTTP source adapters wrapping the pure parsers
// ABOUTME: One bounded GET per fetch; every failure maps to NoData
package upstream

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/SteKarstens/stuvion-radio-player/internal/domain"
)

// Source kinds accepted in configuration. Priority order is whatever
// order the config lists them in.
const (
	KindShoutcastTitle = "shoutcast_title"
	KindShoutcastStats = "shoutcast_stats"
	KindAzuraCast      = "azuracast"
)

const (
	defaultTimeout   = 5 * time.Second
	azuracastTimeout = 8 * time.Second

	maxBodyBytes = 64 * 1024
)

type Config struct {
	Kind    string
	URL     string
	Timeout time.Duration
}

// Adapter is a single upstream metadata source. The wire format is
// handled entirely by the parse function; the adapter only does the
// bounded HTTP round trip.
type Adapter struct {
	cfg    Config
	client *http.Client
	parse  func([]byte) domain.AdapterResult
	accept string
	logger *slog.Logger
}

// New builds an adapter for the given source kind. Unknown kinds are
// a configuration error, the only error path adapters have.
func New(cfg Config, logger *slog.Logger) (*Adapter, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
		if cfg.Kind == KindAzuraCast {
			cfg.Timeout = azuracastTimeout
		}
	}

	a := &Adapter{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.With("source", cfg.Kind),
	}

	switch cfg.Kind {
	case KindShoutcastTitle:
		a.parse = func(body []byte) domain.AdapterResult {
			return ParseStreamTitle(string(body))
		}
	case KindShoutcastStats:
		a.parse = func(body []byte) domain.AdapterResult {
			return ParseStatsCSV(string(body))
		}
	case KindAzuraCast:
		a.parse = ParseAzuraCast
		a.accept = "application/json"
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}

	return a, nil
}

func (a *Adapter) Name() string {
	return a.cfg.Kind
}

// Fetch performs one GET against the configured URL. Transport
// errors, non-2xx statuses, and unparseable payloads all come back
// as NoData; nothing escapes as an error.
func (a *Adapter) Fetch(ctx context.Context) domain.AdapterResult {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.URL, nil)
	if err != nil {
		a.logger.Warn("building request failed", "err", err)
		return domain.NoData()
	}
	req.Header.Set("Cache-Control", "no-store")
	if a.accept != "" {
		req.Header.Set("Accept", a.accept)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Debug("fetch failed", "err", err)
		return domain.NoData()
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		a.logger.Debug("unexpected status", "status", resp.StatusCode)
		return domain.NoData()
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		a.logger.Debug("reading body failed", "err", err)
		return domain.NoData()
	}

	return a.parse(body)
}
