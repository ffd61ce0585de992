// ABOUTME: HTTP handlers for the player-facing polling API
// ABOUTME: Implements now-playing, history, station, health, and metrics routes
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SteKarstens/stuvion-radio-player/internal/domain"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// StationInfo is the static station data exposed to the player UI.
type StationInfo struct {
	Name      string `json:"name"`
	StreamURL string `json:"stream_url"`
}

// Handlers serves the polling API. The nowPlaying function is either
// the pipeline itself (per-request resolution) or the background
// poller's cached read; handlers do not care which.
type Handlers struct {
	nowPlaying func(ctx context.Context) domain.NowPlaying
	history    domain.HistoryRepository
	station    StationInfo
	logger     *slog.Logger
}

func NewHandlers(nowPlaying func(ctx context.Context) domain.NowPlaying, history domain.HistoryRepository, station StationInfo, logger *slog.Logger) *Handlers {
	return &Handlers{
		nowPlaying: nowPlaying,
		history:    history,
		station:    station,
		logger:     logger.With("component", "http"),
	}
}

// NewRouter wires the echo router. The registry carries the pipeline
// collectors and is exposed on /metrics.
func NewRouter(h *Handlers, registry *prometheus.Registry) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "method=${method}, uri=${uri}, status=${status}\n",
	}))

	api := e.Group("/api")
	api.GET("/now_playing", h.NowPlaying)
	api.GET("/history", h.History)
	api.GET("/station", h.Station)
	api.GET("/health", h.Health)

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return e
}

// NowPlaying always answers 200 with a complete record. Degraded
// upstreams surface as the sentinel defaults, never as error statuses,
// so the UI has no transport-failure case to handle.
func (h *Handlers) NowPlaying(c echo.Context) error {
	return c.JSON(http.StatusOK, h.nowPlaying(c.Request().Context()))
}

// History returns the most recent song transitions, newest first.
// Store failures degrade to an empty list rather than an error status,
// matching the pipeline's never-fail-outward contract.
func (h *Handlers) History(c echo.Context) error {
	limit := defaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	entries, err := h.history.Recent(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("reading history failed", "err", err)
		entries = []domain.HistoryEntry{}
	}

	return c.JSON(http.StatusOK, echo.Map{"entries": entries})
}

func (h *Handlers) Station(c echo.Context) error {
	return c.JSON(http.StatusOK, h.station)
}

func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
