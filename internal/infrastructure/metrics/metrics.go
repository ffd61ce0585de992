// ABOUTME: Prometheus collectors for the now-playing pipeline
// ABOUTME: Tracks per-source outcomes, artwork lookups, and history writes
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "stuvion"

type Pipeline struct {
	SourceResults  *prometheus.CounterVec
	ArtworkLookups *prometheus.CounterVec
	HistoryInserts prometheus.Counter
	HistoryErrors  prometheus.Counter
	Resolutions    *prometheus.CounterVec
}

// New registers the pipeline collectors with the given registerer.
func New(reg prometheus.Registerer) *Pipeline {
	factory := promauto.With(reg)

	return &Pipeline{
		SourceResults: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_results_total",
			Help:      "Adapter fetch outcomes per upstream source.",
		}, []string{"source", "outcome"}),
		ArtworkLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "artwork_lookups_total",
			Help:      "Cover art lookup outcomes.",
		}, []string{"outcome"}),
		HistoryInserts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_inserts_total",
			Help:      "Song transitions persisted to the history store.",
		}),
		HistoryErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_errors_total",
			Help:      "Swallowed history read/write failures.",
		}),
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Pipeline resolutions by winning source, or 'default' on exhaustion.",
		}, []string{"source"}),
	}
}

// Outcome labels for SourceResults and ArtworkLookups.
const (
	OutcomeSuccess = "success"
	OutcomeNoData  = "no_data"
	OutcomeHit     = "hit"
	OutcomeMiss    = "miss"
	OutcomeSkip    = "skip"
)
