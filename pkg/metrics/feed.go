package metrics

import "github.com/prometheus/client_golang/prometheus"

// Cache lookup outcomes.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// FeedMetrics instruments the candidate pipeline.
type FeedMetrics struct {
	cacheLookups *prometheus.CounterVec
	refills      prometheus.Counter
	poolSize     prometheus.Histogram
	bans         prometheus.Counter
	events       *prometheus.CounterVec
}

// NewFeedMetrics registers the feed metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewFeedMetrics(reg prometheus.Registerer) *FeedMetrics {
	if reg == nil {
		return &FeedMetrics{}
	}
	m := &FeedMetrics{
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "cache_lookups_total",
			Help:      "Candidate cache lookups by outcome.",
		}, []string{"result"}),
		refills: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "refills_total",
			Help:      "Pages that exhausted the cached list and triggered a recompute.",
		}),
		poolSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "candidate_pool_size",
			Help:      "Number of candidates produced by a fresh computation.",
			Buckets:   []float64{0, 10, 50, 100, 250, 500},
		}),
		bans: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "product_bans_total",
			Help:      "Product ids suppressed for a visitor after being fetched.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "recorded_total",
			Help:      "Engagement events recorded by type.",
		}, []string{"type"}),
	}
	reg.MustRegister(m.cacheLookups, m.refills, m.poolSize, m.bans, m.events)
	return m
}

func (m *FeedMetrics) ObserveCacheLookup(result string) {
	if m == nil || m.cacheLookups == nil {
		return
	}
	m.cacheLookups.WithLabelValues(labelOrUnknown(result)).Inc()
}

func (m *FeedMetrics) IncRefill() {
	if m == nil || m.refills == nil {
		return
	}
	m.refills.Inc()
}

// ObserveCandidatePool records the pool size and the number of bans written for it.
func (m *FeedMetrics) ObserveCandidatePool(size int) {
	if m == nil || m.poolSize == nil {
		return
	}
	m.poolSize.Observe(float64(size))
	m.bans.Add(float64(size))
}

func (m *FeedMetrics) IncEvent(eventType string) {
	if m == nil || m.events == nil {
		return
	}
	m.events.WithLabelValues(labelOrUnknown(eventType)).Inc()
}
