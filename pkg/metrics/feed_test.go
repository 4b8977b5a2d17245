package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestFeedMetricsRecordsLookupsAndRefills(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewFeedMetrics(reg)

	m.ObserveCacheLookup(CacheHit)
	m.ObserveCacheLookup(CacheHit)
	m.ObserveCacheLookup(CacheMiss)
	m.IncRefill()
	m.ObserveCandidatePool(42)
	m.IncEvent("view")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "storefeed_feed_cache_lookups_total", "result", CacheHit); err != nil || got != 2 {
		t.Fatalf("expected 2 hits, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "storefeed_feed_cache_lookups_total", "result", CacheMiss); err != nil || got != 1 {
		t.Fatalf("expected 1 miss, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "storefeed_events_recorded_total", "type", "view"); err != nil || got != 1 {
		t.Fatalf("expected 1 view event, got %f (%v)", got, err)
	}

	refills := findMetricFamily(mfs, "storefeed_feed_refills_total")
	if refills == nil || refills.GetMetric()[0].GetCounter().GetValue() != 1 {
		t.Fatalf("expected refills=1")
	}
	bans := findMetricFamily(mfs, "storefeed_feed_product_bans_total")
	if bans == nil || bans.GetMetric()[0].GetCounter().GetValue() != 42 {
		t.Fatalf("expected bans=42")
	}
}

func TestNilFeedMetricsIsNoop(t *testing.T) {
	var m *FeedMetrics
	m.ObserveCacheLookup(CacheHit)
	m.IncRefill()
	m.ObserveCandidatePool(1)

	NewFeedMetrics(nil).IncEvent("view")
}

func TestFeedMetricsLabelsEmptyValuesUnknown(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewFeedMetrics(reg)

	m.ObserveCacheLookup("")
	m.IncEvent("")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "storefeed_feed_cache_lookups_total", "result", "unknown"); err != nil || got != 1 {
		t.Fatalf("expected 1 unknown lookup, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "storefeed_events_recorded_total", "type", "unknown"); err != nil || got != 1 {
		t.Fatalf("expected 1 unknown event, got %f (%v)", got, err)
	}
}
