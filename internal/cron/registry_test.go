package cron

import (
	"context"
	"testing"
)

type stubJob struct {
	name string
}

func (s *stubJob) Name() string              { return s.name }
func (s *stubJob) Run(context.Context) error { return nil }

func TestRegistryKeepsRegistrationOrder(t *testing.T) {
	registry := NewRegistry()
	recalc := &stubJob{name: PopularityRecalcJobName}
	other := &stubJob{name: "ban-sweep"}
	if err := registry.Register(recalc); err != nil {
		t.Fatalf("register recalc: %v", err)
	}
	if err := registry.Register(other); err != nil {
		t.Fatalf("register other: %v", err)
	}

	jobs := registry.Jobs()
	if len(jobs) != 2 || jobs[0] != recalc || jobs[1] != other {
		t.Fatalf("unexpected jobs %v", jobs)
	}
	jobs[0] = nil
	if registry.Jobs()[0] == nil {
		t.Fatal("Jobs must return a copy")
	}
}

func TestRegistryRejectsInvalidJobs(t *testing.T) {
	registry := NewRegistry(&stubJob{name: "a"}, nil, &stubJob{name: "a"})
	if got := len(registry.Jobs()); got != 1 {
		t.Fatalf("expected duplicate and nil skipped, got %d jobs", got)
	}
	if err := registry.Register(&stubJob{name: "a"}); err == nil {
		t.Fatal("expected duplicate name error")
	}
	if err := registry.Register(&stubJob{}); err == nil {
		t.Fatal("expected unnamed job error")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatal("expected nil job error")
	}
}

func TestZeroRegistryAcceptsJobs(t *testing.T) {
	var registry Registry
	if err := registry.Register(&stubJob{name: "a"}); err != nil {
		t.Fatalf("register on zero registry: %v", err)
	}
	if len(registry.Jobs()) != 1 {
		t.Fatal("expected job to be stored")
	}
}
