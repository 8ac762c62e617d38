package health

import (
	"context"
	"testing"
)

func TestCheckAllEmpty(t *testing.T) {
	r := NewRegistry()
	healthy, statuses := r.CheckAll(context.Background())
	if !healthy {
		t.Error("empty registry should be healthy")
	}
	if len(statuses) != 0 {
		t.Errorf("expected no statuses, got %v", statuses)
	}
}

func TestCheckAllAggregates(t *testing.T) {
	r := NewRegistry()
	r.Register("up", func(ctx context.Context) Status {
		return Status{Name: "up", Healthy: true}
	})
	r.Register("down", func(ctx context.Context) Status {
		return Status{Name: "down", Healthy: false, Detail: "broken"}
	})

	healthy, statuses := r.CheckAll(context.Background())
	if healthy {
		t.Error("one failing checker should mark the aggregate unhealthy")
	}
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if statuses[0].Name != "up" || !statuses[0].Healthy {
		t.Errorf("unexpected first status: %+v", statuses[0])
	}
	if statuses[1].Detail != "broken" {
		t.Errorf("unexpected second status: %+v", statuses[1])
	}
}

func TestDatasetChecker(t *testing.T) {
	n := 0
	check := DatasetChecker(func() int { return n })

	if s := check(context.Background()); s.Healthy {
		t.Error("empty dataset should be unhealthy")
	}

	n = 42
	s := check(context.Background())
	if !s.Healthy {
		t.Error("loaded dataset should be healthy")
	}
	if s.Detail != "42 transactions" {
		t.Errorf("unexpected detail: %q", s.Detail)
	}
}
