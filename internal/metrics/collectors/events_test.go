package collectors

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/smazurov/wordclock/internal/events"
)

// gather reads a single series from the default registry.
func gather(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue next
				}
			}
			switch {
			case m.GetCounter() != nil:
				return m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				return m.GetGauge().GetValue()
			}
		}
	}
	return 0
}

func TestEventCollector(t *testing.T) {
	bus := events.New()
	c := NewEventCollector(bus)
	c.Start()
	defer c.Stop()

	renders := gather(t, "wordclock_face_renders_total", map[string]string{"layout": "lithuanian"})
	misses := gather(t, "wordclock_puzzle_results_total", map[string]string{"found": "false"})

	bus.Publish(events.DisplayUpdatedEvent{Layout: "lithuanian", Hour: 7, Minute: 20})
	bus.Publish(events.DisplayUpdatedEvent{Layout: "lithuanian", Hour: -1, Minute: -1})
	bus.Publish(events.PuzzleResultEvent{Word: "QQ", Found: false})
	bus.Publish(events.ModeChangedEvent{Mode: "PUZZLE_MODE", Previous: "REAL_TIME"})
	bus.Publish(events.TimeSyncChangedEvent{State: "syncing"})
	time.Sleep(50 * time.Millisecond)

	if got := gather(t, "wordclock_face_renders_total", map[string]string{"layout": "lithuanian"}) - renders; got != 1 {
		t.Errorf("renders grew by %v, want 1 (puzzle updates are not renders)", got)
	}
	if got := gather(t, "wordclock_puzzle_results_total", map[string]string{"found": "false"}) - misses; got != 1 {
		t.Errorf("misses grew by %v, want 1", got)
	}
	if got := gather(t, "wordclock_display_mode", map[string]string{"mode": "PUZZLE_MODE"}); got != 1 {
		t.Errorf("mode{PUZZLE_MODE} = %v, want 1", got)
	}
	if got := gather(t, "wordclock_time_sync_state", map[string]string{"state": "syncing"}); got != 1 {
		t.Errorf("sync_state{syncing} = %v, want 1", got)
	}
}

func TestEventCollectorStop(t *testing.T) {
	bus := events.New()
	c := NewEventCollector(bus)
	c.Start()
	c.Start()
	c.Stop()

	before := gather(t, "wordclock_face_renders_total", map[string]string{"layout": "french"})
	bus.Publish(events.DisplayUpdatedEvent{Layout: "french", Hour: 1})
	time.Sleep(50 * time.Millisecond)

	if got := gather(t, "wordclock_face_renders_total", map[string]string{"layout": "french"}); got != before {
		t.Errorf("renders changed after Stop: %v -> %v", before, got)
	}
}
