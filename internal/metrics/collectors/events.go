// Package collectors feeds clock events into the metrics package.
package collectors

import (
	"log/slog"
	"sync"

	"github.com/smazurov/wordclock/internal/events"
	"github.com/smazurov/wordclock/internal/logging"
	"github.com/smazurov/wordclock/internal/metrics"
)

// EventCollector turns bus events into counters and gauges.
type EventCollector struct {
	bus    *events.Bus
	logger *slog.Logger

	mu     sync.Mutex
	unsubs []func()
}

// NewEventCollector returns a collector for bus; call Start to subscribe.
func NewEventCollector(bus *events.Bus) *EventCollector {
	return &EventCollector{bus: bus, logger: logging.GetLogger("metrics")}
}

// Start subscribes to display, puzzle, mode, sync and settings events.
func (c *EventCollector) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.unsubs != nil {
		return
	}
	c.unsubs = []func(){
		c.bus.Subscribe(func(e events.DisplayUpdatedEvent) {
			// puzzle words publish with Hour -1 and are counted as results instead
			if e.Hour >= 0 {
				metrics.RecordRender(e.Layout)
			}
		}),
		c.bus.Subscribe(func(e events.PuzzleResultEvent) {
			metrics.RecordPuzzle(e.Found, e.Cost)
		}),
		c.bus.Subscribe(func(e events.ModeChangedEvent) {
			metrics.SetMode(e.Mode)
		}),
		c.bus.Subscribe(func(e events.TimeSyncChangedEvent) {
			metrics.SetSyncState(e.State)
		}),
		c.bus.Subscribe(func(e events.SettingsChangedEvent) {
			c.logger.Debug("Settings changed", "source", e.Source, "mode", e.Mode)
		}),
	}
	c.logger.Info("Metrics collector started")
}

// Stop unsubscribes from the bus.
func (c *EventCollector) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil
}
