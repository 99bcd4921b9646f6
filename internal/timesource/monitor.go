package timesource

import (
	"context"
	"log/slog"
	"time"

	"github.com/smazurov/wordclock/internal/logging"
)

// Poll intervals mirror how often an NTP client retries while unsynced and
// how rarely it needs checking once locked.
const (
	DefaultSyncingInterval = 20 * time.Second
	DefaultSyncedInterval  = 5 * time.Minute
)

// Monitor polls a System's sync state and reports transitions.
type Monitor struct {
	source   *System
	logger   *slog.Logger
	onChange func(SyncState)
	syncing  time.Duration
	synced   time.Duration
}

// NewMonitor returns a monitor calling onChange on every state transition,
// including the first check.
func NewMonitor(source *System, onChange func(SyncState)) *Monitor {
	return &Monitor{
		source:   source,
		logger:   logging.GetLogger("time"),
		onChange: onChange,
		syncing:  DefaultSyncingInterval,
		synced:   DefaultSyncedInterval,
	}
}

// Run polls until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	last := Waiting
	if m.onChange != nil {
		m.onChange(last)
	}
	for {
		state, err := m.source.Check()
		if err != nil {
			m.logger.Warn("Failed to query clock sync state", "error", err)
		} else if state != last {
			m.logger.Info("Clock sync state changed", "from", last, "to", state)
			last = state
			if m.onChange != nil {
				m.onChange(state)
			}
		}

		wait := m.syncing
		if last == Synced {
			wait = m.synced
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}
