package led

import (
	"log/slog"
	"sync"

	"github.com/smazurov/wordclock/internal/events"
	"github.com/smazurov/wordclock/internal/timesource"
)

// Manager mirrors clock sync state on the status LED: dark while waiting for
// the network, blinking while syncing and solid once the clock is locked.
type Manager struct {
	controller  Controller
	eventBus    *events.Bus
	logger      *slog.Logger
	unsubscribe func()

	mu   sync.Mutex
	last string
}

// NewManager creates a manager; call Start to begin following sync events.
func NewManager(controller Controller, eventBus *events.Bus, logger *slog.Logger) *Manager {
	return &Manager{
		controller: controller,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Start subscribes to TimeSyncChangedEvent.
func (m *Manager) Start() {
	m.unsubscribe = m.eventBus.Subscribe(func(e events.TimeSyncChangedEvent) {
		m.handleEvent(e)
	})
	m.logger.Info("Status LED manager started")
}

// Stop unsubscribes and switches the LED off.
func (m *Manager) Stop() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	if err := m.controller.Set(StatusLED, false, PatternOff); err != nil {
		m.logger.Warn("Failed to switch status LED off", "error", err)
	}
	m.logger.Info("Status LED manager stopped")
}

// Controller returns the wrapped controller.
func (m *Manager) Controller() Controller {
	return m.controller
}

func (m *Manager) handleEvent(e events.TimeSyncChangedEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.State == m.last {
		return
	}
	m.last = e.State

	enabled, pattern := patternFor(e.State)
	m.logger.Debug("Time sync state changed", "state", e.State, "pattern", pattern)
	if err := m.controller.Set(StatusLED, enabled, pattern); err != nil {
		m.logger.Warn("Failed to set status LED", "state", e.State, "error", err)
	}
}

func patternFor(state string) (bool, string) {
	switch state {
	case timesource.Synced.String():
		return true, PatternSolid
	case timesource.Syncing.String():
		return true, PatternBlink
	default:
		return false, PatternOff
	}
}
