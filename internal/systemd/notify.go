// Package systemd reports service state to systemd over the notify socket.
package systemd

import (
	"log/slog"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
)

// Notifier sends READY, STOPPING, STATUS and WATCHDOG messages. Outside
// systemd every call is a cheap no-op.
type Notifier struct {
	logger   *slog.Logger
	notify   func(unsetEnvironment bool, state string) (bool, error)
	interval time.Duration

	mu   sync.Mutex
	last time.Time
}

// NewNotifier reads WATCHDOG_USEC and pings at half the configured timeout.
func NewNotifier(logger *slog.Logger) *Notifier {
	n := &Notifier{logger: logger, notify: daemon.SdNotify}
	timeout, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		logger.Warn("Invalid systemd watchdog settings", "error", err)
	}
	if timeout > 0 {
		n.interval = timeout / 2
		logger.Info("Systemd watchdog enabled", "timeout", timeout)
	}
	return n
}

// WatchdogEnabled reports whether Watchdog will send anything.
func (n *Notifier) WatchdogEnabled() bool {
	return n.interval > 0
}

// Ready tells systemd startup finished.
func (n *Notifier) Ready() {
	n.send(daemon.SdNotifyReady)
}

// Stopping tells systemd shutdown began.
func (n *Notifier) Stopping() {
	n.send(daemon.SdNotifyStopping)
}

// Status sets the free-form status line shown by systemctl status.
func (n *Notifier) Status(msg string) {
	n.send("STATUS=" + msg)
}

// Watchdog pings the watchdog at most once per interval. The display loop
// calls it every tick so a stalled loop lets the watchdog fire.
func (n *Notifier) Watchdog(now time.Time) {
	if n.interval <= 0 {
		return
	}
	n.mu.Lock()
	due := n.last.IsZero() || now.Sub(n.last) >= n.interval
	if due {
		n.last = now
	}
	n.mu.Unlock()
	if due {
		n.send(daemon.SdNotifyWatchdog)
	}
}

func (n *Notifier) send(state string) {
	sent, err := n.notify(false, state)
	if err != nil {
		n.logger.Warn("Failed to notify systemd", "state", state, "error", err)
		return
	}
	if sent {
		n.logger.Debug("Notified systemd", "state", state)
	}
}
