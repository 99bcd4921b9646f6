package led

import "log/slog"

// noop stands in on hosts without a usable indicator.
type noop struct {
	logger *slog.Logger
}

func newNoop(logger *slog.Logger) *noop {
	return &noop{logger: logger}
}

func (n *noop) Set(name string, enabled bool, pattern string) error {
	if n.logger != nil {
		n.logger.Debug("Status LED not available", "led", name, "enabled", enabled, "pattern", pattern)
	}
	return nil
}

func (n *noop) Available() []string {
	return []string{}
}

func (n *noop) Patterns() []string {
	return []string{}
}
