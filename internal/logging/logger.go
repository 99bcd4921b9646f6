package logging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
)

const (
	defaultHistory    = 500
	journalIdentifier = "wordclock"
)

// ErrUnknownLevel is returned for a level name other than debug, info, warn or error.
var ErrUnknownLevel = errors.New("unknown log level")

// Config selects the global level, output format and per-module overrides.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"`
	Modules map[string]string `toml:"modules"`
}

type registry struct {
	mu      sync.RWMutex
	cfg     Config
	ready   bool
	loggers map[string]*slog.Logger
	levels  map[string]*slog.LevelVar
	global  slog.LevelVar
	history *RingBuffer
	onEntry LogCallback
}

var reg = newRegistry()

func newRegistry() *registry {
	return &registry{
		loggers: make(map[string]*slog.Logger),
		levels:  make(map[string]*slog.LevelVar),
		history: NewRingBuffer(defaultHistory),
	}
}

// Initialize applies cfg to every logger, including ones handed out earlier.
func Initialize(cfg Config) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	reg.cfg = cfg
	reg.ready = true
	reg.global.Set(levelOr(cfg.Level, slog.LevelInfo))

	// loggers created before Initialize were built with the default format
	for module, lv := range reg.levels {
		lv.Set(reg.moduleLevel(module))
		reg.loggers[module] = slog.New(reg.handler(lv)).With("module", module)
	}
	slog.SetDefault(slog.New(reg.handler(&reg.global)))
}

// GetLogger returns the logger for module, creating it on first use.
func GetLogger(module string) *slog.Logger {
	reg.mu.RLock()
	logger, ok := reg.loggers[module]
	reg.mu.RUnlock()
	if ok {
		return logger
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if logger, ok := reg.loggers[module]; ok {
		return logger
	}

	lv := &slog.LevelVar{}
	lv.Set(reg.moduleLevel(module))
	logger = slog.New(reg.handler(lv)).With("module", module)
	reg.loggers[module] = logger
	reg.levels[module] = lv
	return logger
}

// SetModuleLevel changes one module's level without rebuilding its logger.
func SetModuleLevel(module, level string) error {
	parsed, ok := parseLevel(level)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLevel, level)
	}
	GetLogger(module)

	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.levels[module].Set(parsed)
	if reg.cfg.Modules == nil {
		reg.cfg.Modules = make(map[string]string)
	}
	reg.cfg.Modules[module] = strings.ToLower(level)
	return nil
}

// ModuleLevels reports the effective level of every module seen so far.
func ModuleLevels() map[string]string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make(map[string]string, len(reg.levels))
	for module, lv := range reg.levels {
		out[module] = levelName(lv.Level())
	}
	return out
}

// History returns the buffer of recent records.
func History() *RingBuffer {
	return reg.history
}

// SetLogCallback registers fn to receive every record after it is buffered.
func SetLogCallback(fn LogCallback) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.onEntry = fn
}

func (r *registry) callback() LogCallback {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.onEntry
}

// moduleLevel must be called with mu held.
func (r *registry) moduleLevel(module string) slog.Level {
	if !r.ready {
		return slog.LevelInfo
	}
	level := levelOr(r.cfg.Level, slog.LevelInfo)
	if override, ok := r.cfg.Modules[module]; ok {
		level = levelOr(override, level)
	}
	return level
}

// handler must be called with mu held.
func (r *registry) handler(level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	format := "text"
	if r.ready {
		format = r.cfg.Format
	}

	var handlers []slog.Handler
	if stdoutAttached() {
		if format == "json" {
			handlers = append(handlers, slog.NewJSONHandler(os.Stdout, opts))
		} else {
			handlers = append(handlers, slog.NewTextHandler(os.Stdout, opts))
		}
	}
	if JournalAvailable() {
		handlers = append(handlers, NewJournalHandler(level))
	}
	handlers = append(handlers, newHistoryHandler(r, level))

	if len(handlers) == 1 {
		return handlers[0]
	}
	return NewMultiHandler(handlers...)
}

// stdoutAttached is false when stdout is /dev/null or closed, as under systemd
// with StandardOutput=null.
func stdoutAttached() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	mode := fi.Mode()
	return mode&(os.ModeCharDevice|os.ModeNamedPipe|os.ModeSocket) != 0 || mode.IsRegular()
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return 0, false
}

func levelOr(s string, fallback slog.Level) slog.Level {
	if l, ok := parseLevel(s); ok {
		return l
	}
	return fallback
}

func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "error"
	case l >= slog.LevelWarn:
		return "warn"
	case l >= slog.LevelInfo:
		return "info"
	}
	return "debug"
}
