// Package logging hands out per-module slog loggers for the clock.
//
// Records go to stdout (text or JSON) when stdout is attached, to the systemd
// journal under the identifier "wordclock" when journald is running, and
// always to an in-memory history served by the HTTP API.
//
//	logging.Initialize(logging.Config{
//		Level:   "info",
//		Format:  "text",
//		Modules: map[string]string{"display": "debug"},
//	})
//	logger := logging.GetLogger("display")
//
// Module levels can be changed at runtime with SetModuleLevel.
//
// In TOML:
//
//	[logging]
//	level = "info"
//	format = "text"
//
//	[logging.modules]
//	puzzle = "debug"
//	mqtt = "warn"
//
// Journal fields are upper-cased attribute keys, so
//
//	journalctl -t wordclock MODULE=display
//
// filters one module.
package logging
