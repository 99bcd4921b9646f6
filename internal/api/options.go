package api

import (
	"net/http"

	"github.com/smazurov/wordclock/internal/color"
	"github.com/smazurov/wordclock/internal/events"
	"github.com/smazurov/wordclock/internal/led"
	"github.com/smazurov/wordclock/internal/settings"
)

// Options wires the API to the running clock. Frame, MetricsHandler and
// StatusLED are optional.
type Options struct {
	AuthUsername string
	AuthPassword string

	// Layout is the faceplate the display is running.
	Layout   string
	Store    *settings.Store
	EventBus *events.Bus

	// Frame returns the last frame shown on the strip.
	Frame func() []color.RGB

	MetricsHandler http.Handler
	StatusLED      led.Controller
}
