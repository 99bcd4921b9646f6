// Package brightness dims the configured colour according to ambient light.
package brightness

import (
	"log/slog"
	"math"
	"time"

	"github.com/smazurov/wordclock/internal/color"
	"github.com/smazurov/wordclock/internal/logging"
)

const (
	// minFactor keeps letters readable in a dark room.
	minFactor = 0.08
	// steps quantises the dimming factor so sensor noise does not trigger
	// re-blends.
	steps = 64
	// smoothing is the weight of a new sensor reading.
	smoothing = 0.2
	// DefaultInterval is how often the sensor is sampled.
	DefaultInterval = 250 * time.Millisecond
)

// Sensor reports ambient light normalised to [0, 1].
type Sensor interface {
	Read() (float64, error)
}

// Controller turns the configured colour into the colour actually shown.
// It is driven from the display tick and is not safe for concurrent use.
type Controller struct {
	sensor      Sensor
	logger      *slog.Logger
	now         func() time.Time
	interval    time.Duration
	color       color.RGB
	sensitivity int
	ambient     float64
	factor      float64
	corrected   color.RGB
	changed     bool
	lastSample  time.Time
	sampled     bool
	failing     bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithInterval sets the sensor sampling interval.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) { c.interval = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New returns a controller reading sensor. A nil sensor means full
// brightness.
func New(sensor Sensor, logger *slog.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = logging.GetLogger("brightness")
	}
	c := &Controller{
		sensor:      sensor,
		logger:      logger,
		now:         time.Now,
		interval:    DefaultInterval,
		color:       color.Warm,
		sensitivity: 5,
		ambient:     1,
		factor:      1,
		corrected:   color.Warm,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetColor sets the base colour.
func (c *Controller) SetColor(rgb color.RGB) {
	if rgb == c.color {
		return
	}
	c.color = rgb
	c.recompute()
}

// SetSensitivity sets how strongly darkness dims the colour; 0 disables
// dimming, 10 dims the most.
func (c *Controller) SetSensitivity(v int) {
	v = max(0, min(10, v))
	if v == c.sensitivity {
		return
	}
	c.sensitivity = v
	c.recompute()
}

// Update samples the sensor when the interval has elapsed.
func (c *Controller) Update() {
	if c.sensor == nil {
		return
	}
	now := c.now()
	if c.sampled && now.Sub(c.lastSample) < c.interval {
		return
	}
	c.lastSample = now
	level, err := c.sensor.Read()
	if err != nil {
		if !c.failing {
			c.logger.Warn("Failed to read light sensor", "error", err)
			c.failing = true
		}
		return
	}
	if c.failing {
		c.logger.Info("Light sensor readable again")
		c.failing = false
	}
	level = max(0, min(1, level))
	if !c.sampled {
		c.ambient = level
		c.sampled = true
	} else {
		c.ambient += (level - c.ambient) * smoothing
	}
	c.recompute()
}

// CorrectedColor returns the base colour scaled for the ambient light.
func (c *Controller) CorrectedColor() color.RGB {
	return c.corrected
}

// Correct scales an arbitrary colour by the current dimming factor.
func (c *Controller) Correct(rgb color.RGB) color.RGB {
	return rgb.Scale(c.factor)
}

// Factor returns the current dimming factor in [minFactor, 1].
func (c *Controller) Factor() float64 {
	return c.factor
}

// HasChanged reports, once, that the corrected colour moved since the last
// call.
func (c *Controller) HasChanged() bool {
	changed := c.changed
	c.changed = false
	return changed
}

func (c *Controller) recompute() {
	dim := float64(c.sensitivity) / 10 * (1 - c.ambient)
	factor := math.Round((1-dim)*steps) / steps
	factor = max(minFactor, min(1, factor))
	c.factor = factor
	corrected := c.color.Scale(factor)
	if corrected != c.corrected {
		c.corrected = corrected
		c.changed = true
	}
}
