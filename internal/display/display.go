// Package display runs the clock face: it pulls the time, settings and
// puzzle words once per tick and drives LED fades for the active mode.
// Nothing here blocks; every wait compares against the tick's timestamp.
package display

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/smazurov/wordclock/internal/animation"
	"github.com/smazurov/wordclock/internal/board"
	"github.com/smazurov/wordclock/internal/color"
	"github.com/smazurov/wordclock/internal/events"
	"github.com/smazurov/wordclock/internal/face"
	"github.com/smazurov/wordclock/internal/logging"
	"github.com/smazurov/wordclock/internal/puzzle"
	"github.com/smazurov/wordclock/internal/settings"
)

// Fade timings.
const (
	TimeChangeDuration = 3 * time.Second
	BrightnessDuration = 300 * time.Millisecond
)

// ErrShortStrip is returned when the strip has fewer LEDs than the board.
var ErrShortStrip = errors.New("strip shorter than board")

// TimeSource reports the wall-clock time to show.
type TimeSource interface {
	Now() (hour, minute, second int, err error)
}

// Strip is the LED bus.
type Strip interface {
	SetPixel(i int, c color.RGB)
	Pixel(i int) color.RGB
	Show() error
	Len() int
}

// Brightness corrects colours for ambient light.
type Brightness interface {
	SetColor(c color.RGB)
	SetSensitivity(v int)
	Update()
	CorrectedColor() color.RGB
	Correct(c color.RGB) color.RGB
	HasChanged() bool
}

// LineSource yields puzzle words without blocking.
type LineSource interface {
	Line() (string, bool)
}

// SettingsSource is read at the start of every tick.
type SettingsSource interface {
	Snapshot() settings.Settings
	TakeWord() (string, bool)
}

// Solver places puzzle words.
type Solver interface {
	Find(sequence string) (puzzle.Solution, bool)
}

// Publisher receives display events.
type Publisher interface {
	Publish(ev events.Event)
}

// Config wires a Display to its collaborators. Lines, Bus, Rand and Logger
// are optional.
type Config struct {
	Renderer   face.Renderer
	Solver     Solver
	Strip      Strip
	Brightness Brightness
	Clock      TimeSource
	Settings   SettingsSource
	Lines      LineSource
	Bus        Publisher
	Rand       *rand.Rand
	Logger     *slog.Logger
}

// Display owns the animator and the per-mode state. It must only be used
// from the tick goroutine.
type Display struct {
	renderer face.Renderer
	board    *board.Board
	solver   Solver
	strip    Strip
	bright   Brightness
	clock    TimeSource
	settings SettingsSource
	lines    LineSource
	bus      Publisher
	rng      *rand.Rand
	logger   *slog.Logger

	anim     *animation.Animator
	now      time.Duration
	cur      settings.Settings
	started  bool
	dirty    bool
	clockErr bool
	showErr  bool

	colorTest colorTestState
	puzzle    puzzleState
	hue       uint8
}

// New validates cfg and returns a display. The first Tick applies the
// settings and enters their mode.
func New(cfg Config) (*Display, error) {
	switch {
	case cfg.Renderer == nil:
		return nil, errors.New("display: renderer is required")
	case cfg.Solver == nil:
		return nil, errors.New("display: solver is required")
	case cfg.Strip == nil:
		return nil, errors.New("display: strip is required")
	case cfg.Brightness == nil:
		return nil, errors.New("display: brightness is required")
	case cfg.Clock == nil:
		return nil, errors.New("display: time source is required")
	case cfg.Settings == nil:
		return nil, errors.New("display: settings are required")
	}
	if n := cfg.Strip.Len(); n < board.PixelCount {
		return nil, fmt.Errorf("%w: %d leds, need %d", ErrShortStrip, n, board.PixelCount)
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger("display")
	}
	return &Display{
		renderer: cfg.Renderer,
		board:    cfg.Renderer.Board(),
		solver:   cfg.Solver,
		strip:    cfg.Strip,
		bright:   cfg.Brightness,
		clock:    cfg.Clock,
		settings: cfg.Settings,
		lines:    cfg.Lines,
		bus:      cfg.Bus,
		rng:      cfg.Rand,
		logger:   cfg.Logger,
		anim:     animation.New(board.PixelCount),
	}, nil
}

// Mode returns the mode applied by the last tick.
func (d *Display) Mode() settings.Mode {
	return d.cur.Mode
}

// Tick advances the display to now, an offset on a monotonic clock.
func (d *Display) Tick(now time.Duration) {
	d.now = now
	d.applySettings()

	switch d.cur.Mode {
	case settings.ColorTest:
		d.colorTestTick()
	case settings.Puzzle:
		d.puzzleTick()
	default:
		d.realTimeTick()
	}

	d.flush()
}

// Blank switches every LED off immediately.
func (d *Display) Blank() error {
	d.anim.StopAll()
	for i := 0; i < d.strip.Len(); i++ {
		d.strip.SetPixel(i, color.Black)
	}
	return d.strip.Show()
}

func (d *Display) applySettings() {
	next := d.settings.Snapshot()
	if !d.started {
		d.started = true
		d.cur = next
		d.bright.SetColor(next.Color)
		d.bright.SetSensitivity(next.Sensitivity)
		d.board.SetOrientation(next.SensorPosition)
		d.enter(next.Mode)
		d.logger.Info("Display started", "layout", d.renderer.Name(), "mode", next.Mode)
		return
	}

	if next.Color != d.cur.Color {
		d.bright.SetColor(next.Color)
	}
	if next.Sensitivity != d.cur.Sensitivity {
		d.bright.SetSensitivity(next.Sensitivity)
	}
	if next.SensorPosition != d.cur.SensorPosition {
		d.board.SetOrientation(next.SensorPosition)
		d.renderer.Reset()
		d.logger.Info("Sensor position changed", "position", next.SensorPosition)
	}
	prev := d.cur.Mode
	d.cur = next
	if next.Mode != prev {
		d.enter(next.Mode)
		d.logger.Info("Display mode changed", "from", prev, "to", next.Mode)
		d.publish(events.ModeChangedEvent{Mode: next.Mode.String(), Previous: prev.String()})
	}
}

// enter resets mode-local state. LED colours carry over; the next fade
// starts from wherever each LED is.
func (d *Display) enter(m settings.Mode) {
	switch m {
	case settings.ColorTest:
		d.colorTest = colorTestState{}
	case settings.Puzzle:
		d.puzzle = puzzleState{word: d.puzzle.word, cells: d.puzzle.cells}
	default:
		d.renderer.Reset()
	}
}

func (d *Display) realTimeTick() {
	hour, minute, second, err := d.clock.Now()
	changed := false
	if err != nil {
		if !d.clockErr {
			d.logger.Warn("Time source unavailable, keeping current face", "error", err)
			d.clockErr = true
		}
	} else {
		if d.clockErr {
			d.logger.Info("Time source available again")
			d.clockErr = false
		}
		changed = d.renderer.Render(hour, minute, second, d.cur.ShowAmPm)
	}

	d.bright.Update()
	brightChanged := d.bright.HasChanged()

	switch {
	case changed:
		// The new phrase fades in with the new colour in one pass.
		d.blend(d.renderer.State(), TimeChangeDuration)
		d.publishFace(hour, minute)
	case brightChanged:
		d.blend(d.renderer.State(), BrightnessDuration)
	}
}

// blend fades every LED to the corrected colour when lit, or off.
func (d *Display) blend(lit []bool, duration time.Duration) {
	target := d.bright.CorrectedColor()
	for i := 0; i < d.anim.Len(); i++ {
		to := color.Black
		if i < len(lit) && lit[i] {
			to = target
		}
		d.anim.Start(i, d.strip.Pixel(i), to, duration, animation.QuadraticIn, d.now)
	}
}

func (d *Display) flush() {
	wrote := d.anim.Update(d.now, d.strip)
	if !wrote && !d.dirty {
		return
	}
	d.dirty = false
	if err := d.strip.Show(); err != nil {
		if !d.showErr {
			d.logger.Warn("Failed to show strip", "error", err)
			d.showErr = true
		}
		return
	}
	d.showErr = false
}

func (d *Display) publish(ev events.Event) {
	if d.bus != nil {
		d.bus.Publish(ev)
	}
}

func (d *Display) publishFace(hour, minute int) {
	if d.bus == nil {
		return
	}
	ev := events.DisplayUpdatedEvent{
		Layout:    d.renderer.Name(),
		Mode:      d.cur.Mode.String(),
		Hour:      hour,
		Minute:    minute,
		Words:     d.renderer.Words(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	for i, on := range d.renderer.State() {
		if !on {
			continue
		}
		if board.IsCorner(i) {
			ev.Corners++
			continue
		}
		if cell, ok := d.board.CellAt(i); ok {
			ev.Cells = append(ev.Cells, cell)
		}
	}
	d.bus.Publish(ev)
}
