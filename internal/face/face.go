// Package face turns a wall-clock time into the set of LEDs that spell it
// out on a given faceplate.
package face

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"

	"github.com/smazurov/wordclock/internal/board"
	"github.com/smazurov/wordclock/internal/logging"
)

var (
	// ErrUnknownLayout is returned for a layout name that is not registered.
	ErrUnknownLayout = errors.New("unknown layout")
	// ErrBadSegment is returned when a layout word does not fit the board.
	ErrBadSegment = errors.New("segment off the board")
)

// Renderer computes the lit state for a time.
type Renderer interface {
	// Render recomputes the lit state and reports true when the observable
	// time key differs from the previous call.
	Render(hour, minute, second int, showAmPm bool) bool
	State() []bool
	Board() *board.Board
	Name() string
	Words() []string
	// Reset forgets the last key so the next Render recomputes.
	Reset()
}

type word struct {
	name string
	seg  Segment
}

type layout struct {
	name    string
	aliases []string
	letters []string
	// broken holds the faceplate derivation error, reported on lookup.
	broken error
	// carryFrom is the first rounded minute that names the next hour.
	carryFrom int
	frame     []word
	am, pm    *word
	hours     func(hour, bucket int) []word
	minutes   func(bucket int) []word
	words     []word
}

var registry = map[string]*layout{}

func register(l *layout) {
	registry[l.name] = l
	for _, a := range l.aliases {
		registry[a] = l
	}
}

func init() {
	register(english())
	register(french())
	register(lithuanian())
}

func lookup(name string) (*layout, error) {
	l, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}
	if l.broken != nil {
		return nil, fmt.Errorf("%s faceplate: %w", l.name, l.broken)
	}
	return l, nil
}

// Layouts lists the canonical layout names.
func Layouts() []string {
	var names []string
	for key, l := range registry {
		if key == l.name {
			names = append(names, key)
		}
	}
	sort.Strings(names)
	return names
}

// NewBoard builds the board for a layout's faceplate.
func NewBoard(name string, o board.Orientation) (*board.Board, error) {
	l, err := lookup(name)
	if err != nil {
		return nil, err
	}
	return board.New(l.letters, o)
}

type key struct {
	hour, minute int
	ampm         bool
}

// Face is the phrase renderer shared by every layout.
type Face struct {
	layout *layout
	board  *board.Board
	logger *slog.Logger

	state  []bool
	lit    []string
	last   key
	primed bool
	buf    []int
}

// New validates the named layout against b and returns its renderer.
func New(name string, b *board.Board, logger *slog.Logger) (*Face, error) {
	l, err := lookup(name)
	if err != nil {
		return nil, err
	}
	for _, w := range l.words {
		if err := w.seg.validate(); err != nil {
			return nil, fmt.Errorf("%s %s: %w", l.name, w.name, err)
		}
	}
	if logger == nil {
		logger = logging.GetLogger("face")
	}
	return &Face{
		layout: l,
		board:  b,
		logger: logger,
		state:  make([]bool, board.PixelCount),
	}, nil
}

func (f *Face) Name() string        { return f.layout.name }
func (f *Face) Board() *board.Board { return f.board }
func (f *Face) State() []bool       { return f.state }
func (f *Face) Words() []string     { return slices.Clone(f.lit) }
func (f *Face) Reset()              { f.primed = false }
func (f *Face) hasMeridiem() bool   { return f.layout.am != nil && f.layout.pm != nil }

// Render implements Renderer.
func (f *Face) Render(hour, minute, second int, showAmPm bool) bool {
	k := key{hour: hour, minute: minute, ampm: showAmPm && f.hasMeridiem()}
	if f.primed && k == f.last {
		return false
	}
	f.last = k
	f.primed = true

	clear(f.state)
	f.lit = f.lit[:0]

	hourOK := hour >= 0 && hour < 24
	minuteOK := minute >= 0 && minute < 60
	if !hourOK {
		f.logger.Warn("Invalid hour, leaving hour words dark", "hour", hour)
	}
	if !minuteOK {
		f.logger.Warn("Invalid minute, leaving minute words dark", "minute", minute)
	}

	bucket, leftover := 0, 0
	if minuteOK {
		leftover = minute % 5
		bucket = minute - leftover
	}

	f.light(f.layout.frame)
	if hourOK {
		shown := hour
		if minuteOK && bucket >= f.layout.carryFrom {
			shown = (hour + 1) % 24
		}
		f.light(f.layout.hours(shown, bucket))
		if k.ampm {
			if hour < 12 {
				f.light([]word{*f.layout.am})
			} else {
				f.light([]word{*f.layout.pm})
			}
		}
	}
	if minuteOK {
		f.light(f.layout.minutes(bucket))
		for _, c := range board.Clockwise[:leftover] {
			f.state[f.board.CornerIndex(c)] = true
		}
	}

	f.logger.Debug("Face updated",
		"layout", f.layout.name,
		"hour", hour,
		"minute", minute,
		"second", second,
		"words", strings.Join(f.lit, " "))
	return true
}

func (f *Face) light(words []word) {
	for _, w := range words {
		f.buf = w.seg.AppendPixels(f.buf[:0], f.board)
		for _, idx := range f.buf {
			if idx >= 0 && idx < len(f.state) {
				f.state[idx] = true
			}
		}
		f.lit = append(f.lit, w.name)
	}
}

// Pixels returns the indices of lit LEDs in ascending order.
func (f *Face) Pixels() []int {
	var out []int
	for i, on := range f.state {
		if on {
			out = append(out, i)
		}
	}
	return out
}

// collect gathers every word a layout may light, for validation.
func collect(groups ...[]word) []word {
	var all []word
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}
