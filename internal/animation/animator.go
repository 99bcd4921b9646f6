// Package animation fades individual LEDs between colours. Every LED owns a
// single slot; starting a new fade on an LED replaces whatever was running
// there.
package animation

import (
	"time"

	"github.com/smazurov/wordclock/internal/color"
)

// Pixels is the LED buffer an Animator writes into.
type Pixels interface {
	SetPixel(i int, c color.RGB)
}

// Entry is one LED's fade.
type Entry struct {
	From     color.RGB
	To       color.RGB
	Start    time.Duration
	Duration time.Duration
	Ease     Ease
	active   bool
}

// Animator holds one slot per LED. Times are offsets on a monotonic clock
// read once per tick.
type Animator struct {
	entries []Entry
}

// New returns an animator for n LEDs.
func New(n int) *Animator {
	return &Animator{entries: make([]Entry, n)}
}

// Len returns the number of slots.
func (a *Animator) Len() int {
	return len(a.entries)
}

// Start schedules a fade on LED i beginning at now. Indices outside the
// strip are ignored.
func (a *Animator) Start(i int, from, to color.RGB, duration time.Duration, ease Ease, now time.Duration) {
	if i < 0 || i >= len(a.entries) {
		return
	}
	a.entries[i] = Entry{
		From:     from,
		To:       to,
		Start:    now,
		Duration: duration,
		Ease:     ease,
		active:   true,
	}
}

// Active reports whether LED i has a fade in flight.
func (a *Animator) Active(i int) bool {
	return i >= 0 && i < len(a.entries) && a.entries[i].active
}

// Entry returns LED i's slot and whether it is active.
func (a *Animator) Entry(i int) (Entry, bool) {
	if !a.Active(i) {
		return Entry{}, false
	}
	return a.entries[i], true
}

// Animating reports whether any fade is in flight.
func (a *Animator) Animating() bool {
	for i := range a.entries {
		if a.entries[i].active {
			return true
		}
	}
	return false
}

// Count returns the number of fades in flight.
func (a *Animator) Count() int {
	n := 0
	for i := range a.entries {
		if a.entries[i].active {
			n++
		}
	}
	return n
}

// StopAll drops every fade, leaving LEDs at their current colour.
func (a *Animator) StopAll() {
	for i := range a.entries {
		a.entries[i].active = false
	}
}

// Update writes the blended colour of every active fade and retires the ones
// that reached their end colour. It reports whether any LED was written.
func (a *Animator) Update(now time.Duration, px Pixels) bool {
	wrote := false
	for i := range a.entries {
		e := &a.entries[i]
		if !e.active {
			continue
		}
		progress := 1.0
		if e.Duration > 0 {
			progress = float64(now-e.Start) / float64(e.Duration)
		}
		px.SetPixel(i, color.Blend(e.From, e.To, e.Ease.Apply(progress)))
		wrote = true
		if progress >= 1 {
			e.active = false
		}
	}
	return wrote
}
