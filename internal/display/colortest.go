package display

import (
	"time"

	"github.com/smazurov/wordclock/internal/animation"
	"github.com/smazurov/wordclock/internal/board"
	"github.com/smazurov/wordclock/internal/color"
)

// Colour test timings.
const (
	ColorTestEntryFade = 400 * time.Millisecond
	ColorTestInterval  = 60 * time.Millisecond
	ColorTestMinFade   = 1700 * time.Millisecond
	ColorTestMaxFade   = 2100 * time.Millisecond
	colorTestLightness = 0.4
)

type colorTestState struct {
	entered   bool
	lastStart time.Duration
}

func (d *Display) colorTestTick() {
	d.bright.Update()

	s := &d.colorTest
	if !s.entered {
		s.entered = true
		s.lastStart = d.now
		d.blend(nil, ColorTestEntryFade)
		return
	}
	if d.now-s.lastStart < ColorTestInterval {
		return
	}
	s.lastStart = d.now

	for i := 0; i < board.Signals; i++ {
		if !d.anim.Active(i) {
			d.sparkle(i)
		}
	}
	i := board.Signals + d.rng.IntN(board.PixelCount-board.Signals)
	if !d.anim.Active(i) {
		d.sparkle(i)
	}
}

// sparkle lights LED i in the next hue and lets it fade out.
func (d *Display) sparkle(i int) {
	c := d.bright.Correct(color.FromHSL(float64(d.hue)/255, 1, colorTestLightness))
	d.hue++
	d.strip.SetPixel(i, c)
	d.dirty = true
	fade := ColorTestMinFade + time.Duration(d.rng.Int64N(int64(ColorTestMaxFade-ColorTestMinFade)+1))
	d.anim.Start(i, c, color.Black, fade, animation.Linear, d.now)
}
