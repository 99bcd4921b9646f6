package display

import (
	"time"

	"github.com/smazurov/wordclock/internal/animation"
	"github.com/smazurov/wordclock/internal/board"
	"github.com/smazurov/wordclock/internal/color"
	"github.com/smazurov/wordclock/internal/events"
	"github.com/smazurov/wordclock/internal/puzzle"
)

// Puzzle timings.
const (
	PuzzleFadeDuration   = 400 * time.Millisecond
	PuzzleLetterDuration = 700 * time.Millisecond
	PuzzleIdleAfterFade  = 2500 * time.Millisecond
	PuzzleIdleBeforeFade = 2000 * time.Millisecond
	CornerFlashDuration  = 700 * time.Millisecond
)

type puzzleStage int

const (
	stageFadeToBlack puzzleStage = iota
	stageIdleAfterFade
	stageReveal
	stageIdleBeforeFade
)

func (s puzzleStage) String() string {
	switch s {
	case stageIdleAfterFade:
		return "idle-after-fade"
	case stageReveal:
		return "reveal"
	case stageIdleBeforeFade:
		return "idle-before-fade"
	default:
		return "fade-to-black"
	}
}

type puzzleState struct {
	stage  puzzleStage
	fading bool
	since  time.Duration
	next   int
	word   string
	cells  []board.Cell
}

func (d *Display) puzzleTick() {
	d.bright.Update()

	p := &d.puzzle
	switch p.stage {
	case stageFadeToBlack:
		if !p.fading {
			p.fading = true
			d.blend(nil, PuzzleFadeDuration)
			return
		}
		if d.anim.Animating() {
			return
		}
		d.advance(stageIdleAfterFade)

	case stageIdleAfterFade:
		if d.anim.Animating() || d.pollWord() {
			return
		}
		if len(p.cells) == 0 || d.now-p.since < PuzzleIdleAfterFade {
			return
		}
		p.next = 0
		d.advance(stageReveal)

	case stageReveal:
		if p.next < len(p.cells) {
			idx := d.board.PixelIndex(p.cells[p.next])
			d.anim.Start(idx, d.strip.Pixel(idx), d.bright.CorrectedColor(), PuzzleLetterDuration, animation.CubicOut, d.now)
			p.next++
			return
		}
		if d.anim.Animating() {
			return
		}
		d.advance(stageIdleBeforeFade)

	case stageIdleBeforeFade:
		if d.anim.Animating() || d.pollWord() {
			return
		}
		if d.now-p.since < PuzzleIdleBeforeFade {
			return
		}
		p.fading = false
		d.advance(stageFadeToBlack)
	}
}

func (d *Display) advance(stage puzzleStage) {
	d.logger.Debug("Puzzle stage", "from", d.puzzle.stage, "to", stage)
	d.puzzle.stage = stage
	d.puzzle.since = d.now
}

// nextWord prefers a word staged through settings over the line source.
func (d *Display) nextWord() (string, bool) {
	if w, ok := d.settings.TakeWord(); ok {
		return w, true
	}
	if d.lines != nil {
		return d.lines.Line()
	}
	return "", false
}

// pollWord solves the next available word. It reports whether the state
// machine was redirected.
func (d *Display) pollWord() bool {
	raw, ok := d.nextWord()
	if !ok {
		return false
	}
	word := puzzle.Canonicalize(raw)
	if word == "" {
		return false
	}

	sol, found := d.solver.Find(word)
	d.publish(events.PuzzleResultEvent{
		Word:      word,
		Found:     found,
		Cost:      sol.Cost,
		Cells:     sol.Cells,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if !found {
		d.logger.Info("Word not on faceplate", "word", word)
		d.flashCorners()
		return true
	}

	d.logger.Info("Showing word", "word", word, "cost", sol.Cost)
	d.puzzle.word = word
	d.puzzle.cells = sol.Cells
	d.puzzle.fading = false
	d.advance(stageFadeToBlack)

	if d.bus != nil {
		d.bus.Publish(events.DisplayUpdatedEvent{
			Layout:    d.renderer.Name(),
			Mode:      d.cur.Mode.String(),
			Hour:      -1,
			Minute:    -1,
			Words:     []string{word},
			Cells:     sol.Cells,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return true
}

func (d *Display) flashCorners() {
	c := d.bright.CorrectedColor()
	for _, i := range puzzle.NotFoundPixels() {
		d.strip.SetPixel(i, c)
		d.anim.Start(i, c, color.Black, CornerFlashDuration, animation.Linear, d.now)
	}
	d.dirty = true
}
