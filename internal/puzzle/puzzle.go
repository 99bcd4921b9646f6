// Package puzzle places a letter sequence on the faceplate along the
// shortest path, measured as summed Manhattan distance between consecutive
// letters.
package puzzle

import (
	"log/slog"
	"math"
	"strings"

	"github.com/smazurov/wordclock/internal/board"
	"github.com/smazurov/wordclock/internal/logging"
)

// MaxSequence bounds the search depth. Longer sequences are rejected before
// any search starts.
const MaxSequence = 20

// Solution is the cheapest placement found for a sequence.
type Solution struct {
	Cells  []board.Cell `json:"cells"`
	Pixels []int        `json:"pixels"`
	Cost   int          `json:"cost"`
}

// Solver searches a board. It keeps no state between calls.
type Solver struct {
	board  *board.Board
	logger *slog.Logger
}

// New returns a solver for b.
func New(b *board.Board, logger *slog.Logger) *Solver {
	if logger == nil {
		logger = logging.GetLogger("puzzle")
	}
	return &Solver{board: b, logger: logger}
}

// Canonicalize trims surrounding space and upper-cases a word the way the
// faceplate letters are stored.
func Canonicalize(word string) string {
	return strings.ToUpper(strings.TrimSpace(word))
}

// Find runs a depth-first branch and bound over every placement of
// sequence. Ties keep the first path found in row-major candidate order.
func (s *Solver) Find(sequence string) (Solution, bool) {
	letters := []rune(sequence)
	n := len(letters)
	if n == 0 {
		return Solution{}, false
	}
	if n > MaxSequence {
		s.logger.Info("Sequence too long", "sequence", sequence, "length", n, "max", MaxSequence)
		return Solution{}, false
	}

	var candidates [MaxSequence][]board.Cell
	for i, r := range letters {
		candidates[i] = s.candidates(r)
		if len(candidates[i]) == 0 {
			s.logger.Info("Letter not on faceplate", "sequence", sequence, "letter", string(r))
			return Solution{}, false
		}
	}

	// rest[d] is a lower bound on the cost still to pay after placing
	// letter d: the sum of the closest possible gaps between later letters.
	var rest [MaxSequence]int
	for i := n - 2; i >= 0; i-- {
		rest[i] = rest[i+1] + closest(candidates[i], candidates[i+1])
	}

	var (
		cursor [MaxSequence]int
		cost   [MaxSequence]int
		path   [MaxSequence]board.Cell
		found  [MaxSequence]board.Cell
		best   = math.MaxInt
		d      int
	)
	for d >= 0 {
		if cursor[d] >= len(candidates[d]) {
			d--
			if d >= 0 {
				cursor[d]++
			}
			continue
		}

		cell := candidates[d][cursor[d]]
		running := cost[d]
		if d > 0 {
			running += path[d-1].Distance(cell)
		}
		if running+rest[d] >= best {
			cursor[d]++
			continue
		}

		path[d] = cell
		if d == n-1 {
			best = running
			copy(found[:n], path[:n])
			cursor[d]++
			continue
		}
		d++
		cost[d] = running
		cursor[d] = 0
	}

	sol := Solution{
		Cells:  append([]board.Cell(nil), found[:n]...),
		Pixels: make([]int, n),
		Cost:   best,
	}
	for i, c := range sol.Cells {
		sol.Pixels[i] = s.board.PixelIndex(c)
	}
	s.logger.Debug("Sequence placed", "sequence", sequence, "cost", best)
	return sol, true
}

func closest(a, b []board.Cell) int {
	best := math.MaxInt
	for _, x := range a {
		for _, y := range b {
			best = min(best, x.Distance(y))
		}
	}
	return best
}

func (s *Solver) candidates(r rune) []board.Cell {
	if r == 0 {
		return nil
	}
	var cells []board.Cell
	for row := 0; row < board.Rows; row++ {
		for col := 0; col < board.Cols; col++ {
			c := board.Cell{Row: row, Col: col}
			if s.board.Letter(c) == r {
				cells = append(cells, c)
			}
		}
	}
	return cells
}

// NotFoundPixels lists the signal LEDs flashed when a sequence has no
// placement.
func NotFoundPixels() []int {
	out := make([]int, board.Signals)
	for i := range out {
		out[i] = i
	}
	return out
}
