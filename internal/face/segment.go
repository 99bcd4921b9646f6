package face

import (
	"fmt"

	"github.com/smazurov/wordclock/internal/board"
)

// Segment is a lit word on the faceplate.
type Segment interface {
	// AppendPixels appends the LED indices of the segment for the board's
	// current orientation.
	AppendPixels(dst []int, b *board.Board) []int
	validate() error
}

// Span is a horizontal run of Len letters starting at (Row, Col).
type Span struct {
	Row, Col, Len int
}

func (s Span) AppendPixels(dst []int, b *board.Board) []int {
	for i := 0; i < s.Len; i++ {
		dst = append(dst, b.PixelIndex(board.Cell{Row: s.Row, Col: s.Col + i}))
	}
	return dst
}

func (s Span) validate() error {
	if s.Len <= 0 || s.Row < 0 || s.Row >= board.Rows || s.Col < 0 || s.Col+s.Len > board.Cols {
		return fmt.Errorf("%w: span row=%d col=%d len=%d", ErrBadSegment, s.Row, s.Col, s.Len)
	}
	return nil
}

// Run lists LED indices as wired with the sensor on top. They are resolved
// back to cells so the word follows the board when it is mounted the other
// way round.
type Run []int

func (r Run) AppendPixels(dst []int, b *board.Board) []int {
	for _, idx := range r {
		cell, ok := board.CellOf(idx, board.SensorTop)
		if !ok {
			dst = append(dst, idx)
			continue
		}
		dst = append(dst, b.PixelIndex(cell))
	}
	return dst
}

func (r Run) validate() error {
	if len(r) == 0 {
		return fmt.Errorf("%w: empty run", ErrBadSegment)
	}
	for _, idx := range r {
		if idx < board.Signals || idx >= board.PixelCount {
			return fmt.Errorf("%w: led %d", ErrBadSegment, idx)
		}
	}
	return nil
}
