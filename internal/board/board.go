// Package board models the physical word clock: a grid of faceplate letters
// behind a serpentine LED strip, with four signal LEDs in the corners wired
// ahead of the grid.
package board

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// Rows is the grid height of every shipped faceplate.
	Rows = 10
	// Cols is the grid width of every shipped faceplate.
	Cols = 11
	// Signals is the number of corner LEDs wired before the grid.
	Signals = 4
	// PixelCount is the total number of LEDs on the strip.
	PixelCount = Rows*Cols + Signals
)

// Placeholder marks a faceplate cell whose letter is unknown.
const Placeholder = '.'

var (
	// ErrBadLetters is returned when faceplate rows do not match the grid.
	ErrBadLetters = errors.New("faceplate does not match grid")
	// ErrUnknownOrientation is returned by ParseOrientation.
	ErrUnknownOrientation = errors.New("unknown sensor position")
)

// Orientation is the side of the frame the light sensor sits on. The strip is
// wired the same way in both cases; mounting the clock upside down rotates it.
type Orientation int

const (
	SensorBottom Orientation = iota
	SensorTop
)

func (o Orientation) String() string {
	if o == SensorTop {
		return "top"
	}
	return "bottom"
}

// ParseOrientation accepts "top" or "bottom" in any case.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top":
		return SensorTop, nil
	case "bottom":
		return SensorBottom, nil
	}
	return SensorBottom, fmt.Errorf("%w: %q", ErrUnknownOrientation, s)
}

// Corner identifies one of the four signal LEDs.
type Corner int

const (
	TopLeft Corner = iota
	BottomLeft
	BottomRight
	TopRight
)

// Clockwise is the order corners light up for leftover minutes.
var Clockwise = [Signals]Corner{TopRight, BottomRight, BottomLeft, TopLeft}

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "top-left"
	case BottomLeft:
		return "bottom-left"
	case BottomRight:
		return "bottom-right"
	case TopRight:
		return "top-right"
	}
	return fmt.Sprintf("corner(%d)", int(c))
}

// Cell is a grid position.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Distance is the Manhattan distance between two cells.
func (c Cell) Distance(o Cell) int {
	return abs(c.Row-o.Row) + abs(c.Col-o.Col)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Board couples a faceplate with the current mounting orientation. Letters
// never change after New; the orientation may be switched at runtime and
// every index computation reads it afresh.
type Board struct {
	letters     [Rows][Cols]rune
	orientation Orientation
}

// New builds a board from Rows strings of Cols runes each. Lower-case letters
// are upper-cased; Placeholder marks unknown cells.
func New(rows []string, orientation Orientation) (*Board, error) {
	if len(rows) != Rows {
		return nil, fmt.Errorf("%w: %d rows, want %d", ErrBadLetters, len(rows), Rows)
	}
	b := &Board{orientation: orientation}
	for r, line := range rows {
		if n := utf8.RuneCountInString(line); n != Cols {
			return nil, fmt.Errorf("%w: row %d has %d letters, want %d", ErrBadLetters, r, n, Cols)
		}
		c := 0
		for _, ch := range strings.ToUpper(line) {
			if ch == Placeholder {
				ch = 0
			}
			b.letters[r][c] = ch
			c++
		}
	}
	return b, nil
}

// Orientation returns the current mounting orientation.
func (b *Board) Orientation() Orientation {
	return b.orientation
}

// SetOrientation switches the wiring used by PixelIndex and CellAt.
func (b *Board) SetOrientation(o Orientation) {
	b.orientation = o
}

// Contains reports whether the cell lies on the grid.
func (b *Board) Contains(c Cell) bool {
	return c.Row >= 0 && c.Row < Rows && c.Col >= 0 && c.Col < Cols
}

// Letter returns the faceplate letter at c, or 0 for placeholders and
// cells off the grid.
func (b *Board) Letter(c Cell) rune {
	if !b.Contains(c) {
		return 0
	}
	return b.letters[c.Row][c.Col]
}

// Row returns one faceplate row as a string, placeholders rendered as '.'.
func (b *Board) Row(r int) string {
	if r < 0 || r >= Rows {
		return ""
	}
	var sb strings.Builder
	for _, ch := range b.letters[r] {
		if ch == 0 {
			ch = Placeholder
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}

// PixelIndex maps a cell to its LED index, or -1 when the cell is off the grid.
func (b *Board) PixelIndex(c Cell) int {
	return IndexOf(c, b.orientation)
}

// PixelIndexIn maps a cell to its LED index for an explicit orientation.
func (b *Board) PixelIndexIn(c Cell, o Orientation) int {
	return IndexOf(c, o)
}

// CellAt is the inverse of PixelIndex for the current orientation. It reports
// false for signal LEDs and indices past the strip.
func (b *Board) CellAt(index int) (Cell, bool) {
	return CellOf(index, b.orientation)
}

// CellAtIn is the inverse of PixelIndexIn.
func (b *Board) CellAtIn(index int, o Orientation) (Cell, bool) {
	return CellOf(index, o)
}

// IndexOf maps a cell to its LED index for the given wiring, or -1 when the
// cell is off the grid.
func IndexOf(c Cell, o Orientation) int {
	if c.Row < 0 || c.Row >= Rows || c.Col < 0 || c.Col >= Cols {
		return -1
	}
	if o == SensorTop {
		// Top row first, right to left, direction flipping each row.
		col := Cols - 1 - c.Col
		if c.Row%2 == 1 {
			col = c.Col
		}
		return c.Row*Cols + col + Signals
	}
	row := Rows - 1 - c.Row
	col := c.Col
	if row%2 == 1 {
		col = Cols - 1 - c.Col
	}
	return row*Cols + col + Signals
}

// CellOf is the inverse of IndexOf.
func CellOf(index int, o Orientation) (Cell, bool) {
	i := index - Signals
	if i < 0 || i >= Rows*Cols {
		return Cell{}, false
	}
	line, pos := i/Cols, i%Cols
	if o == SensorTop {
		if line%2 == 1 {
			return Cell{Row: line, Col: pos}, true
		}
		return Cell{Row: line, Col: Cols - 1 - pos}, true
	}
	col := pos
	if line%2 == 1 {
		col = Cols - 1 - pos
	}
	return Cell{Row: Rows - 1 - line, Col: col}, true
}

// CornerIndex returns the LED index of a signal corner.
func (b *Board) CornerIndex(c Corner) int {
	if b.orientation == SensorTop {
		return int(c)
	}
	return (int(c) + 2) % Signals
}

// IsCorner reports whether index addresses a signal LED.
func IsCorner(index int) bool {
	return index >= 0 && index < Signals
}
