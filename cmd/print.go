package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/smazurov/wordclock/internal/board"
)

const unlit = '·'

// printBoard writes the faceplate with unlit letters dimmed to a dot, then a
// line with the lit corners.
func printBoard(w io.Writer, b *board.Board, lit func(index int) bool) error {
	for r := range board.Rows {
		var sb strings.Builder
		for c := range board.Cols {
			cell := board.Cell{Row: r, Col: c}
			ch := b.Letter(cell)
			if !lit(b.PixelIndex(cell)) || ch == 0 {
				ch = unlit
			}
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteRune(ch)
		}
		if _, err := fmt.Fprintln(w, sb.String()); err != nil {
			return err
		}
	}

	var corners []string
	for _, c := range board.Clockwise {
		if lit(b.CornerIndex(c)) {
			corners = append(corners, c.String())
		}
	}
	if len(corners) == 0 {
		corners = append(corners, "none")
	}
	_, err := fmt.Fprintf(w, "corners: %s\n", strings.Join(corners, ", "))
	return err
}
