package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"

	"github.com/smazurov/wordclock/internal/board"
	"github.com/smazurov/wordclock/internal/color"
	"github.com/smazurov/wordclock/internal/face"
)

const previewStyle = `body{background:#111;color:#ccc;font-family:monospace}` +
	`table{border-collapse:collapse;margin:2em auto}` +
	`td{width:2em;height:2em;text-align:center;font-size:1.4em;color:#303030}` +
	`.corner{color:#303030;font-size:1em}`

// previewCell is one faceplate letter and the colour its LED shows.
type previewCell struct {
	letter string
	lit    color.RGB
}

func (s *Server) preview(w http.ResponseWriter, r *http.Request) {
	b, err := face.NewBoard(s.opts.Layout, s.opts.Store.Snapshot().SensorPosition)
	if err != nil {
		http.Error(w, "unknown layout", http.StatusInternalServerError)
		return
	}
	var frame []color.RGB
	if s.opts.Frame != nil {
		frame = s.opts.Frame()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := previewPage(s.opts.Layout, previewGrid(b, frame), previewCorners(b, frame)).Render(r.Context(), w); err != nil {
		http.Error(w, "failed to render", http.StatusInternalServerError)
	}
}

func previewGrid(b *board.Board, frame []color.RGB) [][]previewCell {
	grid := make([][]previewCell, board.Rows)
	for row := range grid {
		grid[row] = make([]previewCell, board.Cols)
		for col := range grid[row] {
			c := board.Cell{Row: row, Col: col}
			cell := previewCell{letter: string(b.Letter(c))}
			if b.Letter(c) == 0 {
				cell.letter = string(board.Placeholder)
			}
			if i := b.PixelIndex(c); i < len(frame) {
				cell.lit = frame[i]
			}
			grid[row][col] = cell
		}
	}
	return grid
}

// previewCorners returns the corner colours in Corner order.
func previewCorners(b *board.Board, frame []color.RGB) [4]color.RGB {
	var out [4]color.RGB
	for c := range out {
		if i := b.CornerIndex(board.Corner(c)); i < len(frame) {
			out[c] = frame[i]
		}
	}
	return out
}

func previewPage(layout string, grid [][]previewCell, corners [4]color.RGB) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := templ.EscapeString(layout)
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html><head><meta charset="utf-8">`+
			`<meta http-equiv="refresh" content="5"><title>wordclock %s</title><style>%s</style></head><body><table>`,
			title, previewStyle); err != nil {
			return err
		}
		for row, cells := range grid {
			if _, err := io.WriteString(w, "<tr>"); err != nil {
				return err
			}
			if err := writeCorner(w, row, 0, corners); err != nil {
				return err
			}
			for _, cell := range cells {
				style := ""
				if !cell.lit.IsBlack() {
					style = fmt.Sprintf(` style="color:%s"`, cell.lit.Hex())
				}
				if _, err := fmt.Fprintf(w, "<td%s>%s</td>", style, templ.EscapeString(cell.letter)); err != nil {
					return err
				}
			}
			if err := writeCorner(w, row, 1, corners); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "</tr>"); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "</table></body></html>")
		return err
	})
}

// writeCorner draws the corner dot beside the first and last rows.
// side 0 is the left edge.
func writeCorner(w io.Writer, row, side int, corners [4]color.RGB) error {
	var c board.Corner
	switch {
	case row == 0 && side == 0:
		c = board.TopLeft
	case row == 0:
		c = board.TopRight
	case row == board.Rows-1 && side == 0:
		c = board.BottomLeft
	case row == board.Rows-1:
		c = board.BottomRight
	default:
		_, err := io.WriteString(w, "<td></td>")
		return err
	}
	style := ""
	if px := corners[c]; !px.IsBlack() {
		style = fmt.Sprintf(` style="color:%s"`, px.Hex())
	}
	_, err := fmt.Fprintf(w, `<td class="corner"%s>&#9679;</td>`, style)
	return err
}
