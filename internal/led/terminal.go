package led

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/smazurov/wordclock/internal/board"
	"github.com/smazurov/wordclock/internal/color"
)

// Faceplate geometry on screen: letters sit two columns apart inside a
// one-cell margin that holds the corner LEDs.
const (
	termMarginX = 2
	termMarginY = 1
	termPitch   = 2
)

const (
	cornerGlyph = '●'
	darkCorner  = '·'
)

var unlitStyle = tcell.StyleDefault.Foreground(tcell.NewRGBColor(48, 48, 48)).Background(tcell.ColorBlack)

// Terminal renders the strip as the letter grid of a board so a clock can be
// watched without hardware.
type Terminal struct {
	screen tcell.Screen
	board  *board.Board
	pixels []color.RGB
	once   sync.Once
}

// NewTerminal draws into screen, or a fresh terminal screen when nil.
func NewTerminal(screen tcell.Screen, b *board.Board) (*Terminal, error) {
	if b == nil {
		return nil, fmt.Errorf("terminal strip needs a board")
	}
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("open terminal: %w", err)
		}
		screen = s
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init terminal: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))
	screen.HideCursor()
	screen.Clear()
	return &Terminal{
		screen: screen,
		board:  b,
		pixels: make([]color.RGB, board.PixelCount),
	}, nil
}

func (t *Terminal) SetPixel(i int, c color.RGB) {
	if i >= 0 && i < len(t.pixels) {
		t.pixels[i] = c
	}
}

func (t *Terminal) Pixel(i int) color.RGB {
	if i < 0 || i >= len(t.pixels) {
		return color.Black
	}
	return t.pixels[i]
}

func (t *Terminal) Len() int { return len(t.pixels) }

func (t *Terminal) Show() error {
	for r := range board.Rows {
		for c := range board.Cols {
			cell := board.Cell{Row: r, Col: c}
			ch := t.board.Letter(cell)
			if ch == 0 {
				ch = board.Placeholder
			}
			px := t.pixels[t.board.PixelIndex(cell)]
			x, y := termMarginX+c*termPitch, termMarginY+r
			t.screen.SetContent(x, y, ch, nil, styleFor(px))
		}
	}
	for corner := board.TopLeft; corner <= board.TopRight; corner++ {
		x, y := cornerPosition(corner)
		px := t.pixels[t.board.CornerIndex(corner)]
		glyph := cornerGlyph
		if px.IsBlack() {
			glyph = darkCorner
		}
		t.screen.SetContent(x, y, glyph, nil, styleFor(px))
	}
	t.screen.Show()
	return nil
}

// WatchKeys blocks reading terminal events and calls quit on Ctrl-C, Esc or
// q. It returns once the screen is closed.
func (t *Terminal) WatchKeys(quit func()) {
	for {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape || ev.Rune() == 'q' {
				quit()
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func (t *Terminal) Close() error {
	t.once.Do(t.screen.Fini)
	return nil
}

func styleFor(px color.RGB) tcell.Style {
	if px.IsBlack() {
		return unlitStyle
	}
	fg := tcell.NewRGBColor(int32(px.R), int32(px.G), int32(px.B))
	return tcell.StyleDefault.Foreground(fg).Background(tcell.ColorBlack).Bold(true)
}

func cornerPosition(c board.Corner) (int, int) {
	right := termMarginX + board.Cols*termPitch
	bottom := termMarginY + board.Rows
	switch c {
	case board.TopLeft:
		return 0, 0
	case board.TopRight:
		return right, 0
	case board.BottomLeft:
		return 0, bottom
	default:
		return right, bottom
	}
}
