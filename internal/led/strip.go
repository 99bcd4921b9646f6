package led

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/smazurov/wordclock/internal/board"
	"github.com/smazurov/wordclock/internal/color"
)

// Strip kinds accepted by Open.
const (
	KindMemory   = "memory"
	KindTerminal = "terminal"
	KindWS2812   = "ws2812"
)

// ErrUnknownStrip is returned by Open for an unrecognised kind.
var ErrUnknownStrip = errors.New("unknown strip kind")

// Strip is an addressable RGB LED chain. SetPixel stages a colour and Show
// latches every staged colour at once.
type Strip interface {
	SetPixel(i int, c color.RGB)
	Pixel(i int) color.RGB
	Show() error
	Len() int
	Close() error
}

// StripConfig selects and parameterises a strip backend.
type StripConfig struct {
	Kind   string
	Count  int
	SPIBus string
}

// Open builds the strip named by cfg.Kind. The terminal backend draws the
// faceplate of b; other backends ignore it.
func Open(cfg StripConfig, b *board.Board) (Strip, error) {
	count := cfg.Count
	if count <= 0 {
		count = board.PixelCount
	}
	switch strings.ToLower(cfg.Kind) {
	case "", KindMemory:
		return NewMemory(count), nil
	case KindTerminal:
		return NewTerminal(nil, b)
	case KindWS2812:
		return OpenWS2812(cfg.SPIBus, count)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrip, cfg.Kind)
	}
}

// Memory keeps pixels in RAM. Frame may be read from any goroutine.
type Memory struct {
	pixels []color.RGB

	mu    sync.RWMutex
	shown []color.RGB
	shows int
}

// NewMemory returns a dark strip of n pixels.
func NewMemory(n int) *Memory {
	return &Memory{
		pixels: make([]color.RGB, n),
		shown:  make([]color.RGB, n),
	}
}

func (m *Memory) SetPixel(i int, c color.RGB) {
	if i >= 0 && i < len(m.pixels) {
		m.pixels[i] = c
	}
}

func (m *Memory) Pixel(i int) color.RGB {
	if i < 0 || i >= len(m.pixels) {
		return color.Black
	}
	return m.pixels[i]
}

func (m *Memory) Show() error {
	m.mu.Lock()
	copy(m.shown, m.pixels)
	m.shows++
	m.mu.Unlock()
	return nil
}

func (m *Memory) Len() int { return len(m.pixels) }

func (m *Memory) Close() error { return nil }

// Frame returns a copy of the last shown frame.
func (m *Memory) Frame() []color.RGB {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]color.RGB(nil), m.shown...)
}

// Shows counts calls to Show.
func (m *Memory) Shows() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.shows
}

// Mirror forwards to a Strip and copies every frame into a Memory, so the
// API can serve what the hardware is showing.
type Mirror struct {
	Strip
	copy *Memory
}

// NewMirror wraps s. The returned Memory follows every Show.
func NewMirror(s Strip) (*Mirror, *Memory) {
	m := NewMemory(s.Len())
	return &Mirror{Strip: s, copy: m}, m
}

func (m *Mirror) SetPixel(i int, c color.RGB) {
	m.Strip.SetPixel(i, c)
	m.copy.SetPixel(i, c)
}

func (m *Mirror) Show() error {
	if err := m.Strip.Show(); err != nil {
		return err
	}
	return m.copy.Show()
}
