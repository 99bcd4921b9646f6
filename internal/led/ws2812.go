package led

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"

	"github.com/smazurov/wordclock/internal/color"
)

// WS2812 drives a WS2812B chain from an SPI MOSI line.
type WS2812 struct {
	port   spi.PortCloser
	dev    *nrzled.Dev
	pixels []color.RGB
	buf    []byte
}

// OpenWS2812 opens the SPI port by name ("" for the first one) and prepares
// a chain of count pixels.
func OpenWS2812(bus string, count int) (*WS2812, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	port, err := spireg.Open(bus)
	if err != nil {
		return nil, fmt.Errorf("open SPI port %q: %w", bus, err)
	}
	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: count,
		Channels:  3,
		Freq:      800 * physic.KiloHertz,
	})
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("open WS2812 on %q: %w", bus, err)
	}
	return &WS2812{
		port:   port,
		dev:    dev,
		pixels: make([]color.RGB, count),
		buf:    make([]byte, count*3),
	}, nil
}

func (w *WS2812) SetPixel(i int, c color.RGB) {
	if i >= 0 && i < len(w.pixels) {
		w.pixels[i] = c
	}
}

func (w *WS2812) Pixel(i int) color.RGB {
	if i < 0 || i >= len(w.pixels) {
		return color.Black
	}
	return w.pixels[i]
}

func (w *WS2812) Len() int { return len(w.pixels) }

// Show streams every pixel; nrzled reorders RGB into the chip's GRB.
func (w *WS2812) Show() error {
	for i, p := range w.pixels {
		w.buf[3*i], w.buf[3*i+1], w.buf[3*i+2] = p.R, p.G, p.B
	}
	if _, err := w.dev.Write(w.buf); err != nil {
		return fmt.Errorf("write WS2812: %w", err)
	}
	return nil
}

func (w *WS2812) Close() error {
	haltErr := w.dev.Halt()
	if err := w.port.Close(); err != nil {
		return err
	}
	return haltErr
}
