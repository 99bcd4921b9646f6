// Package settings holds the user-facing clock configuration: display mode,
// colour, AM/PM words, light sensor sensitivity and mounting, and the word
// shown in puzzle mode.
package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/smazurov/wordclock/internal/board"
	"github.com/smazurov/wordclock/internal/color"
)

// Sensitivity bounds for the ambient light sensor.
const (
	MinSensitivity     = 0
	MaxSensitivity     = 10
	DefaultSensitivity = 5
)

var (
	ErrInvalidMode        = errors.New("invalid mode")
	ErrInvalidColor       = errors.New("invalid color")
	ErrInvalidSensitivity = errors.New("invalid sensitivity")
	ErrInvalidPosition    = errors.New("invalid sensor position")
)

// Mode selects what the display shows.
type Mode int

const (
	RealTime Mode = iota
	ColorTest
	Puzzle
)

var modeNames = [...]string{"REAL_TIME", "COLOR_TEST", "PUZZLE_MODE"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("MODE(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode accepts the mode names, case-insensitively, or their ordinal.
func ParseMode(s string) (Mode, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	for i, name := range modeNames {
		if v == name || v == strconv.Itoa(i) {
			return Mode(i), nil
		}
	}
	switch v {
	case "REALTIME", "CLOCK":
		return RealTime, nil
	case "PUZZLE":
		return Puzzle, nil
	}
	return RealTime, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Settings is one consistent snapshot of the configuration.
type Settings struct {
	Mode           Mode
	Color          color.RGB
	ShowAmPm       bool
	Sensitivity    int
	FindWord       string
	SensorPosition board.Orientation
}

// Default returns the factory settings.
func Default() Settings {
	return Settings{
		Mode:           RealTime,
		Color:          color.Warm,
		Sensitivity:    DefaultSensitivity,
		SensorPosition: board.SensorBottom,
	}
}

// ParseColor parses #RRGGBB, falling back to def on malformed input.
func ParseColor(s string, def color.RGB, logger *slog.Logger) color.RGB {
	c, err := color.ParseHex(s)
	if err != nil {
		if logger != nil {
			logger.Info("Color not valid, using default", "value", s, "default", def.Hex())
		}
		return def
	}
	return c
}

// ParseNumber parses an integer in [minValue, maxValue], falling back to def.
func ParseNumber(s string, minValue, maxValue, def int, logger *slog.Logger) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < minValue || v > maxValue {
		if logger != nil {
			logger.Info("Number not valid, using default", "value", s, "min", minValue, "max", maxValue, "default", def)
		}
		return def
	}
	return v
}
