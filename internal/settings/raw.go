package settings

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/smazurov/wordclock/internal/board"
	"github.com/smazurov/wordclock/internal/color"
)

// Raw is the textual form of Settings used in the [clock] section of the
// config file and in the HTTP API. Empty fields mean "unchanged".
type Raw struct {
	Mode           string `toml:"mode" json:"mode,omitempty" enum:"REAL_TIME,COLOR_TEST,PUZZLE_MODE" doc:"Display mode"`
	Color          string `toml:"color" json:"color,omitempty" example:"#EFEBD8" doc:"Letter colour as #RRGGBB"`
	ShowAmPm       *bool  `toml:"show_ampm" json:"show_ampm,omitempty" doc:"Light AM/PM words where the faceplate has them"`
	Sensitivity    *int   `toml:"sensitivity" json:"sensitivity,omitempty" minimum:"0" maximum:"10" doc:"Ambient light sensitivity, 0 disables dimming"`
	FindWord       string `toml:"find_word" json:"find_word,omitempty" doc:"Word shown in puzzle mode"`
	SensorPosition string `toml:"sensor_position" json:"sensor_position,omitempty" enum:"top,bottom" doc:"Side of the frame the light sensor is on"`
}

type document struct {
	Clock Raw `toml:"clock"`
}

// LoadFile reads the [clock] section of a TOML config file.
func LoadFile(path string) (Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Raw{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return Raw{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc.Clock, nil
}

// FromSettings renders a snapshot in its textual form.
func FromSettings(s Settings) Raw {
	ampm := s.ShowAmPm
	sens := s.Sensitivity
	return Raw{
		Mode:           s.Mode.String(),
		Color:          s.Color.Hex(),
		ShowAmPm:       &ampm,
		Sensitivity:    &sens,
		FindWord:       s.FindWord,
		SensorPosition: s.SensorPosition.String(),
	}
}

// Resolve overlays r on base the forgiving way: malformed values are logged
// and replaced by the factory default.
func (r Raw) Resolve(base Settings, logger *slog.Logger) Settings {
	if logger == nil {
		logger = slog.Default()
	}
	def := Default()
	out := base
	if r.Mode != "" {
		m, err := ParseMode(r.Mode)
		if err != nil {
			logger.Info("Mode not valid, using default", "value", r.Mode, "default", def.Mode)
			m = def.Mode
		}
		out.Mode = m
	}
	if r.Color != "" {
		out.Color = ParseColor(r.Color, def.Color, logger)
	}
	if r.ShowAmPm != nil {
		out.ShowAmPm = *r.ShowAmPm
	}
	if r.Sensitivity != nil {
		out.Sensitivity = ParseNumber(strconv.Itoa(*r.Sensitivity), MinSensitivity, MaxSensitivity, def.Sensitivity, logger)
	}
	if r.FindWord != "" {
		out.FindWord = r.FindWord
	}
	if r.SensorPosition != "" {
		o, err := board.ParseOrientation(r.SensorPosition)
		if err != nil {
			logger.Info("Sensor position not valid, using default", "value", r.SensorPosition, "default", def.SensorPosition)
			o = def.SensorPosition
		}
		out.SensorPosition = o
	}
	return out
}

// Apply overlays r on base and rejects the first malformed value.
func (r Raw) Apply(base Settings) (Settings, error) {
	out := base
	if r.Mode != "" {
		m, err := ParseMode(r.Mode)
		if err != nil {
			return base, err
		}
		out.Mode = m
	}
	if r.Color != "" {
		c, err := color.ParseHex(r.Color)
		if err != nil {
			return base, fmt.Errorf("%w: %w", ErrInvalidColor, err)
		}
		out.Color = c
	}
	if r.ShowAmPm != nil {
		out.ShowAmPm = *r.ShowAmPm
	}
	if r.Sensitivity != nil {
		v := *r.Sensitivity
		if v < MinSensitivity || v > MaxSensitivity {
			return base, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidSensitivity, v, MinSensitivity, MaxSensitivity)
		}
		out.Sensitivity = v
	}
	if r.FindWord != "" {
		out.FindWord = r.FindWord
	}
	if r.SensorPosition != "" {
		o, err := board.ParseOrientation(r.SensorPosition)
		if err != nil {
			return base, fmt.Errorf("%w: %w", ErrInvalidPosition, err)
		}
		out.SensorPosition = o
	}
	return out, nil
}
