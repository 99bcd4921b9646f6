package brightness

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrBadReading is returned when a sensor file holds no number.
var ErrBadReading = errors.New("unreadable sensor value")

// Fixed is a sensor that always reports the same level.
type Fixed float64

// Read implements Sensor.
func (f Fixed) Read() (float64, error) {
	return float64(f), nil
}

// SysfsSensor reads a raw integer from a sysfs attribute, typically an IIO
// illuminance or ADC channel such as
// /sys/bus/iio/devices/iio:device0/in_illuminance_raw.
type SysfsSensor struct {
	Path string
	// Max is the raw value treated as full daylight.
	Max float64
}

// Read implements Sensor.
func (s SysfsSensor) Read() (float64, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}
	raw, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrBadReading, s.Path, err)
	}
	if s.Max <= 0 {
		return 0, fmt.Errorf("%w: max must be positive", ErrBadReading)
	}
	return raw / s.Max, nil
}
