package led

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"
)

const sysfsLEDRoot = "/sys/class/leds"

// BlinkPeriod is the on and off time of the blink pattern.
const BlinkPeriod = 300 * time.Millisecond

// ErrUnknownLED is returned when a logical name has no sysfs mapping.
var ErrUnknownLED = errors.New("unknown LED")

// sysfs drives LEDs through /sys/class/leds/<name>/{trigger,brightness,delay_on,delay_off}.
type sysfs struct {
	root string
	leds map[string]string
}

func newSysfs(root string, leds map[string]string) *sysfs {
	if root == "" {
		root = sysfsLEDRoot
	}
	return &sysfs{root: root, leds: leds}
}

func (s *sysfs) Set(name string, enabled bool, pattern string) error {
	device, ok := s.leds[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLED, name)
	}

	dir := filepath.Join(s.root, device)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("LED %q not found at %s: %w", name, dir, err)
	}

	if pattern == PatternOff {
		enabled = false
		pattern = ""
	}

	switch pattern {
	case "":
	case PatternSolid:
		if err := s.write(dir, "trigger", "none"); err != nil {
			return err
		}
	case PatternBlink:
		if !enabled {
			break
		}
		// timer exposes delay_on/delay_off only after it is selected
		if err := s.write(dir, "trigger", "timer"); err != nil {
			return err
		}
		ms := strconv.FormatInt(BlinkPeriod.Milliseconds(), 10)
		if err := s.write(dir, "delay_on", ms); err != nil {
			return err
		}
		return s.write(dir, "delay_off", ms)
	default:
		if err := s.write(dir, "trigger", pattern); err != nil {
			return err
		}
	}

	if !enabled {
		if err := s.write(dir, "trigger", "none"); err != nil {
			return err
		}
	}

	value := "0"
	if enabled {
		value = "1"
	}
	return s.write(dir, "brightness", value)
}

func (s *sysfs) write(dir, file, value string) error {
	if err := os.WriteFile(filepath.Join(dir, file), []byte(value), 0o644); err != nil {
		return fmt.Errorf("write LED %s: %w", file, err)
	}
	return nil
}

func (s *sysfs) Available() []string {
	names := make([]string, 0, len(s.leds))
	for name := range s.leds {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (s *sysfs) Patterns() []string {
	return []string{PatternSolid, PatternBlink, PatternOff}
}
