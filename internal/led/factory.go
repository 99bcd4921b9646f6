package led

import (
	"log/slog"
	"os"
	"strings"
)

const deviceTreeModelPath = "/proc/device-tree/model"

// New picks a status LED controller. A non-empty device names the sysfs LED
// directly; otherwise the board model chooses one, falling back to a no-op.
func New(logger *slog.Logger, device string) Controller {
	if device != "" {
		logger.Info("Using configured status LED", "device", device)
		return newSysfs("", map[string]string{StatusLED: device})
	}

	model := detectBoard()
	switch {
	case strings.Contains(model, "Raspberry Pi"):
		device = "ACT"
	case strings.Contains(model, "NanoPC-T6"):
		device = "usr_led"
	case strings.Contains(model, "Orange Pi"):
		device = "green_led"
	default:
		logger.Info("No status LED for board, using no-op controller", "board_model", model)
		return newNoop(logger)
	}

	logger.Info("Detected board for status LED", "board_model", model, "device", device)
	return newSysfs("", map[string]string{StatusLED: device})
}

func detectBoard() string {
	data, err := os.ReadFile(deviceTreeModelPath)
	if err != nil {
		return "unknown"
	}
	return strings.TrimRight(string(data), "\x00")
}
