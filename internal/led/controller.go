package led

// Pattern names understood by every Controller.
const (
	PatternSolid = "solid"
	PatternBlink = "blink"
	PatternOff   = "off"
)

// StatusLED is the logical name of the indicator that mirrors clock sync state.
const StatusLED = "status"

// Controller drives single-colour indicator LEDs on the host board.
type Controller interface {
	// Set switches a named indicator. An empty pattern leaves the trigger alone.
	Set(name string, enabled bool, pattern string) error

	// Available lists the logical indicator names the controller can drive.
	Available() []string

	// Patterns lists the accepted pattern names.
	Patterns() []string
}
