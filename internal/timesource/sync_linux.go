//go:build linux

package timesource

import "golang.org/x/sys/unix"

const (
	// Kernel clock state returned by adjtimex when the clock is unset.
	timeError = 5
	// STA_UNSYNC status bit.
	staUnsync = 0x0040
)

// kernelSynced asks the kernel whether an NTP daemon has disciplined the
// clock.
func kernelSynced() (bool, error) {
	var tx unix.Timex
	state, err := unix.Adjtimex(&tx)
	if err != nil {
		return false, err
	}
	return state != timeError && tx.Status&staUnsync == 0, nil
}
