//go:build !linux

package timesource

// kernelSynced assumes the host keeps its own time.
func kernelSynced() (bool, error) {
	return true, nil
}
