// Package timesource supplies the wall-clock time shown on the face.
package timesource

import (
	"errors"
	"sync/atomic"
	"time"
)

// ErrNotSynced is returned while the system clock has not been set from the
// network and the source was told to wait for it.
var ErrNotSynced = errors.New("system clock not synchronised")

// SyncState is the network time status shown on the status LED.
type SyncState int

const (
	Waiting SyncState = iota
	Syncing
	Synced
)

func (s SyncState) String() string {
	switch s {
	case Syncing:
		return "syncing"
	case Synced:
		return "synced"
	default:
		return "waiting"
	}
}

// System reads the host clock in a configured location.
type System struct {
	location    *time.Location
	requireSync bool
	now         func() time.Time
	checkSync   func() (bool, error)
	state       atomic.Int32
}

// NewSystem returns a source for loc (time.Local when nil). With
// requireSync, Now fails until the kernel reports a synchronised clock.
func NewSystem(loc *time.Location, requireSync bool) *System {
	if loc == nil {
		loc = time.Local
	}
	return &System{
		location:    loc,
		requireSync: requireSync,
		now:         time.Now,
		checkSync:   kernelSynced,
	}
}

// Now returns the current hour, minute and second.
func (s *System) Now() (int, int, int, error) {
	if s.requireSync && s.State() != Synced {
		return 0, 0, 0, ErrNotSynced
	}
	t := s.now().In(s.location)
	return t.Hour(), t.Minute(), t.Second(), nil
}

// State returns the last sync state seen by Check.
func (s *System) State() SyncState {
	return SyncState(s.state.Load())
}

// Check queries the kernel and records the sync state.
func (s *System) Check() (SyncState, error) {
	ok, err := s.checkSync()
	if err != nil {
		return s.State(), err
	}
	state := Syncing
	if ok {
		state = Synced
	}
	s.state.Store(int32(state))
	return state, nil
}

// Simulated runs a clock from a start time at a multiple of real speed, for
// demos and bench testing.
type Simulated struct {
	start  time.Time
	origin time.Time
	speed  float64
	now    func() time.Time
}

// NewSimulated starts at start and advances speed times faster than the
// host clock.
func NewSimulated(start time.Time, speed float64) *Simulated {
	if speed <= 0 {
		speed = 1
	}
	return &Simulated{start: start, origin: time.Now(), speed: speed, now: time.Now}
}

// Now returns the simulated hour, minute and second.
func (s *Simulated) Now() (int, int, int, error) {
	elapsed := time.Duration(float64(s.now().Sub(s.origin)) * s.speed)
	t := s.start.Add(elapsed)
	return t.Hour(), t.Minute(), t.Second(), nil
}

// Fixed always reports the same time.
type Fixed struct {
	Hour, Minute, Second int
}

// Now implements the display time source.
func (f Fixed) Now() (int, int, int, error) {
	return f.Hour, f.Minute, f.Second, nil
}
