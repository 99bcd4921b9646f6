package timesource

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemRequiresSync(t *testing.T) {
	s := NewSystem(time.UTC, true)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 14, 7, 33, 0, time.UTC) }
	synced := false
	s.checkSync = func() (bool, error) { return synced, nil }

	_, _, _, err := s.Now()
	require.ErrorIs(t, err, ErrNotSynced)

	state, err := s.Check()
	require.NoError(t, err)
	assert.Equal(t, Syncing, state)

	synced = true
	state, err = s.Check()
	require.NoError(t, err)
	assert.Equal(t, Synced, state)

	h, m, sec, err := s.Now()
	require.NoError(t, err)
	assert.Equal(t, []int{14, 7, 33}, []int{h, m, sec})
}

func TestSystemLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	s := NewSystem(loc, false)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 22, 30, 0, 0, time.UTC) }

	h, m, _, err := s.Now()
	require.NoError(t, err)
	assert.Equal(t, 1, h)
	assert.Equal(t, 30, m)
}

func TestCheckErrorKeepsState(t *testing.T) {
	s := NewSystem(time.UTC, false)
	s.checkSync = func() (bool, error) { return false, errors.New("EPERM") }
	state, err := s.Check()
	assert.Error(t, err)
	assert.Equal(t, Waiting, state)
}

func TestSimulated(t *testing.T) {
	origin := time.Unix(1000, 0)
	s := NewSimulated(time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC), 60)
	s.origin = origin
	s.now = func() time.Time { return origin.Add(2 * time.Second) }

	h, m, sec, err := s.Now()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0}, []int{h, m, sec})
}

func TestMonitorReportsTransitions(t *testing.T) {
	s := NewSystem(time.UTC, false)
	s.checkSync = func() (bool, error) { return true, nil }

	var (
		mu     sync.Mutex
		states []SyncState
	)
	m := NewMonitor(s, func(st SyncState) {
		mu.Lock()
		states = append(states, st)
		mu.Unlock()
	})
	m.synced = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, m.Run(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []SyncState{Waiting, Synced}, states)
}
