package brightness

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smazurov/wordclock/internal/color"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, nil))

type stepClock struct{ t time.Time }

func (s *stepClock) now() time.Time { return s.t }

type sequence struct {
	levels []float64
	err    error
	reads  int
}

func (s *sequence) Read() (float64, error) {
	s.reads++
	if s.err != nil {
		return 0, s.err
	}
	v := s.levels[0]
	if len(s.levels) > 1 {
		s.levels = s.levels[1:]
	}
	return v, nil
}

func TestNoSensorIsFullBrightness(t *testing.T) {
	c := New(nil, testLogger)
	c.Update()
	assert.Equal(t, color.Warm, c.CorrectedColor())
	assert.False(t, c.HasChanged())

	c.SetColor(color.RGB{R: 100})
	assert.True(t, c.HasChanged())
	assert.False(t, c.HasChanged(), "change is reported once")
	assert.Equal(t, color.RGB{R: 100}, c.CorrectedColor())
}

func TestDarknessDims(t *testing.T) {
	clock := &stepClock{t: time.Unix(0, 0)}
	sensor := &sequence{levels: []float64{0}}
	c := New(sensor, testLogger, WithClock(clock.now))
	c.SetColor(color.RGB{R: 200, G: 200, B: 200})
	c.HasChanged()

	c.Update()
	assert.True(t, c.HasChanged())
	assert.InDelta(t, 0.5, c.Factor(), 1e-9)
	assert.Equal(t, color.RGB{R: 100, G: 100, B: 100}, c.CorrectedColor())

	c.SetSensitivity(10)
	assert.InDelta(t, minFactor, c.Factor(), 1e-9)

	c.SetSensitivity(0)
	assert.InDelta(t, 1, c.Factor(), 1e-9)
}

func TestUpdateHonoursInterval(t *testing.T) {
	clock := &stepClock{t: time.Unix(0, 0)}
	sensor := &sequence{levels: []float64{1}}
	c := New(sensor, testLogger, WithClock(clock.now), WithInterval(time.Second))

	c.Update()
	c.Update()
	assert.Equal(t, 1, sensor.reads)

	clock.t = clock.t.Add(time.Second)
	c.Update()
	assert.Equal(t, 2, sensor.reads)
}

func TestSensorErrorKeepsLastValue(t *testing.T) {
	sensor := &sequence{err: errors.New("i2c timeout")}
	c := New(sensor, testLogger, WithInterval(0))
	c.Update()
	c.Update()
	assert.Equal(t, color.Warm, c.CorrectedColor())
}

func TestCorrect(t *testing.T) {
	c := New(Fixed(0), testLogger)
	c.Update()
	assert.Equal(t, color.RGB{R: 128}, c.Correct(color.RGB{R: 255}))
}

func TestSysfsSensor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in_illuminance_raw")
	require.NoError(t, os.WriteFile(path, []byte("1024\n"), 0o644))

	v, err := SysfsSensor{Path: path, Max: 4096}.Read()
	require.NoError(t, err)
	assert.InDelta(t, 0.25, v, 1e-9)

	require.NoError(t, os.WriteFile(path, []byte("n/a"), 0o644))
	_, err = SysfsSensor{Path: path, Max: 4096}.Read()
	assert.ErrorIs(t, err, ErrBadReading)
}
