package settings

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smazurov/wordclock/internal/board"
	"github.com/smazurov/wordclock/internal/color"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, nil))

func ptr[T any](v T) *T { return &v }

func TestParseMode(t *testing.T) {
	tests := map[string]Mode{
		"REAL_TIME":   RealTime,
		"color_test":  ColorTest,
		"PUZZLE_MODE": Puzzle,
		"puzzle":      Puzzle,
		"0":           RealTime,
		"1":           ColorTest,
		" 2 ":         Puzzle,
	}
	for in, want := range tests {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMode("3")
	assert.ErrorIs(t, err, ErrInvalidMode)
	assert.Equal(t, "PUZZLE_MODE", Puzzle.String())
}

func TestParseHelpers(t *testing.T) {
	assert.Equal(t, color.RGB{R: 1, G: 2, B: 3}, ParseColor("#010203", color.Warm, testLogger))
	assert.Equal(t, color.Warm, ParseColor("blue", color.Warm, testLogger))

	assert.Equal(t, 7, ParseNumber("7", 0, 10, 5, testLogger))
	assert.Equal(t, 5, ParseNumber("11", 0, 10, 5, testLogger))
	assert.Equal(t, 5, ParseNumber("-1", 0, 10, 5, testLogger))
	assert.Equal(t, 5, ParseNumber("x", 0, 10, 5, nil))
}

func TestResolveFallsBackToDefaults(t *testing.T) {
	base := Default()
	base.Color = color.RGB{R: 9}
	base.Mode = Puzzle

	got := Raw{
		Mode:           "DISCO",
		Color:          "#12",
		Sensitivity:    ptr(42),
		SensorPosition: "left",
		ShowAmPm:       ptr(true),
	}.Resolve(base, testLogger)

	assert.Equal(t, RealTime, got.Mode)
	assert.Equal(t, color.Warm, got.Color)
	assert.Equal(t, DefaultSensitivity, got.Sensitivity)
	assert.Equal(t, board.SensorBottom, got.SensorPosition)
	assert.True(t, got.ShowAmPm)
}

func TestApplyRejectsMalformed(t *testing.T) {
	base := Default()

	_, err := Raw{Color: "nope"}.Apply(base)
	assert.ErrorIs(t, err, ErrInvalidColor)

	_, err = Raw{Sensitivity: ptr(11)}.Apply(base)
	assert.ErrorIs(t, err, ErrInvalidSensitivity)

	_, err = Raw{SensorPosition: "side"}.Apply(base)
	assert.ErrorIs(t, err, ErrInvalidPosition)

	_, err = Raw{Mode: "SLEEP"}.Apply(base)
	assert.ErrorIs(t, err, ErrInvalidMode)

	got, err := Raw{Mode: "COLOR_TEST", Sensitivity: ptr(0), SensorPosition: "top"}.Apply(base)
	require.NoError(t, err)
	assert.Equal(t, ColorTest, got.Mode)
	assert.Zero(t, got.Sensitivity)
	assert.Equal(t, board.SensorTop, got.SensorPosition)
	assert.Equal(t, color.Warm, got.Color)
}

func TestFromSettingsRoundTrip(t *testing.T) {
	s := Default()
	s.Mode = Puzzle
	s.FindWord = "HELLO"
	s.ShowAmPm = true

	got, err := FromSettings(s).Apply(Default())
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
port = ":8090"

[clock]
mode = "PUZZLE_MODE"
color = "#FF8800"
show_ampm = true
sensitivity = 3
find_word = "hello"
sensor_position = "top"
`), 0o644))

	raw, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PUZZLE_MODE", raw.Mode)
	require.NotNil(t, raw.Sensitivity)
	assert.Equal(t, 3, *raw.Sensitivity)

	s := raw.Resolve(Default(), testLogger)
	assert.Equal(t, color.RGB{R: 0xFF, G: 0x88}, s.Color)
	assert.Equal(t, "hello", s.FindWord)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestStorePendingWord(t *testing.T) {
	initial := Default()
	initial.FindWord = "CLOCK"
	s := NewStore(initial)

	w, ok := s.TakeWord()
	require.True(t, ok)
	assert.Equal(t, "CLOCK", w)
	_, ok = s.TakeWord()
	assert.False(t, ok)

	s.Update(func(st *Settings) { st.Color = color.Black })
	_, ok = s.TakeWord()
	assert.False(t, ok, "unchanged word is not queued again")

	s.Update(func(st *Settings) { st.FindWord = "TIME" })
	w, ok = s.TakeWord()
	require.True(t, ok)
	assert.Equal(t, "TIME", w)

	s.SetWord("one")
	s.SetWord("two")
	w, _ = s.TakeWord()
	assert.Equal(t, "two", w)
	assert.Equal(t, "TIME", s.Snapshot().FindWord)
}

func TestStoreConcurrentUpdates(t *testing.T) {
	initial := Default()
	initial.Sensitivity = 0
	s := NewStore(initial)

	const writers = 500
	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Update(func(st *Settings) {
				time.Sleep(time.Microsecond)
				st.Sensitivity++
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, writers, s.Snapshot().Sensitivity)
}

func TestStoreTryUpdate(t *testing.T) {
	s := NewStore(Default())

	got, err := s.TryUpdate(func(st *Settings) error {
		next, err := Raw{Mode: "COLOR_TEST"}.Apply(*st)
		*st = next
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, ColorTest, got.Mode)

	got, err = s.TryUpdate(func(st *Settings) error {
		st.Mode = Puzzle
		_, err := Raw{Color: "nope"}.Apply(*st)
		return err
	})
	assert.ErrorIs(t, err, ErrInvalidColor)
	assert.Equal(t, ColorTest, got.Mode)
	assert.Equal(t, ColorTest, s.Snapshot().Mode, "failed update is discarded")
}
