package face

import (
	"log/slog"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smazurov/wordclock/internal/board"
)

func newFace(t *testing.T, name string, o board.Orientation) *Face {
	t.Helper()
	b, err := NewBoard(name, o)
	require.NoError(t, err)
	f, err := New(name, b, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	require.NoError(t, err)
	return f
}

// spelled reads the lit letters row by row.
func spelled(f *Face) string {
	var sb strings.Builder
	b := f.Board()
	for r := 0; r < board.Rows; r++ {
		for c := 0; c < board.Cols; c++ {
			cell := board.Cell{Row: r, Col: c}
			if f.State()[b.PixelIndex(cell)] {
				sb.WriteRune(b.Letter(cell))
			}
		}
	}
	return sb.String()
}

func litCorners(f *Face) int {
	n := 0
	for i := 0; i < board.Signals; i++ {
		if f.State()[i] {
			n++
		}
	}
	return n
}

func TestLayouts(t *testing.T) {
	assert.Equal(t, []string{"english", "french", "lithuanian"}, Layouts())

	_, err := NewBoard("klingon", board.SensorTop)
	require.ErrorIs(t, err, ErrUnknownLayout)

	b, err := NewBoard("en", board.SensorTop)
	require.NoError(t, err)
	_, err = New("tlh", b, nil)
	require.ErrorIs(t, err, ErrUnknownLayout)

	f, err := New("FR", b, nil)
	require.NoError(t, err)
	assert.Equal(t, "french", f.Name())
}

func TestLeftoverCorners(t *testing.T) {
	for _, name := range Layouts() {
		for _, o := range []board.Orientation{board.SensorTop, board.SensorBottom} {
			f := newFace(t, name, o)
			b := f.Board()
			for m := 0; m < 60; m++ {
				require.True(t, f.Render(10, m, 0, false))

				want := make(map[int]bool)
				for _, c := range board.Clockwise[:m%5] {
					want[b.CornerIndex(c)] = true
				}
				for i := 0; i < board.Signals; i++ {
					assert.Equal(t, want[i], f.State()[i], "%s %s minute %d corner led %d", name, o, m, i)
				}
			}
		}
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	f := newFace(t, "english", board.SensorBottom)

	require.True(t, f.Render(9, 41, 0, false))
	before := slices.Clone(f.State())

	assert.False(t, f.Render(9, 41, 30, false))
	assert.Equal(t, before, f.State())

	assert.True(t, f.Render(9, 41, 30, true), "AM/PM toggle changes the English key")
	assert.True(t, f.Render(9, 42, 0, true))
}

func TestMeridiemIgnoredWithoutWords(t *testing.T) {
	f := newFace(t, "french", board.SensorBottom)
	require.True(t, f.Render(9, 41, 0, false))
	assert.False(t, f.Render(9, 41, 0, true))
}

func TestResetForcesRender(t *testing.T) {
	f := newFace(t, "english", board.SensorBottom)
	require.True(t, f.Render(3, 47, 0, false))
	bottom := slices.Clone(f.State())

	f.Board().SetOrientation(board.SensorTop)
	assert.False(t, f.Render(3, 47, 0, false))
	f.Reset()
	require.True(t, f.Render(3, 47, 0, false))

	assert.NotEqual(t, bottom, f.State())
	assert.Equal(t, "ITISAQUARTERTOFOUR", spelled(f))
}

func TestEnglish(t *testing.T) {
	tests := []struct {
		hour, minute int
		ampm         bool
		words        []string
		corners      int
	}{
		{0, 0, false, []string{"IT", "IS", "TWELVE", "OCLOCK"}, 0},
		{3, 47, false, []string{"IT", "IS", "FOUR", "A", "QUARTER", "TO"}, 2},
		{3, 47, true, []string{"IT", "IS", "FOUR", "AM", "A", "QUARTER", "TO"}, 2},
		{11, 58, true, []string{"IT", "IS", "TWELVE", "AM", "FIVE", "TO"}, 3},
		{12, 31, true, []string{"IT", "IS", "TWELVE", "PM", "HALF", "PAST"}, 1},
		{16, 25, false, []string{"IT", "IS", "FOUR", "TWENTYFIVE", "PAST"}, 0},
		{23, 35, false, []string{"IT", "IS", "TWELVE", "TWENTYFIVE", "TO"}, 0},
		{7, 10, false, []string{"IT", "IS", "SEVEN", "TEN", "PAST"}, 0},
	}

	for _, tt := range tests {
		f := newFace(t, "english", board.SensorBottom)
		require.True(t, f.Render(tt.hour, tt.minute, 0, tt.ampm))
		assert.Equal(t, tt.words, f.Words(), "%02d:%02d", tt.hour, tt.minute)
		assert.Equal(t, tt.corners, litCorners(f), "%02d:%02d", tt.hour, tt.minute)
	}
}

func TestEnglishSpelling(t *testing.T) {
	f := newFace(t, "english", board.SensorBottom)
	require.True(t, f.Render(3, 47, 0, false))
	assert.Equal(t, "ITISAQUARTERTOFOUR", spelled(f))

	require.True(t, f.Render(20, 0, 0, false))
	assert.Equal(t, "ITISEIGHTOCLOCK", spelled(f))
}

func TestFrench(t *testing.T) {
	tests := []struct {
		hour, minute int
		words        []string
		spelled      string
		corners      int
	}{
		{12, 0, []string{"IL", "EST", "MIDI"}, "ILESTMIDI", 0},
		{0, 3, []string{"IL", "EST", "MINUIT"}, "ILESTMINUIT", 3},
		{1, 15, []string{"IL", "EST", "UNE", "HEURE", "ET", "QUART"}, "ILESTUNEHEUREETQUART", 0},
		{3, 47, []string{"IL", "EST", "QUATRE", "HEURES", "MOINS", "LE", "QUART"}, "ILESTQUATREHEURESMOINSLEQUART", 2},
		{23, 40, []string{"IL", "EST", "MINUIT", "MOINS", "VINGT"}, "ILESTMINUITMOINSVINGT", 0},
		{11, 35, []string{"IL", "EST", "MIDI", "MOINS", "VINGT-CINQ"}, "ILESTMIDIMOINSVINGT-CINQ", 0},
		{18, 30, []string{"IL", "EST", "SIX", "HEURES", "ET", "DEMI"}, "ILESTSIXHEURESETDEMI", 0},
	}

	for _, tt := range tests {
		f := newFace(t, "french", board.SensorTop)
		require.True(t, f.Render(tt.hour, tt.minute, 0, false))
		assert.Equal(t, tt.words, f.Words(), "%02d:%02d", tt.hour, tt.minute)
		assert.Equal(t, tt.spelled, spelled(f), "%02d:%02d", tt.hour, tt.minute)
		assert.Equal(t, tt.corners, litCorners(f), "%02d:%02d", tt.hour, tt.minute)
	}
}

func TestLithuanian(t *testing.T) {
	tests := []struct {
		hour, minute int
		words        []string
	}{
		{0, 0, []string{"DVYLIKA", "LYGIAI"}},
		{1, 0, []string{"PIRMA", "LYGIAI"}},
		{1, 5, []string{"PIRMOS", "PO", "PENKIOS"}},
		{1, 29, []string{"PIRMOS", "PO", "DVIDEŠIMT", "PENKIOS"}},
		{1, 30, []string{"DVIEJŲ", "PUSĖ"}},
		{1, 35, []string{"DVI", "BE", "DVIDEŠIMT", "PENKIŲ"}},
		{9, 45, []string{"DEŠIMT", "BE", "PENKIOLIKOS"}},
		{12, 55, []string{"PIRMA", "BE", "PENKIŲ"}},
		{14, 15, []string{"DVIEJŲ", "PO", "PENKIOLIKA"}},
	}

	for _, tt := range tests {
		f := newFace(t, "lithuanian", board.SensorTop)
		require.True(t, f.Render(tt.hour, tt.minute, 0, true))
		assert.Equal(t, tt.words, f.Words(), "%02d:%02d", tt.hour, tt.minute)
	}
}

func TestLithuanianFollowsOrientation(t *testing.T) {
	top := newFace(t, "lithuanian", board.SensorTop)
	bottom := newFace(t, "lithuanian", board.SensorBottom)
	require.True(t, top.Render(7, 20, 0, false))
	require.True(t, bottom.Render(7, 20, 0, false))

	assert.NotEqual(t, top.State(), bottom.State())
	assert.Equal(t, spelled(top), spelled(bottom))

	letters := []rune(spelled(top))
	slices.Sort(letters)
	want := []rune("SEPTYNIŲPODVIDEŠIMT")
	slices.Sort(want)
	assert.Equal(t, string(want), string(letters))
}

func TestLithuanianFaceplate(t *testing.T) {
	b, err := NewBoard("lt", board.SensorTop)
	require.NoError(t, err)
	assert.Equal(t, ".SOAKILO.SY", b.Row(0))
	assert.Equal(t, "SOTMIŠEDGYL", b.Row(9))
}

func TestInvalidInputStaysDark(t *testing.T) {
	f := newFace(t, "english", board.SensorBottom)

	require.True(t, f.Render(25, 12, 0, true))
	assert.Equal(t, []string{"IT", "IS", "TEN", "PAST"}, f.Words())
	assert.Equal(t, 2, litCorners(f))

	require.True(t, f.Render(4, 75, 0, false))
	assert.Equal(t, []string{"IT", "IS", "FOUR"}, f.Words())
	assert.Zero(t, litCorners(f))

	require.True(t, f.Render(-1, -1, 0, false))
	assert.Equal(t, []string{"IT", "IS"}, f.Words())
}

func TestBrokenFaceplateIsReported(t *testing.T) {
	words := []word{{name: "A", seg: Run{10}}, {name: "B", seg: Run{10}}}
	_, err := deriveLetters(words)
	require.Error(t, err)

	l := &layout{name: "broken-test", words: words}
	l.letters, l.broken = deriveLetters(words)
	register(l)
	t.Cleanup(func() { delete(registry, l.name) })

	_, err = NewBoard("broken-test", board.SensorTop)
	assert.ErrorContains(t, err, "broken-test faceplate")

	b, err := NewBoard("english", board.SensorTop)
	require.NoError(t, err)
	_, err = New("broken-test", b, nil)
	assert.Error(t, err)
}
