package face

import (
	"fmt"

	"github.com/smazurov/wordclock/internal/board"
)

func run(name string, leds ...int) word {
	return word{name: name, seg: Run(leds)}
}

func lithuanian() *layout {
	var (
		lygiai = run("LYGIAI", 113, 112, 111, 93, 94, 95)
		po     = run("PO", 91, 90)
		puse   = run("PUSĖ", 91, 70, 71, 72)
		be     = run("BE", 69, 68)

		penkios     = run("PENKIOS", 21, 20, 19, 18, 17, 12, 13)
		penkiu      = run("PENKIŲ", 21, 20, 19, 18, 17, 16)
		desimt      = run("DEŠIMT", 102, 81, 80, 59, 58, 37)
		penkiolika  = run("PENKIOLIKA", 21, 20, 19, 18, 17, 7, 8, 9, 10, 11)
		penkiolikos = run("PENKIOLIKOS", 21, 20, 19, 18, 17, 7, 8, 9, 10, 12, 13)
		dvidesimt   = run("DVIDEŠIMT", 99, 100, 101, 102, 81, 80, 59, 58, 37)
	)

	// Hour words indexed from PIRMA (one o'clock) to DVYLIKA (twelve).
	nominative := []word{
		run("PIRMA", 50, 51, 52, 43, 42),
		run("DVI", 84, 83, 82),
		run("TRYS", 26, 25, 4, 5),
		run("KETURIOS", 48, 47, 26, 27, 28, 29, 30, 31),
		run("PENKIOS", 49, 46, 45, 44, 29, 30, 31),
		run("ŠEŠIOS", 32, 33, 34, 35, 36, 15),
		run("SEPTYNIOS", 88, 87, 86, 75, 64, 53, 54, 55, 40),
		run("AŠTUONIOS", 73, 74, 75, 76, 63, 53, 54, 55, 40),
		run("DEVYNIOS", 67, 66, 65, 64, 53, 54, 55, 40),
		run("DEŠIMT", 110, 109, 108, 107, 106, 105),
		run("VIENUOLIKA", 96, 97, 98, 85, 76, 63, 62, 61, 56, 39),
		run("DVYLIKA", 84, 83, 77, 62, 61, 56, 39),
	}
	genitive := []word{
		run("PIRMOS", 50, 51, 52, 43, 30, 31),
		run("DVIEJŲ", 84, 83, 82, 78, 79, 60),
		run("TRIJŲ", 26, 25, 24, 23, 22),
		run("KETURIŲ", 48, 47, 26, 27, 28, 29, 22),
		run("PENKIŲ", 49, 46, 45, 44, 29, 22),
		run("ŠEŠIŲ", 32, 33, 34, 35, 16),
		run("SEPTYNIŲ", 88, 87, 86, 75, 64, 53, 54, 41),
		run("AŠTUONIŲ", 73, 74, 75, 76, 63, 53, 54, 41),
		run("DEVYNIŲ", 67, 66, 65, 64, 53, 54, 41),
		run("DEŠIMTOS", 110, 109, 108, 107, 106, 105, 104, 103),
		run("VIENUOLIKOS", 96, 97, 98, 85, 76, 63, 62, 61, 56, 57, 38),
		run("DVYLIKOS", 84, 83, 77, 62, 61, 56, 57, 38),
	}

	// Indexed by bucket / 5. From half past the phrase counts down to the
	// next hour ("be penkių dvi").
	qualifiers := []word{lygiai, po, po, po, po, po, puse, be, be, be, be, be}
	minutes := [][]word{
		nil,
		{penkios},
		{desimt},
		{penkiolika},
		{dvidesimt},
		{dvidesimt, penkios},
		nil,
		{dvidesimt, penkiu},
		{dvidesimt},
		{penkiolikos},
		{desimt},
		{penkiu},
	}

	l := &layout{
		name:      "lithuanian",
		aliases:   []string{"lt"},
		carryFrom: 30,
		hours: func(hour, bucket int) []word {
			i := (hour + 11) % 12
			block := bucket / 5
			if block == 0 || block > 6 {
				return nominative[i : i+1]
			}
			return genitive[i : i+1]
		},
		minutes: func(bucket int) []word {
			block := bucket / 5
			return append([]word{qualifiers[block]}, minutes[block]...)
		},
		words: collect([]word{lygiai, po, puse, be, penkios, penkiu, desimt, penkiolika, penkiolikos, dvidesimt}, nominative, genitive),
	}
	l.letters, l.broken = deriveLetters(l.words)
	return l
}

// deriveLetters places every word's letters on the grid through its LED
// indices. Cells no word touches become placeholders.
func deriveLetters(words []word) ([]string, error) {
	var grid [board.Rows][board.Cols]rune
	for _, w := range words {
		leds, ok := w.seg.(Run)
		if !ok {
			return nil, fmt.Errorf("%s: not an index run", w.name)
		}
		letters := []rune(w.name)
		if len(letters) != len(leds) {
			return nil, fmt.Errorf("%s: %d letters for %d leds", w.name, len(letters), len(leds))
		}
		for i, idx := range leds {
			cell, ok := board.CellOf(idx, board.SensorTop)
			if !ok {
				return nil, fmt.Errorf("%s: led %d is not on the grid", w.name, idx)
			}
			if prev := grid[cell.Row][cell.Col]; prev != 0 && prev != letters[i] {
				return nil, fmt.Errorf("%s: led %d is %q, already %q", w.name, idx, letters[i], prev)
			}
			grid[cell.Row][cell.Col] = letters[i]
		}
	}
	rows := make([]string, board.Rows)
	for r := range grid {
		line := make([]rune, board.Cols)
		for c, ch := range grid[r] {
			if ch == 0 {
				ch = board.Placeholder
			}
			line[c] = ch
		}
		rows[r] = string(line)
	}
	return rows, nil
}
